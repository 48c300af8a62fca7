package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

const path = "infra/config"

// MustLoad loads the config for the given key.
// It panics when the file is missing or malformed.
func MustLoad(key string, v interface{}) []byte {
	b, err := os.ReadFile(fmt.Sprintf("%s/%s.json", path, key))
	if err != nil {
		panic(fmt.Sprintf("could not load config for %s: %s", key, err.Error()))
	}

	if err := json.Unmarshal(b, v); err != nil {
		panic(fmt.Sprintf("could not unmarshal the config for %s: %s", key, err.Error()))
	}

	log.Info().Str("config", key).Msg("loaded config")

	return b
}

// Load loads the config for the given key into v.
// It reports whether the file was found, a missing file leaves v untouched.
func Load(key string, v interface{}) (bool, error) {
	b, err := os.ReadFile(fmt.Sprintf("%s/%s.json", path, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("could not load config for %s: %w", key, err)
	}

	if err := json.Unmarshal(b, v); err != nil {
		return true, fmt.Errorf("could not unmarshal the config for %s: %w", key, err)
	}

	log.Info().Str("config", key).Msg("loaded config")

	return true, nil
}
