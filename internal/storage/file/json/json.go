package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/drakos74/free-mind/internal/storage"
)

// Storage persists values as json files under a single directory.
type Storage struct {
	dir string
}

// NewStorage creates a json file storage rooted at dir.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// BlobShard creates json file persistence shards under the given root directory.
func BlobShard(root string) storage.Shard {
	return func(shard string) (storage.Persistence, error) {
		return NewStorage(filepath.Join(root, shard)), nil
	}
}

func (s *Storage) Store(k storage.Key, value interface{}) error {
	return Save(s.dir, fileName(k), value)
}

func (s *Storage) Load(k storage.Key, value interface{}) error {
	return Load(s.dir, fileName(k), value)
}

func (s *Storage) Delete(k storage.Key) error {
	p := filepath.Join(s.dir, fileName(k))
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("could not delete '%s': %w", p, storage.NotFoundErr)
		}
		return fmt.Errorf("could not delete '%s': %w", p, err)
	}
	return nil
}

func (s *Storage) List() ([]storage.Key, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []storage.Key{}, nil
		}
		return nil, fmt.Errorf("could not list '%s': %w", s.dir, err)
	}
	keys := make([]storage.Key, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		i := strings.LastIndex(name, "_")
		if i <= 0 {
			continue
		}
		keys = append(keys, storage.Key{ID: name[:i], Label: name[i+1:]})
	}
	return keys, nil
}

func fileName(k storage.Key) string {
	return k.Path() + ".json"
}

// Save writes the value as json into filePath/fileName, creating the directory when needed.
func Save(filePath string, fileName string, value interface{}) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if err := os.MkdirAll(filePath, os.ModePerm); err != nil {
			return fmt.Errorf("could not make dir '%s': %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value for '%s': %w", fileName, err)
	}

	p := filepath.Join(filePath, fileName)
	if err := os.WriteFile(p, b, 0644); err != nil {
		return fmt.Errorf("could not write file '%s': %w", p, err)
	}
	return nil
}

// Load reads the json payload from filePath/fileName into value.
func Load(filePath string, fileName string, value interface{}) error {
	p := filepath.Join(filePath, fileName)

	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("could not read file '%s': %w", p, storage.NotFoundErr)
	}

	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("could not unmarshal file '%s': %w", p, storage.CouldNotLoadErr)
	}
	return nil
}
