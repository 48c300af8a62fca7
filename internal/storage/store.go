package storage

import (
	"errors"
	"fmt"
)

const (
	// ModelsDir is the default directory for saved models.
	ModelsDir = "models"

	// SnapshotLabel marks the parameter payload of a network.
	SnapshotLabel = "snapshot"
	// MetadataLabel marks the descriptive payload of a network.
	MetadataLabel = "metadata"
)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

// Key identifies a stored artefact of a network.
type Key struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SnapshotKey is the key for the parameter payload of the given network.
func SnapshotKey(id string) Key {
	return Key{ID: id, Label: SnapshotLabel}
}

// MetadataKey is the key for the metadata payload of the given network.
func MetadataKey(id string) Key {
	return Key{ID: id, Label: MetadataLabel}
}

func (k Key) Path() string {
	return fmt.Sprintf("%s_%s", k.ID, k.Label)
}

// Persistence stores, retrieves and enumerates values by key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
	Delete(k Key) error
	List() ([]Key, error)
}
