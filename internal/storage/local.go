package storage

import (
	"encoding/json"
	"fmt"
	"sync"
)

// LocalStorage is an in-memory Persistence keeping json serialised values.
type LocalStorage struct {
	files map[Key]string
	mutex *sync.RWMutex
}

// NewLocalStorage creates a new in-memory storage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		files: make(map[Key]string),
		mutex: new(sync.RWMutex),
	}
}

// LocalShard creates in-memory persistence shards.
func LocalShard() Shard {
	return func(shard string) (Persistence, error) {
		return NewLocalStorage(), nil
	}
}

func (l *LocalStorage) Store(k Key, value interface{}) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	bb, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value: %w", err)
	}
	l.files[k] = string(bb)
	return nil
}

func (l *LocalStorage) Load(k Key, value interface{}) error {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	v, ok := l.files[k]
	if !ok {
		return fmt.Errorf("no value for '%+v': %w", k, NotFoundErr)
	}
	if err := json.Unmarshal([]byte(v), value); err != nil {
		return fmt.Errorf("could not unmarshal value: %w", CouldNotLoadErr)
	}
	return nil
}

func (l *LocalStorage) Delete(k Key) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if _, ok := l.files[k]; !ok {
		return fmt.Errorf("no value for '%+v': %w", k, NotFoundErr)
	}
	delete(l.files, k)
	return nil
}

func (l *LocalStorage) List() ([]Key, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	keys := make([]Key, 0, len(l.files))
	for k := range l.files {
		keys = append(keys, k)
	}
	return keys, nil
}
