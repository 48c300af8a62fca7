package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStorage(t *testing.T) {
	s := NewLocalStorage()

	type payload struct {
		Value int `json:"value"`
	}

	k := SnapshotKey("abc")
	assert.NoError(t, s.Store(k, payload{Value: 42}))

	var out payload
	assert.NoError(t, s.Load(k, &out))
	assert.Equal(t, 42, out.Value)

	keys, err := s.List()
	assert.NoError(t, err)
	assert.Equal(t, []Key{k}, keys)

	assert.NoError(t, s.Delete(k))
	assert.ErrorIs(t, s.Load(k, &out), NotFoundErr)
	assert.ErrorIs(t, s.Delete(k), NotFoundErr)
}

func TestVoidStorage(t *testing.T) {
	s := NewVoidStorage()

	assert.NoError(t, s.Store(MetadataKey("abc"), 1))

	var out int
	assert.ErrorIs(t, s.Load(MetadataKey("abc"), &out), NotFoundErr)
	assert.NoError(t, s.Delete(MetadataKey("abc")))

	keys, err := s.List()
	assert.NoError(t, err)
	assert.Empty(t, keys)
}
