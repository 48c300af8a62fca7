package models

import (
	"fmt"
	"time"

	"github.com/drakos74/free-mind/internal/net"
	"github.com/drakos74/free-mind/internal/storage"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// Snapshot is the full serialised parameter set of a network.
// Weights are stored row-major per layer transition,
// so the json round-trip restores every float64 bit for bit.
type Snapshot struct {
	Sizes   []int       `json:"sizes"`
	Weights [][]float64 `json:"weights"`
	Biases  [][]float64 `json:"biases"`
}

// Metadata describes a saved network without its parameters.
type Metadata struct {
	ID           string    `json:"network_id"`
	Architecture []int     `json:"architecture"`
	WeightShapes [][]int   `json:"weights_shape"`
	BiasShapes   [][]int   `json:"biases_shape"`
	Accuracy     float64   `json:"accuracy"`
	SavedAt      time.Time `json:"saved_at"`
}

// Store saves and restores networks through a Persistence backend.
type Store struct {
	persistence storage.Persistence
}

// NewStore creates a models store on the given shard.
func NewStore(shard storage.Shard) (*Store, error) {
	persistence, err := shard(storage.ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("could not create models store: %w", err)
	}
	return &Store{persistence: persistence}, nil
}

// Save persists the network parameters and metadata under the given id.
func (s *Store) Save(id string, network *net.Network, accuracy float64) (Metadata, error) {
	snapshot := Export(network)
	meta := Metadata{
		ID:           id,
		Architecture: snapshot.Sizes,
		WeightShapes: weightShapes(network.Weights()),
		BiasShapes:   biasShapes(network.Biases()),
		Accuracy:     accuracy,
		SavedAt:      time.Now().UTC(),
	}
	if err := s.persistence.Store(storage.SnapshotKey(id), snapshot); err != nil {
		return Metadata{}, fmt.Errorf("could not store snapshot '%s': %w", id, err)
	}
	if err := s.persistence.Store(storage.MetadataKey(id), meta); err != nil {
		return Metadata{}, fmt.Errorf("could not store metadata '%s': %w", id, err)
	}
	log.Info().
		Str("id", id).
		Ints("architecture", snapshot.Sizes).
		Float64("accuracy", accuracy).
		Msg("saved network")
	return meta, nil
}

// Load restores a saved network with its metadata.
func (s *Store) Load(id string) (*net.Network, Metadata, error) {
	var snapshot Snapshot
	if err := s.persistence.Load(storage.SnapshotKey(id), &snapshot); err != nil {
		return nil, Metadata{}, fmt.Errorf("could not load snapshot '%s': %w", id, err)
	}
	var meta Metadata
	if err := s.persistence.Load(storage.MetadataKey(id), &meta); err != nil {
		return nil, Metadata{}, fmt.Errorf("could not load metadata '%s': %w", id, err)
	}
	network, err := Import(snapshot)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("could not restore network '%s': %w", id, err)
	}
	return network, meta, nil
}

// List returns the metadata of all saved networks.
func (s *Store) List() ([]Metadata, error) {
	keys, err := s.persistence.List()
	if err != nil {
		return nil, fmt.Errorf("could not list models: %w", err)
	}
	metas := make([]Metadata, 0, len(keys))
	for _, k := range keys {
		if k.Label != storage.MetadataLabel {
			continue
		}
		var meta Metadata
		if err := s.persistence.Load(k, &meta); err != nil {
			log.Warn().Str("id", k.ID).Err(err).Msg("skipping unreadable metadata")
			continue
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// Delete removes the stored artefacts of the network.
func (s *Store) Delete(id string) error {
	if err := s.persistence.Delete(storage.SnapshotKey(id)); err != nil {
		return fmt.Errorf("could not delete snapshot '%s': %w", id, err)
	}
	if err := s.persistence.Delete(storage.MetadataKey(id)); err != nil {
		return fmt.Errorf("could not delete metadata '%s': %w", id, err)
	}
	return nil
}

// Export extracts the serialisable parameter set of the network.
func Export(network *net.Network) Snapshot {
	weights := network.Weights()
	biases := network.Biases()
	snapshot := Snapshot{
		Sizes:   network.Sizes(),
		Weights: make([][]float64, len(weights)),
		Biases:  make([][]float64, len(biases)),
	}
	for l, w := range weights {
		r, c := w.Dims()
		flat := make([]float64, 0, r*c)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				flat = append(flat, w.At(i, j))
			}
		}
		snapshot.Weights[l] = flat
	}
	for l, b := range biases {
		flat := make([]float64, b.Len())
		for i := 0; i < b.Len(); i++ {
			flat[i] = b.AtVec(i)
		}
		snapshot.Biases[l] = flat
	}
	return snapshot
}

// Import rebuilds a network from a snapshot, validating all shapes first.
func Import(snapshot Snapshot) (*net.Network, error) {
	layers := len(snapshot.Sizes) - 1
	if layers < 1 || len(snapshot.Weights) != layers || len(snapshot.Biases) != layers {
		return nil, fmt.Errorf("snapshot with %d sizes, %d weight and %d bias sets: %w",
			len(snapshot.Sizes), len(snapshot.Weights), len(snapshot.Biases), storage.CouldNotLoadErr)
	}
	for _, size := range snapshot.Sizes {
		if size <= 0 {
			return nil, fmt.Errorf("snapshot layer of size %d: %w", size, storage.CouldNotLoadErr)
		}
	}
	weights := make([]*mat.Dense, layers)
	biases := make([]*mat.VecDense, layers)
	for l := 0; l < layers; l++ {
		rows, cols := snapshot.Sizes[l+1], snapshot.Sizes[l]
		if len(snapshot.Weights[l]) != rows*cols {
			return nil, fmt.Errorf("weights[%d] has %d values, want %dx%d: %w",
				l, len(snapshot.Weights[l]), rows, cols, storage.CouldNotLoadErr)
		}
		if len(snapshot.Biases[l]) != rows {
			return nil, fmt.Errorf("biases[%d] has %d values, want %d: %w",
				l, len(snapshot.Biases[l]), rows, storage.CouldNotLoadErr)
		}
		weights[l] = mat.NewDense(rows, cols, snapshot.Weights[l])
		biases[l] = mat.NewVecDense(rows, snapshot.Biases[l])
	}
	return net.Restore(snapshot.Sizes, weights, biases)
}

func weightShapes(weights []*mat.Dense) [][]int {
	out := make([][]int, len(weights))
	for l, w := range weights {
		r, c := w.Dims()
		out[l] = []int{r, c}
	}
	return out
}

func biasShapes(biases []*mat.VecDense) [][]int {
	out := make([][]int, len(biases))
	for l, b := range biases {
		out[l] = []int{b.Len(), 1}
	}
	return out
}
