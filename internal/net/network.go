package net

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Network is a feed-forward neural network of fully connected sigmoid layers.
// Weights and biases are stored per layer transition,
// with weights[l] of dimension sizes[l+1] x sizes[l].
type Network struct {
	sizes   []int
	weights []*mat.Dense
	biases  []*mat.VecDense
	rand    *rand.Rand
}

type config struct {
	source rand.Source
}

// Option configures the network at construction time.
type Option func(*config)

// WithSource sets the random source used for weight initialisation and training shuffles.
func WithSource(source rand.Source) Option {
	return func(cfg *config) {
		cfg.source = source
	}
}

// WithSeed seeds the network with a deterministic random source.
func WithSeed(seed int64) Option {
	return func(cfg *config) {
		cfg.source = rand.NewSource(seed)
	}
}

// New creates a network for the given layer sizes.
// sizes[0] is the input dimension and sizes[len(sizes)-1] the output dimension.
// All weights and biases start as independent standard normal draws.
func New(sizes []int, options ...Option) (*Network, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("network needs at least input and output layers '%v': %w", sizes, InvalidArchitectureErr)
	}
	for i, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("layer %d has size %d: %w", i, size, InvalidArchitectureErr)
		}
	}

	cfg := config{
		source: rand.NewSource(time.Now().UnixNano()),
	}
	for _, option := range options {
		option(&cfg)
	}
	rnd := rand.New(cfg.source)

	ss := make([]int, len(sizes))
	copy(ss, sizes)

	layers := len(ss) - 1
	weights := make([]*mat.Dense, layers)
	biases := make([]*mat.VecDense, layers)
	for l := 0; l < layers; l++ {
		w := mat.NewDense(ss[l+1], ss[l], nil)
		for i := 0; i < ss[l+1]; i++ {
			for j := 0; j < ss[l]; j++ {
				w.Set(i, j, rnd.NormFloat64())
			}
		}
		b := mat.NewVecDense(ss[l+1], nil)
		for i := 0; i < ss[l+1]; i++ {
			b.SetVec(i, rnd.NormFloat64())
		}
		weights[l] = w
		biases[l] = b
	}

	return &Network{
		sizes:   ss,
		weights: weights,
		biases:  biases,
		rand:    rnd,
	}, nil
}

// Restore creates a network from previously exported parameters.
// The given weights and biases must match the shapes implied by sizes.
func Restore(sizes []int, weights []*mat.Dense, biases []*mat.VecDense, options ...Option) (*Network, error) {
	network, err := New(sizes, options...)
	if err != nil {
		return nil, err
	}
	layers := len(network.sizes) - 1
	if len(weights) != layers || len(biases) != layers {
		return nil, fmt.Errorf("got %d weight and %d bias layers for %d transitions: %w",
			len(weights), len(biases), layers, DimensionMismatchErr)
	}
	for l := 0; l < layers; l++ {
		r, c := weights[l].Dims()
		if r != network.sizes[l+1] || c != network.sizes[l] {
			return nil, fmt.Errorf("weights[%d] is %dx%d, want %dx%d: %w",
				l, r, c, network.sizes[l+1], network.sizes[l], DimensionMismatchErr)
		}
		if biases[l].Len() != network.sizes[l+1] {
			return nil, fmt.Errorf("biases[%d] has length %d, want %d: %w",
				l, biases[l].Len(), network.sizes[l+1], DimensionMismatchErr)
		}
		network.weights[l].Copy(weights[l])
		network.biases[l].CopyVec(biases[l])
	}
	return network, nil
}

// Sizes returns a copy of the layer size sequence.
func (n *Network) Sizes() []int {
	sizes := make([]int, len(n.sizes))
	copy(sizes, n.sizes)
	return sizes
}

// NumLayers returns the number of layers, input and output included.
func (n *Network) NumLayers() int {
	return len(n.sizes)
}

// Weights exposes the per-transition weight matrices.
// Callers must not resize or reshape them.
func (n *Network) Weights() []*mat.Dense {
	return n.weights
}

// Biases exposes the per-transition bias vectors.
// Callers must not resize or reshape them.
func (n *Network) Biases() []*mat.VecDense {
	return n.biases
}

// Feedforward propagates the input through all layers and returns the output activation.
// It is free of side effects, the network state stays untouched.
func (n *Network) Feedforward(x *mat.VecDense) (*mat.VecDense, error) {
	if x == nil || x.Len() != n.sizes[0] {
		return nil, fmt.Errorf("input of length %d for %d input neurons: %w", vecLen(x), n.sizes[0], DimensionMismatchErr)
	}
	a := mat.VecDenseCopyOf(x)
	for l := range n.weights {
		z := mat.NewVecDense(n.sizes[l+1], nil)
		z.MulVec(n.weights[l], a)
		z.AddVec(z, n.biases[l])
		a = sigmoidVec(z)
	}
	return a, nil
}

func vecLen(v *mat.VecDense) int {
	if v == nil {
		return 0
	}
	return v.Len()
}
