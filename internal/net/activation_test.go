package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, Sigmoid(0))
	assert.InDelta(t, 1.0, Sigmoid(20), 1e-6)
	assert.InDelta(t, 0.0, Sigmoid(-20), 1e-6)

	for _, z := range []float64{0.1, 0.5, 1, 2, 5} {
		assert.InDelta(t, 1-Sigmoid(z), Sigmoid(-z), 1e-12)
		assert.True(t, Sigmoid(z) > Sigmoid(-z))
	}
}

func TestSigmoidPrime(t *testing.T) {
	assert.Equal(t, 0.25, SigmoidPrime(0))

	// derivative peaks at zero and is symmetric
	for _, z := range []float64{0.5, 1, 2, 5} {
		assert.True(t, SigmoidPrime(z) < SigmoidPrime(0))
		assert.InDelta(t, SigmoidPrime(z), SigmoidPrime(-z), 1e-12)
	}
}

func TestArgmax(t *testing.T) {

	type test struct {
		values []float64
		index  int
	}

	tests := map[string]test{
		"single": {
			values: []float64{0.3},
			index:  0,
		},
		"peak-in-middle": {
			values: []float64{0.1, 0.9, 0.4},
			index:  1,
		},
		"peak-at-end": {
			values: []float64{0.1, 0.2, 0.4},
			index:  2,
		},
		"tie-takes-lowest": {
			values: []float64{0.5, 0.5, 0.1},
			index:  0,
		},
		"all-negative": {
			values: []float64{-3, -1, -2},
			index:  1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v := mat.NewVecDense(len(tt.values), tt.values)
			assert.Equal(t, tt.index, Argmax(v))
		})
	}
}
