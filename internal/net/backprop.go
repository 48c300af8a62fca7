package net

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Backprop computes the gradient of the quadratic cost 0.5*||a_L - y||^2
// for a single example, layer by layer.
// The returned slices mirror the shapes of Biases and Weights exactly.
// The network state stays untouched.
func (n *Network) Backprop(x, y *mat.VecDense) ([]*mat.VecDense, []*mat.Dense, error) {
	layers := len(n.weights)
	if x == nil || x.Len() != n.sizes[0] {
		return nil, nil, fmt.Errorf("input of length %d for %d input neurons: %w", vecLen(x), n.sizes[0], DimensionMismatchErr)
	}
	if y == nil || y.Len() != n.sizes[layers] {
		return nil, nil, fmt.Errorf("target of length %d for %d output neurons: %w", vecLen(y), n.sizes[layers], DimensionMismatchErr)
	}

	// forward pass, keeping the weighted inputs and activations of every layer
	activations := make([]*mat.VecDense, layers+1)
	zs := make([]*mat.VecDense, layers)
	activations[0] = mat.VecDenseCopyOf(x)
	for l := 0; l < layers; l++ {
		z := mat.NewVecDense(n.sizes[l+1], nil)
		z.MulVec(n.weights[l], activations[l])
		z.AddVec(z, n.biases[l])
		zs[l] = z
		activations[l+1] = sigmoidVec(z)
	}

	nablaB := make([]*mat.VecDense, layers)
	nablaW := make([]*mat.Dense, layers)

	// output error delta_L = (a_L - y) (.) sigmoid'(z_L)
	delta := mat.NewVecDense(n.sizes[layers], nil)
	delta.SubVec(activations[layers], y)
	delta.MulElemVec(delta, sigmoidPrimeVec(zs[layers-1]))
	nablaB[layers-1] = delta
	nablaW[layers-1] = outer(delta, activations[layers-1])

	// backward pass delta_l = (W_{l+1}^T delta_{l+1}) (.) sigmoid'(z_l)
	for l := layers - 2; l >= 0; l-- {
		next := mat.NewVecDense(n.sizes[l+1], nil)
		next.MulVec(n.weights[l+1].T(), delta)
		next.MulElemVec(next, sigmoidPrimeVec(zs[l]))
		delta = next
		nablaB[l] = delta
		nablaW[l] = outer(delta, activations[l])
	}

	return nablaB, nablaW, nil
}

func outer(delta, activation *mat.VecDense) *mat.Dense {
	w := mat.NewDense(delta.Len(), activation.Len(), nil)
	w.Outer(1, delta, activation)
	return w
}
