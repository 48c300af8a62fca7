package net

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sigmoid is the logistic activation 1 / (1 + e^-z).
func Sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// SigmoidPrime is the derivative of Sigmoid with respect to z.
func SigmoidPrime(z float64) float64 {
	s := Sigmoid(z)
	return s * (1 - s)
}

func sigmoidVec(z *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(z.Len(), nil)
	for i := 0; i < z.Len(); i++ {
		out.SetVec(i, Sigmoid(z.AtVec(i)))
	}
	return out
}

func sigmoidPrimeVec(z *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(z.Len(), nil)
	for i := 0; i < z.Len(); i++ {
		out.SetVec(i, SigmoidPrime(z.AtVec(i)))
	}
	return out
}

// Argmax returns the index of the largest vector element.
// Ties resolve to the lowest index.
func Argmax(v *mat.VecDense) int {
	index := 0
	max := math.Inf(-1)
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) > max {
			max = v.AtVec(i)
			index = i
		}
	}
	return index
}
