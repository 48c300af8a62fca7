package net

import "gonum.org/v1/gonum/mat"

// Example pairs an input activation with the expected output activation,
// usually a one-hot encoding of the class.
type Example struct {
	Input  *mat.VecDense
	Target *mat.VecDense
}

// LabeledExample pairs an input activation with its class index,
// the form the evaluator consumes.
type LabeledExample struct {
	Input *mat.VecDense
	Label int
}
