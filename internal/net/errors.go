package net

import "errors"

var (
	InvalidArchitectureErr   = errors.New("invalid architecture")
	DimensionMismatchErr     = errors.New("dimension mismatch")
	EmptyDatasetErr          = errors.New("empty dataset")
	InvalidHyperparameterErr = errors.New("invalid hyperparameter")
)
