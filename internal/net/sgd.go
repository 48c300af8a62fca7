package net

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Progress describes the state of a training run at an epoch boundary.
// Correct, Total and Accuracy are only meaningful when Evaluated is true.
type Progress struct {
	Epoch       int
	TotalEpochs int
	Elapsed     time.Duration
	Evaluated   bool
	Correct     int
	Total       int
	Accuracy    float64
}

// Observer is invoked synchronously after every epoch.
// A non-nil error aborts the training run, already applied updates remain in place.
type Observer func(progress Progress) error

type trainConfig struct {
	test     []LabeledExample
	observer Observer
}

// TrainOption configures a single training run.
type TrainOption func(*trainConfig)

// WithEvaluation evaluates the network against the given examples after every epoch.
func WithEvaluation(test []LabeledExample) TrainOption {
	return func(cfg *trainConfig) {
		cfg.test = test
	}
}

// WithObserver attaches an epoch observer to the training run.
func WithObserver(observer Observer) TrainOption {
	return func(cfg *trainConfig) {
		cfg.observer = observer
	}
}

// SGD trains the network with mini-batch stochastic gradient descent.
// Each epoch reshuffles the training data, partitions it into consecutive
// mini-batches (the last one may be short) and applies for every batch
// w -> w - eta/|batch| * sum(nabla_w) and b -> b - eta/|batch| * sum(nabla_b).
// It runs exactly epochs epochs on the calling goroutine.
func (n *Network) SGD(training []Example, epochs, miniBatchSize int, eta float64, options ...TrainOption) error {
	if len(training) == 0 {
		return fmt.Errorf("no training examples: %w", EmptyDatasetErr)
	}
	if epochs <= 0 {
		return fmt.Errorf("epochs = %d: %w", epochs, InvalidHyperparameterErr)
	}
	if miniBatchSize <= 0 {
		return fmt.Errorf("mini batch size = %d: %w", miniBatchSize, InvalidHyperparameterErr)
	}
	if eta <= 0 {
		return fmt.Errorf("learning rate = %f: %w", eta, InvalidHyperparameterErr)
	}

	cfg := trainConfig{}
	for _, option := range options {
		option(&cfg)
	}

	data := make([]Example, len(training))
	copy(data, training)

	start := time.Now()
	for epoch := 1; epoch <= epochs; epoch++ {
		n.rand.Shuffle(len(data), func(i, j int) {
			data[i], data[j] = data[j], data[i]
		})
		for from := 0; from < len(data); from += miniBatchSize {
			to := from + miniBatchSize
			if to > len(data) {
				to = len(data)
			}
			if err := n.update(data[from:to], eta); err != nil {
				return fmt.Errorf("epoch %d: %w", epoch, err)
			}
		}

		if cfg.observer == nil && cfg.test == nil {
			continue
		}
		progress := Progress{
			Epoch:       epoch,
			TotalEpochs: epochs,
			Elapsed:     time.Since(start),
		}
		if cfg.test != nil {
			progress.Evaluated = true
			progress.Correct = n.Evaluate(cfg.test)
			progress.Total = len(cfg.test)
			if progress.Total > 0 {
				progress.Accuracy = float64(progress.Correct) / float64(progress.Total)
			}
		}
		if cfg.observer != nil {
			if err := cfg.observer(progress); err != nil {
				return fmt.Errorf("epoch %d: observer: %w", epoch, err)
			}
		}
	}
	return nil
}

// update applies one mini-batch of gradients to the network parameters.
func (n *Network) update(batch []Example, eta float64) error {
	layers := len(n.weights)
	sumB := make([]*mat.VecDense, layers)
	sumW := make([]*mat.Dense, layers)
	for l := 0; l < layers; l++ {
		sumB[l] = mat.NewVecDense(n.sizes[l+1], nil)
		sumW[l] = mat.NewDense(n.sizes[l+1], n.sizes[l], nil)
	}

	for _, example := range batch {
		nablaB, nablaW, err := n.Backprop(example.Input, example.Target)
		if err != nil {
			return err
		}
		for l := 0; l < layers; l++ {
			sumB[l].AddVec(sumB[l], nablaB[l])
			sumW[l].Add(sumW[l], nablaW[l])
		}
	}

	step := eta / float64(len(batch))
	for l := 0; l < layers; l++ {
		n.biases[l].AddScaledVec(n.biases[l], -step, sumB[l])
		sumW[l].Scale(step, sumW[l])
		n.weights[l].Sub(n.weights[l], sumW[l])
	}
	return nil
}
