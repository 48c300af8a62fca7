package main

import (
	"flag"
	"fmt"

	"github.com/drakos74/free-mind/internal/dataset"
	"github.com/drakos74/free-mind/internal/net"
	json_storage "github.com/drakos74/free-mind/internal/storage/file/json"
	"github.com/drakos74/free-mind/internal/storage/models"
	"github.com/rs/zerolog"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

func main() {
	dir := flag.String("data", "data/mnist", "mnist data directory")
	store := flag.String("store", "data", "model storage root")
	id := flag.String("id", "mnist-784-128-64-10", "id to save the trained model under")
	epochs := flag.Int("epochs", 30, "training epochs")
	batch := flag.Int("batch", 10, "mini batch size")
	eta := flag.Float64("eta", 3.0, "learning rate")
	flag.Parse()

	split, err := dataset.Load(*dir)
	if err != nil {
		panic(fmt.Sprintf("could not load dataset: %+v", err))
	}
	fmt.Printf("training = %d | validation = %d | test = %d\n",
		len(split.Training), len(split.Validation), len(split.Test))

	network, err := net.New([]int{784, 128, 64, 10})
	if err != nil {
		panic(fmt.Sprintf("could not create network: %+v", err))
	}

	err = network.SGD(split.Training, *epochs, *batch, *eta,
		net.WithEvaluation(split.Validation),
		net.WithObserver(func(progress net.Progress) error {
			fmt.Printf("epoch %d/%d : %d / %d (%.2f%%) elapsed %.1fs\n",
				progress.Epoch, progress.TotalEpochs,
				progress.Correct, progress.Total,
				100*progress.Accuracy, progress.Elapsed.Seconds())
			return nil
		}))
	if err != nil {
		panic(fmt.Sprintf("training failed: %+v", err))
	}

	accuracy := 0.0
	if len(split.Test) > 0 {
		correct := network.Evaluate(split.Test)
		accuracy = float64(correct) / float64(len(split.Test))
		fmt.Printf("test accuracy = %d / %d (%.2f%%)\n", correct, len(split.Test), 100*accuracy)
	}

	shown := 0
	for i, example := range split.Test {
		if shown >= 10 {
			break
		}
		output, err := network.Feedforward(example.Input)
		if err != nil {
			continue
		}
		if predicted := net.Argmax(output); predicted != example.Label {
			fmt.Printf("misclassified #%d : predicted %d, actual %d\n", i, predicted, example.Label)
			shown++
		}
	}

	modelStore, err := models.NewStore(json_storage.BlobShard(*store))
	if err != nil {
		panic(fmt.Sprintf("could not create model store: %+v", err))
	}
	meta, err := modelStore.Save(*id, network, accuracy)
	if err != nil {
		panic(fmt.Sprintf("could not save model: %+v", err))
	}
	fmt.Printf("saved model = %s (accuracy %.2f%%)\n", meta.ID, 100*meta.Accuracy)
}
