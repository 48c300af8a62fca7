package dataset

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/drakos74/free-mind/internal/net"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// The standard MNIST idx file names.
const (
	TrainImages = "train-images-idx3-ubyte.gz"
	TrainLabels = "train-labels-idx1-ubyte.gz"
	TestImages  = "t10k-images-idx3-ubyte.gz"
	TestLabels  = "t10k-labels-idx1-ubyte.gz"
)

const (
	imagesMagic = 2051
	labelsMagic = 2049
)

// Load reads the four MNIST files from dir.
// The last sixth of the training set becomes the validation set,
// which means the usual 50000/10000 split for the standard files.
func Load(dir string) (*Split, error) {
	trainImages, err := ReadImages(filepath.Join(dir, TrainImages))
	if err != nil {
		return nil, fmt.Errorf("training images: %w", err)
	}
	trainLabels, err := ReadLabels(filepath.Join(dir, TrainLabels))
	if err != nil {
		return nil, fmt.Errorf("training labels: %w", err)
	}
	if len(trainImages) != len(trainLabels) {
		return nil, fmt.Errorf("%d training images for %d labels", len(trainImages), len(trainLabels))
	}

	testImages, err := ReadImages(filepath.Join(dir, TestImages))
	if err != nil {
		return nil, fmt.Errorf("test images: %w", err)
	}
	testLabels, err := ReadLabels(filepath.Join(dir, TestLabels))
	if err != nil {
		return nil, fmt.Errorf("test labels: %w", err)
	}
	if len(testImages) != len(testLabels) {
		return nil, fmt.Errorf("%d test images for %d labels", len(testImages), len(testLabels))
	}

	cut := len(trainImages) - len(trainImages)/6
	split := &Split{
		Training:   make([]net.Example, 0, cut),
		Validation: make([]net.LabeledExample, 0, len(trainImages)-cut),
		Test:       make([]net.LabeledExample, 0, len(testImages)),
	}
	for i, img := range trainImages {
		if i < cut {
			split.Training = append(split.Training, net.Example{
				Input:  img,
				Target: OneHot(trainLabels[i], Classes),
			})
		} else {
			split.Validation = append(split.Validation, net.LabeledExample{
				Input: img,
				Label: trainLabels[i],
			})
		}
	}
	for i, img := range testImages {
		split.Test = append(split.Test, net.LabeledExample{
			Input: img,
			Label: testLabels[i],
		})
	}

	log.Info().
		Str("dir", dir).
		Int("training", len(split.Training)).
		Int("validation", len(split.Validation)).
		Int("test", len(split.Test)).
		Msg("loaded dataset")
	return split, nil
}

// ReadImages decodes an idx3 images file into normalised pixel vectors.
// Pixel bytes are scaled to [0,1].
func ReadImages(path string) ([]*mat.VecDense, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var magic, count, rows, cols int32
	if err := readHeader(r, &magic, &count, &rows, &cols); err != nil {
		return nil, fmt.Errorf("could not read images header: %w", err)
	}
	if magic != imagesMagic {
		return nil, fmt.Errorf("unexpected magic number %d in images file '%s'", magic, path)
	}

	size := int(rows) * int(cols)
	images := make([]*mat.VecDense, count)
	buf := make([]byte, size)
	for i := range images {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("could not read image %d: %w", i, err)
		}
		pixels := make([]float64, size)
		for p, b := range buf {
			pixels[p] = float64(b) / 255
		}
		images[i] = mat.NewVecDense(size, pixels)
	}
	return images, nil
}

// ReadLabels decodes an idx1 labels file.
func ReadLabels(path string) ([]int, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var magic, count int32
	if err := readHeader(r, &magic, &count); err != nil {
		return nil, fmt.Errorf("could not read labels header: %w", err)
	}
	if magic != labelsMagic {
		return nil, fmt.Errorf("unexpected magic number %d in labels file '%s'", magic, path)
	}

	buf := make([]byte, count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("could not read labels: %w", err)
	}
	labels := make([]int, count)
	for i, b := range buf {
		labels[i] = int(b)
	}
	return labels, nil
}

func readHeader(r io.Reader, fields ...*int32) error {
	for _, field := range fields {
		if err := binary.Read(r, binary.BigEndian, field); err != nil {
			return err
		}
	}
	return nil
}

func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open idx file: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not read gzip header: %w", err)
	}
	return &gzipFile{file: f, Reader: zr}, nil
}

type gzipFile struct {
	file *os.File
	*gzip.Reader
}

func (g *gzipFile) Close() error {
	if err := g.Reader.Close(); err != nil {
		_ = g.file.Close()
		return err
	}
	return g.file.Close()
}
