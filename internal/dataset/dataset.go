package dataset

import (
	"fmt"

	"github.com/drakos74/free-mind/internal/net"
	"gonum.org/v1/gonum/mat"
)

// Classes is the number of digit classes.
const Classes = 10

// Split groups the example collections the trainer and evaluator consume.
// Training targets are one-hot encoded, validation and test keep the scalar label.
type Split struct {
	Training   []net.Example
	Validation []net.LabeledExample
	Test       []net.LabeledExample
}

// OneHot encodes a class index as a unit vector of the given dimension.
func OneHot(label, classes int) *mat.VecDense {
	if label < 0 || label >= classes {
		panic(fmt.Sprintf("label %d out of range for %d classes", label, classes))
	}
	v := mat.NewVecDense(classes, nil)
	v.SetVec(label, 1)
	return v
}
