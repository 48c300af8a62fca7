package visual

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"gonum.org/v1/gonum/mat"
)

var InvalidInputErr = errors.New("invalid input")

// DigitPNG renders a flattened square grayscale image, values in [0,1]
// row by row, into a base64 encoded png.
func DigitPNG(input *mat.VecDense) (string, error) {
	if input == nil || input.Len() == 0 {
		return "", fmt.Errorf("no pixels: %w", InvalidInputErr)
	}
	side := int(math.Sqrt(float64(input.Len())))
	if side*side != input.Len() {
		return "", fmt.Errorf("%d pixels do not form a square image: %w", input.Len(), InvalidInputErr)
	}

	img := image.NewGray(image.Rect(0, 0, side, side))
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			v := input.AtVec(row*side + col)
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			img.SetGray(col, row, color.Gray{Y: uint8(math.Round(v * 255))})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("could not encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
