package visual

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/drakos74/free-mind/internal/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDigitPNG(t *testing.T) {
	// 2x2 image, black top row, white bottom row
	input := mat.NewVecDense(4, []float64{0, 0, 1, 1})

	encoded, err := DigitPNG(input)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 2, bounds.Dx())
	assert.Equal(t, 2, bounds.Dy())

	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	r, _, _, _ = img.At(0, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestDigitPNG_ClampsOutOfRange(t *testing.T) {
	input := mat.NewVecDense(4, []float64{-1, 2, 0.5, 0.5})

	encoded, err := DigitPNG(input)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	r, _, _, _ = img.At(1, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestDigitPNG_Invalid(t *testing.T) {

	type test struct {
		input *mat.VecDense
	}

	tests := map[string]test{
		"nil": {
			input: nil,
		},
		"not-square": {
			input: mat.NewVecDense(3, []float64{0, 0.5, 1}),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DigitPNG(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, InvalidInputErr))
		})
	}
}

func TestTopologySVG(t *testing.T) {
	network, err := net.New([]int{3, 4, 2}, net.WithSeed(3))
	require.NoError(t, err)

	svg := TopologySVG(network)

	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`))
	assert.True(t, strings.HasSuffix(svg, `</svg>`))

	// one circle per node
	assert.Equal(t, 3+4+2, strings.Count(svg, "<circle"))
	// fully connected visible layers
	assert.Equal(t, 3*4+4*2, strings.Count(svg, "<line"))
	// layer size labels
	assert.Contains(t, svg, `>3</text>`)
	assert.Contains(t, svg, `>4</text>`)
	assert.Contains(t, svg, `>2</text>`)
	// small layers are not elided
	assert.NotContains(t, svg, "more")
}

func TestTopologySVG_ElidesLargeLayers(t *testing.T) {
	network, err := net.New([]int{784, 30, 10}, net.WithSeed(3))
	require.NoError(t, err)

	svg := TopologySVG(network)

	// the input layer is capped at maxNodes circles
	assert.Equal(t, maxNodes+maxNodes+10, strings.Count(svg, "<circle"))
	assert.Equal(t, maxNodes*maxNodes+maxNodes*10, strings.Count(svg, "<line"))
	assert.Contains(t, svg, ">+768 more</text>")
	assert.Contains(t, svg, ">+14 more</text>")
	assert.Contains(t, svg, `>784</text>`)
}
