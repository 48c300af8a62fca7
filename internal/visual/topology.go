package visual

import (
	"fmt"
	"math"
	"strings"

	"github.com/drakos74/free-mind/internal/net"
	"gonum.org/v1/gonum/mat"
)

const (
	svgWidth  = 960
	svgHeight = 640
	svgMargin = 60

	// maxNodes bounds the nodes drawn per layer, larger layers are elided.
	maxNodes   = 16
	nodeRadius = 9.0

	positiveColour = "#2c7fb8"
	negativeColour = "#d95f02"
	nodeColour     = "#444444"
)

// TopologySVG renders the layer structure of the network as an svg document.
// Edges are drawn between the visible nodes of adjacent layers, their stroke
// scales with the weight magnitude and their colour encodes the sign.
func TopologySVG(network *net.Network) string {
	sizes := network.Sizes()
	weights := network.Weights()

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		svgWidth, svgHeight, svgWidth, svgHeight))
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, svgWidth, svgHeight))

	// edges first so the nodes paint over them
	for l := 0; l < len(sizes)-1; l++ {
		from := layerNodes(l, len(sizes), sizes[l])
		to := layerNodes(l+1, len(sizes), sizes[l+1])
		max := maxWeight(weights[l])
		for i, a := range from {
			for j, b := range to {
				w := weights[l].At(j, i)
				colour := positiveColour
				if w < 0 {
					colour = negativeColour
				}
				width := 0.2
				if max > 0 {
					width += 2.3 * math.Abs(w) / max
				}
				svg.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.2f" stroke-opacity="0.6"/>`,
					a.x, a.y, b.x, b.y, colour, width))
			}
		}
	}

	for l, size := range sizes {
		for _, p := range layerNodes(l, len(sizes), size) {
			svg.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="white" stroke="%s" stroke-width="1.5"/>`,
				p.x, p.y, nodeRadius, nodeColour))
		}
		x := layerX(l, len(sizes))
		svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" text-anchor="middle" font-family="monospace" font-size="14">%d</text>`,
			x, svgMargin/2, size))
		if size > maxNodes {
			svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" text-anchor="middle" font-family="monospace" font-size="12">+%d more</text>`,
				x, svgHeight-svgMargin/2, size-maxNodes))
		}
	}

	svg.WriteString(`</svg>`)
	return svg.String()
}

type point struct {
	x, y float64
}

// layerNodes returns the positions of the visible nodes of a layer.
func layerNodes(layer, layers, size int) []point {
	drawn := size
	if drawn > maxNodes {
		drawn = maxNodes
	}
	x := layerX(layer, layers)
	spacing := float64(svgHeight-2*svgMargin) / float64(maxNodes)
	top := float64(svgHeight)/2 - spacing*float64(drawn-1)/2

	points := make([]point, drawn)
	for i := 0; i < drawn; i++ {
		points[i] = point{x: x, y: top + float64(i)*spacing}
	}
	return points
}

func layerX(layer, layers int) float64 {
	if layers < 2 {
		return float64(svgWidth) / 2
	}
	return svgMargin + float64(layer)*float64(svgWidth-2*svgMargin)/float64(layers-1)
}

func maxWeight(w *mat.Dense) float64 {
	rows, cols := w.Dims()
	max := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if abs := math.Abs(w.At(i, j)); abs > max {
				max = abs
			}
		}
	}
	return max
}
