package main

import (
	"net/http"

	"github.com/drakos74/free-mind/internal/buffer"
	"github.com/drakos74/free-mind/internal/visual"
)

// tensorStats summarises the values of one parameter tensor.
type tensorStats struct {
	Shape []int `json:"shape"`
	buffer.Summary
}

type layerStats struct {
	Layer   int         `json:"layer"`
	Weights tensorStats `json:"weights"`
	Biases  tensorStats `json:"biases"`
}

type statsResponse struct {
	NetworkID    string       `json:"network_id"`
	Architecture []int        `json:"architecture"`
	Layers       []layerStats `json:"layers"`
}

func (s *Service) stats(r *http.Request) ([]byte, int, error) {
	record, err := s.network(r)
	if err != nil {
		return nil, errorCode(err), err
	}

	weights := record.Network.Weights()
	biases := record.Network.Biases()
	layers := make([]layerStats, 0, len(weights))
	for l := range weights {
		rows, cols := weights[l].Dims()
		ws := buffer.NewStats()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				ws.Push(weights[l].At(i, j))
			}
		}
		bs := buffer.NewStats()
		for i := 0; i < biases[l].Len(); i++ {
			bs.Push(biases[l].AtVec(i))
		}
		layers = append(layers, layerStats{
			Layer:   l + 1,
			Weights: tensorStats{Shape: []int{rows, cols}, Summary: ws.Describe()},
			Biases:  tensorStats{Shape: []int{biases[l].Len(), 1}, Summary: bs.Describe()},
		})
	}

	return respond(statsResponse{
		NetworkID:    record.ID,
		Architecture: record.Architecture,
		Layers:       layers,
	}, http.StatusOK)
}

type visualizeResponse struct {
	NetworkID string `json:"network_id"`
	SVG       string `json:"svg"`
}

func (s *Service) visualize(r *http.Request) ([]byte, int, error) {
	record, err := s.network(r)
	if err != nil {
		return nil, errorCode(err), err
	}
	return respond(visualizeResponse{
		NetworkID: record.ID,
		SVG:       visual.TopologySVG(record.Network),
	}, http.StatusOK)
}
