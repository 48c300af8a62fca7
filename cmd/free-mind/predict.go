package main

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/drakos74/free-mind/internal/metrics"
	"github.com/drakos74/free-mind/internal/net"
	"github.com/drakos74/free-mind/internal/server"
	"github.com/drakos74/free-mind/internal/session"
	"github.com/drakos74/free-mind/internal/visual"
)

const (
	// maxBatchExamples caps the examples rendered per batch request.
	maxBatchExamples = 100
	// maxSearchExamples caps the scan for a matching example.
	maxSearchExamples = 500
)

// predictionResponse describes the classification of one test example.
type predictionResponse struct {
	NetworkID string    `json:"network_id"`
	Index     int       `json:"index"`
	Predicted int       `json:"predicted"`
	Actual    int       `json:"actual"`
	Correct   bool      `json:"correct"`
	Outputs   []float64 `json:"outputs"`
	Image     string    `json:"image,omitempty"`
}

// predictExample classifies the test example at the given index.
func (s *Service) predictExample(record session.Record, index int) (predictionResponse, error) {
	example := s.data.Test[index]
	output, err := record.Network.Feedforward(example.Input)
	if err != nil {
		return predictionResponse{}, err
	}

	outputs := make([]float64, output.Len())
	for i := range outputs {
		outputs[i] = output.AtVec(i)
	}
	predicted := net.Argmax(output)
	return predictionResponse{
		NetworkID: record.ID,
		Index:     index,
		Predicted: predicted,
		Actual:    example.Label,
		Correct:   predicted == example.Label,
		Outputs:   outputs,
	}, nil
}

func (s *Service) withImage(p predictionResponse) (predictionResponse, error) {
	image, err := visual.DigitPNG(s.data.Test[p.Index].Input)
	if err != nil {
		return p, err
	}
	p.Image = image
	return p, nil
}

type predictRequest struct {
	Index *int `json:"index"`
}

func (s *Service) predict(r *http.Request) ([]byte, int, error) {
	record, err := s.network(r)
	if err != nil {
		return nil, errorCode(err), err
	}

	var request predictRequest
	if err := server.JsonRead(r, s.debug, &request); err != nil {
		return nil, http.StatusBadRequest, err
	}

	index := 0
	if request.Index != nil {
		index = *request.Index
	} else if n := len(s.data.Test); n > 0 {
		index = rand.Intn(n)
	}
	if index < 0 || index >= len(s.data.Test) {
		return nil, http.StatusBadRequest, fmt.Errorf("index %d out of range [0,%d)", index, len(s.data.Test))
	}

	p, err := s.predictExample(record, index)
	if err != nil {
		return nil, errorCode(err), err
	}
	metrics.Observer.Prediction(p.Correct)

	p, err = s.withImage(p)
	if err != nil {
		return nil, 0, err
	}
	return respond(p, http.StatusOK)
}

type batchRequest struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

type batchResponse struct {
	NetworkID string               `json:"network_id"`
	Start     int                  `json:"start"`
	Accuracy  float64              `json:"accuracy"`
	Results   []predictionResponse `json:"results"`
}

func (s *Service) predictBatch(r *http.Request) ([]byte, int, error) {
	record, err := s.network(r)
	if err != nil {
		return nil, errorCode(err), err
	}

	request := batchRequest{Count: 10}
	if err := server.JsonRead(r, s.debug, &request); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if request.Start < 0 || request.Start >= len(s.data.Test) {
		return nil, http.StatusBadRequest, fmt.Errorf("start %d out of range [0,%d)", request.Start, len(s.data.Test))
	}
	if request.Count < 1 {
		return nil, http.StatusBadRequest, fmt.Errorf("count %d must be positive", request.Count)
	}
	if request.Count > maxBatchExamples {
		request.Count = maxBatchExamples
	}

	end := min(request.Start+request.Count, len(s.data.Test))
	results := make([]predictionResponse, 0, end-request.Start)
	correct := 0
	for i := request.Start; i < end; i++ {
		p, err := s.predictExample(record, i)
		if err != nil {
			return nil, errorCode(err), err
		}
		metrics.Observer.Prediction(p.Correct)
		if p.Correct {
			correct++
		}
		p, err = s.withImage(p)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, p)
	}

	return respond(batchResponse{
		NetworkID: record.ID,
		Start:     request.Start,
		Accuracy:  float64(correct) / float64(len(results)),
		Results:   results,
	}, http.StatusOK)
}

type misclassifiedResponse struct {
	NetworkID string               `json:"network_id"`
	Checked   int                  `json:"checked"`
	Results   []predictionResponse `json:"results"`
}

func (s *Service) misclassified(r *http.Request) ([]byte, int, error) {
	record, err := s.network(r)
	if err != nil {
		return nil, errorCode(err), err
	}

	maxCount := queryInt(r, "max_count", 10)
	maxCheck := queryInt(r, "max_check", 200)

	results := make([]predictionResponse, 0, maxCount)
	checked := 0
	for i := 0; i < len(s.data.Test) && checked < maxCheck && len(results) < maxCount; i++ {
		checked++
		p, err := s.predictExample(record, i)
		if err != nil {
			return nil, errorCode(err), err
		}
		if p.Correct {
			continue
		}
		p, err = s.withImage(p)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, p)
	}

	return respond(misclassifiedResponse{
		NetworkID: record.ID,
		Checked:   checked,
		Results:   results,
	}, http.StatusOK)
}

func (s *Service) successfulExample(r *http.Request) ([]byte, int, error) {
	return s.findExample(r, true)
}

func (s *Service) unsuccessfulExample(r *http.Request) ([]byte, int, error) {
	return s.findExample(r, false)
}

// findExample scans the test data from a random offset for an example
// the network classifies correctly or incorrectly.
func (s *Service) findExample(r *http.Request, correct bool) ([]byte, int, error) {
	record, err := s.network(r)
	if err != nil {
		return nil, errorCode(err), err
	}

	n := len(s.data.Test)
	if n == 0 {
		return nil, http.StatusNotFound, errors.New("no test examples loaded")
	}

	kind := "unsuccessful"
	if correct {
		kind = "successful"
	}
	start := rand.Intn(n)
	tries := min(maxSearchExamples, n)
	for i := 0; i < tries; i++ {
		index := (start + i) % n
		p, err := s.predictExample(record, index)
		if err != nil {
			return nil, errorCode(err), err
		}
		if p.Correct != correct {
			continue
		}
		p, err = s.withImage(p)
		if err != nil {
			return nil, 0, err
		}
		return respond(p, http.StatusOK)
	}
	return nil, http.StatusNotFound, fmt.Errorf("no %s example found in %d attempts", kind, tries)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 1 {
		return fallback
	}
	return i
}
