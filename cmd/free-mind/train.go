package main

import (
	"net/http"

	"github.com/drakos74/free-mind/internal/server"
	"github.com/drakos74/free-mind/internal/session"
	"github.com/drakos74/free-mind/internal/trainer"
)

func (s *Service) train(r *http.Request) ([]byte, int, error) {
	var request trainer.Request
	if err := server.JsonRead(r, s.debug, &request); err != nil {
		return nil, http.StatusBadRequest, err
	}

	job, err := s.runner.Train(r.PathValue("id"), request)
	if err != nil {
		return nil, errorCode(err), err
	}
	return respond(job, http.StatusAccepted)
}

type progressResponse struct {
	Epoch       int     `json:"epoch"`
	TotalEpochs int     `json:"total_epochs"`
	Elapsed     float64 `json:"elapsed_seconds"`
	Accuracy    float64 `json:"accuracy,omitempty"`
	Correct     int     `json:"correct,omitempty"`
	Total       int     `json:"total,omitempty"`
}

type jobResponse struct {
	session.Job
	History []progressResponse `json:"history,omitempty"`
}

func (s *Service) job(r *http.Request) ([]byte, int, error) {
	id := r.PathValue("id")
	job, err := s.sessions.Job(id)
	if err != nil {
		return nil, errorCode(err), err
	}

	progress := s.sessions.JobHistory(id)
	history := make([]progressResponse, 0, len(progress))
	for _, p := range progress {
		entry := progressResponse{
			Epoch:       p.Epoch,
			TotalEpochs: p.TotalEpochs,
			Elapsed:     p.Elapsed.Seconds(),
		}
		if p.Evaluated {
			entry.Accuracy = p.Accuracy
			entry.Correct = p.Correct
			entry.Total = p.Total
		}
		history = append(history, entry)
	}
	return respond(jobResponse{Job: job, History: history}, http.StatusOK)
}
