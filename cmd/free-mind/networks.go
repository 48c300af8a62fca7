package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/drakos74/free-mind/internal/net"
	"github.com/drakos74/free-mind/internal/server"
	"github.com/drakos74/free-mind/internal/session"
	"github.com/drakos74/free-mind/internal/storage"
	"github.com/drakos74/free-mind/internal/storage/models"
	"github.com/rs/zerolog/log"
)

// defaultArchitecture is used when a create request names no sizes.
func defaultArchitecture() []int {
	return []int{784, 30, 10}
}

type statusResponse struct {
	Status   string `json:"status"`
	Networks int    `json:"networks"`
	Jobs     int    `json:"jobs"`
	Training int    `json:"training_examples"`
	Test     int    `json:"test_examples"`
}

func (s *Service) status(r *http.Request) ([]byte, int, error) {
	networks, jobs := s.sessions.Counts()
	return respond(statusResponse{
		Status:   "online",
		Networks: networks,
		Jobs:     jobs,
		Training: len(s.data.Training),
		Test:     len(s.data.Test),
	}, http.StatusOK)
}

type createRequest struct {
	Sizes []int `json:"sizes"`
}

func (s *Service) create(r *http.Request) ([]byte, int, error) {
	request := createRequest{}
	if err := server.JsonRead(r, s.debug, &request); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if len(request.Sizes) == 0 {
		request.Sizes = defaultArchitecture()
	}

	network, err := net.New(request.Sizes)
	if err != nil {
		return nil, errorCode(err), err
	}
	record := s.sessions.AddNetwork(network)
	log.Info().Str("network", record.ID).Ints("sizes", request.Sizes).Msg("created network")
	return respond(toNetworkResponse(record), http.StatusCreated)
}

type listResponse struct {
	Networks []networkResponse `json:"networks"`
	Saved    []models.Metadata `json:"saved"`
}

func (s *Service) list(r *http.Request) ([]byte, int, error) {
	records := s.sessions.Networks()
	networks := make([]networkResponse, 0, len(records))
	for _, record := range records {
		networks = append(networks, toNetworkResponse(record))
	}

	saved, err := s.models.List()
	if err != nil {
		return nil, 0, err
	}
	return respond(listResponse{
		Networks: networks,
		Saved:    saved,
	}, http.StatusOK)
}

func (s *Service) load(r *http.Request) ([]byte, int, error) {
	id := r.PathValue("id")
	network, meta, err := s.models.Load(id)
	if err != nil {
		return nil, errorCode(err), err
	}
	record := s.sessions.PutNetwork(id, network, true, meta.Accuracy)
	log.Info().Str("network", id).Float64("accuracy", meta.Accuracy).Msg("loaded network")
	return respond(toNetworkResponse(record), http.StatusOK)
}

type removeResponse struct {
	ID     string `json:"network_id"`
	Memory bool   `json:"memory"`
	Disk   bool   `json:"disk"`
}

func (s *Service) remove(r *http.Request) ([]byte, int, error) {
	id := r.PathValue("id")

	memory := true
	if err := s.sessions.DeleteNetwork(id); err != nil {
		if errors.Is(err, session.TrainingInProgressErr) {
			return nil, http.StatusConflict, err
		}
		memory = false
	}

	disk := true
	if err := s.models.Delete(id); err != nil {
		if !errors.Is(err, storage.NotFoundErr) {
			return nil, 0, err
		}
		disk = false
	}

	if !memory && !disk {
		return nil, http.StatusNotFound, fmt.Errorf("network '%s': %w", id, session.NotFoundErr)
	}
	log.Info().Str("network", id).Bool("memory", memory).Bool("disk", disk).Msg("removed network")
	return respond(removeResponse{ID: id, Memory: memory, Disk: disk}, http.StatusOK)
}
