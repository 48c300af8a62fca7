package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/drakos74/free-mind/internal/buffer"
	"github.com/drakos74/free-mind/internal/net"
	"github.com/google/uuid"
)

var (
	NotFoundErr           = errors.New("not found")
	TrainingInProgressErr = errors.New("training in progress")
)

// historySize bounds the per-job epoch history.
const historySize = 50

// Status of a training job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is a network held in the session together with its lifecycle state.
type Record struct {
	ID           string
	Network      *net.Network
	Architecture []int
	CreatedAt    time.Time
	Trained      bool
	Accuracy     float64
	Training     bool
}

// Job tracks a single training run of a network.
type Job struct {
	ID         string     `json:"job_id"`
	NetworkID  string     `json:"network_id"`
	Status     Status     `json:"status"`
	Epochs     int        `json:"epochs"`
	Epoch      int        `json:"epoch"`
	Progress   float64    `json:"progress"`
	Accuracy   float64    `json:"accuracy"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type jobState struct {
	job     Job
	history *buffer.Ring
}

// Store owns the networks and training jobs of a running service.
// All access is synchronised, values returned to callers are copies.
type Store struct {
	mutex    sync.RWMutex
	networks map[string]*Record
	jobs     map[string]*jobState
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		networks: make(map[string]*Record),
		jobs:     make(map[string]*jobState),
	}
}

// AddNetwork registers the network under a fresh id.
func (s *Store) AddNetwork(network *net.Network) Record {
	return s.PutNetwork(uuid.New().String(), network, false, 0)
}

// PutNetwork registers the network under the given id,
// replacing any record already held for it.
func (s *Store) PutNetwork(id string, network *net.Network, trained bool, accuracy float64) Record {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	record := &Record{
		ID:           id,
		Network:      network,
		Architecture: network.Sizes(),
		CreatedAt:    time.Now().UTC(),
		Trained:      trained,
		Accuracy:     accuracy,
	}
	s.networks[id] = record
	return *record
}

// Network returns the record for the given id.
func (s *Store) Network(id string) (Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	record, ok := s.networks[id]
	if !ok {
		return Record{}, fmt.Errorf("network '%s': %w", id, NotFoundErr)
	}
	return *record, nil
}

// Networks returns all records, oldest first.
func (s *Store) Networks() []Record {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	records := make([]Record, 0, len(s.networks))
	for _, record := range s.networks {
		records = append(records, *record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records
}

// DeleteNetwork removes the record for the given id.
// A network with a training run in flight cannot be deleted.
func (s *Store) DeleteNetwork(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	record, ok := s.networks[id]
	if !ok {
		return fmt.Errorf("network '%s': %w", id, NotFoundErr)
	}
	if record.Training {
		return fmt.Errorf("network '%s': %w", id, TrainingInProgressErr)
	}
	delete(s.networks, id)
	return nil
}

// Counts returns the number of held networks and jobs.
func (s *Store) Counts() (int, int) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.networks), len(s.jobs)
}

// BeginTraining reserves the single training slot of the network
// and creates a pending job for it.
func (s *Store) BeginTraining(networkID string, epochs int) (Job, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	record, ok := s.networks[networkID]
	if !ok {
		return Job{}, fmt.Errorf("network '%s': %w", networkID, NotFoundErr)
	}
	if record.Training {
		return Job{}, fmt.Errorf("network '%s': %w", networkID, TrainingInProgressErr)
	}
	record.Training = true

	job := Job{
		ID:        uuid.New().String(),
		NetworkID: networkID,
		Status:    StatusPending,
		Epochs:    epochs,
		StartedAt: time.Now().UTC(),
	}
	s.jobs[job.ID] = &jobState{
		job:     job,
		history: buffer.NewRing(historySize),
	}
	return job, nil
}

// Job returns a copy of the job for the given id.
func (s *Store) Job(id string) (Job, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	state, ok := s.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("job '%s': %w", id, NotFoundErr)
	}
	return state.job, nil
}

// Jobs returns all jobs, most recent first.
func (s *Store) Jobs() []Job {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	jobs := make([]Job, 0, len(s.jobs))
	for _, state := range s.jobs {
		jobs = append(jobs, state.job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartedAt.After(jobs[j].StartedAt)
	})
	return jobs
}

// StartJob transitions the job to running.
func (s *Store) StartJob(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if state, ok := s.jobs[id]; ok {
		state.job.Status = StatusRunning
	}
}

// RecordProgress stores the state of a finished epoch on the job.
func (s *Store) RecordProgress(id string, progress net.Progress) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, ok := s.jobs[id]
	if !ok {
		return
	}
	state.job.Epoch = progress.Epoch
	if progress.TotalEpochs > 0 {
		state.job.Progress = 100 * float64(progress.Epoch) / float64(progress.TotalEpochs)
	}
	if progress.Evaluated {
		state.job.Accuracy = progress.Accuracy
	}
	state.history.Push(progress)
}

// JobHistory returns the recent epoch history of the job, oldest first.
func (s *Store) JobHistory(id string) []net.Progress {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	state, ok := s.jobs[id]
	if !ok {
		return nil
	}
	values := state.history.Get()
	history := make([]net.Progress, 0, len(values))
	for _, v := range values {
		if progress, ok := v.(net.Progress); ok {
			history = append(history, progress)
		}
	}
	return history
}

// CompleteJob finishes the job, marks the network trained
// and releases its training slot.
func (s *Store) CompleteJob(id string, accuracy float64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, ok := s.jobs[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	state.job.Status = StatusCompleted
	state.job.Progress = 100
	state.job.Accuracy = accuracy
	state.job.FinishedAt = &now

	if record, ok := s.networks[state.job.NetworkID]; ok {
		record.Training = false
		record.Trained = true
		record.Accuracy = accuracy
	}
}

// FailJob finishes the job with an error and releases the training slot.
func (s *Store) FailJob(id string, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, ok := s.jobs[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	state.job.Status = StatusFailed
	state.job.FinishedAt = &now
	if err != nil {
		state.job.Error = err.Error()
	}

	if record, ok := s.networks[state.job.NetworkID]; ok {
		record.Training = false
	}
}
