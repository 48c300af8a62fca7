package session

import (
	"testing"
	"time"

	"github.com/drakos74/free-mind/internal/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNetwork(t *testing.T) *net.Network {
	t.Helper()
	network, err := net.New([]int{2, 3, 2}, net.WithSeed(42))
	require.NoError(t, err)
	return network
}

func TestStore_Networks(t *testing.T) {
	store := NewStore()

	record := store.AddNetwork(newNetwork(t))
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, []int{2, 3, 2}, record.Architecture)
	assert.False(t, record.Trained)

	got, err := store.Network(record.ID)
	assert.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	_, err = store.Network("ghost")
	assert.ErrorIs(t, err, NotFoundErr)

	other := store.AddNetwork(newNetwork(t))
	records := store.Networks()
	assert.Equal(t, 2, len(records))

	networks, jobs := store.Counts()
	assert.Equal(t, 2, networks)
	assert.Equal(t, 0, jobs)

	assert.NoError(t, store.DeleteNetwork(other.ID))
	assert.ErrorIs(t, store.DeleteNetwork(other.ID), NotFoundErr)
	assert.Equal(t, 1, len(store.Networks()))
}

func TestStore_PutNetwork(t *testing.T) {
	store := NewStore()

	record := store.PutNetwork("fixed-id", newNetwork(t), true, 0.91)
	assert.Equal(t, "fixed-id", record.ID)
	assert.True(t, record.Trained)
	assert.Equal(t, 0.91, record.Accuracy)

	// repeated put replaces the record
	again := store.PutNetwork("fixed-id", newNetwork(t), false, 0)
	assert.False(t, again.Trained)
	assert.Equal(t, 1, len(store.Networks()))
}

func TestStore_TrainingAdmission(t *testing.T) {
	store := NewStore()
	record := store.AddNetwork(newNetwork(t))

	job, err := store.BeginTraining(record.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, record.ID, job.NetworkID)
	assert.Equal(t, 5, job.Epochs)

	// the training slot is taken
	_, err = store.BeginTraining(record.ID, 5)
	assert.ErrorIs(t, err, TrainingInProgressErr)

	// a busy network cannot be deleted
	assert.ErrorIs(t, store.DeleteNetwork(record.ID), TrainingInProgressErr)

	// completion frees the slot
	store.CompleteJob(job.ID, 0.8)
	_, err = store.BeginTraining(record.ID, 5)
	assert.NoError(t, err)
}

func TestStore_BeginTraining_UnknownNetwork(t *testing.T) {
	store := NewStore()
	_, err := store.BeginTraining("ghost", 5)
	assert.ErrorIs(t, err, NotFoundErr)
}

func TestStore_JobLifecycle(t *testing.T) {
	store := NewStore()
	record := store.AddNetwork(newNetwork(t))

	job, err := store.BeginTraining(record.ID, 4)
	require.NoError(t, err)

	store.StartJob(job.ID)
	running, err := store.Job(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusRunning, running.Status)

	store.RecordProgress(job.ID, net.Progress{Epoch: 1, TotalEpochs: 4, Elapsed: time.Second})
	store.RecordProgress(job.ID, net.Progress{
		Epoch:       2,
		TotalEpochs: 4,
		Elapsed:     2 * time.Second,
		Evaluated:   true,
		Correct:     8,
		Total:       10,
		Accuracy:    0.8,
	})

	current, err := store.Job(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, current.Epoch)
	assert.Equal(t, 50.0, current.Progress)
	assert.Equal(t, 0.8, current.Accuracy)

	history := store.JobHistory(job.ID)
	assert.Equal(t, 2, len(history))
	assert.Equal(t, 1, history[0].Epoch)
	assert.Equal(t, 2, history[1].Epoch)

	store.CompleteJob(job.ID, 0.85)
	done, err := store.Job(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.Equal(t, 100.0, done.Progress)
	assert.Equal(t, 0.85, done.Accuracy)
	assert.NotNil(t, done.FinishedAt)

	trained, err := store.Network(record.ID)
	assert.NoError(t, err)
	assert.True(t, trained.Trained)
	assert.Equal(t, 0.85, trained.Accuracy)
	assert.False(t, trained.Training)
}

func TestStore_FailJob(t *testing.T) {
	store := NewStore()
	record := store.AddNetwork(newNetwork(t))

	job, err := store.BeginTraining(record.ID, 4)
	require.NoError(t, err)
	store.StartJob(job.ID)

	store.FailJob(job.ID, assert.AnError)

	failed, err := store.Job(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, assert.AnError.Error(), failed.Error)

	// slot is free again, network remains untrained
	untrained, err := store.Network(record.ID)
	assert.NoError(t, err)
	assert.False(t, untrained.Trained)
	assert.False(t, untrained.Training)

	_, err = store.BeginTraining(record.ID, 1)
	assert.NoError(t, err)
}

func TestStore_Job_NotFound(t *testing.T) {
	store := NewStore()
	_, err := store.Job("ghost")
	assert.ErrorIs(t, err, NotFoundErr)
	assert.Nil(t, store.JobHistory("ghost"))
}
