package trainer

import (
	"errors"
	"testing"
	"time"

	"github.com/drakos74/free-mind/internal/concurrent"
	"github.com/drakos74/free-mind/internal/dataset"
	"github.com/drakos74/free-mind/internal/net"
	"github.com/drakos74/free-mind/internal/notify"
	"github.com/drakos74/free-mind/internal/session"
	"github.com/drakos74/free-mind/internal/socket"
	"github.com/drakos74/free-mind/internal/storage"
	"github.com/drakos74/free-mind/internal/storage/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type event struct {
	name string
	data interface{}
}

type fakeEmitter struct {
	gate    chan struct{}
	counter *concurrent.Counter
}

func newFakeEmitter() *fakeEmitter {
	return &fakeEmitter{counter: concurrent.NewCounter(nil)}
}

func (f *fakeEmitter) Emit(name string, data interface{}) {
	if f.gate != nil {
		<-f.gate
	}
	f.counter.Track(event{name: name, data: data})
}

func (f *fakeEmitter) Events() []event {
	values := f.counter.Values()
	events := make([]event, 0, len(values))
	for _, v := range values {
		events = append(events, v.(event))
	}
	return events
}

func toySplit() *dataset.Split {
	points := []struct {
		x, y  float64
		label int
	}{
		{x: 0.1, y: 0.2, label: 0},
		{x: 0.2, y: 0.1, label: 0},
		{x: 0.15, y: 0.25, label: 0},
		{x: 0.8, y: 0.9, label: 1},
		{x: 0.9, y: 0.8, label: 1},
		{x: 0.85, y: 0.75, label: 1},
	}
	training := make([]net.Example, 0, len(points))
	labeled := make([]net.LabeledExample, 0, len(points))
	for _, p := range points {
		target := mat.NewVecDense(2, nil)
		target.SetVec(p.label, 1)
		training = append(training, net.Example{
			Input:  mat.NewVecDense(2, []float64{p.x, p.y}),
			Target: target,
		})
		labeled = append(labeled, net.LabeledExample{
			Input: mat.NewVecDense(2, []float64{p.x, p.y}),
			Label: p.label,
		})
	}
	return &dataset.Split{
		Training:   training,
		Validation: labeled,
		Test:       labeled,
	}
}

func newFixture(t *testing.T, emitter *fakeEmitter) (*Runner, *session.Store, *models.Store, *notify.Local) {
	t.Helper()
	sessions := session.NewStore()
	store, err := models.NewStore(storage.LocalShard())
	require.NoError(t, err)
	notifier := notify.NewLocal()
	return New(sessions, store, toySplit(), emitter, notifier), sessions, store, notifier
}

func addNetwork(t *testing.T, sessions *session.Store) session.Record {
	t.Helper()
	network, err := net.New([]int{2, 4, 2}, net.WithSeed(11))
	require.NoError(t, err)
	return sessions.AddNetwork(network)
}

func TestRunner_Train(t *testing.T) {
	emitter := newFakeEmitter()
	runner, sessions, store, notifier := newFixture(t, emitter)
	record := addNetwork(t, sessions)

	job, err := runner.Train(record.ID, Request{Epochs: 3, MiniBatchSize: 2, Eta: 1.0})
	require.NoError(t, err)
	assert.Equal(t, record.ID, job.NetworkID)
	assert.Equal(t, 3, job.Epochs)

	require.Eventually(t, func() bool {
		current, err := sessions.Job(job.ID)
		return err == nil && current.Status == session.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	// the job carries the final state
	finished, err := sessions.Job(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, finished.Epoch)
	assert.Equal(t, 100.0, finished.Progress)
	assert.True(t, finished.Accuracy >= 0 && finished.Accuracy <= 1)
	require.NotNil(t, finished.FinishedAt)

	// the network record is marked trained and its slot released
	trained, err := sessions.Network(record.ID)
	require.NoError(t, err)
	assert.True(t, trained.Trained)
	assert.False(t, trained.Training)

	// the model was saved
	_, meta, err := store.Load(record.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 2}, meta.Architecture)

	// one update per epoch plus the completion event, in order
	events := emitter.Events()
	require.Equal(t, 4, len(events))
	for i := 0; i < 3; i++ {
		assert.Equal(t, socket.EventTrainingUpdate, events[i].name)
		update, ok := events[i].data.(socket.TrainingUpdate)
		require.True(t, ok)
		assert.Equal(t, i+1, update.Epoch)
		assert.Equal(t, 3, update.TotalEpochs)
		assert.Equal(t, job.ID, update.JobID)
		assert.True(t, update.Total > 0)
	}
	assert.Equal(t, socket.EventTrainingComplete, events[3].name)
	complete, ok := events[3].data.(socket.TrainingComplete)
	require.True(t, ok)
	assert.Equal(t, string(session.StatusCompleted), complete.Status)
	assert.Equal(t, 100.0, complete.Progress)

	// a single completion notification went out
	messages := notifier.Messages()
	require.Equal(t, 1, len(messages))
	assert.Contains(t, messages[0], "training complete")
	assert.Contains(t, messages[0], record.ID)
}

func TestRunner_TrainValidation(t *testing.T) {

	type test struct {
		id      string
		request Request
		err     error
	}

	tests := map[string]test{
		"negative-epochs": {
			request: Request{Epochs: -1},
			err:     net.InvalidHyperparameterErr,
		},
		"negative-batch": {
			request: Request{MiniBatchSize: -2},
			err:     net.InvalidHyperparameterErr,
		},
		"negative-eta": {
			request: Request{Eta: -0.5},
			err:     net.InvalidHyperparameterErr,
		},
		"unknown-network": {
			id:      "no-such-network",
			request: Request{},
			err:     session.NotFoundErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			emitter := newFakeEmitter()
			runner, sessions, _, _ := newFixture(t, emitter)
			record := addNetwork(t, sessions)

			id := tt.id
			if id == "" {
				id = record.ID
			}
			_, err := runner.Train(id, tt.request)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err))

			// no job was created, nothing was emitted
			assert.Equal(t, 0, len(sessions.Jobs()))
			assert.Equal(t, 0, len(emitter.Events()))
		})
	}
}

func TestRunner_TrainBusy(t *testing.T) {
	emitter := newFakeEmitter()
	emitter.gate = make(chan struct{})
	runner, sessions, _, _ := newFixture(t, emitter)
	record := addNetwork(t, sessions)

	job, err := runner.Train(record.ID, Request{Epochs: 2, MiniBatchSize: 2, Eta: 1.0})
	require.NoError(t, err)

	// the run is blocked inside the first epoch broadcast
	require.Eventually(t, func() bool {
		current, err := sessions.Job(job.ID)
		return err == nil && current.Status == session.StatusRunning
	}, 5*time.Second, 10*time.Millisecond)

	_, err = runner.Train(record.ID, Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, session.TrainingInProgressErr))

	close(emitter.gate)
	require.Eventually(t, func() bool {
		current, err := sessions.Job(job.ID)
		return err == nil && current.Status == session.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	// the slot is free again
	_, err = runner.Train(record.ID, Request{Epochs: 1, MiniBatchSize: 2, Eta: 1.0})
	assert.NoError(t, err)
}

func TestRequest_WithDefaults(t *testing.T) {
	request := Request{}.WithDefaults()
	assert.Equal(t, DefaultEpochs, request.Epochs)
	assert.Equal(t, DefaultMiniBatchSize, request.MiniBatchSize)
	assert.Equal(t, DefaultEta, request.Eta)

	request = Request{Epochs: 30, MiniBatchSize: 10, Eta: 3.0}.WithDefaults()
	assert.Equal(t, 30, request.Epochs)
	assert.Equal(t, 10, request.MiniBatchSize)
	assert.Equal(t, 3.0, request.Eta)
}
