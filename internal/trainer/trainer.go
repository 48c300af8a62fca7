package trainer

import (
	"fmt"

	"github.com/drakos74/free-mind/internal/concurrent"
	"github.com/drakos74/free-mind/internal/dataset"
	"github.com/drakos74/free-mind/internal/emoji"
	"github.com/drakos74/free-mind/internal/metrics"
	"github.com/drakos74/free-mind/internal/net"
	"github.com/drakos74/free-mind/internal/notify"
	"github.com/drakos74/free-mind/internal/session"
	"github.com/drakos74/free-mind/internal/socket"
	"github.com/drakos74/free-mind/internal/storage/models"
	"github.com/rs/zerolog/log"
)

// default hyperparameters for a training request.
const (
	DefaultEpochs        = 5
	DefaultMiniBatchSize = 10
	DefaultEta           = 3.0
)

// Emitter pushes telemetry events to connected clients.
type Emitter interface {
	Emit(event string, data interface{})
}

// Request carries the hyperparameters of a training run.
// Zero values fall back to the defaults.
type Request struct {
	Epochs        int     `json:"epochs"`
	MiniBatchSize int     `json:"mini_batch_size"`
	Eta           float64 `json:"learning_rate"`
}

// WithDefaults fills in unset hyperparameters.
func (r Request) WithDefaults() Request {
	if r.Epochs == 0 {
		r.Epochs = DefaultEpochs
	}
	if r.MiniBatchSize == 0 {
		r.MiniBatchSize = DefaultMiniBatchSize
	}
	if r.Eta == 0 {
		r.Eta = DefaultEta
	}
	return r
}

func (r Request) validate() error {
	if r.Epochs < 1 {
		return fmt.Errorf("epochs %d: %w", r.Epochs, net.InvalidHyperparameterErr)
	}
	if r.MiniBatchSize < 1 {
		return fmt.Errorf("mini batch size %d: %w", r.MiniBatchSize, net.InvalidHyperparameterErr)
	}
	if r.Eta <= 0 {
		return fmt.Errorf("learning rate %f: %w", r.Eta, net.InvalidHyperparameterErr)
	}
	return nil
}

// Runner drives training jobs on their own goroutines, keeping the session
// store, the model store, the telemetry hub and the notifier in sync.
type Runner struct {
	session  *session.Store
	models   *models.Store
	data     *dataset.Split
	emitter  Emitter
	notifier notify.Notifier
}

// New creates a runner over the given collaborators.
func New(sessions *session.Store, store *models.Store, data *dataset.Split, emitter Emitter, notifier notify.Notifier) *Runner {
	return &Runner{
		session:  sessions,
		models:   store,
		data:     data,
		emitter:  emitter,
		notifier: notifier,
	}
}

// Train reserves the training slot of the network and starts the run
// in the background. It returns the pending job.
func (r *Runner) Train(networkID string, request Request) (session.Job, error) {
	request = request.WithDefaults()
	if err := request.validate(); err != nil {
		return session.Job{}, err
	}

	record, err := r.session.Network(networkID)
	if err != nil {
		return session.Job{}, err
	}

	job, err := r.session.BeginTraining(networkID, request.Epochs)
	if err != nil {
		return session.Job{}, err
	}

	metrics.Observer.TrainingStarted()
	concurrent.Async(func() {
		r.run(record, job, request)
	})
	return job, nil
}

func (r *Runner) run(record session.Record, job session.Job, request Request) {
	r.session.StartJob(job.ID)
	log.Info().
		Str("job", job.ID).
		Str("network", record.ID).
		Int("epochs", request.Epochs).
		Int("mini-batch-size", request.MiniBatchSize).
		Float64("eta", request.Eta).
		Msg("training started")

	err := record.Network.SGD(r.data.Training, request.Epochs, request.MiniBatchSize, request.Eta,
		net.WithEvaluation(r.data.Validation),
		net.WithObserver(r.observe(job)))
	if err != nil {
		r.fail(job, err)
		return
	}
	r.complete(record, job)
}

// observe adapts epoch progress into the session store, service metrics
// and the telemetry hub.
func (r *Runner) observe(job session.Job) net.Observer {
	return func(progress net.Progress) error {
		r.session.RecordProgress(job.ID, progress)
		metrics.Observer.EpochCompleted()

		update := socket.TrainingUpdate{
			JobID:       job.ID,
			NetworkID:   job.NetworkID,
			Epoch:       progress.Epoch,
			TotalEpochs: progress.TotalEpochs,
			Progress:    percent(progress.Epoch, progress.TotalEpochs),
			ElapsedTime: progress.Elapsed.Seconds(),
		}
		if progress.Evaluated {
			update.Accuracy = progress.Accuracy
			update.Correct = progress.Correct
			update.Total = progress.Total
		}
		r.emitter.Emit(socket.EventTrainingUpdate, update)

		log.Debug().
			Str("job", job.ID).
			Int("epoch", progress.Epoch).
			Int("of", progress.TotalEpochs).
			Float64("accuracy", progress.Accuracy).
			Msg("epoch complete")
		return nil
	}
}

func (r *Runner) complete(record session.Record, job session.Job) {
	accuracy := 0.0
	if len(r.data.Test) > 0 {
		accuracy = float64(record.Network.Evaluate(r.data.Test)) / float64(len(r.data.Test))
	}

	r.session.CompleteJob(job.ID, accuracy)
	metrics.Observer.TrainingCompleted()

	if _, err := r.models.Save(record.ID, record.Network, accuracy); err != nil {
		log.Error().Err(err).Str("network", record.ID).Msg("could not save model")
	}

	r.emitter.Emit(socket.EventTrainingComplete, socket.TrainingComplete{
		JobID:     job.ID,
		NetworkID: job.NetworkID,
		Status:    string(session.StatusCompleted),
		Accuracy:  accuracy,
		Progress:  100,
	})

	r.send(fmt.Sprintf("%s training complete for %s | accuracy %.2f%% %s",
		emoji.MapStatus(true), record.ID, 100*accuracy, emoji.MapAccuracy(accuracy)))

	log.Info().
		Str("job", job.ID).
		Str("network", record.ID).
		Float64("accuracy", accuracy).
		Msg("training complete")
}

func (r *Runner) fail(job session.Job, err error) {
	r.session.FailJob(job.ID, err)
	metrics.Observer.TrainingFailed()

	r.emitter.Emit(socket.EventTrainingFailed, socket.TrainingFailed{
		JobID:     job.ID,
		NetworkID: job.NetworkID,
		Status:    string(session.StatusFailed),
		Error:     err.Error(),
	})

	r.send(fmt.Sprintf("%s training failed for %s | %s",
		emoji.MapStatus(false), job.NetworkID, err.Error()))

	log.Error().Err(err).
		Str("job", job.ID).
		Str("network", job.NetworkID).
		Msg("training failed")
}

func (r *Runner) send(message string) {
	if err := r.notifier.Send(message); err != nil {
		log.Error().Err(err).Msg("could not send notification")
	}
}

func percent(epoch, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(epoch) / float64(total)
}
