package socket

// Event names pushed to connected clients.
const (
	EventTrainingUpdate   = "training_update"
	EventTrainingComplete = "training_complete"
	EventTrainingFailed   = "training_failed"
)

// Message is the envelope for every pushed event.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// TrainingUpdate mirrors one finished epoch of a running job.
type TrainingUpdate struct {
	JobID       string  `json:"job_id"`
	NetworkID   string  `json:"network_id"`
	Epoch       int     `json:"epoch"`
	TotalEpochs int     `json:"total_epochs"`
	Progress    float64 `json:"progress"`
	ElapsedTime float64 `json:"elapsed_time"`
	Accuracy    float64 `json:"accuracy,omitempty"`
	Correct     int     `json:"correct,omitempty"`
	Total       int     `json:"total,omitempty"`
}

// TrainingComplete announces a successfully finished job.
type TrainingComplete struct {
	JobID     string  `json:"job_id"`
	NetworkID string  `json:"network_id"`
	Status    string  `json:"status"`
	Accuracy  float64 `json:"accuracy"`
	Progress  float64 `json:"progress"`
}

// TrainingFailed announces an aborted job.
type TrainingFailed struct {
	JobID     string `json:"job_id"`
	NetworkID string `json:"network_id"`
	Status    string `json:"status"`
	Error     string `json:"error"`
}
