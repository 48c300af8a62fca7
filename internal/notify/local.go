package notify

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Local is a notifier that keeps all messages in memory and echoes them
// to the log. It is the default for local runs and the test double for
// components that notify.
type Local struct {
	lock     sync.RWMutex
	messages []string
}

// NewLocal creates a local notifier.
func NewLocal() *Local {
	return &Local{
		messages: make([]string, 0),
	}
}

// Send implements the Notifier interface.
func (l *Local) Send(message string) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.messages = append(l.messages, message)
	log.Info().Str("message", message).Msg("notify")
	return nil
}

// Messages returns a copy of the messages sent so far.
func (l *Local) Messages() []string {
	l.lock.RLock()
	defer l.lock.RUnlock()
	messages := make([]string, len(l.messages))
	copy(messages, l.messages)
	return messages
}
