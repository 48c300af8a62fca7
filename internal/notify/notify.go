package notify

// Notifier pushes short human-readable updates about training runs
// to an external channel.
type Notifier interface {
	// Send delivers the given message.
	Send(message string) error
}

// Void is a notifier that drops every message.
type Void struct{}

// NewVoid creates a no-op notifier.
func NewVoid() *Void {
	return &Void{}
}

// Send implements the Notifier interface.
func (v *Void) Send(_ string) error {
	return nil
}
