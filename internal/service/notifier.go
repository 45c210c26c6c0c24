package service

// Notifier decouples services from the concrete change-feed wiring.
// The WebSocket hub fulfils it in production; tests pass a no-op.
type Notifier interface {
	Publish(message []byte)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) Publish([]byte) {}
