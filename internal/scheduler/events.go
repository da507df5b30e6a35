package scheduler

// Event represents a scheduler lifecycle event.
// Minimal and stable: name + backend id and optional fields via key/values.
type Event struct {
	Name      string
	BackendID string
	Fields    map[string]any
}

// EventPublisher receives events from the scheduler. Implementations should
// be lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
