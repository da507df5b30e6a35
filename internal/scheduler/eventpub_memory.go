package scheduler

import "sync"

// MemoryPublisher collects published events for later inspection. Tests use
// it to assert on the lifecycle event stream.
type MemoryPublisher struct {
	mu   sync.Mutex
	seen []Event
}

// NewMemoryPublisher returns an empty in-memory publisher.
func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

// Publish appends the event to the captured stream.
func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, e)
}

// Events returns a copy of everything published so far, in order.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.seen...)
}
