package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"schedd/internal/registry"
	"schedd/pkg/types"
)

// Scheduler orchestrates backend lifecycle against the registry and the
// memory budget. It is the only writer of resident state.
type Scheduler struct {
	// opMu serializes all mutating operations: Load, Unload, SetContext and
	// eviction. It is held across the opaque backend load.
	opMu sync.Mutex
	// mu guards the resident map and context fields for readers.
	mu sync.RWMutex

	registry  *registry.Registry
	factory   Factory
	budget    *budgetTracker
	residents map[string]*resident

	lastContext string
	history     []string
	historySize int

	defaultContext string
	serveTimeout   time.Duration
	drainTimeout   time.Duration
	highPct        int
	lowPct         int

	loadsTotal        atomic.Uint64
	loadFailuresTotal atomic.Uint64
	evictionsTotal    atomic.Uint64
	fallbacksTotal    atomic.Uint64
	servesTotal       atomic.Uint64

	publisher EventPublisher
	log       zerolog.Logger
	startTime time.Time
}

// Ready reports whether any resident backend can serve.
func (s *Scheduler) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.residents {
		if r.state == StateReady || r.state == StateBusy {
			return true
		}
	}
	return false
}

// Descriptors returns the registered catalog in registration order.
func (s *Scheduler) Descriptors() []types.BackendDescriptor {
	return s.registry.Enumerate()
}

// LastContext returns the most recently applied context tag.
func (s *Scheduler) LastContext() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastContext
}

// residentState returns the resident for id and its state, or nil.
func (s *Scheduler) residentState(id string) (*resident, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.residents[id]
	if r == nil {
		return nil, StateUnloaded
	}
	return r, r.state
}

// setState transitions a resident and keeps its last-used stamp fresh for
// ready transitions.
func (s *Scheduler) setState(r *resident, st State) {
	s.mu.Lock()
	r.state = st
	if st == StateReady {
		r.lastUsed = time.Now()
	}
	s.mu.Unlock()
}
