package scheduler

import (
	"context"
	"time"
)

// Load brings a registered backend to Ready within the budget. Loading an
// already-ready backend is a no-op. If the reservation does not fit, the
// eviction policy runs once and the reservation is retried once.
func (s *Scheduler) Load(ctx context.Context, id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.loadLocked(ctx, id, s.LastContext())
}

// loadLocked is the body of Load. Caller must hold opMu. tag is the context
// whose target set is protected from eviction during this load.
func (s *Scheduler) loadLocked(ctx context.Context, id, tag string) error {
	desc, ok := s.registry.Lookup(id)
	if !ok {
		return ErrNotFound(id)
	}
	r, st := s.residentState(id)
	if st == StateReady || st == StateBusy {
		return nil
	}

	cost := desc.MemoryCostMB
	if !s.budget.Reserve(cost) {
		evicted := s.evictToFit(cost, id, tag)
		if len(evicted) > 0 {
			s.log.Debug().Strs("evicted", evicted).Str("backend", id).Msg("evicted to fit load")
		}
		if !s.budget.Reserve(cost) {
			s.loadFailuresTotal.Add(1)
			loadFailuresMetric.Inc()
			return ErrInsufficientMemory(id, cost)
		}
	}

	if r == nil {
		backend, err := s.factory(desc)
		if err != nil {
			s.budget.Release(cost)
			s.loadFailuresTotal.Add(1)
			loadFailuresMetric.Inc()
			return ErrLoadFailed(id, err)
		}
		r = &resident{
			id:       id,
			desc:     desc,
			backend:  backend,
			inflight: make(chan struct{}, 1),
		}
		s.mu.Lock()
		s.residents[id] = r
		s.mu.Unlock()
	}
	s.setState(r, StateLoading)
	s.publisher.Publish(Event{Name: "load_start", BackendID: id, Fields: map[string]any{"cost_mb": cost}})

	start := time.Now()
	if err := r.backend.Load(ctx); err != nil {
		s.budget.Release(cost)
		s.setState(r, StateError)
		s.loadFailuresTotal.Add(1)
		loadFailuresMetric.Inc()
		s.updateGauges()
		s.log.Warn().Err(err).Str("backend", id).Msg("backend load failed")
		s.publisher.Publish(Event{Name: "load_failed", BackendID: id, Fields: map[string]any{"error": err.Error()}})
		return ErrLoadFailed(id, err)
	}

	s.setState(r, StateReady)
	s.loadsTotal.Add(1)
	loadsMetric.Inc()
	s.updateGauges()
	s.log.Info().Str("backend", id).Dur("took", time.Since(start)).Int("cost_mb", cost).Msg("backend ready")
	s.publisher.Publish(Event{Name: "load_done", BackendID: id, Fields: map[string]any{"cost_mb": cost}})
	return nil
}
