package scheduler

import "time"

// Unload removes a resident backend, releasing its reservation. Pinned
// backends are protected. Waits up to the drain timeout for an in-flight
// invoke to finish before unloading anyway.
func (s *Scheduler) Unload(id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	desc, ok := s.registry.Lookup(id)
	if !ok {
		return ErrNotFound(id)
	}
	if desc.Pinned() {
		return ErrProtected(id)
	}
	r, _ := s.residentState(id)
	if r == nil {
		return ErrNotFound(id)
	}

	s.publisher.Publish(Event{Name: "unload_start", BackendID: id, Fields: map[string]any{}})

	deadline := time.Now().Add(s.drainTimeout)
	for len(r.inflight) > 0 {
		if time.Now().After(deadline) {
			s.log.Warn().Str("backend", id).Msg("unload drain timed out")
			s.publisher.Publish(Event{Name: "unload_timeout", BackendID: id, Fields: map[string]any{}})
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := r.backend.Unload(); err != nil {
		s.log.Warn().Err(err).Str("backend", id).Msg("backend unload")
	}

	// Re-read the state under the lock: a timed-out invoke may have already
	// marked the resident errored and released its reservation.
	s.mu.Lock()
	if r.state.holdsBudget() {
		s.budget.Release(desc.MemoryCostMB)
	}
	r.state = StateUnloaded
	delete(s.residents, id)
	s.mu.Unlock()
	s.updateGauges()

	s.publisher.Publish(Event{Name: "unload_done", BackendID: id, Fields: map[string]any{}})
	return nil
}
