package scheduler

import (
	"sort"
	"time"
)

// victimsFor collects eviction candidates among residents. Pinned backends
// and residents with an invoke in flight are never victims. The result is
// sorted ascending by priority, oldest last-use first on ties.
// lastUsed is snapshotted under the lock: the serve fast path stamps it
// concurrently, so the comparator must not read it from the resident.
// Caller must hold opMu.
func (s *Scheduler) victimsFor(exclude func(*resident) bool) []*resident {
	type candidate struct {
		r        *resident
		priority int
		lastUsed time.Time
	}
	s.mu.RLock()
	var cands []candidate
	for _, r := range s.residents {
		if r.state == StateUnloaded || r.desc.Pinned() {
			continue
		}
		if len(r.inflight) > 0 {
			continue
		}
		if exclude != nil && exclude(r) {
			continue
		}
		cands = append(cands, candidate{r: r, priority: r.desc.Priority, lastUsed: r.lastUsed})
	}
	s.mu.RUnlock()
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].priority != cands[j].priority {
			return cands[i].priority < cands[j].priority
		}
		return cands[i].lastUsed.Before(cands[j].lastUsed)
	})
	out := make([]*resident, len(cands))
	for i, c := range cands {
		out[i] = c.r
	}
	return out
}

// evictToFit frees memory for a pending load of neededMB destined for
// loadingID. Pass 1 takes residents outside the current target set; pass 2
// widens to target members that are neither required/always nor the backend
// being loaded. Returns the evicted ids. Caller must hold opMu.
func (s *Scheduler) evictToFit(neededMB int, loadingID, tag string) []string {
	target := make(map[string]bool)
	for _, d := range s.admission(tag) {
		target[d.ID] = true
	}

	var evicted []string
	pass1 := s.victimsFor(func(r *resident) bool { return target[r.id] })
	for _, v := range pass1 {
		if s.budget.CanFit(neededMB) {
			return evicted
		}
		s.evictResident(v, "evict_pass1")
		evicted = append(evicted, v.id)
	}
	if s.budget.CanFit(neededMB) {
		return evicted
	}

	pass2 := s.victimsFor(func(r *resident) bool {
		return !target[r.id] || r.desc.AlwaysOn() || r.id == loadingID
	})
	for _, v := range pass2 {
		if s.budget.CanFit(neededMB) {
			return evicted
		}
		s.evictResident(v, "evict_pass2")
		evicted = append(evicted, v.id)
	}
	return evicted
}

// rebalance runs after a context switch: when used memory exceeds the high
// watermark it evicts residents that are neither protected nor in the target
// set, lowest priority first, until used memory reaches the low watermark.
// Caller must hold opMu.
func (s *Scheduler) rebalance(tag string) []string {
	limit := s.budget.Limit()
	if limit <= 0 {
		return nil
	}
	high := limit * s.highPct / 100
	low := limit * s.lowPct / 100
	if s.budget.Used() <= high {
		return nil
	}

	target := make(map[string]bool)
	for _, d := range s.admission(tag) {
		target[d.ID] = true
	}
	victims := s.victimsFor(func(r *resident) bool {
		return target[r.id] || r.desc.AlwaysOn()
	})

	var evicted []string
	for _, v := range victims {
		if s.budget.Used() <= low {
			break
		}
		s.evictResident(v, "rebalance")
		evicted = append(evicted, v.id)
	}
	return evicted
}

// evictResident unloads a victim and removes it from the resident map,
// releasing its reservation exactly once. Caller must hold opMu.
func (s *Scheduler) evictResident(r *resident, reason string) {
	if err := r.backend.Unload(); err != nil {
		s.log.Warn().Err(err).Str("backend", r.id).Msg("backend unload during eviction")
	}
	s.mu.Lock()
	if r.state.holdsBudget() {
		s.budget.Release(r.desc.MemoryCostMB)
	}
	r.state = StateUnloaded
	delete(s.residents, r.id)
	s.mu.Unlock()

	s.evictionsTotal.Add(1)
	evictionsMetric.Inc()
	s.updateGauges()
	s.log.Info().Str("backend", r.id).Str("reason", reason).Msg("evicted backend")
	s.publisher.Publish(Event{Name: "evict", BackendID: r.id, Fields: map[string]any{"reason": reason}})
}

// updateGauges refreshes the resident-count and used-memory gauges.
func (s *Scheduler) updateGauges() {
	s.mu.RLock()
	n := len(s.residents)
	s.mu.RUnlock()
	residentsMetric.Set(float64(n))
	usedMemoryMetric.Set(float64(s.budget.Used()))
}
