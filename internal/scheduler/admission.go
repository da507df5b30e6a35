package scheduler

import (
	"sort"

	"schedd/pkg/types"
)

// admission computes the target set for a context: every descriptor whose
// triggers contain the tag (or the always wildcard) plus every required one,
// ordered descending by priority with registration order breaking ties.
func (s *Scheduler) admission(tag string) []types.BackendDescriptor {
	all := s.registry.Enumerate()
	out := make([]types.BackendDescriptor, 0, len(all))
	for _, d := range all {
		if d.Required || d.TriggeredBy(tag) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// anyReadyFor reports whether some resident backend triggered by the tag is
// already ready or busy. Required-only members don't count: being resident
// for protection reasons does not mean they serve this context.
func (s *Scheduler) anyReadyFor(tag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.residents {
		if r.state != StateReady && r.state != StateBusy {
			continue
		}
		if r.desc.TriggeredBy(tag) {
			return true
		}
	}
	return false
}

// bestReadyFor returns the highest-priority ready candidate for the tag, or
// "" when none is resident.
func (s *Scheduler) bestReadyFor(set []types.BackendDescriptor) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range set {
		if r := s.residents[d.ID]; r != nil && (r.state == StateReady || r.state == StateBusy) {
			return d.ID
		}
	}
	return ""
}
