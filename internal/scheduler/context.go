package scheduler

import (
	"context"

	"github.com/google/uuid"

	"schedd/pkg/types"
)

// SetContext declares the operating context. It loads every required/always
// member of the context's target set (collecting failures instead of rolling
// back), loads the single best on-demand candidate only when no ready
// backend already serves the context, then rebalances down to the low
// watermark if used memory crossed the high one.
//
// SetContext calls are applied in submission order and are atomic with
// respect to other mutating operations.
func (s *Scheduler) SetContext(ctx context.Context, tag string) types.SwitchResult {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	res := types.SwitchResult{
		OpID:    uuid.NewString(),
		Context: tag,
	}
	set := s.admission(tag)

	// Protected members first, highest priority first.
	for _, d := range set {
		if !d.AlwaysOn() {
			continue
		}
		if _, st := s.residentState(d.ID); st == StateReady || st == StateBusy {
			continue
		}
		if err := s.loadLocked(ctx, d.ID, tag); err != nil {
			if res.Errors == nil {
				res.Errors = make(map[string]string)
			}
			res.Errors[d.ID] = err.Error()
			continue
		}
		res.LoadedIDs = append(res.LoadedIDs, d.ID)
	}

	// On demand: a single candidate, and only if nothing ready covers the
	// context yet. Lower-priority alternatives are never preloaded.
	if !s.anyReadyFor(tag) {
		for _, d := range set {
			if d.AlwaysOn() {
				continue
			}
			if err := s.loadLocked(ctx, d.ID, tag); err != nil {
				if res.Errors == nil {
					res.Errors = make(map[string]string)
				}
				res.Errors[d.ID] = err.Error()
			} else {
				res.LoadedIDs = append(res.LoadedIDs, d.ID)
			}
			break
		}
	}

	s.mu.Lock()
	s.lastContext = tag
	s.history = append(s.history, tag)
	if len(s.history) > s.historySize {
		s.history = s.history[len(s.history)-s.historySize:]
	}
	s.mu.Unlock()

	res.EvictedIDs = s.rebalance(tag)

	s.log.Info().Str("context", tag).Str("op", res.OpID).
		Strs("loaded", res.LoadedIDs).Strs("evicted", res.EvictedIDs).
		Int("errors", len(res.Errors)).Msg("context applied")
	s.publisher.Publish(Event{Name: "context_switch", BackendID: "", Fields: map[string]any{
		"context": tag,
		"op":      res.OpID,
	}})
	return res
}
