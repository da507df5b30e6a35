package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"schedd/pkg/types"
)

// serveWithFallback walks the fallback chain starting at primary, attempting
// a full serve on each hop until one succeeds or the chain is exhausted. The
// walk is bounded by registry size as a defensive guard even though cycles
// are rejected at registration.
func (s *Scheduler) serveWithFallback(ctx context.Context, primary string, payload []byte, timeout time.Duration) (types.ServeResponse, error) {
	requestID := uuid.NewString()
	var attempts []types.ServeAttempt

	maxHops := s.registry.Len() + 1
	cur := primary
	for hop := 0; cur != "" && hop < maxHops; hop++ {
		if hop > 0 {
			s.fallbacksTotal.Add(1)
			fallbackAttemptsMetric.Inc()
			s.log.Debug().Str("request", requestID).Str("backend", cur).Msg("fallback attempt")
		}
		out, err := s.serveOne(ctx, cur, payload, timeout)
		if err == nil {
			return types.ServeResponse{
				BackendID: cur,
				RequestID: requestID,
				Payload:   out,
				Attempts:  attempts,
			}, nil
		}
		attempts = append(attempts, types.ServeAttempt{BackendID: cur, Reason: err.Error()})
		s.publisher.Publish(Event{Name: "serve_failed", BackendID: cur, Fields: map[string]any{
			"request": requestID,
			"reason":  err.Error(),
		}})

		desc, ok := s.registry.Lookup(cur)
		if !ok {
			break
		}
		cur = desc.FallbackID
	}
	return types.ServeResponse{}, ErrAllBackendsFailed(attempts)
}
