package scheduler

import (
	"context"
	"errors"
	"time"

	"schedd/pkg/types"
)

// Serve resolves a concrete backend for the request and invokes it,
// delegating to the fallback chain on failure. The fast path (backend
// already ready) takes no mutating lock; a needed load re-enters the
// serialized path.
func (s *Scheduler) Serve(ctx context.Context, req types.ServeRequest) (types.ServeResponse, error) {
	timeout := s.serveTimeout
	if req.TimeoutMs > 0 {
		timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}

	primary := req.Backend
	if primary == "" {
		tag := req.Context
		if tag == "" {
			tag = s.defaultContext
		}
		if tag == "" {
			tag = s.LastContext()
		}
		set := s.admission(tag)
		if len(set) == 0 {
			s.countServe("rejected")
			return types.ServeResponse{}, ErrNotFound("(no backend for context " + tag + ")")
		}
		if id := s.bestReadyFor(set); id != "" {
			primary = id
		} else {
			primary = set[0].ID
		}
	} else if _, ok := s.registry.Lookup(primary); !ok {
		s.countServe("rejected")
		return types.ServeResponse{}, ErrNotFound(primary)
	}

	resp, err := s.serveWithFallback(ctx, primary, req.Payload, timeout)
	if err != nil {
		s.countServe("error")
		return resp, err
	}
	s.countServe("ok")
	return resp, nil
}

func (s *Scheduler) countServe(outcome string) {
	s.servesTotal.Add(1)
	servesMetric.WithLabelValues(outcome).Inc()
}

// serveOne invokes a single backend, loading it first if necessary. The
// invoke holds the resident's in-flight slot and runs outside all locks so
// slow backends never block admission or eviction decisions.
func (s *Scheduler) serveOne(ctx context.Context, id string, payload []byte, timeout time.Duration) ([]byte, error) {
	if _, ok := s.registry.Lookup(id); !ok {
		return nil, ErrNotFound(id)
	}
	r, st := s.residentState(id)
	if st != StateReady && st != StateBusy {
		if err := s.Load(ctx, id); err != nil {
			return nil, err
		}
		r, _ = s.residentState(id)
		if r == nil {
			return nil, ErrLoadFailed(id, errors.New("not resident after load"))
		}
	}

	// Single in-flight invoke per backend; waiting is bounded by the
	// caller's timeout.
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r.inflight <- struct{}{}:
	case <-ctx.Done():
		return nil, ErrTimeout(id)
	case <-timer.C:
		return nil, ErrTimeout(id)
	}

	s.mu.Lock()
	if r.state == StateReady {
		r.state = StateBusy
	}
	r.lastUsed = time.Now()
	s.mu.Unlock()

	ictx, cancel := context.WithTimeout(ctx, timeout)
	out, err := r.backend.Invoke(ictx, payload)
	timedOut := ictx.Err() != nil
	cancel()

	if err != nil {
		s.mu.Lock()
		if timedOut {
			// The invoke was abandoned; mark the backend errored so a
			// future load replaces it, and give its reservation back.
			if r.state.holdsBudget() {
				s.budget.Release(r.desc.MemoryCostMB)
			}
			r.state = StateError
		} else if r.state == StateBusy {
			r.state = StateReady
		}
		s.mu.Unlock()
		<-r.inflight
		s.updateGauges()
		if timedOut {
			return nil, ErrTimeout(id)
		}
		return nil, ErrInvokeFailed(id, err)
	}

	s.mu.Lock()
	if r.state == StateBusy {
		r.state = StateReady
	}
	r.lastUsed = time.Now()
	s.mu.Unlock()
	<-r.inflight
	return out, nil
}
