package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"schedd/internal/registry"
	"schedd/pkg/types"
)

// fakeBackend is a scriptable in-memory backend for tests.
type fakeBackend struct {
	mu        sync.Mutex
	loadErr   error
	invokeErr error
	response  []byte
	delay     time.Duration
	loads     int
	unloads   int
	invokes   int
	ready     bool
}

func (f *fakeBackend) Load(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return f.loadErr
	}
	f.ready = true
	return nil
}

func (f *fakeBackend) Unload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unloads++
	f.ready = false
	return nil
}

func (f *fakeBackend) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	f.mu.Lock()
	f.invokes++
	delay := f.delay
	err := f.invokeErr
	resp := f.response
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = payload
	}
	return resp, nil
}

func (f *fakeBackend) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeBackend) MemoryFootprintMB() int { return 0 }

func (f *fakeBackend) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func (f *fakeBackend) setLoadErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadErr = err
}

func (f *fakeBackend) setInvokeErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invokeErr = err
}

// harness bundles a scheduler with its registry and one fake per descriptor.
type harness struct {
	reg   *registry.Registry
	sch   *Scheduler
	fakes map[string]*fakeBackend
}

func newHarness(t *testing.T, budgetMB int, descs ...types.BackendDescriptor) *harness {
	t.Helper()
	h := &harness{reg: registry.New(), fakes: make(map[string]*fakeBackend)}
	for _, d := range descs {
		if err := h.reg.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.ID, err)
		}
		h.fakes[d.ID] = &fakeBackend{}
	}
	h.sch = NewWithConfig(Config{
		Registry: h.reg,
		Factory: func(d types.BackendDescriptor) (Backend, error) {
			fb := h.fakes[d.ID]
			if fb == nil {
				return nil, fmt.Errorf("no fake for %s", d.ID)
			}
			return fb, nil
		},
		BudgetMB:     budgetMB,
		DrainTimeout: 100 * time.Millisecond,
	})
	return h
}

// residentIDs returns the ids of current residents, sorted.
func (h *harness) residentIDs() []string {
	st := h.sch.Status()
	out := make([]string, 0, len(st.Residents))
	for _, r := range st.Residents {
		out = append(out, r.ID)
	}
	return out
}

func (h *harness) used() int { return h.sch.Status().UsedMB }

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
