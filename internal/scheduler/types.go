package scheduler

import (
	"context"
	"time"

	"schedd/pkg/types"
)

// State represents the lifecycle state of a resident backend.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateBusy     State = "busy"
	StateError    State = "error"
)

// holdsBudget reports whether a resident in this state owns a budget
// reservation. Error residents released theirs when they failed.
func (s State) holdsBudget() bool {
	return s == StateLoading || s == StateReady || s == StateBusy
}

// Backend is the opaque capability the scheduler manages. The concrete
// model/runtime code lives behind this contract and is out of scope here.
type Backend interface {
	// Load makes the backend ready to serve. It may be slow.
	Load(ctx context.Context) error
	// Unload releases the backend's resources.
	Unload() error
	// Invoke serves one request. It must honor ctx cancellation.
	Invoke(ctx context.Context, payload []byte) ([]byte, error)
	// IsReady reports whether the backend can serve right now.
	IsReady() bool
	// MemoryFootprintMB is the memory held while resident.
	MemoryFootprintMB() int
}

// Factory constructs a Backend for a descriptor on its first load.
type Factory func(desc types.BackendDescriptor) (Backend, error)

// resident is the scheduler-owned state for one loaded backend.
// The Scheduler is its only writer.
type resident struct {
	id       string
	desc     types.BackendDescriptor
	state    State
	lastUsed time.Time
	backend  Backend
	// inflight is the single in-flight invoke slot (size 1).
	inflight chan struct{}
}
