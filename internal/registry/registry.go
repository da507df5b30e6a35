package registry

import (
	"sync"

	"schedd/pkg/types"
)

// Registry is the catalog of backend descriptors. Registration order is
// preserved because it breaks priority ties during admission.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]types.BackendDescriptor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[string]types.BackendDescriptor)}
}

// Register adds a descriptor to the catalog. It fails with a duplicate-id
// error if the id exists and with a cycle error if adding the descriptor
// would close a fallback loop. No partial state is left on failure.
func (r *Registry) Register(d types.BackendDescriptor) error {
	if d.ID == "" {
		return ErrInvalidDescriptor("empty id")
	}
	if d.MemoryCostMB <= 0 {
		return ErrInvalidDescriptor("memory cost must be positive: " + d.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[d.ID]; exists {
		return ErrDuplicateID(d.ID)
	}
	if r.closesCycle(d) {
		return ErrCycleDetected(d.ID)
	}
	r.byID[d.ID] = d
	r.order = append(r.order, d.ID)
	return nil
}

// closesCycle walks the fallback chain starting at d through the already
// registered descriptors. Any new cycle must pass through d, so reaching
// d.ID again proves one. Dangling fallback references end the walk; they are
// allowed because descriptors may be registered in any order.
// Caller must hold r.mu.
func (r *Registry) closesCycle(d types.BackendDescriptor) bool {
	next := d.FallbackID
	for hops := 0; hops <= len(r.byID) && next != ""; hops++ {
		if next == d.ID {
			return true
		}
		cur, ok := r.byID[next]
		if !ok {
			return false
		}
		next = cur.FallbackID
	}
	return false
}

// Lookup returns the descriptor for id and whether it is registered.
func (r *Registry) Lookup(id string) (types.BackendDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	return d, ok
}

// Enumerate returns all descriptors in stable registration order.
func (r *Registry) Enumerate() []types.BackendDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.BackendDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
