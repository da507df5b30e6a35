package scheduler

import "sync"

// budgetTracker is pure accounting of used vs. limit memory. A limit of 0
// means unbudgeted: every reservation succeeds.
type budgetTracker struct {
	mu    sync.Mutex
	used  int
	limit int
}

func newBudgetTracker(limitMB int) *budgetTracker {
	if limitMB < 0 {
		limitMB = 0
	}
	return &budgetTracker{limit: limitMB}
}

// Reserve atomically claims amountMB if it fits. Every successful Reserve
// must be paired with exactly one Release.
func (b *budgetTracker) Reserve(amountMB int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.limit > 0 && b.used+amountMB > b.limit {
		return false
	}
	b.used += amountMB
	return true
}

// Release returns amountMB to the budget, clamped at zero.
func (b *budgetTracker) Release(amountMB int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.used -= amountMB
	if b.used < 0 {
		b.used = 0
	}
}

// CanFit is a non-mutating check.
func (b *budgetTracker) CanFit(amountMB int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.limit <= 0 || b.used+amountMB <= b.limit
}

// Used returns the currently reserved amount in MB.
func (b *budgetTracker) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Limit returns the budget ceiling in MB (0 = unbudgeted).
func (b *budgetTracker) Limit() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.limit
}
