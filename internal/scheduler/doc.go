// Package scheduler keeps a fleet of swappable backends resident within a
// fixed memory budget, swapping them according to the declared operating
// context. It is structured into small files by concern:
//
//   - scheduler.go: core Scheduler type, constructor, simple getters.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - types.go: Backend contract, lifecycle states, resident bookkeeping.
//   - budget.go: memory accounting (Reserve/Release/CanFit).
//   - admission.go: target-set computation per context.
//   - evict.go: two-pass eviction policy and watermark rebalance.
//   - load.go / unload.go: resident lifecycle transitions.
//   - context.go: SetContext orchestration.
//   - serve.go / fallback.go: serve resolution, invoke, fallback chain.
//   - errors.go: error types and helpers (IsNotFound, IsTimeout, ...).
//   - status.go: Status reporting.
//   - events.go: lifecycle event publishing.
//   - metrics.go: prometheus instrumentation.
//
// All mutating operations (Load, Unload, SetContext, eviction) are
// serialized through a single operation mutex; two concurrent callers can
// therefore never evict-then-load past the budget together. Serve reads
// resident state without that mutex on the fast path and invokes backends
// entirely outside the locks.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New/NewWithConfig, SetContext, Serve, Load,
// Unload, Status, Ready). Internal types are subject to change.
package scheduler
