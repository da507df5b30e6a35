package types

import "encoding/json"

// ServeRequest asks the scheduler to route a payload to a backend.
// Exactly one of Backend or Context is normally set; when both are empty the
// scheduler falls back to its default context.
type ServeRequest struct {
	// Backend pins the request to an explicit backend id.
	Backend string `json:"backend,omitempty"`
	// Context selects the admission set used to pick a backend.
	Context string `json:"context,omitempty"`
	// Payload is passed to the backend verbatim.
	Payload json.RawMessage `json:"payload"`
	// TimeoutMs bounds the invoke; 0 uses the scheduler default.
	TimeoutMs int `json:"timeout_ms,omitempty"`
}

// ServeAttempt records one failed hop of a fallback chain.
type ServeAttempt struct {
	// BackendID is the backend that was tried.
	BackendID string `json:"backend_id"`
	// Reason is the failure reported by that backend.
	Reason string `json:"reason"`
}

// ServeResponse is the result of a successful serve.
type ServeResponse struct {
	// BackendID is the backend that produced the payload.
	BackendID string `json:"backend_id"`
	// RequestID correlates logs and activity entries.
	RequestID string `json:"request_id"`
	// Payload is the backend's raw response.
	Payload json.RawMessage `json:"payload"`
	// Attempts lists earlier failed hops when the fallback chain was taken.
	Attempts []ServeAttempt `json:"attempts,omitempty"`
}

// SwitchRequest declares the operating context via POST /context.
type SwitchRequest struct {
	Context string `json:"context"`
}

// SwitchResult reports what a context switch did.
type SwitchResult struct {
	// OpID identifies the switch operation in logs.
	OpID string `json:"op_id"`
	// Context is the tag that was applied.
	Context string `json:"context"`
	// LoadedIDs are backends loaded by this switch, in load order.
	LoadedIDs []string `json:"loaded_ids"`
	// EvictedIDs are backends evicted by the watermark rebalance.
	EvictedIDs []string `json:"evicted_ids"`
	// Errors maps backend id to the load failure it hit; the switch
	// continues past individual failures.
	Errors map[string]string `json:"errors,omitempty"`
}

// ResidentStatus summarizes one resident backend for GET /status.
type ResidentStatus struct {
	ID string `json:"id"`
	// State is the lifecycle state (unloaded, loading, ready, busy, error).
	State string `json:"state"`
	Priority     int `json:"priority"`
	MemoryCostMB int `json:"memory_cost_mb"`
	// LastUsed is the last serve touch in unix seconds.
	LastUsed int64 `json:"last_used_unix"`
	// Inflight is the number of invokes currently running (0 or 1).
	Inflight int `json:"inflight"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// LimitMB is the memory budget; 0 means unbudgeted.
	LimitMB int `json:"limit_mb"`
	// UsedMB is the memory held by resident backends.
	UsedMB    int              `json:"used_mb"`
	Residents []ResidentStatus `json:"residents"`
	// LastContext is the most recently applied context tag.
	LastContext string `json:"last_context,omitempty"`
	// ContextHistory holds recent context tags, oldest first.
	ContextHistory []string `json:"context_history,omitempty"`
	LoadsTotal        uint64 `json:"loads_total"`
	LoadFailuresTotal uint64 `json:"load_failures_total"`
	EvictionsTotal    uint64 `json:"evictions_total"`
	FallbacksTotal    uint64 `json:"fallbacks_total"`
	ServesTotal       uint64 `json:"serves_total"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
	ServerTimeUnix    int64  `json:"server_time_unix"`
}

// DescriptorsResponse wraps the descriptor catalog returned by GET /backends.
type DescriptorsResponse struct {
	Backends []BackendDescriptor `json:"backends"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
