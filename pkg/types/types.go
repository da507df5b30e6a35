package types

// TriggerAlways is the wildcard context trigger: a descriptor carrying it is
// wanted in every operating context.
const TriggerAlways = "always"

// PriorityPinned is the reserved priority sentinel marking a backend as
// pinned. Pinned backends are never selected as eviction victims and
// explicit unloads are refused.
const PriorityPinned = 1<<31 - 1

// BackendDescriptor is the static catalog entry for a swappable backend.
type BackendDescriptor struct {
	// ID is the unique backend identifier.
	ID string `json:"id" yaml:"id" toml:"id"`
	// MemoryCostMB is the memory the backend occupies while resident.
	MemoryCostMB int `json:"memory_cost_mb" yaml:"memory_cost_mb" toml:"memory_cost_mb"`
	// Priority orders admission and protects against eviction; higher wins.
	// PriorityPinned marks the backend as never-evict.
	Priority int `json:"priority" yaml:"priority" toml:"priority"`
	// ContextTriggers lists the context tags this backend serves.
	// May contain TriggerAlways.
	ContextTriggers []string `json:"context_triggers,omitempty" yaml:"context_triggers" toml:"context_triggers"`
	// Required backends are kept resident regardless of context.
	Required bool `json:"required,omitempty" yaml:"required" toml:"required"`
	// Capabilities are free-form tags for callers; the scheduler never
	// interprets them.
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities" toml:"capabilities"`
	// FallbackID names the backend tried when this one fails to serve.
	FallbackID string `json:"fallback_id,omitempty" yaml:"fallback_id" toml:"fallback_id"`
	// Endpoint is the upstream URL used by the HTTP backend adapter.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint" toml:"endpoint"`
}

// Pinned reports whether the descriptor carries the pinned priority sentinel.
func (d BackendDescriptor) Pinned() bool { return d.Priority == PriorityPinned }

// TriggeredBy reports whether the descriptor reacts to the given context tag,
// either directly or via the always wildcard.
func (d BackendDescriptor) TriggeredBy(tag string) bool {
	for _, t := range d.ContextTriggers {
		if t == tag || t == TriggerAlways {
			return true
		}
	}
	return false
}

// AlwaysOn reports whether the descriptor must stay resident in every
// context: required descriptors and always-triggered ones.
func (d BackendDescriptor) AlwaysOn() bool {
	if d.Required {
		return true
	}
	for _, t := range d.ContextTriggers {
		if t == TriggerAlways {
			return true
		}
	}
	return false
}
