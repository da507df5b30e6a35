package scheduler

import (
	"time"

	"github.com/rs/zerolog"

	"schedd/internal/registry"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultServeTimeout     = 30 * time.Second
	defaultDrainTimeout     = 5 * time.Second
	defaultHighWatermarkPct = 80
	defaultLowWatermarkPct  = 60
	defaultHistorySize      = 32
)

// Config encapsulates all tunables for Scheduler construction.
type Config struct {
	Registry *registry.Registry
	Factory  Factory
	// BudgetMB is the memory ceiling across all residents (0 = unbudgeted).
	BudgetMB int
	// HighWatermarkPct triggers the post-switch rebalance when used memory
	// exceeds this share of the budget.
	HighWatermarkPct int
	// LowWatermarkPct is the rebalance target.
	LowWatermarkPct int
	// DefaultContext is used by Serve when the request names neither a
	// backend nor a context.
	DefaultContext string
	// ServeTimeout bounds an invoke when the request carries no timeout.
	ServeTimeout time.Duration
	// DrainTimeout bounds the wait for in-flight work during Unload.
	DrainTimeout time.Duration
	// HistorySize bounds the retained context history.
	HistorySize int
	Publisher   EventPublisher
	Logger      *zerolog.Logger
}

// NewWithConfig constructs a Scheduler from Config.
func NewWithConfig(cfg Config) *Scheduler {
	reg := cfg.Registry
	if reg == nil {
		reg = registry.New()
	}
	s := &Scheduler{
		registry:       reg,
		factory:        cfg.Factory,
		budget:         newBudgetTracker(cfg.BudgetMB),
		residents:      make(map[string]*resident),
		defaultContext: cfg.DefaultContext,
		startTime:      time.Now(),
	}
	if cfg.HighWatermarkPct <= 0 {
		s.highPct = defaultHighWatermarkPct
	} else {
		s.highPct = cfg.HighWatermarkPct
	}
	if cfg.LowWatermarkPct <= 0 {
		s.lowPct = defaultLowWatermarkPct
	} else {
		s.lowPct = cfg.LowWatermarkPct
	}
	if s.lowPct > s.highPct {
		s.lowPct = s.highPct
	}
	if cfg.ServeTimeout <= 0 {
		s.serveTimeout = defaultServeTimeout
	} else {
		s.serveTimeout = cfg.ServeTimeout
	}
	if cfg.DrainTimeout <= 0 {
		s.drainTimeout = defaultDrainTimeout
	} else {
		s.drainTimeout = cfg.DrainTimeout
	}
	if cfg.HistorySize <= 0 {
		s.historySize = defaultHistorySize
	} else {
		s.historySize = cfg.HistorySize
	}
	if cfg.Publisher == nil {
		s.publisher = noopPublisher{}
	} else {
		s.publisher = cfg.Publisher
	}
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		s.log = nop
	} else {
		s.log = *cfg.Logger
	}
	return s
}

// New constructs a Scheduler with defaults for everything but the essentials.
func New(reg *registry.Registry, factory Factory, budgetMB int) *Scheduler {
	return NewWithConfig(Config{Registry: reg, Factory: factory, BudgetMB: budgetMB})
}
