package scheduler

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsMetric = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schedd",
		Subsystem: "scheduler",
		Name:      "loads_total",
		Help:      "Total number of successful backend loads",
	})

	loadFailuresMetric = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schedd",
		Subsystem: "scheduler",
		Name:      "load_failures_total",
		Help:      "Total number of failed backend loads (including insufficient memory)",
	})

	evictionsMetric = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schedd",
		Subsystem: "scheduler",
		Name:      "evictions_total",
		Help:      "Total number of backends evicted to free memory",
	})

	fallbackAttemptsMetric = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schedd",
		Subsystem: "scheduler",
		Name:      "fallback_attempts_total",
		Help:      "Total number of fallback-chain hops taken after a serve failure",
	})

	servesMetric = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "schedd",
		Subsystem: "scheduler",
		Name:      "serves_total",
		Help:      "Total number of serve requests",
	}, []string{"outcome"})

	residentsMetric = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "schedd",
		Subsystem: "scheduler",
		Name:      "resident_backends",
		Help:      "Number of backends currently resident",
	})

	usedMemoryMetric = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "schedd",
		Subsystem: "scheduler",
		Name:      "used_memory_mb",
		Help:      "Memory currently reserved by resident backends in MB",
	})
)

func init() {
	prometheus.MustRegister(loadsMetric, loadFailuresMetric, evictionsMetric,
		fallbackAttemptsMetric, servesMetric, residentsMetric, usedMemoryMetric)
}
