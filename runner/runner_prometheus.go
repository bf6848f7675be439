package runner

import "github.com/prometheus/client_golang/prometheus"

var metrics struct {
	ticks         prometheus.Counter
	spawnFailures prometheus.Counter
}

func init() {
	metrics.ticks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "interval",
		Subsystem: "runner",
		Name:      "ticks_total",
		Help:      "number of ticks, i.e. attempts to spawn the command",
	})
	metrics.spawnFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "interval",
		Subsystem: "runner",
		Name:      "spawn_failures_total",
		Help:      "number of ticks on which the command could not be started",
	})
}

func RegisterMetrics(r prometheus.Registerer) {
	r.MustRegister(metrics.ticks)
	r.MustRegister(metrics.spawnFailures)
}
