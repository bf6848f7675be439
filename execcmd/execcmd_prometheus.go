package execcmd

import (
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var metrics struct {
	totaltime  *prometheus.HistogramVec
	systemtime *prometheus.HistogramVec
	usertime   *prometheus.HistogramVec
	starts     *prometheus.CounterVec
	exits      *prometheus.CounterVec
}

var timeLabels = []string{"program"}
var timeBuckets = []float64{0.01, 0.1, 0.2, 0.5, 0.75, 1, 2, 5, 10, 60, 300}

func init() {
	metrics.totaltime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interval",
		Subsystem: "execcmd",
		Name:      "runtime_seconds",
		Help:      "number of seconds that the command took from start until wait returned",
		Buckets:   timeBuckets,
	}, timeLabels)
	metrics.systemtime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interval",
		Subsystem: "execcmd",
		Name:      "systemtime_seconds",
		Help:      "https://golang.org/pkg/os/#ProcessState.SystemTime",
		Buckets:   timeBuckets,
	}, timeLabels)
	metrics.usertime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interval",
		Subsystem: "execcmd",
		Name:      "usertime_seconds",
		Help:      "https://golang.org/pkg/os/#ProcessState.UserTime",
		Buckets:   timeBuckets,
	}, timeLabels)
	metrics.starts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interval",
		Subsystem: "execcmd",
		Name:      "starts_total",
		Help:      "number of attempts to start a command, by outcome",
	}, []string{"program", "outcome"})
	metrics.exits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interval",
		Subsystem: "execcmd",
		Name:      "exits_total",
		Help:      "number of command exits by exit code (-1 if killed by a signal)",
	}, []string{"program", "code"})
}

func RegisterMetrics(r prometheus.Registerer) {
	r.MustRegister(metrics.totaltime)
	r.MustRegister(metrics.systemtime)
	r.MustRegister(metrics.usertime)
	r.MustRegister(metrics.starts)
	r.MustRegister(metrics.exits)
}

// full paths would blow up label cardinality across installations
func programLabel(c *Cmd) string {
	return filepath.Base(c.Program())
}

func startPostPrometheus(c *Cmd, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.starts.WithLabelValues(programLabel(c), outcome).Inc()
}

func waitPostPrometheus(c *Cmd, u usage) {
	program := programLabel(c)

	metrics.totaltime.WithLabelValues(program).Observe(u.totalSecs)
	if u.systemSecs >= 0 {
		metrics.systemtime.WithLabelValues(program).Observe(u.systemSecs)
	}
	if u.userSecs >= 0 {
		metrics.usertime.WithLabelValues(program).Observe(u.userSecs)
	}
	metrics.exits.WithLabelValues(program, strconv.Itoa(u.exitCode)).Inc()
}
