package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	intervalVersion string // set by build infrastructure
)

type IntervalVersionInformation struct {
	Version         string
	RuntimeGo       string
	RuntimeGOOS     string
	RuntimeGOARCH   string
	RUNTIMECompiler string
}

func NewIntervalVersionInformation() *IntervalVersionInformation {
	return &IntervalVersionInformation{
		Version:         Version(),
		RuntimeGo:       runtime.Version(),
		RuntimeGOOS:     runtime.GOOS,
		RuntimeGOARCH:   runtime.GOARCH,
		RUNTIMECompiler: runtime.Compiler,
	}
}

// Version is the linker-provided version, else the module version
// recorded by `go install`, else "(devel)".
func Version() string {
	if intervalVersion != "" {
		return intervalVersion
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

func (i *IntervalVersionInformation) String() string {
	return fmt.Sprintf("interval version=%s go=%s GOOS=%s GOARCH=%s Compiler=%s",
		i.Version, i.RuntimeGo, i.RuntimeGOOS, i.RuntimeGOARCH, i.RUNTIMECompiler)
}

var prometheusMetric = prometheus.NewGaugeFunc(
	prometheus.GaugeOpts{
		Namespace: "interval",
		Subsystem: "version",
		Name:      "info",
		Help:      "interval version information, value is always 1",
		ConstLabels: map[string]string{
			"raw":          Version(),
			"version_info": NewIntervalVersionInformation().String(),
		},
	},
	func() float64 { return 1 },
)

func PrometheusRegister(r prometheus.Registerer) {
	r.MustRegister(prometheusMetric)
}
