// Package metrics assembles the prometheus registry of an interval process
// and exports it in the node_exporter textfile collector format.
//
// interval does not listen on the network; the textfile is the only way
// its metrics leave the process.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/edygar/interval/execcmd"
	"github.com/edygar/interval/runner"
	"github.com/edygar/interval/version"
)

// NewRegistry returns a registry with all metrics of the runner, the
// command wrapper, the version info and the Go runtime.
func NewRegistry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewGoCollector())
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	runner.RegisterMetrics(r)
	execcmd.RegisterMetrics(r)
	version.PrometheusRegister(r)
	return r
}

type Textfile struct {
	path     string
	gatherer prometheus.Gatherer
}

func NewTextfile(path string, gatherer prometheus.Gatherer) *Textfile {
	return &Textfile{path: path, gatherer: gatherer}
}

// Write replaces the textfile atomically with the current metric values.
func (t *Textfile) Write() error {
	if err := prometheus.WriteToTextfile(t.path, t.gatherer); err != nil {
		return errors.Wrapf(err, "cannot write metrics to %q", t.path)
	}
	return nil
}
