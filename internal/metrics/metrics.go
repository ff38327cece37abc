// Package metrics exposes a Prometheus /metrics endpoint over the core's
// event bus and tick loop. This is ambient observability SPEC_FULL.md §6.7
// adds on top of spec.md; it never mutates core state, only observes it.
package metrics

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/latticevm/latticevm/internal/chem"
)

// Collectors bundles the gauges/counters this package registers, so
// callers that need direct access (tests, alternate exporters) don't have
// to reach into the default registry by name.
type Collectors struct {
	Ticks       prometheus.Counter
	VMPoolSize  prometheus.Gauge
	DotsSet     prometheus.Counter
	DotsMoved   prometheus.Counter
	EnergySpent prometheus.Counter
}

// Attach registers the collectors below against reg (pass
// prometheus.DefaultRegisterer in production, a fresh prometheus.NewRegistry()
// in tests that call Attach more than once per process) and wires them to
// core's event bus and tick loop. It does not start an HTTP server by
// itself; call Serve separately once Config.MetricsAddr is known to be
// non-empty.
func Attach(core *chem.Core, reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	c := &Collectors{
		Ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "chem_ticks_total",
			Help: "Total number of core tick loop iterations.",
		}),
		VMPoolSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "chem_vm_pool_size",
			Help: "Current number of live VMs.",
		}),
		DotsSet: factory.NewCounter(prometheus.CounterOpts{
			Name: "chem_dots_set_total",
			Help: "Total number of SET_DOT events observed.",
		}),
		DotsMoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "chem_dots_moved_total",
			Help: "Total number of MOVE_DOT events observed.",
		}),
		EnergySpent: factory.NewCounter(prometheus.CounterOpts{
			Name: "chem_vm_energy_spent_total",
			Help: "Total absolute energy delta summed across mov/fix/spl/if/job operations.",
		}),
	}

	core.OnTick(func(cur *chem.Core) {
		c.Ticks.Inc()
		c.VMPoolSize.Set(float64(cur.VMCount()))
	})
	core.Subscribe(chem.EventSetDot, func(chem.EventParam) { c.DotsSet.Inc() })
	core.Subscribe(chem.EventMoveDot, func(chem.EventParam) { c.DotsMoved.Inc() })
	core.OnEnergySpent(func(delta int64) {
		if delta < 0 {
			delta = -delta
		}
		c.EnergySpent.Add(float64(delta))
	})
	return c
}

// Serve starts a /metrics HTTP server on addr. It blocks; callers run it in
// its own goroutine. A nil/empty addr is the caller's signal to skip
// calling Serve at all (SPEC_FULL.md §6.7: MetricsAddr == "" disables it).
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	glog.Infof("metrics: serving /metrics on %s", addr)
	return http.ListenAndServe(addr, mux)
}
