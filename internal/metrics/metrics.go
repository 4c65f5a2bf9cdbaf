// Package metrics exposes Prometheus counters for the request gate and for
// admin writes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WriteRecorder is used by the application services after each admin write.
type WriteRecorder interface {
	RecordWrite(entity, op string, err error)
}

type Collector struct {
	gateDecisions *prometheus.CounterVec
	roleLookup    *prometheus.HistogramVec
	adminWrites   *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portofolio_gate_decisions_total",
			Help: "Edge gate decisions by outcome and reason.",
		}, []string{"outcome", "reason"}),
		roleLookup: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portofolio_role_lookup_seconds",
			Help:    "Role lookup latency by result.",
			Buckets: prometheus.DefBuckets,
		}, []string{"result"}),
		adminWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portofolio_admin_writes_total",
			Help: "Admin writes by entity, operation and result.",
		}, []string{"entity", "op", "result"}),
	}
	reg.MustRegister(c.gateDecisions, c.roleLookup, c.adminWrites)
	return c
}

func (c *Collector) RecordDecision(outcome, reason string) {
	c.gateDecisions.WithLabelValues(outcome, reason).Inc()
}

func (c *Collector) ObserveRoleLookup(result string, d time.Duration) {
	c.roleLookup.WithLabelValues(result).Observe(d.Seconds())
}

func (c *Collector) RecordWrite(entity, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.adminWrites.WithLabelValues(entity, op, result).Inc()
}

// Handler serves the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards writes. Used when metrics are disabled.
type Nop struct{}

func (Nop) RecordWrite(string, string, error) {}
