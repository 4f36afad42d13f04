// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is used by the ledger, the authorization gate and the item
// service to report what they did.
type Recorder interface {
	MovementRecorded(movementType string, duration time.Duration)
	MovementFailed(reason string)
	AuthRejected(reason string)
	NonLedgerChange()
}

// Collector records metrics in Prometheus.
type Collector struct {
	movements       *prometheus.CounterVec
	movementLatency prometheus.Histogram
	movementFail    *prometheus.CounterVec
	authRejected    *prometheus.CounterVec
	nonLedger       prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invtrack_movements_recorded_total",
			Help: "Stock movements committed, by transaction type.",
		}, []string{"type"}),
		movementLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "invtrack_movement_duration_seconds",
			Help:    "Duration of committed stock movement units of work.",
			Buckets: prometheus.DefBuckets,
		}),
		movementFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invtrack_movements_failed_total",
			Help: "Stock movements rolled back or rejected, by reason.",
		}, []string{"reason"}),
		authRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invtrack_auth_rejected_total",
			Help: "Requests rejected by the authorization gate, by reason.",
		}, []string{"reason"}),
		nonLedger: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invtrack_non_ledger_quantity_changes_total",
			Help: "Item quantity changes written outside the stock ledger.",
		}),
	}

	reg.MustRegister(
		c.movements,
		c.movementLatency,
		c.movementFail,
		c.authRejected,
		c.nonLedger,
	)

	return c
}

// MovementRecorded records a committed movement.
func (c *Collector) MovementRecorded(movementType string, duration time.Duration) {
	c.movements.WithLabelValues(movementType).Inc()
	c.movementLatency.Observe(duration.Seconds())
}

// MovementFailed records a movement that did not commit.
func (c *Collector) MovementFailed(reason string) {
	c.movementFail.WithLabelValues(reason).Inc()
}

// AuthRejected records a rejected request.
func (c *Collector) AuthRejected(reason string) {
	c.authRejected.WithLabelValues(reason).Inc()
}

// NonLedgerChange records a direct quantity overwrite.
func (c *Collector) NonLedgerChange() {
	c.nonLedger.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type discard struct{}

// Discard is a Recorder that drops everything.
var Discard Recorder = discard{}

func (discard) MovementRecorded(string, time.Duration) {}
func (discard) MovementFailed(string)                  {}
func (discard) AuthRejected(string)                    {}
func (discard) NonLedgerChange()                       {}
