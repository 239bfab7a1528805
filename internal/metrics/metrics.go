// Package metrics exposes Prometheus counters for the ledger and the
// deadline scanner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	scans         prometheus.Counter
	scanFailures  prometheus.Counter
	transitions   prometheus.Counter
	notifications *prometheus.CounterVec
	ledgerOps     *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		scans: f.NewCounter(prometheus.CounterOpts{
			Name: "lensflow_deadline_scans_total",
			Help: "Total number of deadline scans run",
		}),
		scanFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "lensflow_deadline_scan_failures_total",
			Help: "Per-project persistence failures swallowed by deadline scans",
		}),
		transitions: f.NewCounter(prometheus.CounterOpts{
			Name: "lensflow_overdue_transitions_total",
			Help: "Projects moved to overdue by deadline scans",
		}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lensflow_notifications_emitted_total",
			Help: "Notification inserts attempted by deadline scans, by kind",
		}, []string{"kind"}),
		ledgerOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lensflow_ledger_operations_total",
			Help: "Ledger operations by name and outcome",
		}, []string{"op", "outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lensflow_http_requests_total",
			Help: "HTTP requests by route pattern and status class",
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) ScanCompleted(failures int) {
	if m == nil {
		return
	}

	m.scans.Inc()
	m.scanFailures.Add(float64(failures))
}

func (m *Metrics) ProjectOverdue() {
	if m == nil {
		return
	}

	m.transitions.Inc()
}

func (m *Metrics) NotificationEmitted(kind string) {
	if m == nil {
		return
	}

	m.notifications.WithLabelValues(kind).Inc()
}

// LedgerOp records the outcome of a ledger operation.
func (m *Metrics) LedgerOp(op string, err error) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.ledgerOps.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) HTTPRequest(route, status string) {
	if m == nil {
		return
	}

	m.httpRequests.WithLabelValues(route, status).Inc()
}
