package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lending"

// LendingMetrics holds the Prometheus collectors for the lending engine
type LendingMetrics struct {
	LoansCreated  prometheus.Counter
	LoansDeclined *prometheus.CounterVec
	LoansClosed   prometheus.Counter
	OverdueLoans  prometheus.Gauge
}

// NewLendingMetrics creates the collectors and registers them on reg
func NewLendingMetrics(reg prometheus.Registerer) *LendingMetrics {
	m := &LendingMetrics{
		LoansCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loans_created_total",
			Help:      "Number of loans created.",
		}),
		LoansDeclined: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loans_declined_total",
			Help:      "Number of loan requests declined, by reason.",
		}, []string{"reason"}),
		LoansClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loans_closed_total",
			Help:      "Number of loans marked returned.",
		}),
		OverdueLoans: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overdue_loans",
			Help:      "Unreturned loans past their return date at the last sweep.",
		}),
	}

	reg.MustRegister(m.LoansCreated, m.LoansDeclined, m.LoansClosed, m.OverdueLoans)
	return m
}
