// Package metrics holds the prometheus collectors exported by the points API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "points"

// Spend outcome labels
const (
	SpendResultOK           = "ok"
	SpendResultInvalid      = "invalid_amount"
	SpendResultInsufficient = "insufficient_points"
)

// Metrics groups every collector so a test can register them on its own registry.
type Metrics struct {
	TransactionsRecorded prometheus.Counter
	PointsEarned         prometheus.Counter
	PointsCorrected      prometheus.Counter
	Spends               *prometheus.CounterVec
	PointsSpent          prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_recorded_total",
			Help:      "Total transactions appended to the ledger.",
		}),
		PointsEarned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "points_earned_total",
			Help:      "Total points added by positive transactions.",
		}),
		PointsCorrected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "points_corrected_total",
			Help:      "Total points removed by negative correction transactions.",
		}),
		Spends: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "spends_total",
			Help:      "Spend requests by result.",
		}, []string{"result"}),
		PointsSpent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "points_spent_total",
			Help:      "Total points deducted by successful spends.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}
