// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	IntentDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pennywise_intent_detections_total",
			Help: "Intent detection calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	IntentDetectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pennywise_intent_detection_duration_seconds",
			Help:    "Latency of the remote intent detection call",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	ExpensesLogged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pennywise_expenses_logged_total",
			Help: "Expenses persisted",
		},
	)

	SavingsGoalsSet = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pennywise_savings_goals_set_total",
			Help: "Savings goals persisted",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pennywise_http_requests_total",
			Help: "HTTP requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)
)
