package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActivitySignups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_signups_total",
			Help: "Total number of successful activity signups",
		},
		[]string{"activity"},
	)

	ActivityUnregistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_unregistrations_total",
			Help: "Total number of successful activity unregistrations",
		},
		[]string{"activity"},
	)

	ParticipationRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_participation_rejected_total",
			Help: "Signup and unregister requests refused by the registry",
		},
		[]string{"operation", "reason"},
	)

	ParticipationEventsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "activity_participation_events_failed_total",
			Help: "Participation events that could not be published",
		},
	)

	ParticipationEventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_participation_events_consumed_total",
			Help: "Participation events read by the audit consumer, by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
