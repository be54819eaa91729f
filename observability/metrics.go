package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "api_authorizer"

// Fetch outcomes used as the "outcome" label on KeySetFetchDuration.
const (
	FetchOutcomeSuccess = "success"
	FetchOutcomeError   = "error"
)

var (
	// Decisions tracks rendered access decisions by effect.
	Decisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Total number of access decisions by effect",
		},
		[]string{"effect"},
	)

	// Denials tracks denied requests by failure kind.
	Denials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "denials_total",
			Help:      "Total number of denied requests by failure reason",
		},
		[]string{"reason"},
	)

	// KeySetFetchDuration tracks key set fetch latency by outcome.
	KeySetFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "keyset_fetch_duration_seconds",
			Help:      "Latency of key set fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

// RecordDecision records a rendered decision.
func RecordDecision(effect string) {
	Decisions.WithLabelValues(effect).Inc()
}

// RecordDenial records the failure reason behind a Deny decision.
func RecordDenial(reason string) {
	Denials.WithLabelValues(reason).Inc()
}

// ObserveKeySetFetch records the duration of one key set fetch.
func ObserveKeySetFetch(d time.Duration, err error) {
	outcome := FetchOutcomeSuccess
	if err != nil {
		outcome = FetchOutcomeError
	}
	KeySetFetchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
