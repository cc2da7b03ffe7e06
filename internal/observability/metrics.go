// Package observability provides metrics and tracing for the moderation
// service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsScored counts scored submissions by entity kind and risk band.
	SubmissionsScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reclaim_submissions_scored_total",
		Help: "Total number of submissions scored, by entity kind and risk band",
	}, []string{"kind", "band"})

	// Transitions counts workflow transitions by kind, action and outcome.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reclaim_transitions_total",
		Help: "Total number of moderation transitions attempted",
	}, []string{"kind", "action", "outcome"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reclaim_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
