package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptvault_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PromptInteractions counts view/copy calls and whether they moved a counter.
	PromptInteractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptvault_prompt_interactions_total",
		Help: "Prompt view and copy requests by kind and whether they were counted",
	}, []string{"kind", "counted"})

	// RatingsSubmitted counts accepted rating submissions.
	RatingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptvault_ratings_submitted_total",
		Help: "Total number of accepted rating submissions",
	})

	// FavoriteToggles counts favorite toggles by resulting state.
	FavoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptvault_favorite_toggles_total",
		Help: "Favorite toggles by resulting state",
	}, []string{"state"})

	// AssistRequests counts text-generation calls by operation and outcome.
	AssistRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptvault_assist_requests_total",
		Help: "Text assistance requests by operation and outcome",
	}, []string{"operation", "outcome"})

	// CacheLookups counts cache-aside lookups by result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptvault_cache_lookups_total",
		Help: "Cache-aside lookups by result (hit, miss, bypass)",
	}, []string{"result"})
)

// RecordInteraction records a view or copy request.
func RecordInteraction(kind string, counted bool) {
	PromptInteractions.WithLabelValues(kind, strconv.FormatBool(counted)).Inc()
}

// RecordFavoriteToggle records the state a favorite toggle ended in.
func RecordFavoriteToggle(favorited bool) {
	state := "removed"
	if favorited {
		state = "added"
	}
	FavoriteToggles.WithLabelValues(state).Inc()
}
