// Package metrics exposes Prometheus instrumentation for the swipe pipeline,
// group formation, recommendations and chat.
//
// Metrics are registered with the default registry on import and served by
// promhttp at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SwipesTotal counts recorded decisions by outcome.
	SwipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bubbl_swipes_total",
			Help: "Total swipe decisions recorded",
		},
		[]string{"decision"},
	)

	// RepairedChoicesTotal counts unrecognized choices treated as "no".
	RepairedChoicesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bubbl_repaired_choices_total",
			Help: "Swipe choices that were not recognized and defaulted to no",
		},
	)

	// PendingRepeatsTotal counts "yes" swipes from users already waiting for a group.
	PendingRepeatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bubbl_pending_repeats_total",
			Help: "Yes swipes on events the user is already waiting on",
		},
	)

	// GroupsFormedTotal counts groups created.
	GroupsFormedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bubbl_groups_formed_total",
			Help: "Total groups formed",
		},
	)

	// GroupSize records how many members each new group received.
	GroupSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bubbl_group_size",
			Help:    "Members per newly formed group",
			Buckets: []float64{2, 3, 4, 5, 6, 8, 10, 15, 20},
		},
	)

	// FormationRetriesTotal counts transaction retries after storage conflicts.
	FormationRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bubbl_formation_retries_total",
			Help: "Swipe transactions retried after a storage conflict",
		},
	)

	// RecommendDuration records scorer latency by mode (cold_start, hybrid).
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bubbl_recommend_duration_seconds",
			Help:    "Recommendation scoring latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"mode"},
	)

	// MessagesTotal counts chat messages appended.
	MessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bubbl_messages_total",
			Help: "Total group chat messages appended",
		},
	)

	// RateLimitedTotal counts requests rejected by the per-user rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bubbl_rate_limited_total",
			Help: "Requests rejected by the per-user rate limiter",
		},
		[]string{"procedure"},
	)
)

// RecordSwipe increments the swipe counter for a decision ("yes" or "no").
func RecordSwipe(decision string) {
	SwipesTotal.WithLabelValues(decision).Inc()
}

// RecordRepairedChoice increments the repaired choice counter.
func RecordRepairedChoice() {
	RepairedChoicesTotal.Inc()
}

// RecordPendingRepeat increments the already-pending counter.
func RecordPendingRepeat() {
	PendingRepeatsTotal.Inc()
}

// RecordGroupFormed records a new group and its size.
func RecordGroupFormed(members int) {
	GroupsFormedTotal.Inc()
	GroupSize.Observe(float64(members))
}

// RecordFormationRetry increments the retry counter.
func RecordFormationRetry() {
	FormationRetriesTotal.Inc()
}

// ObserveRecommend records how long a recommendation took.
func ObserveRecommend(mode string, start time.Time) {
	RecommendDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}

// RecordMessage increments the message counter.
func RecordMessage() {
	MessagesTotal.Inc()
}

// RecordRateLimited increments the rate-limited counter for a procedure.
func RecordRateLimited(procedure string) {
	RateLimitedTotal.WithLabelValues(procedure).Inc()
}
