// Package observability also exposes domain-level Prometheus counters. HTTP
// traffic metrics live in the middleware package; these count what the
// requests accomplished.
package observability

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeBlocked = "blocked"
	OutcomeError   = "error"
)

var (
	// StoriesCreated counts stories successfully shared.
	StoriesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safevoice_stories_created_total",
		Help: "Stories created.",
	})

	// Reactions counts accepted reactions by type (heart|support).
	Reactions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safevoice_reactions_total",
		Help: "Reactions recorded by type.",
	}, []string{"type"})

	// Reports counts stories reported as inappropriate.
	Reports = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safevoice_reports_total",
		Help: "Story reports received.",
	})

	// AICalls counts model calls by operation (grammar|translate) and outcome.
	AICalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safevoice_ai_calls_total",
		Help: "Generative model calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	// MediaUploads counts media uploads by outcome.
	MediaUploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safevoice_media_uploads_total",
		Help: "Media uploads by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(StoriesCreated, Reactions, Reports, AICalls, MediaUploads)
}
