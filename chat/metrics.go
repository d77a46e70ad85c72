package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazaar",
			Name:      "chat_turns_total",
			Help:      "Total conversational turns by outcome",
		},
		[]string{"outcome"}, // "reply", "fallback", "welcome", "empty_query", "catalog_error"
	)

	turnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bazaar",
			Name:      "chat_turn_duration_seconds",
			Help:      "Duration of conversational turns in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazaar",
			Name:      "llm_calls_total",
			Help:      "Total chat model calls",
		},
		[]string{"status"},
	)

	llmDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bazaar",
			Name:      "llm_duration_seconds",
			Help:      "Duration of chat model calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
	)

	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazaar",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations requested by the model",
		},
		[]string{"tool", "status"},
	)

	searchResultsCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bazaar",
			Name:      "search_results_count",
			Help:      "Number of listings returned per search",
			Buckets:   []float64{0, 1, 2, 3},
		},
	)

	degradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazaar",
			Name:      "degraded_total",
			Help:      "Optional enhancements skipped or replaced after a provider failure",
		},
		[]string{"stage"}, // "transcription", "image", "inference", "speech", "escalation"
	)

	escalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazaar",
			Name:      "escalations_total",
			Help:      "Escalation tickets filed by category",
		},
		[]string{"category"},
	)
)
