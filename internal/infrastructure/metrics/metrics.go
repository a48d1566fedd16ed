// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Grouping outcomes
const (
	OutcomeLLM      = "llm"
	OutcomeCache    = "cache"
	OutcomeFallback = "fallback"
)

// Fallback reasons
const (
	ReasonMalformed = "malformed"
	ReasonTransport = "transport"
)

var (
	CommentsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civic",
		Subsystem: "comments",
		Name:      "received_total",
		Help:      "Comments submitted, split by whether they survived sanitization.",
	}, []string{"accepted"})

	Groupings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civic",
		Subsystem: "comments",
		Name:      "groupings_total",
		Help:      "Comment groupings by source.",
	}, []string{"outcome"})

	GroupingFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civic",
		Subsystem: "comments",
		Name:      "grouping_fallbacks_total",
		Help:      "Fallback groupings, by whether the model answer was unusable or the call failed.",
	}, []string{"reason"})

	LLMDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "civic",
		Subsystem: "comments",
		Name:      "llm_request_duration_seconds",
		Help:      "Latency of chat completion calls.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	})

	Detections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civic",
		Subsystem: "detection",
		Name:      "results_total",
		Help:      "Classified uploads by result status.",
	}, []string{"status"})

	DetectionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civic",
		Subsystem: "detection",
		Name:      "failures_total",
		Help:      "Detection requests that failed, by stage.",
	}, []string{"stage"})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "civic",
		Subsystem: "detection",
		Name:      "inference_duration_seconds",
		Help:      "Latency of a single forward pass.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend"})
)
