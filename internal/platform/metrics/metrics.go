// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes the Prometheus instruments used across the server.

Instruments are registered once on the default registry (promauto) and are
scraped through [Handler] at /metrics.

Families:

  - HTTP: request count and latency labelled by chi route pattern.
  - Recommend: completion attempts, rate-limit hits, pipeline outcomes.
  - Social: reactions and live subscribers.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// # HTTP

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bolgeo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bolgeo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.025, 0.1, 0.25, 1, 2.5, 5, 15, 30, 60},
		},
		[]string{"method", "route"},
	)
)

// # Recommend

var (
	CompletionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bolgeo_completion_attempts_total",
			Help: "Completion requests sent to the language model, by result",
		},
		[]string{"result"}, // "ok", "rate_limited", "error", "breaker_open"
	)

	RecommendOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bolgeo_recommend_outcomes_total",
			Help: "Recommendation pipeline outcomes",
		},
		[]string{"outcome"}, // "ok", "transport_error", "malformed", "rate_limited"
	)

	RecommendWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bolgeo_recommend_warnings_total",
			Help: "Soft validation warnings raised on recommendation results",
		},
		[]string{"kind"},
	)
)

// # Social

var (
	ReactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bolgeo_reactions_total",
			Help: "Reactions recorded on feedback",
		},
		[]string{"type"},
	)

	LiveSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bolgeo_live_subscribers",
			Help: "Currently connected live feedback subscribers",
		},
	)
)

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCompletionAttempt records a single upstream call.
func RecordCompletionAttempt(result string) {
	CompletionAttempts.WithLabelValues(result).Inc()
}

// RecordRecommendOutcome records the final state of a pipeline run.
func RecordRecommendOutcome(outcome string) {
	RecommendOutcomes.WithLabelValues(outcome).Inc()
}

// RecordRecommendWarning records a soft validation warning.
func RecordRecommendWarning(kind string) {
	RecommendWarnings.WithLabelValues(kind).Inc()
}

// RecordReaction records an accepted reaction.
func RecordReaction(reactionType string) {
	ReactionsTotal.WithLabelValues(reactionType).Inc()
}

// TrackLiveSubscriber moves the live subscriber gauge up or down.
func TrackLiveSubscriber(connected bool) {
	if connected {
		LiveSubscribers.Inc()
		return
	}
	LiveSubscribers.Dec()
}
