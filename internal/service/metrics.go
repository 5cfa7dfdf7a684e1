package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	statsCalls         *prometheus.CounterVec
	statsLatency       *prometheus.HistogramVec
	predictions        *prometheus.CounterVec
	predictionDuration prometheus.Histogram
	playerFailures     *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		statsCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boxscore_stats_api_requests_total",
			Help: "stats.nba.com requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		statsLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "boxscore_stats_api_request_seconds",
			Help:    "stats.nba.com request latency",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"endpoint"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boxscore_predictions_total",
			Help: "matchup predictions by model and stat",
		}, []string{"model", "stat"}),
		predictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "boxscore_prediction_seconds",
			Help:    "end to end matchup prediction latency",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		playerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boxscore_player_skipped_total",
			Help: "players left out of a team total, by reason",
		}, []string{"reason"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boxscore_cache_lookups_total",
			Help: "player data cache lookups",
		}, []string{"kind", "result"}),
	}

	m.registry.MustRegister(
		m.statsCalls, m.statsLatency, m.predictions,
		m.predictionDuration, m.playerFailures, m.cacheLookups,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStatsCall implements statsapi.Observer
func (m *Metrics) ObserveStatsCall(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.statsCalls.WithLabelValues(endpoint, outcome).Inc()
	m.statsLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) observePrediction(model, stat string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(model, stat).Inc()
	m.predictionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) playerSkipped(reason string) {
	if m == nil {
		return
	}
	m.playerFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) cacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(kind, result).Inc()
}
