package metrics

import "github.com/prometheus/client_golang/prometheus"

// AI provider Prometheus metrics, shared by the embedding and generation
// clients. The "kind" label is "embedding" or "generation".
var (
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "infohunter",
			Name:      "ai_requests_total",
			Help:      "Total number of AI provider requests",
		},
		[]string{"kind", "model", "status"},
	)

	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "infohunter",
			Name:      "ai_request_duration_seconds",
			Help:      "AI provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind", "model"},
	)

	AITokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "infohunter",
			Name:      "ai_tokens_total",
			Help:      "Total AI provider tokens consumed",
		},
		[]string{"kind", "model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "infohunter",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RateLimitWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "infohunter",
			Name:      "generation_rate_limit_wait_seconds",
			Help:      "Time spent waiting for a generation rate limit slot",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30, 60},
		},
	)
)

var aiMetricsRegistered bool

// RegisterAIMetrics registers AI provider metrics. Must be called once from main.
func RegisterAIMetrics() {
	if aiMetricsRegistered {
		return
	}
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(AITokensTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(RateLimitWaitDuration)
	aiMetricsRegistered = true
}
