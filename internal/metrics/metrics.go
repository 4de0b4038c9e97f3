package metrics

import "github.com/prometheus/client_golang/prometheus"

// Agent Prometheus metrics.
var (
	ChatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jurislens",
			Name:      "chat_turns_total",
			Help:      "Total number of chat turns processed",
		},
		[]string{"status"},
	)

	ToolInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jurislens",
			Name:      "tool_invocations_total",
			Help:      "Total number of tool invocations",
		},
		[]string{"tool", "status"},
	)

	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jurislens",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"tool"},
	)

	RetrievalFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jurislens",
			Name:      "retrieval_fallbacks_total",
			Help:      "Regulation searches answered without remote results",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(ChatTurnsTotal)
	prometheus.MustRegister(ToolInvocationsTotal)
	prometheus.MustRegister(ToolDuration)
	prometheus.MustRegister(RetrievalFallbacksTotal)
}
