package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mvo_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mvo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CreditsSpentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mvo_credits_spent_total",
			Help: "Total credits deducted from user ledgers.",
		},
	)

	CreditRefusalsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mvo_credit_refusals_total",
			Help: "Total authorizations refused for insufficient credits.",
		},
	)

	VotesToggledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mvo_votes_toggled_total",
			Help: "Total vote toggles by vote type.",
		},
		[]string{"type"},
	)

	AnalysesRequestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mvo_analyses_requested_total",
			Help: "Total AI analysis requests by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		CreditsSpentTotal,
		CreditRefusalsTotal,
		VotesToggledTotal,
		AnalysesRequestedTotal,
	)
}
