package matcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ontograph_matcher_requests_total",
			Help: "Total number of match requests by serving backend",
		},
		[]string{"backend"},
	)
	fallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ontograph_matcher_fallbacks_total",
			Help: "Total number of requests that fell back to the secondary backend",
		},
	)
	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ontograph_matcher_matches_total",
			Help: "Total number of term matches emitted",
		},
	)
)
