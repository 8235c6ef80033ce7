package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	suggestRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hiroi_suggest_requests_total",
		Help: "Suggest requests served, by field.",
	}, []string{"field"})

	suggestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "hiroi_suggest_duration_seconds",
		Help: "Time spent answering suggest requests.",
	})
)
