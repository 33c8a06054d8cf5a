package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retailhub_gateway_refresh_total",
		Help: "Credential refresh calls by result (success, rejected, error)",
	}, []string{"result"})

	refreshWaiters = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "retailhub_gateway_refresh_waiters",
		Help:    "Number of requests released by a single refresh",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	})

	replayTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retailhub_gateway_replay_total",
		Help: "Requests replayed after a 401 by reason (refreshed, stale_token) and final status class",
	}, []string{"reason", "outcome"})
)
