package verification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	destinationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retailhub_verification_destination_total",
		Help: "Verification runs by resulting destination",
	}, []string{"destination"})

	checkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retailhub_verification_check_failures_total",
		Help: "Failed verification checks by step (status, data, locations)",
	}, []string{"step"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "retailhub_verification_duration_seconds",
		Help:    "Duration of a full verification run",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})
)
