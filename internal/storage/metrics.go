package storage

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var opDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "retailhub_storage_op_duration_seconds",
	Help:    "Latency of session storage operations by driver and operation",
	Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
}, []string{"driver", "op"})

// Instrumented records operation latency for the wrapped KV.
type Instrumented struct {
	KV
	driver string
}

// NewInstrumented wraps kv, labelling its metrics with driver.
func NewInstrumented(kv KV, driver string) *Instrumented {
	return &Instrumented{KV: kv, driver: driver}
}

func (i *Instrumented) observe(op string, start time.Time) {
	opDuration.WithLabelValues(i.driver, op).Observe(time.Since(start).Seconds())
}

func (i *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	defer i.observe("get", time.Now())
	return i.KV.Get(ctx, key)
}

func (i *Instrumented) Put(ctx context.Context, key string, value []byte) error {
	defer i.observe("put", time.Now())
	return i.KV.Put(ctx, key, value)
}

func (i *Instrumented) Delete(ctx context.Context, key string) error {
	defer i.observe("delete", time.Now())
	return i.KV.Delete(ctx, key)
}
