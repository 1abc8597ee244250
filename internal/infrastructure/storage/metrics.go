package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports asset pipeline counters to Prometheus. A nil *Metrics is a no-op.
type Metrics struct {
	uploads         *prometheus.CounterVec
	uploadDuration  *prometheus.HistogramVec
	uploadBytes     *prometheus.CounterVec
	fallbacks       prometheus.Counter
	cleanupFailures *prometheus.CounterVec
}

// NewMetrics registers the storage collectors on reg (DefaultRegisterer when nil).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkdrop",
			Subsystem: "storage",
			Name:      "uploads_total",
			Help:      "Asset uploads by backend and result.",
		}, []string{"backend", "result"}),
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inkdrop",
			Subsystem: "storage",
			Name:      "upload_duration_seconds",
			Help:      "Latency of asset uploads per backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend"}),
		uploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkdrop",
			Subsystem: "storage",
			Name:      "uploaded_bytes_total",
			Help:      "Bytes successfully written per backend.",
		}, []string{"backend"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inkdrop",
			Subsystem: "storage",
			Name:      "fallbacks_total",
			Help:      "Uploads that needed the fallback backend.",
		}),
		cleanupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkdrop",
			Name:      "cleanup_failures_total",
			Help:      "Remote asset deletions that failed during book cleanup.",
		}, []string{"backend", "kind"}),
	}

	if err := register(reg, &m.uploads); err != nil {
		return nil, err
	}
	if err := register(reg, &m.uploadDuration); err != nil {
		return nil, err
	}
	if err := register(reg, &m.uploadBytes); err != nil {
		return nil, err
	}
	if err := register(reg, &m.fallbacks); err != nil {
		return nil, err
	}
	if err := register(reg, &m.cleanupFailures); err != nil {
		return nil, err
	}
	return m, nil
}

// register registers *c, swapping in the existing collector when it is
// already registered so several containers can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c *C) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				*c = existing
				return nil
			}
		}
		return fmt.Errorf("register storage metric: %w", err)
	}
	return nil
}

func (m *Metrics) RecordUpload(backend string, size int, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.uploadDuration.WithLabelValues(backend).Observe(took.Seconds())
	if err != nil {
		m.uploads.WithLabelValues(backend, "error").Inc()
		return
	}
	m.uploads.WithLabelValues(backend, "ok").Inc()
	m.uploadBytes.WithLabelValues(backend).Add(float64(size))
}

func (m *Metrics) RecordFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

func (m *Metrics) RecordCleanupFailure(backend string, kind ResourceKind) {
	if m == nil {
		return
	}
	m.cleanupFailures.WithLabelValues(backend, string(kind)).Inc()
}
