package jwtmiddleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "jwks"

// PrometheusMetrics records validation and key rotation outcomes.
// It satisfies both validator.Metrics and jwks.Metrics.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	validations        *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	rotations          *prometheus.CounterVec
	keys               prometheus.Gauge
}

// NewPrometheusMetrics creates the collectors and registers them on a
// dedicated registry, exposed through Registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "validation_total",
				Help:      "Total number of token validations by result",
			},
			[]string{"result"},
		),
		validationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "validation_duration_seconds",
				Help:      "Token validation duration in seconds",
				Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
			},
			[]string{"result"},
		),
		rotations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "keystore_rotations_total",
				Help:      "Total number of key store builds and rotations by status",
			},
			[]string{"status"},
		),
		keys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "keystore_keys",
				Help:      "Number of keys in the current key store snapshot",
			},
		),
	}

	m.registry.MustRegister(m.validations, m.validationDuration, m.rotations, m.keys)

	return m
}

// Registry returns the registry holding the collectors, for use with
// promhttp.HandlerFor or as a gatherer in tests.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveValidation records one validation. code is "" on success.
func (m *PrometheusMetrics) ObserveValidation(code string, duration time.Duration) {
	result := code
	if result == "" {
		result = "ok"
	}
	m.validations.WithLabelValues(result).Inc()
	m.validationDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveRotation records one key store build or rotation and the number of
// keys in the snapshot that is current afterwards.
func (m *PrometheusMetrics) ObserveRotation(success bool, keyCount int) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.rotations.WithLabelValues(status).Inc()
	m.keys.Set(float64(keyCount))
}
