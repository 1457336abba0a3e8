// Package metrics exposes rota validation and configuration cache counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/configcache"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

const namespace = "rota"

// Metrics holds the collectors for one process. It implements configcache.Metrics.
type Metrics struct {
	registry *prometheus.Registry

	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	cacheFallbacks    *prometheus.CounterVec
	cacheInvalidated  prometheus.Counter
	validations       *prometheus.CounterVec
	violations        *prometheus.CounterVec
	validationSeconds prometheus.Histogram
}

var _ configcache.Metrics = (*Metrics)(nil)

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config_cache",
			Name:      "hits_total",
			Help:      "Configuration reads served from the cache.",
		}, []string{"key"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config_cache",
			Name:      "misses_total",
			Help:      "Configuration reads that went to the rule store.",
		}, []string{"key"}),
		cacheFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config_cache",
			Name:      "fallbacks_total",
			Help:      "Configuration reads answered with built-in defaults after a store failure.",
		}, []string{"key"}),
		cacheInvalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config_cache",
			Name:      "invalidations_total",
			Help:      "Times the configuration cache was cleared.",
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Schedule validations run, by outcome.",
		}, []string{"result"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Constraint violations found, by severity.",
		}, []string{"severity"}),
		validationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time taken to validate a schedule.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.cacheHits,
		m.cacheMisses,
		m.cacheFallbacks,
		m.cacheInvalidated,
		m.validations,
		m.violations,
		m.validationSeconds,
	)

	return m
}

func (m *Metrics) CacheHit(key configcache.Key) {
	m.cacheHits.WithLabelValues(keyLabel(key)).Inc()
}

func (m *Metrics) CacheMiss(key configcache.Key) {
	m.cacheMisses.WithLabelValues(keyLabel(key)).Inc()
}

func (m *Metrics) CacheFallback(key configcache.Key) {
	m.cacheFallbacks.WithLabelValues(keyLabel(key)).Inc()
}

func (m *Metrics) CacheInvalidated() {
	m.cacheInvalidated.Inc()
}

// ObserveReport records the outcome of one validation run
func (m *Metrics) ObserveReport(report *validation.Report, elapsed time.Duration) {
	result := "invalid"
	if report.Valid {
		result = "valid"
	}
	m.validations.WithLabelValues(result).Inc()
	m.validationSeconds.Observe(elapsed.Seconds())

	for severity, count := range report.Summary.BySeverity {
		m.violations.WithLabelValues(string(severity)).Add(float64(count))
	}
}

// ObserveFailure records a validation that could not run
func (m *Metrics) ObserveFailure() {
	m.validations.WithLabelValues("error").Inc()
}

// Handler serves the registered metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving metrics", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve metrics: %w", err)
	}
	return nil
}

// keyLabel folds the per-month keys into one label value to keep cardinality bounded
func keyLabel(key configcache.Key) string {
	if configcache.IsMonthlyKey(key) {
		return "monthly_limits"
	}
	return string(key)
}
