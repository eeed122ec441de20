// Package metrics exposes simulation counters in Prometheus format.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sqlsim/internal/util"
)

const namespace = "sqlsim"

// Metrics holds the collectors for one run. Each run owns its registry so
// tests can build several without duplicate registration.
type Metrics struct {
	Registry     *prometheus.Registry
	Operations   *prometheus.CounterVec
	EngineErrors *prometheus.CounterVec
	Mismatches   prometheus.Counter
	Skipped      prometheus.Counter
	ShadowRows   prometheus.Gauge
	ShadowTables prometheus.Gauge
	Duration     *prometheus.HistogramVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operations submitted to the engine, by kind.",
		}, []string{"kind"}),
		EngineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_errors_total",
			Help:      "Statements the engine rejected, by error code.",
		}, []string{"code"}),
		Mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mismatches_total",
			Help:      "Statements whose engine result differed from the shadow model.",
		}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_steps_total",
			Help:      "Steps where no operation could be generated.",
		}),
		ShadowRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shadow_rows",
			Help:      "Rows currently held by the shadow model.",
		}),
		ShadowTables: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shadow_tables",
			Help:      "Tables currently held by the shadow model.",
		}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "statement_seconds",
			Help:      "Engine statement latency, by kind.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.Operations, m.EngineErrors, m.Mismatches, m.Skipped,
		m.ShadowRows, m.ShadowTables, m.Duration,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Serve exposes /metrics on listen until ctx is done. An empty listen
// address disables the endpoint.
func (m *Metrics) Serve(ctx context.Context, listen string) error {
	if listen == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	util.Infof("metrics listening on %s", listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "metrics server")
	}
	return nil
}
