package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/voltsched/greencharge/core/metrics"
)

// PromSink records plan events in Prometheus metrics.
type PromSink struct {
	plans     *prometheus.CounterVec
	scheduled prometheus.Histogram
	shortfall prometheus.Histogram
}

// NewPromSink registers plan metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "charging_plans_total",
		Help: "Total number of computed charging plans",
	}, []string{"outcome"})
	scheduled := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "charging_plan_scheduled_minutes",
		Help:    "Total scheduled charging minutes per plan",
		Buckets: []float64{30, 60, 120, 240, 360, 480, 720},
	})
	shortfall := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "charging_plan_shortfall_minutes",
		Help:    "Requested minutes that could not be placed inside the window",
		Buckets: []float64{0, 15, 30, 60, 120, 240},
	})

	if err := reg.Register(plans); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			plans = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(scheduled); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			scheduled = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(shortfall); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			shortfall = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{plans: plans, scheduled: scheduled, shortfall: shortfall}, nil
}

// RecordPlan increments the plan counter and observes the durations.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(string(ev.Outcome)).Inc()
	s.scheduled.Observe(ev.Scheduled.Minutes())
	s.shortfall.Observe((ev.Requested - ev.Scheduled).Minutes())
	return nil
}

// StartPromServer serves the Prometheus scrape endpoint on the given port
// until the context is cancelled.
func StartPromServer(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
