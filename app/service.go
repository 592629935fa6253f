package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apischedule "github.com/voltsched/greencharge/api/schedule"
	"github.com/voltsched/greencharge/config"
	"github.com/voltsched/greencharge/core/carbon"
	coreschedule "github.com/voltsched/greencharge/core/schedule"
	"github.com/voltsched/greencharge/infra/forecast"
	"github.com/voltsched/greencharge/infra/logger"
	"github.com/voltsched/greencharge/infra/metrics"
	"github.com/voltsched/greencharge/infra/mqtt"
	"github.com/voltsched/greencharge/internal/eventbus"
)

// Service wires the scheduler, forecast source, metrics and transports.
type Service struct {
	Scheduler *coreschedule.Scheduler

	cfg    *config.Config
	bus    eventbus.EventBus
	log    logger.Logger
	store  *forecast.Store
	poller *forecast.Client
	pub    mqtt.Publisher
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	svc := &Service{cfg: cfg, log: logg, bus: eventbus.New()}
	source, err := svc.forecastSource()
	if err != nil {
		return nil, err
	}

	start, end := cfg.OffPeak.Window()
	svc.Scheduler = coreschedule.New(start, end, source, logger.New("scheduler"))

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.pub = pub
	}
	return svc, nil
}

func (s *Service) forecastSource() (coreschedule.ForecastSource, error) {
	cfg := s.cfg.Carbon
	period := time.Duration(cfg.PeriodDays) * 24 * time.Hour
	switch cfg.Source {
	case "file":
		series, err := forecast.LoadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		series.Period = period
		return coreschedule.StaticSeries(series), nil
	case "sqlite", "api":
		store, err := forecast.NewStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open forecast cache: %w", err)
		}
		s.store = store
		if cfg.Source == "api" {
			s.poller = forecast.NewClient(cfg.URL, time.Duration(cfg.PollIntervalSeconds)*time.Second, store)
		}
		return periodSource{store: store, period: period}, nil
	default:
		return nil, fmt.Errorf("unknown carbon source %q", cfg.Source)
	}
}

// periodSource stamps the configured repetition period onto series loaded
// from the cache.
type periodSource struct {
	store  *forecast.Store
	period time.Duration
}

func (p periodSource) Series(ctx context.Context) (carbon.Series, error) {
	series, err := p.store.Series(ctx)
	if err != nil {
		return carbon.Series{}, err
	}
	series.Period = p.period
	return series, nil
}

// Run starts the HTTP API, the metrics server and the feed poller, then
// blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	sink, err := metrics.NewSinks(s.cfg.Metrics)
	if err != nil {
		return fmt.Errorf("metrics sinks: %w", err)
	}
	metrics.StartCollector(ctx, s.bus, sink, logger.New("collector"))

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.pub != nil {
		s.forwardPlans(ctx)
	}
	if s.poller != nil {
		go func() {
			if err := s.poller.Start(ctx); err != nil {
				s.log.Errorf("forecast poller: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.Handle("/api/schedule", apischedule.NewHandler(s.Scheduler, s.bus, logger.New("api")))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// forwardPlans delivers computed plans from the event bus to the MQTT
// publisher until the context is cancelled.
func (s *Service) forwardPlans(ctx context.Context) {
	sub := s.bus.Subscribe()
	go func() {
		defer s.bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if pc, ok := ev.(coreschedule.PlanComputed); ok {
					if err := s.pub.PublishPlan(pc.VehicleID, pc.Plan); err != nil {
						s.log.Errorf("publish plan %s: %v", pc.Plan.ID, err)
					}
				}
			}
		}
	}()
}

// Publisher returns the configured plan publisher, or nil when MQTT is
// disabled.
func (s *Service) Publisher() mqtt.Publisher { return s.pub }

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.pub != nil {
		s.pub.Close()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
