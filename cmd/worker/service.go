package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/JaimeStill/trendr/internal/api"
	"github.com/JaimeStill/trendr/internal/config"
	"github.com/JaimeStill/trendr/internal/infrastructure"
	"github.com/JaimeStill/trendr/internal/worker"
	"github.com/JaimeStill/trendr/pkg/queue"
)

// Service consumes queued tasks and runs them against the domain units.
type Service struct {
	infra    *infrastructure.Infrastructure
	consumer *queue.Worker
	metrics  *http.Server
}

func NewService(cfg *config.Config, metricsAddr string) (*Service, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	runtime := api.NewRuntime(cfg, infra, "worker")
	domain := api.NewDomain(runtime)

	router := worker.NewRouter(domain.Units, runtime.Logger)
	consumer := queue.NewWorker(infra.Queue.Client(), &cfg.Queue, router.Handle, runtime.Logger)
	consumer.Observe(worker.Observer(infra.Metrics))

	svc := &Service{
		infra:    infra,
		consumer: consumer,
	}

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", infra.Metrics.Handler())
		mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		svc.metrics = &http.Server{
			Addr:              metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	infra.Logger.Info(
		"worker initialized",
		"stream", cfg.Queue.Stream,
		"group", cfg.Queue.Group,
		"consumer", cfg.Queue.Consumer,
		"workers", cfg.Queue.Workers,
		"tasks", router.Tasks(),
		"version", cfg.Version,
	)

	return svc, nil
}

func (s *Service) Start() error {
	s.infra.Logger.Info("starting worker")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.consumer.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	if s.metrics != nil {
		s.startMetrics()
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

func (s *Service) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}

func (s *Service) startMetrics() {
	logger := s.infra.Logger.With("system", "metrics-http")
	lc := s.infra.Lifecycle

	go func() {
		logger.Info("metrics listening", "addr", s.metrics.Addr)
		if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.metrics.Shutdown(ctx); err != nil {
			logger.Error("metrics shutdown error", "error", err)
		}
	})
}
