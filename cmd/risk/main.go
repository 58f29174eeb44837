package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/flight-weather-risk/internal/adapter/awc"
	httpadapter "github.com/couchcryptid/flight-weather-risk/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flight-weather-risk/internal/adapter/kafka"
	"github.com/couchcryptid/flight-weather-risk/internal/config"
	"github.com/couchcryptid/flight-weather-risk/internal/observability"
	"github.com/couchcryptid/flight-weather-risk/internal/pipeline"
)

// alwaysReady is the readiness checker when the Kafka pipeline is disabled
// and the service only answers HTTP evaluations.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	tables, err := config.LoadWeightTables(cfg.RiskWeightsFile)
	if err != nil {
		logger.Error("failed to load risk weights", "error", err, "path", cfg.RiskWeightsFile)
		os.Exit(1)
	}
	if cfg.RiskWeightsFile != "" {
		logger.Info("risk weights loaded", "path", cfg.RiskWeightsFile)
	}

	client := awc.NewClient(cfg.AWCBaseURL, cfg.AWCTimeout, metrics, logger)
	source := awc.NewCachedSource(client, awc.NewMemoryCache(nil), cfg.WeatherCacheTTL, cfg.HazardCacheTTL, metrics)
	evaluator := pipeline.NewEvaluator(source, tables, nil, metrics, logger, pipeline.EvaluatorConfig{
		MetarLookbackHours: cfg.MetarLookbackHours,
		PirepRadiusNM:      cfg.PirepRadiusNM,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		ready  sharedobs.ReadinessChecker = alwaysReady{}
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
		done   = make(chan struct{})
	)
	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(evaluator, logger)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p

		go func() {
			defer close(done)
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		close(done)
		logger.Info("kafka pipeline disabled, serving HTTP evaluations only")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, evaluator, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
