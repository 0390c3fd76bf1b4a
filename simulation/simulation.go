// Package simulation wires a complete federated averaging run from
// configuration: dataset, model, coordinator, executor, and pipeline.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/absmach/fedsim/handler"
	"github.com/absmach/fedsim/handler/middleware"
	"github.com/absmach/fedsim/pipeline"
	"github.com/absmach/fedsim/pkg/dataset"
	"github.com/absmach/fedsim/pkg/fl"
	"github.com/absmach/fedsim/pkg/model"
	"github.com/absmach/fedsim/pkg/records"
	"github.com/absmach/fedsim/trainer"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const (
	ModeSerial   = "serial"
	ModeParallel = "parallel"

	svcName = "fedsim"
)

// Config carries everything needed to start a run.
type Config struct {
	LogLevel         string
	MetricsAddress   string
	ModelName        string
	GlobalRounds     int
	NumClients       int
	SampleRatio      float64
	BatchSize        int
	Seed             uint64
	Features         int
	SamplesPerClient int
	TestSamples      int
	Mode             string
	Epochs           int
	TrainBatchSize   int
	LearningRate     float64
	NumParallels     int
	ShareDir         string
	StateDir         string
	Devices          []string
}

// StartSimulation runs one federated averaging simulation to completion.
func StartSimulation(ctx context.Context, cancel context.CancelFunc, cfg Config) error {
	g, ctx := errgroup.WithContext(ctx)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	ds, err := dataset.NewSynthetic(dataset.SyntheticConfig{
		NumClients:       cfg.NumClients,
		SamplesPerClient: cfg.SamplesPerClient,
		TestSamples:      cfg.TestSamples,
		Features:         cfg.Features,
		Seed:             cfg.Seed,
	})
	if err != nil {
		return fmt.Errorf("failed to build dataset: %w", err)
	}

	selector := model.NewSelector(cfg.Features)
	routine := model.NewSGDRoutine()

	svc, err := handler.New(handler.Config{
		ModelName:    cfg.ModelName,
		GlobalRounds: cfg.GlobalRounds,
		NumClients:   cfg.NumClients,
		SampleRatio:  cfg.SampleRatio,
		BatchSize:    cfg.BatchSize,
		Seed:         cfg.Seed,
	}, selector, ds, routine)
	if err != nil {
		return fmt.Errorf("failed to build handler: %w", err)
	}

	counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: svcName,
		Subsystem: "handler",
		Name:      "request_count",
		Help:      "Number of coordinator operations.",
	}, []string{"method"})
	latency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace: svcName,
		Subsystem: "handler",
		Name:      "request_latency_seconds",
		Help:      "Coordinator operation latency.",
	}, []string{"method"})

	svc = middleware.Logging(logger, svc)
	svc = middleware.Metrics(counter, latency, svc)

	hyper := fl.Hyperparams{
		Epochs:       cfg.Epochs,
		BatchSize:    cfg.TrainBatchSize,
		LearningRate: cfg.LearningRate,
	}

	var tr trainer.Trainer
	switch cfg.Mode {
	case ModeSerial, "":
		tr, err = trainer.NewSerial(trainer.SerialConfig{
			ModelName:   cfg.ModelName,
			Seed:        cfg.Seed,
			Device:      "cpu",
			Hyperparams: hyper,
		}, selector, ds, routine)
	case ModeParallel:
		tr, err = trainer.NewParallel(trainer.ParallelConfig{
			ModelName:    cfg.ModelName,
			ShareDir:     cfg.ShareDir,
			StateDir:     cfg.StateDir,
			Seed:         cfg.Seed,
			NumParallels: cfg.NumParallels,
			Devices:      cfg.Devices,
			Hyperparams:  hyper,
		}, selector, ds, routine)
	default:
		return fmt.Errorf("unknown trainer mode %q", cfg.Mode)
	}
	if err != nil {
		return fmt.Errorf("failed to build trainer: %w", err)
	}

	store := records.NewInMemoryStore()
	p := pipeline.New(svc, tr, store, logger)

	if cfg.MetricsAddress != "" {
		server := &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			return server.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		if err := p.Run(ctx); err != nil {
			return err
		}
		record, err := store.Latest()
		if err != nil {
			return err
		}
		logger.Info("Final round summary",
			slog.String("run_id", record.RunID),
			slog.Int("round", record.Round),
			slog.Any("summary", record.Summary),
		)

		return nil
	})

	return g.Wait()
}
