package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/fedsim/handler"
	"github.com/absmach/fedsim/pkg/fl"
)

var _ handler.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    handler.Service
}

func Logging(logger *slog.Logger, svc handler.Service) handler.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) SampleClients() (cids []int) {
	defer func(begin time.Time) {
		lm.logger.Info("Sample clients completed successfully",
			slog.String("duration", time.Since(begin).String()),
			slog.Int("num_sampled", len(cids)),
		)
	}(time.Now())

	return lm.svc.SampleClients()
}

func (lm *loggingMiddleware) IfStop() bool {
	return lm.svc.IfStop()
}

func (lm *loggingMiddleware) Load(payload fl.UplinkPackage) (done bool, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("payload",
				slog.Int("num_samples", payload.NumSamples),
				slog.Int("dim", len(payload.Parameters)),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Load update failed", args...)

			return
		}
		if done {
			args = append(args, slog.Int("round", lm.svc.Round()))
			lm.logger.Info("Round aggregated successfully", args...)
		}
	}(time.Now())

	return lm.svc.Load(payload)
}

func (lm *loggingMiddleware) DownlinkPackage() fl.DownlinkPackage {
	return lm.svc.DownlinkPackage()
}

func (lm *loggingMiddleware) GetSummary(ctx context.Context) (summary map[string]float64, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("round", lm.svc.Round()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get summary failed", args...)

			return
		}
		for k, v := range summary {
			args = append(args, slog.Float64(k, v))
		}
		lm.logger.Info("Get summary completed successfully", args...)
	}(time.Now())

	return lm.svc.GetSummary(ctx)
}

func (lm *loggingMiddleware) Round() int {
	return lm.svc.Round()
}
