package middleware

import (
	"context"
	"time"

	"github.com/absmach/fedsim/handler"
	"github.com/absmach/fedsim/pkg/fl"
	"github.com/go-kit/kit/metrics"
)

var _ handler.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     handler.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc handler.Service) handler.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) SampleClients() []int {
	defer func(begin time.Time) {
		mm.counter.With("method", "sample-clients").Add(1)
		mm.latency.With("method", "sample-clients").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.SampleClients()
}

func (mm *metricsMiddleware) IfStop() bool {
	return mm.svc.IfStop()
}

func (mm *metricsMiddleware) Load(payload fl.UplinkPackage) (bool, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "load").Add(1)
		mm.latency.With("method", "load").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Load(payload)
}

func (mm *metricsMiddleware) DownlinkPackage() fl.DownlinkPackage {
	defer func(begin time.Time) {
		mm.counter.With("method", "downlink-package").Add(1)
		mm.latency.With("method", "downlink-package").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.DownlinkPackage()
}

func (mm *metricsMiddleware) GetSummary(ctx context.Context) (map[string]float64, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-summary").Add(1)
		mm.latency.With("method", "get-summary").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetSummary(ctx)
}

func (mm *metricsMiddleware) Round() int {
	return mm.svc.Round()
}
