// Package pipeline drives a federated averaging run: sample, dispatch,
// collect, aggregate, until the coordinator signals completion.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/0x6flab/namegenerator"
	"github.com/absmach/fedsim/handler"
	"github.com/absmach/fedsim/pkg/records"
	"github.com/absmach/fedsim/trainer"
	"github.com/google/uuid"
)

var namegen = namegenerator.NewGenerator()

// Pipeline ties a coordinator to a client executor and runs rounds to
// completion from a single thread of control.
type Pipeline struct {
	runID   string
	runName string
	handler handler.Service
	trainer trainer.Trainer
	store   records.Store
	logger  *slog.Logger
}

func New(h handler.Service, t trainer.Trainer, store records.Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		runID:   uuid.NewString(),
		runName: namegen.Generate(),
		handler: h,
		trainer: t,
		store:   store,
		logger:  logger,
	}
}

// RunID returns the unique id of this run.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Run executes rounds until the coordinator reports the run is complete.
// A failed round aborts the run with the round state untouched.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("Starting run",
		slog.String("run_id", p.runID),
		slog.String("run_name", p.runName),
	)

	for !p.handler.IfStop() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runRound(ctx); err != nil {
			return fmt.Errorf("round %d failed: %w", p.handler.Round(), err)
		}
	}

	p.logger.Info("Run completed",
		slog.String("run_id", p.runID),
		slog.Int("rounds", p.handler.Round()),
	)

	return nil
}

func (p *Pipeline) runRound(ctx context.Context) error {
	cids := p.handler.SampleClients()
	payload := p.handler.DownlinkPackage()

	if err := p.trainer.LocalProcess(ctx, payload, cids); err != nil {
		return err
	}

	uplinks := p.trainer.UplinkPackages()
	totalSamples := 0
	done := false
	for _, pkg := range uplinks {
		totalSamples += pkg.NumSamples
		d, err := p.handler.Load(pkg)
		if err != nil {
			return err
		}
		done = d
	}
	if !done {
		return fmt.Errorf("collected %d updates for %d sampled clients", len(uplinks), len(cids))
	}

	summary, err := p.handler.GetSummary(ctx)
	if err != nil {
		return err
	}

	return p.store.Append(records.Record{
		RunID:        p.runID,
		Round:        p.handler.Round(),
		NumUpdates:   len(uplinks),
		TotalSamples: totalSamples,
		Summary:      summary,
		CompletedAt:  time.Now(),
	})
}
