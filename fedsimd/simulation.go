// Package fedsimd exposes simulation lifecycle commands for the daemon CLI.
package fedsimd

import (
	"context"

	"github.com/absmach/fedsim"
	"github.com/absmach/fedsim/simulation"
	"github.com/spf13/cobra"
)

var configPath string

var simulationCmd = []cobra.Command{
	{
		Use:   "start",
		Short: "Start simulation",
		Long:  `Start a federated averaging simulation run.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := simulation.Config{
				LogLevel:         "info",
				ModelName:        "linear",
				GlobalRounds:     10,
				NumClients:       100,
				SampleRatio:      0.1,
				BatchSize:        32,
				Seed:             42,
				Features:         8,
				SamplesPerClient: 200,
				TestSamples:      1000,
				Mode:             simulation.ModeSerial,
				Epochs:           5,
				TrainBatchSize:   32,
				LearningRate:     0.01,
				NumParallels:     4,
				ShareDir:         "/tmp/fedsim/share",
				StateDir:         "/tmp/fedsim/state",
				Devices:          []string{"cpu"},
			}
			if configPath != "" {
				fileCfg, err := fedsim.LoadConfig(configPath)
				if err != nil {
					cmd.PrintErrf("failed to load config: %s", err.Error())

					return
				}
				applyFileConfig(&cfg, fileCfg)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			if err := simulation.StartSimulation(ctx, cancel, cfg); err != nil {
				cmd.PrintErrf("failed to start simulation: %s", err.Error())
			}
			cancel()
		},
	},
}

func applyFileConfig(cfg *simulation.Config, file *fedsim.Config) {
	sim := file.Simulation
	if sim.ModelName != "" {
		cfg.ModelName = sim.ModelName
	}
	if sim.GlobalRounds > 0 {
		cfg.GlobalRounds = sim.GlobalRounds
	}
	if sim.NumClients > 0 {
		cfg.NumClients = sim.NumClients
	}
	if sim.SampleRatio > 0 {
		cfg.SampleRatio = sim.SampleRatio
	}
	if sim.BatchSize > 0 {
		cfg.BatchSize = sim.BatchSize
	}
	if sim.Seed > 0 {
		cfg.Seed = uint64(sim.Seed)
	}
	if sim.Features > 0 {
		cfg.Features = sim.Features
	}
	if sim.SamplesPerClient > 0 {
		cfg.SamplesPerClient = sim.SamplesPerClient
	}
	if sim.TestSamples > 0 {
		cfg.TestSamples = sim.TestSamples
	}

	tr := file.Trainer
	if tr.Mode != "" {
		cfg.Mode = tr.Mode
	}
	if tr.Epochs > 0 {
		cfg.Epochs = tr.Epochs
	}
	if tr.BatchSize > 0 {
		cfg.TrainBatchSize = tr.BatchSize
	}
	if tr.LearningRate > 0 {
		cfg.LearningRate = tr.LearningRate
	}
	if tr.NumParallels > 0 {
		cfg.NumParallels = tr.NumParallels
	}
	if tr.ShareDir != "" {
		cfg.ShareDir = tr.ShareDir
	}
	if tr.StateDir != "" {
		cfg.StateDir = tr.StateDir
	}
	if len(tr.Devices) > 0 {
		cfg.Devices = tr.Devices
	}
}

// NewSimulationCmd returns the simulation command tree.
func NewSimulationCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "simulation [start]",
		Short: "Simulation management",
		Long:  `Run federated averaging simulations.`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	for i := range simulationCmd {
		cmd.AddCommand(&simulationCmd[i])
	}

	return &cmd
}
