package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/absmach/fedsim/simulation"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const pathEnv = ".env"

type envConfig struct {
	LogLevel         string   `env:"FEDSIM_LOG_LEVEL"          envDefault:"info"`
	MetricsAddress   string   `env:"FEDSIM_METRICS_ADDRESS"    envDefault:""`
	ModelName        string   `env:"FEDSIM_MODEL_NAME"         envDefault:"linear"`
	GlobalRounds     int      `env:"FEDSIM_GLOBAL_ROUNDS"      envDefault:"10"`
	NumClients       int      `env:"FEDSIM_NUM_CLIENTS"        envDefault:"100"`
	SampleRatio      float64  `env:"FEDSIM_SAMPLE_RATIO"       envDefault:"0.1"`
	BatchSize        int      `env:"FEDSIM_BATCH_SIZE"         envDefault:"32"`
	Seed             uint64   `env:"FEDSIM_SEED"               envDefault:"42"`
	Features         int      `env:"FEDSIM_FEATURES"           envDefault:"8"`
	SamplesPerClient int      `env:"FEDSIM_SAMPLES_PER_CLIENT" envDefault:"200"`
	TestSamples      int      `env:"FEDSIM_TEST_SAMPLES"       envDefault:"1000"`
	Mode             string   `env:"FEDSIM_TRAINER_MODE"       envDefault:"serial"`
	Epochs           int      `env:"FEDSIM_EPOCHS"             envDefault:"5"`
	TrainBatchSize   int      `env:"FEDSIM_TRAIN_BATCH_SIZE"   envDefault:"32"`
	LearningRate     float64  `env:"FEDSIM_LEARNING_RATE"      envDefault:"0.01"`
	NumParallels     int      `env:"FEDSIM_NUM_PARALLELS"      envDefault:"4"`
	ShareDir         string   `env:"FEDSIM_SHARE_DIR"          envDefault:"/tmp/fedsim/share"`
	StateDir         string   `env:"FEDSIM_STATE_DIR"          envDefault:"/tmp/fedsim/state"`
	Devices          []string `env:"FEDSIM_DEVICES"            envDefault:"cpu"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration: %s", err.Error())
	}

	if err := simulation.StartSimulation(ctx, cancel, simulation.Config{
		LogLevel:         cfg.LogLevel,
		MetricsAddress:   cfg.MetricsAddress,
		ModelName:        cfg.ModelName,
		GlobalRounds:     cfg.GlobalRounds,
		NumClients:       cfg.NumClients,
		SampleRatio:      cfg.SampleRatio,
		BatchSize:        cfg.BatchSize,
		Seed:             cfg.Seed,
		Features:         cfg.Features,
		SamplesPerClient: cfg.SamplesPerClient,
		TestSamples:      cfg.TestSamples,
		Mode:             cfg.Mode,
		Epochs:           cfg.Epochs,
		TrainBatchSize:   cfg.TrainBatchSize,
		LearningRate:     cfg.LearningRate,
		NumParallels:     cfg.NumParallels,
		ShareDir:         cfg.ShareDir,
		StateDir:         cfg.StateDir,
		Devices:          cfg.Devices,
	}); err != nil {
		log.Fatalf("simulation failed: %s", err.Error())
	}
}
