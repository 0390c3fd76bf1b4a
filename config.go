package fedsim

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Trainer    TrainerConfig    `toml:"trainer"`
}

type SimulationConfig struct {
	ModelName        string  `toml:"model_name"`
	GlobalRounds     int     `toml:"global_rounds"`
	NumClients       int     `toml:"num_clients"`
	SampleRatio      float64 `toml:"sample_ratio"`
	BatchSize        int     `toml:"batch_size"`
	Seed             int64   `toml:"seed"`
	Features         int     `toml:"features"`
	SamplesPerClient int     `toml:"samples_per_client"`
	TestSamples      int     `toml:"test_samples"`
}

type TrainerConfig struct {
	Mode         string   `toml:"mode"`
	Epochs       int      `toml:"epochs"`
	BatchSize    int      `toml:"batch_size"`
	LearningRate float64  `toml:"learning_rate"`
	NumParallels int      `toml:"num_parallels"`
	ShareDir     string   `toml:"share_dir"`
	StateDir     string   `toml:"state_dir"`
	Devices      []string `toml:"devices"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
