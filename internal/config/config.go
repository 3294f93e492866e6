package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/mmrzaf/seeder/internal/logging"
	"github.com/spf13/viper"
)

type Config struct {
	ProjectPath  string `mapstructure:"SEEDER_CONFIG"`
	FactoriesDir string `mapstructure:"SEEDER_FACTORIES_DIR"`
	RunsDBPath   string `mapstructure:"SEEDER_RUNS_DB"`
	LogLevel     string `mapstructure:"SEEDER_LOG_LEVEL"`
	Seed         int64  `mapstructure:"SEEDER_SEED"`
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists. Variables already set in the
// environment take precedence over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("SEEDER_CONFIG", "./seeder.yaml")
	v.SetDefault("SEEDER_FACTORIES_DIR", "")
	v.SetDefault("SEEDER_RUNS_DB", "./seeder-runs.sqlite")
	v.SetDefault("SEEDER_LOG_LEVEL", "info")
	v.SetDefault("SEEDER_SEED", 0)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ProjectPath == "" {
		return fmt.Errorf("SEEDER_CONFIG is required")
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("SEEDER_LOG_LEVEL must be one of debug, info, warn, error: %q", c.LogLevel)
	}
	return nil
}
