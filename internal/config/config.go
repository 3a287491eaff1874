// Package config handles application configuration loading and validation.
//
// Configuration starts from built-in defaults, is overlaid by an optional
// YAML file, then by environment variables (a .env file is honored), and is
// validated with struct tags before use.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/transitsim/pathfinder/internal/pathfinder"
)

// Config holds all the configuration settings for the application: the
// network port the server listens on, the operating environment, the worker
// identity and trace output location, and the search parameters handed to
// the engine.
type Config struct {
	Port      int      `yaml:"port" validate:"gt=0,lte=65535"`
	Env       string   `yaml:"env" validate:"oneof=development staging production test"`
	OutputDir string   `yaml:"outputDir"`
	WorkerID  int      `yaml:"workerId" validate:"gte=0"`
	APIKeys   []string `yaml:"apiKeys"`

	Pathfinder pathfinder.Parameters `yaml:"pathfinder"`
}

// Default is the configuration used when no file and no environment
// overrides are present. Traces are disabled until outputDir is set.
func Default() Config {
	return Config{
		Port:       4000,
		Env:        "development",
		APIKeys:    []string{"test"},
		Pathfinder: pathfinder.DefaultParameters(),
	}
}

// Load builds the effective configuration. An empty path skips the YAML
// overlay; a missing .env file is ignored.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PATHFINDER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("PATHFINDER_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PATHFINDER_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("PATHFINDER_WORKER_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.WorkerID = id
		}
	}
}
