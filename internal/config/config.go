// Package config assembles the service configuration from compiled-in
// defaults, an optional YAML file overlay, and environment variable
// overrides, in that order (donor internal/config pattern).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Gateway  GatewayConfig  `yaml:"gateway"`
	Worker   WorkerConfig   `yaml:"worker"`
	Database DatabaseConfig `yaml:"database"`
	Bus      BusConfig      `yaml:"bus"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type GatewayConfig struct {
	Port                  int     `yaml:"port"`
	WebhookSecret         string  `yaml:"webhook_secret"`
	PublishTimeoutSeconds float64 `yaml:"publish_timeout_seconds"`
	MaxRetries            int     `yaml:"max_retries"`
}

type WorkerConfig struct {
	Port            int `yaml:"port"`
	MetricsPort     int `yaml:"metrics_port"`
	DeadlineSeconds int `yaml:"deadline_seconds"`
	SimilarityTopK  int `yaml:"similarity_top_k"`
	EmbeddingDims   int `yaml:"embedding_dims"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type BusConfig struct {
	URL string `yaml:"url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Environment is one of development|staging|production (spec §6).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

func (c *Config) PublishTimeout() time.Duration {
	return time.Duration(c.Gateway.PublishTimeoutSeconds * float64(time.Second))
}

func (c *Config) WorkerDeadline() time.Duration {
	return time.Duration(c.Worker.DeadlineSeconds) * time.Second
}

// Load builds a Config: compiled-in defaults, then an optional YAML file
// overlay, then environment variable overrides (spec §6).
func Load(path string) (*Config, error) {
	cfg := &Config{
		Gateway: GatewayConfig{
			Port:                  8080,
			PublishTimeoutSeconds: 10.0,
			MaxRetries:            3,
		},
		Worker: WorkerConfig{
			Port:            8081,
			MetricsPort:     8082,
			DeadlineSeconds: 30,
			SimilarityTopK:  10,
			EmbeddingDims:   256,
		},
		Database: DatabaseConfig{
			URL: "postgres://localhost:5432/triage",
		},
		Bus: BusConfig{
			URL: "nats://localhost:4222",
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays the environment variables documented in spec §6.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("SERVICENOW_WEBHOOK_SECRET"); v != "" {
		if len(v) < 16 {
			return fmt.Errorf("SERVICENOW_WEBHOOK_SECRET must be at least 16 characters")
		}
		cfg.Gateway.WebhookSecret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("BUS_URL"); v != "" {
		cfg.Bus.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 10 {
			return fmt.Errorf("MAX_RETRIES must be an integer in [0,10]")
		}
		cfg.Gateway.MaxRetries = n
	}
	if v := os.Getenv("PUBLISH_TIMEOUT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("PUBLISH_TIMEOUT must be a positive number of seconds")
		}
		cfg.Gateway.PublishTimeoutSeconds = f
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		switch Environment(v) {
		case EnvDevelopment, EnvStaging, EnvProduction:
		default:
			return fmt.Errorf("ENVIRONMENT must be one of development, staging, production")
		}
	}
	return nil
}
