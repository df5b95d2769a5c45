package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"SERVICENOW_WEBHOOK_SECRET", "DATABASE_URL", "BUS_URL",
		"LOG_LEVEL", "MAX_RETRIES", "PUBLISH_TIMEOUT", "ENVIRONMENT",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gateway.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Gateway.Port)
	}
	if cfg.Gateway.MaxRetries != 3 {
		t.Errorf("expected max retries 3, got %d", cfg.Gateway.MaxRetries)
	}
	if cfg.PublishTimeout() != 10*time.Second {
		t.Errorf("expected publish timeout 10s, got %s", cfg.PublishTimeout())
	}
	if cfg.Bus.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Bus.URL)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("expected log level INFO, got %s", cfg.Logging.Level)
	}
	if cfg.Worker.DeadlineSeconds != 30 {
		t.Errorf("expected worker deadline 30s, got %d", cfg.Worker.DeadlineSeconds)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVICENOW_WEBHOOK_SECRET", "a-sixteen-char-secret")
	t.Setenv("MAX_RETRIES", "7")
	t.Setenv("PUBLISH_TIMEOUT", "2.5")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENVIRONMENT", "staging")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gateway.WebhookSecret != "a-sixteen-char-secret" {
		t.Errorf("expected webhook secret override, got %s", cfg.Gateway.WebhookSecret)
	}
	if cfg.Gateway.MaxRetries != 7 {
		t.Errorf("expected max retries 7, got %d", cfg.Gateway.MaxRetries)
	}
	if cfg.PublishTimeout() != 2500*time.Millisecond {
		t.Errorf("expected publish timeout 2.5s, got %s", cfg.PublishTimeout())
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("expected log level DEBUG, got %s", cfg.Logging.Level)
	}
}

func TestApplyEnvRejectsShortSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVICENOW_WEBHOOK_SECRET", "short")

	if _, err := Load(""); err == nil {
		t.Error("expected error for short webhook secret, got nil")
	}
}

func TestApplyEnvRejectsOutOfRangeMaxRetries(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_RETRIES", "11")

	if _, err := Load(""); err == nil {
		t.Error("expected error for out-of-range max retries, got nil")
	}
}

func TestApplyEnvRejectsInvalidEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "sandbox")

	if _, err := Load(""); err == nil {
		t.Error("expected error for invalid environment, got nil")
	}
}
