package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LINKEDIN_CLIENT_ID", "client-id")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "client-secret")
	t.Setenv("SPREADSHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_API_KEY", "gemini-key")
	t.Setenv("UNSPLASH_ACCESS_KEY", "unsplash-key")
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	setRequiredEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("expected a default config file to be written: %v", err)
	}

	if cfg.Sheet.Name != "Sheet1" {
		t.Errorf("expected default sheet name, got %q", cfg.Sheet.Name)
	}
	if cfg.OAuth.RedirectPort != 8080 {
		t.Errorf("expected default redirect port, got %d", cfg.OAuth.RedirectPort)
	}
	if cfg.Post.Mode != "generate" {
		t.Errorf("expected default mode, got %q", cfg.Post.Mode)
	}
	if cfg.Content.MaxLength != 2500 {
		t.Errorf("expected default max length, got %d", cfg.Content.MaxLength)
	}
	if cfg.Secrets.LinkedInClientID != "client-id" {
		t.Errorf("secrets must come from the environment, got %q", cfg.Secrets.LinkedInClientID)
	}
}

func TestLoadReadsExistingConfig(t *testing.T) {
	setRequiredEnv(t)
	dir := t.TempDir()

	custom := `[sheet]
name = "Topics"

[oauth]
redirect_port = 9090

[post]
mode = "prefilled"
delay_seconds = 10
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(custom), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Sheet.Name != "Topics" {
		t.Errorf("expected the configured sheet name, got %q", cfg.Sheet.Name)
	}
	if cfg.OAuth.RedirectPort != 9090 {
		t.Errorf("expected the configured port, got %d", cfg.OAuth.RedirectPort)
	}
	if cfg.Post.Mode != "prefilled" || cfg.Post.DelaySeconds != 10 {
		t.Errorf("expected the configured post settings, got %+v", cfg.Post)
	}
	// Unset keys fall back to defaults.
	if cfg.OAuth.RedirectHost != "localhost" {
		t.Errorf("expected the default host, got %q", cfg.OAuth.RedirectHost)
	}
	if cfg.Content.Model != "gemini-1.5-pro" {
		t.Errorf("expected the default model, got %q", cfg.Content.Model)
	}
}

func TestValidateMissingSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected a validation error")
	}

	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a *ConfigError, got %T", err)
	}
	if ce.Field != "GOOGLE_API_KEY" {
		t.Errorf("expected the missing field to be named, got %q", ce.Field)
	}
}

func TestValidateUnknownMode(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Post.Mode = "firehose"
	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected a validation error for an unknown mode")
	}

	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a *ConfigError, got %T", err)
	}
	if ce.Field != "post.mode" {
		t.Errorf("expected post.mode, got %q", ce.Field)
	}
}

func TestRedirectURI(t *testing.T) {
	cfg := defaultConfig
	if got := cfg.RedirectURI(); got != "http://localhost:8080/callback" {
		t.Errorf("unexpected redirect URI %q", got)
	}

	cfg.OAuth.RedirectHost = "127.0.0.1"
	cfg.OAuth.RedirectPort = 9999
	cfg.OAuth.RedirectPath = "/oauth/done"
	if got := cfg.RedirectURI(); got != "http://127.0.0.1:9999/oauth/done" {
		t.Errorf("unexpected redirect URI %q", got)
	}
}
