package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "test-secret")
	t.Setenv("DATABASE_FILENAME", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.App.Port)
	}
	if cfg.App.SecretKey != "test-secret" {
		t.Errorf("secret not taken from environment")
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "test-secret")
	t.Setenv("DATABASE_FILENAME", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "app:\n  name: courtbook\n  environment: production\n  port: 9090\nrate_limit:\n  requests_per_second: 5\n  burst: 10\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.App.Port)
	}
	if cfg.App.Environment != "production" {
		t.Errorf("environment = %q", cfg.App.Environment)
	}
	if cfg.RateLimit.RequestsPerSecond != 5 {
		t.Errorf("rate = %v, want 5", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestLoad_MissingSecretKey(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "")

	if _, err := Load(filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Fatal("expected error without APP_SECRET_KEY")
	}
}

func TestValidate_RejectsBadDriver(t *testing.T) {
	cfg := Default()
	cfg.App.SecretKey = "x"
	cfg.Database.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
