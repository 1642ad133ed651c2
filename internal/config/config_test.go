package config_test

import (
	"strings"
	"testing"
	"time"

	"jobmate/careers-service/internal/config"
)

// setBaseEnv sets the minimum variables for a valid redis-backed config.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir()) // keep a developer .env out of the test
	t.Setenv("WORKABLE_API_TOKEN", "token")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.CounterBackend != config.BackendRedis {
		t.Errorf("CounterBackend = %q, want redis", cfg.CounterBackend)
	}
	if cfg.WorkableBaseURL != "https://bask-health-1.workable.com" {
		t.Errorf("WorkableBaseURL = %q", cfg.WorkableBaseURL)
	}
	if cfg.WorkableTimeout != 15*time.Second {
		t.Errorf("WorkableTimeout = %s, want 15s", cfg.WorkableTimeout)
	}
	if cfg.BackupInterval != 15*time.Minute {
		t.Errorf("BackupInterval = %s, want 15m", cfg.BackupInterval)
	}
	if cfg.BackupEnabled() {
		t.Error("BackupEnabled() should be false without DATABASE_URL")
	}
}

func TestLoad_MissingToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("WORKABLE_API_TOKEN", "")

	_, err := config.Load()
	if err == nil || !strings.Contains(err.Error(), "WORKABLE_API_TOKEN") {
		t.Fatalf("Load() error = %v, want WORKABLE_API_TOKEN error", err)
	}
}

func TestLoad_BackendRequirements(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"redis without url", map[string]string{"REDIS_URL": ""}, "REDIS_URL"},
		{"postgres without url", map[string]string{"COUNTER_BACKEND": "postgres"}, "DATABASE_URL"},
		{"unknown backend", map[string]string{"COUNTER_BACKEND": "etcd"}, "COUNTER_BACKEND"},
		{"negative backup", map[string]string{"BACKUP_INTERVAL": "-1m"}, "BACKUP_INTERVAL"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("Load() error = %v, want mention of %s", err, c.wantErr)
			}
		})
	}
}

func TestLoad_MemoryBackendNeedsNoStore(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REDIS_URL", "")
	t.Setenv("COUNTER_BACKEND", " Memory ")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.CounterBackend != config.BackendMemory {
		t.Errorf("CounterBackend = %q, want memory", cfg.CounterBackend)
	}
}

func TestLoad_BackupEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/careers")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !cfg.BackupEnabled() {
		t.Error("BackupEnabled() should be true for redis + DATABASE_URL")
	}

	t.Setenv("BACKUP_INTERVAL", "0s")
	cfg, err = config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.BackupEnabled() {
		t.Error("BackupEnabled() should be false when BACKUP_INTERVAL=0")
	}
}

func TestLoad_BaseURLOverrideTrimsSlash(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("WORKABLE_BASE_URL", "http://127.0.0.1:9999/")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.WorkableBaseURL != "http://127.0.0.1:9999" {
		t.Errorf("WorkableBaseURL = %q", cfg.WorkableBaseURL)
	}
}

func TestLoad_HealthGRPCToggle(t *testing.T) {
	setBaseEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !cfg.HealthGRPCEnabled() || cfg.HealthGRPCPort != "9090" {
		t.Errorf("health gRPC should default to enabled on 9090, got %q", cfg.HealthGRPCPort)
	}

	t.Setenv("HEALTH_GRPC_PORT", "0")
	cfg, err = config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.HealthGRPCEnabled() {
		t.Error("HEALTH_GRPC_PORT=0 should disable the health server")
	}
}
