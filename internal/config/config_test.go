package config

import (
	"testing"
	"time"

	"github.com/pickemhq/schedule-sync/internal/platform/logging"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("app env: got=%q want=%q", cfg.AppEnv, EnvDev)
	}
	if cfg.ServiceName != "schedule-sync" {
		t.Fatalf("service name: got=%q", cfg.ServiceName)
	}
	if !cfg.SyncEnabled {
		t.Fatal("sync must default to enabled")
	}
	if cfg.SyncSource != "ESPN" {
		t.Fatalf("sync source: got=%q", cfg.SyncSource)
	}
	if cfg.RunTimeout != 10*time.Minute {
		t.Fatalf("run timeout: got=%s", cfg.RunTimeout)
	}
	if cfg.ESPNTimeout != 20*time.Second {
		t.Fatalf("espn timeout: got=%s", cfg.ESPNTimeout)
	}
	if cfg.ESPNCircuitFailureCount != 5 {
		t.Fatalf("circuit failure count: got=%d", cfg.ESPNCircuitFailureCount)
	}
	if cfg.ReseedMaxWorkers != 4 {
		t.Fatalf("reseed workers: got=%d", cfg.ReseedMaxWorkers)
	}
	if cfg.UptraceEnabled || cfg.PyroscopeEnabled {
		t.Fatal("observability exporters must default to disabled")
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("log level: got=%v", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_SERVICE_VERSION", "1.4.2")
	t.Setenv("SYNC_ENABLED", "false")
	t.Setenv("SYNC_SOURCE", " ESPN ")
	t.Setenv("RUN_TIMEOUT", "30m")
	t.Setenv("ESPN_MAX_RETRIES", "3")
	t.Setenv("RESEED_MAX_WORKERS", "8")
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppEnv != EnvProd {
		t.Fatalf("app env: got=%q", cfg.AppEnv)
	}
	if cfg.ServiceVersion != "1.4.2" {
		t.Fatalf("service version: got=%q", cfg.ServiceVersion)
	}
	if cfg.SyncEnabled {
		t.Fatal("sync must be disabled")
	}
	if cfg.SyncSource != "ESPN" {
		t.Fatalf("sync source must be trimmed: got=%q", cfg.SyncSource)
	}
	if cfg.RunTimeout != 30*time.Minute {
		t.Fatalf("run timeout: got=%s", cfg.RunTimeout)
	}
	if cfg.ESPNMaxRetries != 3 {
		t.Fatalf("max retries: got=%d", cfg.ESPNMaxRetries)
	}
	if cfg.ReseedMaxWorkers != 8 {
		t.Fatalf("reseed workers: got=%d", cfg.ReseedMaxWorkers)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("log level: got=%v", cfg.LogLevel)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("unknown environment", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		if _, err := Load(); err == nil {
			t.Fatal("expected validation error for unknown APP_ENV")
		}
	})

	t.Run("unparseable bool", func(t *testing.T) {
		t.Setenv("SYNC_ENABLED", "yep")
		if _, err := Load(); err == nil {
			t.Fatal("expected parse error for SYNC_ENABLED")
		}
	})

	t.Run("unparseable duration", func(t *testing.T) {
		t.Setenv("RUN_TIMEOUT", "soon")
		if _, err := Load(); err == nil {
			t.Fatal("expected parse error for RUN_TIMEOUT")
		}
	})

	t.Run("uptrace enabled without dsn", func(t *testing.T) {
		t.Setenv("UPTRACE_ENABLED", "true")
		if _, err := Load(); err == nil {
			t.Fatal("expected validation error for missing UPTRACE_DSN")
		}
	})

	t.Run("pyroscope enabled without server", func(t *testing.T) {
		t.Setenv("PYROSCOPE_ENABLED", "true")
		if _, err := Load(); err == nil {
			t.Fatal("expected validation error for missing PYROSCOPE_SERVER_ADDRESS")
		}
	})

	t.Run("zero workers", func(t *testing.T) {
		t.Setenv("RESEED_MAX_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatal("expected validation error for RESEED_MAX_WORKERS")
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want logging.Level
	}{
		{"debug", logging.LevelDebug},
		{"info", logging.LevelInfo},
		{"WARN", logging.LevelWarn},
		{"warning", logging.LevelWarn},
		{"error", logging.LevelError},
		{"", logging.LevelInfo},
		{"trace", logging.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLogLevel(tc.in); got != tc.want {
			t.Fatalf("parseLogLevel(%q): got=%v want=%v", tc.in, got, tc.want)
		}
	}
}
