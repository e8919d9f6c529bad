package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "DEBUG", "DEBUG_HTTP_PORT", "TERMINAL_PORT", "MONGODB_URI",
		"REGISTERING_WAIT_TIMEOUT", "TIMER_SCHEDULER_TICK")

	cfg := Load()
	if cfg.Debug {
		t.Error("Debug default = true, want false")
	}
	if cfg.DebugHTTPPort != "" {
		t.Errorf("DebugHTTPPort default = %q, want empty", cfg.DebugHTTPPort)
	}
	if cfg.TerminalPort != "9001" {
		t.Errorf("TerminalPort default = %q, want 9001", cfg.TerminalPort)
	}
	if cfg.MongoURI != "" {
		t.Errorf("MongoURI default = %q, want empty", cfg.MongoURI)
	}
	if cfg.RegisteringWaitTimeout != 30*time.Minute {
		t.Errorf("RegisteringWaitTimeout default = %v, want 30m", cfg.RegisteringWaitTimeout)
	}
	if cfg.TimerSchedulerTick != 10*time.Millisecond {
		t.Errorf("TimerSchedulerTick default = %v, want 10ms", cfg.TimerSchedulerTick)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	clearEnv(t, "DEBUG", "DEBUG_HTTP_PORT", "TERMINAL_PORT", "MONGODB_URI",
		"REGISTERING_WAIT_TIMEOUT", "TIMER_SCHEDULER_TICK")

	os.Setenv("DEBUG", "true")
	os.Setenv("DEBUG_HTTP_PORT", "8080")
	os.Setenv("TERMINAL_PORT", "0")
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	os.Setenv("TIMER_SCHEDULER_TICK", "5ms")

	cfg := Load()
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.DebugHTTPPort != "8080" {
		t.Errorf("DebugHTTPPort = %q, want 8080", cfg.DebugHTTPPort)
	}
	if cfg.TerminalPort != "0" {
		t.Errorf("TerminalPort = %q, want 0", cfg.TerminalPort)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("MongoURI = %q, want mongodb://localhost:27017", cfg.MongoURI)
	}
	if cfg.TimerSchedulerTick != 5*time.Millisecond {
		t.Errorf("TimerSchedulerTick = %v, want 5ms", cfg.TimerSchedulerTick)
	}
}

func TestGetEnvAsBoolFallsBackOnInvalidValue(t *testing.T) {
	clearEnv(t, "X_BOOL")
	os.Setenv("X_BOOL", "not-a-bool")
	if got := getEnvAsBool("X_BOOL", true); got != true {
		t.Errorf("getEnvAsBool with invalid value = %v, want fallback true", got)
	}
}

func TestGetEnvAsDurationFallsBackOnInvalidValue(t *testing.T) {
	clearEnv(t, "X_DURATION")
	os.Setenv("X_DURATION", "not-a-duration")
	if got := getEnvAsDuration("X_DURATION", time.Second); got != time.Second {
		t.Errorf("getEnvAsDuration with invalid value = %v, want fallback 1s", got)
	}
}
