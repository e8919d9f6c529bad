// Package config loads the ambient, environment-driven tuning knobs shared by
// every RoboOne process: debug mode, the optional debug HTTP/terminal ports,
// the optional MongoDB audit sink, and timer/registration timeouts. Each
// server's own wire port comes from its CLI argument (§6.3), never from here.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-sourced knob a RoboOne process may consult.
type Config struct {
	Debug bool

	DebugHTTPPort string // empty disables the debug HTTP/WS surface
	TerminalPort  string // "0" or empty disables the terminal console; defaults to 9001 (§6.2)

	MongoURI string // empty disables the audit sink

	RegisteringWaitTimeout time.Duration
	TimerSchedulerTick     time.Duration
}

// Load reads a .env file if present (missing is not an error) and returns a
// Config populated from the environment, falling back to sane defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Debug:                  getEnvAsBool("DEBUG", false),
		DebugHTTPPort:          os.Getenv("DEBUG_HTTP_PORT"),
		TerminalPort:           getEnv("TERMINAL_PORT", "9001"),
		MongoURI:               os.Getenv("MONGODB_URI"),
		RegisteringWaitTimeout: getEnvAsDuration("REGISTERING_WAIT_TIMEOUT", 30*time.Minute),
		TimerSchedulerTick:     getEnvAsDuration("TIMER_SCHEDULER_TICK", 10*time.Millisecond),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
