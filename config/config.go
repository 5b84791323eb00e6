// Package config loads runtime configuration from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the advisor.
type Config struct {
	App      AppConfig
	Data     DataConfig
	HTTP     HTTPConfig
	Metrics  MetricsConfig
	Logger   LoggerConfig
	Reviewer string
}

// AppConfig identifies the running instance.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// DataConfig points at the fixtures used to seed the store.
// Empty paths fall back to the embedded seed.
type DataConfig struct {
	FixturesPath    string
	RequestsCSVPath string
}

// HTTPConfig controls the optional HTTP surface.
type HTTPConfig struct {
	Addr                  string
	RequestTimeoutSeconds int
}

// MetricsConfig controls Prometheus exposure.
type MetricsConfig struct {
	Addr    string
	PushURL string
	JobName string
}

// LoggerConfig defines logging parameters.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout := getEnvAsInt("PTO_HTTP_REQUEST_TIMEOUT_SECONDS", 15)
	if timeout < 0 {
		return nil, fmt.Errorf("invalid PTO_HTTP_REQUEST_TIMEOUT_SECONDS: %d", timeout)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("PTO_APP_NAME", "pto-advisor"),
			Env:     getEnv("PTO_APP_ENV", "development"),
			Version: getEnv("PTO_APP_VERSION", "dev"),
		},
		Data: DataConfig{
			FixturesPath:    os.Getenv("PTO_FIXTURES"),
			RequestsCSVPath: os.Getenv("PTO_REQUESTS_CSV"),
		},
		HTTP: HTTPConfig{
			Addr:                  getEnv("PTO_HTTP_ADDR", ":8080"),
			RequestTimeoutSeconds: timeout,
		},
		Metrics: MetricsConfig{
			Addr:    os.Getenv("PTO_METRICS_ADDR"),
			PushURL: os.Getenv("PTO_PUSH_URL"),
			JobName: getEnv("PTO_PUSH_JOB", "pto_advisor"),
		},
		Logger: LoggerConfig{
			Level: getEnv("PTO_LOG_LEVEL", "info"),
		},
		Reviewer: getEnv("PTO_REVIEWER", "manager"),
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in a production environment.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// RequestTimeout returns the configured request timeout duration.
func (h HTTPConfig) RequestTimeout() time.Duration {
	if h.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(h.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
