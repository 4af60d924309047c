// Package config loads SDK configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the credentials and tuning knobs for a payment client.
type Config struct {
	APIBaseURL string
	AppID      string
	AppSecret  string

	HTTPTimeout time.Duration
	PoolSize    int
	QRSize      int

	BreakerMinRequests  int
	BreakerFailureRatio float64
	BreakerOpenFor      time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables and an optional
// .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		APIBaseURL:          valueOrDefault(k.String("PAY_API_BASE_URL"), "https://api.paychan.cn"),
		AppID:               strings.TrimSpace(k.String("PAY_APP_ID")),
		AppSecret:           strings.TrimSpace(k.String("PAY_APP_SECRET")),
		HTTPTimeout:         parseDuration(k.String("PAY_HTTP_TIMEOUT"), "10s"),
		PoolSize:            parseInt(k.String("PAY_POOL_SIZE"), 4),
		QRSize:              parseInt(k.String("PAY_QR_SIZE"), 360),
		BreakerMinRequests:  parseInt(k.String("PAY_BREAKER_MIN_REQUESTS"), 10),
		BreakerFailureRatio: parseFloat(k.String("PAY_BREAKER_FAILURE_RATIO"), 0.5),
		BreakerOpenFor:      parseDuration(k.String("PAY_BREAKER_OPEN_FOR"), "30s"),
		LogLevel:            valueOrDefault(k.String("PAY_LOG_LEVEL"), "info"),
		LogFormat:           valueOrDefault(k.String("PAY_LOG_FORMAT"), "json"),
	}

	if cfg.AppID == "" {
		return nil, errors.New("PAY_APP_ID is required")
	}
	if cfg.AppSecret == "" {
		return nil, errors.New("PAY_APP_SECRET is required")
	}

	return cfg, nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f <= 0 || f > 1 {
		return fallback
	}
	return f
}
