// Package config centraliza o carregamento de configurações da aplicação.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/DesignrKnight/shield/internal/core/domain"
)

const (
	BanBackendLog     = "log"
	BanBackendRedis   = "redis"
	BanBackendWebhook = "webhook"
)

type Config struct {
	Server      ServerConfig
	RateLimiter domain.Settings
	Ban         BanConfig
	Redis       RedisConfig
}

type ServerConfig struct {
	Port               string
	TrustProxy         bool
	CORSAllowedOrigins []string
}

type BanConfig struct {
	Backends       []string
	Reason         string
	Duration       time.Duration
	Timeout        time.Duration
	WebhookURL     string
	WebhookRetries int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HasBackend reports whether name is one of the configured ban backends.
func (c BanConfig) HasBackend(name string) bool {
	for _, b := range c.Backends {
		if b == name {
			return true
		}
	}
	return false
}

func Load() (Config, error) {
	_ = godotenv.Load()

	server, err := buildServerConfig()
	if err != nil {
		return Config{}, err
	}

	settings, err := buildRateLimiterSettings()
	if err != nil {
		return Config{}, err
	}

	banConfig, err := buildBanConfig()
	if err != nil {
		return Config{}, err
	}

	redisConfig, err := buildRedisConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server:      server,
		RateLimiter: settings,
		Ban:         banConfig,
		Redis:       redisConfig,
	}, nil
}

func buildServerConfig() (ServerConfig, error) {
	trustProxy, err := strconv.ParseBool(getEnv("TRUST_PROXY", "false"))
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid TRUST_PROXY: %w", err)
	}

	return ServerConfig{
		Port:               getEnv("SERVER_PORT", "8080"),
		TrustProxy:         trustProxy,
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}, nil
}

func buildRateLimiterSettings() (domain.Settings, error) {
	windowSeconds, err := strconv.ParseFloat(getEnv("RATE_WINDOW_SECONDS", "10"), 64)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("invalid RATE_WINDOW_SECONDS: %w", err)
	}
	rateLimit, err := strconv.ParseFloat(getEnv("RATE_LIMIT", "2"), 64)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}
	scanSeconds, err := strconv.ParseFloat(getEnv("RATE_SCAN_PERIOD_SECONDS", "1"), 64)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("invalid RATE_SCAN_PERIOD_SECONDS: %w", err)
	}

	settings := domain.Settings{
		Window:     seconds(windowSeconds),
		RateLimit:  rateLimit,
		ScanPeriod: seconds(scanSeconds),
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("invalid rate limiter settings: %w", err)
	}
	return settings, nil
}

func buildBanConfig() (BanConfig, error) {
	backends := splitList(getEnv("BAN_BACKENDS", BanBackendLog))
	for i, b := range backends {
		b = strings.ToLower(b)
		switch b {
		case BanBackendLog, BanBackendRedis, BanBackendWebhook:
			backends[i] = b
		default:
			return BanConfig{}, fmt.Errorf("unsupported ban backend: %s", b)
		}
	}

	durationMinutes, err := strconv.Atoi(getEnv("BAN_DURATION_MINUTES", "60"))
	if err != nil {
		return BanConfig{}, fmt.Errorf("invalid BAN_DURATION_MINUTES: %w", err)
	}
	timeoutSeconds, err := strconv.Atoi(getEnv("BAN_TIMEOUT_SECONDS", "5"))
	if err != nil {
		return BanConfig{}, fmt.Errorf("invalid BAN_TIMEOUT_SECONDS: %w", err)
	}
	if timeoutSeconds <= 0 {
		return BanConfig{}, fmt.Errorf("BAN_TIMEOUT_SECONDS must be positive, got %d", timeoutSeconds)
	}
	retries, err := strconv.Atoi(getEnv("BAN_WEBHOOK_RETRIES", "3"))
	if err != nil {
		return BanConfig{}, fmt.Errorf("invalid BAN_WEBHOOK_RETRIES: %w", err)
	}
	if retries < 0 {
		return BanConfig{}, fmt.Errorf("BAN_WEBHOOK_RETRIES must be non-negative, got %d", retries)
	}

	cfg := BanConfig{
		Backends:       backends,
		Reason:         getEnv("BAN_REASON", "rate limit exceeded"),
		Duration:       time.Duration(durationMinutes) * time.Minute,
		Timeout:        time.Duration(timeoutSeconds) * time.Second,
		WebhookURL:     os.Getenv("BAN_WEBHOOK_URL"),
		WebhookRetries: retries,
	}
	if cfg.HasBackend(BanBackendWebhook) && cfg.WebhookURL == "" {
		return BanConfig{}, fmt.Errorf("BAN_WEBHOOK_URL is required when the webhook ban backend is enabled")
	}
	return cfg, nil
}

func buildRedisConfig() (RedisConfig, error) {
	host := getEnv("REDIS_HOST", "localhost")
	port, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return RedisConfig{
		Host:     host,
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
