package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	TelegramBotToken string
	PollTimeout      time.Duration

	TravelPayoutsToken   string
	TravelPayoutsBaseURL string
	AffiliateMarker      string
	Currency             string
	OfferLimit           int
	OfferTimeout         time.Duration

	PageSize int

	FlightCacheTTL  time.Duration
	FlightCacheSize int
	BusCacheTTL     time.Duration
	BusCacheSize    int

	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		PollTimeout:      getEnvAsDuration("TELEGRAM_POLL_TIMEOUT", 30*time.Second),

		TravelPayoutsToken:   getEnv("TRAVELPAYOUTS_API_TOKEN", ""),
		TravelPayoutsBaseURL: getEnv("TRAVELPAYOUTS_BASE_URL", "https://api.travelpayouts.com"),
		AffiliateMarker:      getEnv("AFFILIATE_MARKER", ""),
		Currency:             getEnv("CURRENCY", "USD"),
		OfferLimit:           getEnvAsInt("OFFER_LIMIT", 20),
		OfferTimeout:         getEnvAsDuration("OFFER_TIMEOUT", 10*time.Second),

		PageSize: getEnvAsInt("RESULT_PAGE_SIZE", 3),

		FlightCacheTTL:  getEnvAsDuration("FLIGHT_CACHE_TTL", 15*time.Minute),
		FlightCacheSize: getEnvAsInt("FLIGHT_CACHE_SIZE", 100),
		BusCacheTTL:     getEnvAsDuration("BUS_CACHE_TTL", 30*time.Minute),
		BusCacheSize:    getEnvAsInt("BUS_CACHE_SIZE", 50),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
}

// Validate reports the first missing required setting. The process must not
// start without a Telegram token.
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("config: TELEGRAM_BOT_TOKEN is not set")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("config: RESULT_PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
