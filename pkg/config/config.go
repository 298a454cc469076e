package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every component receives this struct (or a sub-struct) at construction;
// nothing else reads environment variables.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Data directory for the file-backed store
	DataDir string

	// Database (optional; when URL is set the blob store uses Postgres)
	Database DatabaseConfig

	// Redis snapshot cache
	Redis RedisConfig

	// Collaborators
	Market MarketConfig
	Gemini GeminiConfig

	// Notification channels
	Telegram TelegramConfig
	Email    EmailConfig

	// Schedules (cron expressions with seconds field)
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration for the blob store.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketConfig holds market data provider configuration.
type MarketConfig struct {
	Provider       string // "simulated" or "statusinvest"
	BaseURL        string
	RequestsPerSec float64
	Timeout        time.Duration
	StaleAfter     time.Duration // snapshots older than this are refetched
}

// GeminiConfig holds text-generation collaborator configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// TelegramConfig holds Telegram Bot API configuration.
type TelegramConfig struct {
	Enabled   bool
	BotToken  string
	ChannelID string
}

// EmailConfig holds SMTP configuration for the newsletter.
type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	FromName string
}

// ScheduleConfig holds cron expressions for the background jobs.
type ScheduleConfig struct {
	PortfolioRebuild string
	AlertScan        string
	DailyNewsletter  string
	MarketOpen       string
	MarketClose      string
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:    getEnv("PORT", "8090"),
		Env:     getEnv("ENV", "development"),
		DataDir: getEnv("DATA_DIR", "data"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Market: MarketConfig{
			Provider:       getEnv("MARKET_PROVIDER", "simulated"),
			BaseURL:        getEnv("MARKET_BASE_URL", "https://statusinvest.com.br"),
			RequestsPerSec: getEnvAsFloat("MARKET_REQUESTS_PER_SEC", 2.0),
			Timeout:        getEnvAsDuration("MARKET_TIMEOUT", "10s"),
			StaleAfter:     getEnvAsDuration("MARKET_STALE_AFTER", "24h"),
		},

		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", "30s"),
		},

		Telegram: TelegramConfig{
			Enabled:   getEnvAsBool("TELEGRAM_ENABLED", false),
			BotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChannelID: getEnv("TELEGRAM_CHANNEL_ID", "@Clearview_Capital_Bot"),
		},

		Email: EmailConfig{
			Enabled:  getEnvAsBool("EMAIL_ENABLED", false),
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			FromName: getEnv("SMTP_FROM_NAME", "Clearview Capital"),
		},

		Schedule: ScheduleConfig{
			PortfolioRebuild: getEnv("SCHEDULE_PORTFOLIO_REBUILD", "0 0 7 * * *"),
			AlertScan:        getEnv("SCHEDULE_ALERT_SCAN", "0 0 * * * *"),
			DailyNewsletter:  getEnv("SCHEDULE_DAILY_NEWSLETTER", "0 0 18 * * *"),
			MarketOpen:       getEnv("SCHEDULE_MARKET_OPEN", "0 0 10 * * 1-5"),
			MarketClose:      getEnv("SCHEDULE_MARKET_CLOSE", "0 30 17 * * 1-5"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Market.Provider != "simulated" && c.Market.Provider != "statusinvest" {
		return fmt.Errorf("MARKET_PROVIDER must be one of: simulated, statusinvest")
	}

	if c.DataDir == "" && c.Database.URL == "" {
		return fmt.Errorf("either DATA_DIR or DATABASE_URL must be set")
	}

	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when TELEGRAM_ENABLED=true")
	}

	if c.Email.Enabled && (c.Email.Host == "" || c.Email.User == "") {
		return fmt.Errorf("SMTP_HOST and SMTP_USER are required when EMAIL_ENABLED=true")
	}

	return nil
}

// UsePostgres reports whether the blob store should be backed by Postgres.
func (c *Config) UsePostgres() bool {
	return c.Database.URL != ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
