// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for all databases (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	// Market data
	MarketDataBaseURL string // Quote/chart API base URL
	BenchmarkTicker   string // Index used for beta/alpha calculations
	BenchmarkTickerUS string // Benchmark used for US-market portfolios
	RiskFreeRate      float64

	// Cron schedules (six-field expressions, seconds first)
	AlertsCheckSchedule  string
	CacheRefreshSchedule string
	BackupSchedule       string
	CleanupSchedule      string

	CORSAllowedOrigins []string

	Advice *AdviceConfig
	SMS    *SMSConfig
	Backup *BackupConfig
}

// AdviceConfig holds Gemini API settings for AI-generated portfolio insights
type AdviceConfig struct {
	APIKey string
	Model  string
}

// Enabled reports whether an API key is configured
func (c *AdviceConfig) Enabled() bool {
	return c != nil && c.APIKey != ""
}

// SMSConfig holds Twilio settings for SMS alert delivery
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Enabled reports whether all Twilio credentials are configured
func (c *SMSConfig) Enabled() bool {
	return c != nil && c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// BackupConfig holds S3-compatible storage settings for scheduled backups
type BackupConfig struct {
	Bucket    string
	Endpoint  string // Empty for AWS S3, set for R2/MinIO style endpoints
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
	KeepDays  int // Remote backups older than this are pruned
}

// Enabled reports whether backup credentials and a bucket are configured
func (c *BackupConfig) Enabled() bool {
	return c != nil && c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory:
	// 1. Check DATA_DIR environment variable, default to ./data
	// 2. Always resolve to absolute path
	// 3. Ensure directory exists
	dataDir := getEnv("DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("PORT", 8090),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MarketDataBaseURL: getEnv("MARKET_DATA_BASE_URL", "https://query1.finance.yahoo.com"),
		BenchmarkTicker:   getEnv("BENCHMARK_TICKER", "^NSEI"),
		BenchmarkTickerUS: getEnv("BENCHMARK_TICKER_US", "^GSPC"),
		RiskFreeRate:      getEnvAsFloat("RISK_FREE_RATE", 0.04),

		AlertsCheckSchedule:  getEnv("ALERTS_CHECK_SCHEDULE", "0 */15 * * * *"),   // Every 15 minutes
		CacheRefreshSchedule: getEnv("CACHE_REFRESH_SCHEDULE", "0 30 17 * * 1-5"), // Weekdays after market close
		BackupSchedule:       getEnv("BACKUP_SCHEDULE", "0 0 2 * * *"),            // Daily at 02:00
		CleanupSchedule:      getEnv("CLEANUP_SCHEDULE", "0 0 3 * * 0"),           // Sundays at 03:00

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		Advice: &AdviceConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		SMS: &SMSConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		},
		Backup: &BackupConfig{
			Bucket:    getEnv("BACKUP_S3_BUCKET", ""),
			Endpoint:  getEnv("BACKUP_S3_ENDPOINT", ""),
			Region:    getEnv("BACKUP_S3_REGION", "auto"),
			AccessKey: getEnv("BACKUP_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("BACKUP_S3_SECRET_KEY", ""),
			Prefix:    getEnv("BACKUP_S3_PREFIX", "niveshak-backups"),
			KeepDays:  getEnvAsInt("BACKUP_KEEP_DAYS", 30),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RiskFreeRate < 0 || c.RiskFreeRate >= 1 {
		return fmt.Errorf("risk free rate %.4f outside [0, 1)", c.RiskFreeRate)
	}

	// Note: Gemini, Twilio and backup credentials are optional; the features
	// degrade to rule-based advice, log-only alerts and no backups.
	return nil
}

// AppDBPath returns the path of the application database
func (c *Config) AppDBPath() string {
	return filepath.Join(c.DataDir, "app.db")
}

// HistoryDBPath returns the path of the market data cache database
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
