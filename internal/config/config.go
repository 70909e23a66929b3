package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"lendinghub/internal/core/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Store drivers
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Store    string
	SeedDemo bool
	Database DatabaseConfig
	Lending  LendingConfig
	Overdue  OverdueConfig
	Rabbit   RabbitConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// LendingConfig holds the lending policy
type LendingConfig struct {
	LoanPeriodDays int
	LateFeePerDay  float64
	BorrowingLimit int
}

// OverdueConfig holds the overdue sweep schedule
type OverdueConfig struct {
	Enabled  bool
	Schedule string
}

// RabbitConfig holds event publishing configuration.
// An empty URL means events are only logged.
type RabbitConfig struct {
	URL      string
	Exchange string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ .env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	store := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMySQL)))
	if store != StoreMySQL && store != StoreMemory {
		return nil, fmt.Errorf("invalid STORE_DRIVER: '%s' (must be '%s' or '%s')", store, StoreMySQL, StoreMemory)
	}

	lending, err := loadLendingConfig()
	if err != nil {
		return nil, err
	}

	overdue, err := loadOverdueConfig()
	if err != nil {
		return nil, err
	}

	seed, err := getEnvBool("SEED_DEMO_DATA", false)
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Store:    store,
		SeedDemo: seed,
		Database: loadDatabaseConfig(appMode),
		Lending:  lending,
		Overdue:  overdue,
		Rabbit: RabbitConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "lending.events"),
		},
	}

	// Set global config
	AppConfig = config

	log.Info().Str("mode", appMode).Str("store", store).Msg("✅ Configuration loaded successfully")
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "lendinghub"),
	}
}

// loadLendingConfig loads the lending policy. Period and limit must be positive,
// the fee may be zero.
func loadLendingConfig() (LendingConfig, error) {
	period, err := strconv.Atoi(getEnv("LOAN_PERIOD_DAYS", strconv.Itoa(domain.DefaultLoanPeriodDays)))
	if err != nil || period <= 0 {
		return LendingConfig{}, fmt.Errorf("invalid LOAN_PERIOD_DAYS: must be a positive integer")
	}

	fee, err := strconv.ParseFloat(getEnv("LATE_FEE_PER_DAY", strconv.FormatFloat(domain.DefaultLateFeePerDay, 'f', -1, 64)), 64)
	if err != nil || fee < 0 {
		return LendingConfig{}, fmt.Errorf("invalid LATE_FEE_PER_DAY: must be a non-negative number")
	}

	limit, err := strconv.Atoi(getEnv("BORROWING_LIMIT", strconv.Itoa(domain.DefaultBorrowingLimit)))
	if err != nil || limit <= 0 {
		return LendingConfig{}, fmt.Errorf("invalid BORROWING_LIMIT: must be a positive integer")
	}

	return LendingConfig{
		LoanPeriodDays: period,
		LateFeePerDay:  fee,
		BorrowingLimit: limit,
	}, nil
}

// loadOverdueConfig loads the overdue sweep settings
func loadOverdueConfig() (OverdueConfig, error) {
	enabled, err := getEnvBool("OVERDUE_SWEEP_ENABLED", true)
	if err != nil {
		return OverdueConfig{}, err
	}

	return OverdueConfig{
		Enabled:  enabled,
		Schedule: getEnv("OVERDUE_CRON", "30 8 * * *"),
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid %s: '%s' (must be a boolean)", key, value)
	}
	return b, nil
}

// LendingPolicy returns the configured lending policy
func (c *Config) LendingPolicy() domain.LendingPolicy {
	return domain.LendingPolicy{
		LoanPeriodDays: c.Lending.LoanPeriodDays,
		LateFeePerDay:  c.Lending.LateFeePerDay,
		BorrowingLimit: c.Lending.BorrowingLimit,
	}
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// UsesMemoryStore returns true if state is kept in process memory
func (c *Config) UsesMemoryStore() bool {
	return c.Store == StoreMemory
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
