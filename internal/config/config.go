package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
	Bonus    BonusConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port            int
	Env             string
	LogLevel        string
	CompanyName     string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// PayrollConfig holds the monthly payroll policy.
type PayrollConfig struct {
	OvertimeDivisor        decimal.Decimal
	EmployerChargeRate     decimal.Decimal
	WeekdayOvertimeFactor  decimal.Decimal
	WeekendOvertimeFactor  decimal.Decimal
	RequireFinalizedOrders bool
}

// BonusConfig holds the 13th salary accrual settings.
type BonusConfig struct {
	AverageWindowMonths int
	MinDaysPerTwelfth   int
}

func Load() (*Config, error) {
	// .env is optional; the environment wins when both are set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "oficina_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("APP_SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_SHUTDOWN_TIMEOUT: %w", err)
	}

	config.App = AppConfig{
		Port:            appPort,
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CompanyName:     getEnv("COMPANY_NAME", "Oficina"),
		AllowedOrigins:  getEnvSlice("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout: shutdownTimeout,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll policy
	policy := payroll.DefaultPolicy()
	if config.Payroll.OvertimeDivisor, err = getEnvDecimal("PAYROLL_OVERTIME_DIVISOR", policy.OvertimeDivisor); err != nil {
		return nil, err
	}
	if config.Payroll.EmployerChargeRate, err = getEnvDecimal("PAYROLL_EMPLOYER_CHARGE_RATE", policy.EmployerChargeRate); err != nil {
		return nil, err
	}
	if config.Payroll.WeekdayOvertimeFactor, err = getEnvDecimal("PAYROLL_WEEKDAY_OVERTIME_FACTOR", policy.WeekdayOvertimeFactor); err != nil {
		return nil, err
	}
	if config.Payroll.WeekendOvertimeFactor, err = getEnvDecimal("PAYROLL_WEEKEND_OVERTIME_FACTOR", policy.WeekendOvertimeFactor); err != nil {
		return nil, err
	}
	requireFinalized, err := strconv.ParseBool(getEnv("PAYROLL_REQUIRE_FINALIZED_ORDERS", strconv.FormatBool(policy.RequireFinalizedOrders)))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_REQUIRE_FINALIZED_ORDERS: %w", err)
	}
	config.Payroll.RequireFinalizedOrders = requireFinalized

	// 13th salary settings
	settings := bonus.DefaultSettings()
	if config.Bonus.AverageWindowMonths, err = getEnvInt("BONUS_AVERAGE_WINDOW_MONTHS", settings.AverageWindowMonths); err != nil {
		return nil, err
	}
	if config.Bonus.MinDaysPerTwelfth, err = getEnvInt("BONUS_MIN_DAYS_PER_TWELFTH", settings.MinDaysPerTwelfth); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.MinConns < 0 || c.Database.MaxConns < 1 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS and DB_MAX_CONNS must satisfy 0 <= min <= max, max >= 1")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
	}
	if !c.Payroll.OvertimeDivisor.IsPositive() {
		return fmt.Errorf("PAYROLL_OVERTIME_DIVISOR must be positive")
	}
	if c.Payroll.EmployerChargeRate.IsNegative() || c.Payroll.EmployerChargeRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYROLL_EMPLOYER_CHARGE_RATE must be between 0 and 1")
	}
	if c.Payroll.WeekdayOvertimeFactor.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYROLL_WEEKDAY_OVERTIME_FACTOR must be at least 1")
	}
	if c.Payroll.WeekendOvertimeFactor.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYROLL_WEEKEND_OVERTIME_FACTOR must be at least 1")
	}
	if c.Bonus.AverageWindowMonths < 1 || c.Bonus.AverageWindowMonths > 12 {
		return fmt.Errorf("BONUS_AVERAGE_WINDOW_MONTHS must be between 1 and 12")
	}
	if c.Bonus.MinDaysPerTwelfth < 1 || c.Bonus.MinDaysPerTwelfth > 31 {
		return fmt.Errorf("BONUS_MIN_DAYS_PER_TWELFTH must be between 1 and 31")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Policy converts the payroll section into the calculator policy.
func (c *Config) Policy() payroll.Policy {
	return payroll.Policy{
		OvertimeDivisor:        c.Payroll.OvertimeDivisor,
		EmployerChargeRate:     c.Payroll.EmployerChargeRate,
		WeekdayOvertimeFactor:  c.Payroll.WeekdayOvertimeFactor,
		WeekendOvertimeFactor:  c.Payroll.WeekendOvertimeFactor,
		RequireFinalizedOrders: c.Payroll.RequireFinalizedOrders,
	}
}

// BonusSettings converts the bonus section into the accrual settings.
func (c *Config) BonusSettings() bonus.Settings {
	return bonus.Settings{
		AverageWindowMonths: c.Bonus.AverageWindowMonths,
		MinDaysPerTwelfth:   c.Bonus.MinDaysPerTwelfth,
	}
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
