package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ration-shop-go/pkg/logger"
)

type Config struct {
	HTTPPort string
	Env      string
	DB       DBConfig
	SMTP     SMTPConfig
	Admin    AdminConfig
	Checkout CheckoutConfig
	Sweep    SweepConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

type AdminConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type CheckoutConfig struct {
	OTPTTL      time.Duration
	LockTimeout time.Duration
}

type SweepConfig struct {
	Interval           time.Duration
	ItemMaxAge         time.Duration
	NotificationMaxAge time.Duration
	RecentItemWindow   time.Duration
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "ration_shop"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		SMTP: SMTPConfig{
			Enabled:  getEnvBool("SMTP_ENABLED", false),
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnv("SMTP_PORT", "587"),
			From:     getEnv("SMTP_FROM", "noreply@ration-shop.local"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		Admin: AdminConfig{
			JWTSecret: getEnv("ADMIN_JWT_SECRET", "dev-secret-change-me"),
			TokenTTL:  getEnvDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		},
		Checkout: CheckoutConfig{
			OTPTTL:      getEnvDuration("CHECKOUT_OTP_TTL", 5*time.Minute),
			LockTimeout: getEnvDuration("CHECKOUT_LOCK_TIMEOUT", 5*time.Second),
		},
		Sweep: SweepConfig{
			Interval:           getEnvDuration("SWEEP_INTERVAL", time.Hour),
			ItemMaxAge:         getEnvDuration("SWEEP_ITEM_MAX_AGE", 72*time.Hour),
			NotificationMaxAge: getEnvDuration("SWEEP_NOTIFICATION_MAX_AGE", 72*time.Hour),
			RecentItemWindow:   getEnvDuration("RECENT_ITEM_WINDOW", 48*time.Hour),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
