package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application settings, populated from environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Weather  WeatherConfig
	Email    EmailConfig
}

type ServerConfig struct {
	Addr               string
	PublicBaseURL      string
	RateLimitPerSecond int
	RateLimitBurst     int
	ShutdownTimeout    time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN assembles the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

type WeatherConfig struct {
	APIKey  string
	BaseURL string
	GeoURL  string
	Timeout time.Duration
}

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Enabled  bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. It fails fast on anything the service cannot run without.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:               envOrDefault("HTTP_ADDR", ":8000"),
			PublicBaseURL:      envOrDefault("PUBLIC_BASE_URL", "http://localhost:8000"),
			RateLimitPerSecond: envInt("RATE_LIMIT_PER_SECOND", 0),
			RateLimitBurst:     envInt("RATE_LIMIT_BURST", 0),
			ShutdownTimeout:    envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     envOrDefault("DB_NAME", "weather"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			AccessTokenTTL: envDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
			ResetTokenTTL:  envDuration("RESET_TOKEN_TTL", 24*time.Hour),
		},
		Weather: WeatherConfig{
			APIKey:  os.Getenv("OPENWEATHER_API_KEY"),
			BaseURL: envOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
			GeoURL:  envOrDefault("OPENWEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0"),
			Timeout: envDuration("OPENWEATHER_TIMEOUT", 10*time.Second),
		},
		Email: EmailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOrDefault("SMTP_FROM", "alerts@weather.local"),
		},
	}
	cfg.Email.Enabled = cfg.Email.Host != ""

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.Weather.APIKey == "" {
		return nil, errors.New("OPENWEATHER_API_KEY is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
