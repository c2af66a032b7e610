package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Google Calendar auth modes.
const (
	AuthModeServiceAccount = "service-account"
	AuthModeDelegated      = "delegated"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Booking BookingConfig
	Google  GoogleConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
}

// BookingConfig identifies the calendar bookings land on and tunes the
// optional reservation hold around the commit re-check.
type BookingConfig struct {
	CalendarID   string
	HoldsEnabled bool
	HoldTTL      time.Duration
}

// GoogleConfig selects and parameterises one of the two calendar credential
// paths: a service account (JSON key, base64) or a delegated OAuth2 client
// with a refresh token.
type GoogleConfig struct {
	AuthMode                 string
	ServiceAccountJSONBase64 string
	ClientID                 string
	ClientSecret             string
	RedirectURL              string
	RefreshToken             string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Booking = BookingConfig{
		CalendarID:   v.GetString("BOOKING_CALENDAR_ID"),
		HoldsEnabled: v.GetBool("BOOKING_HOLDS_ENABLED"),
		HoldTTL:      parseDuration(v.GetString("BOOKING_HOLD_TTL"), 30*time.Second),
	}

	cfg.Google = GoogleConfig{
		AuthMode:                 v.GetString("GOOGLE_AUTH_MODE"),
		ServiceAccountJSONBase64: v.GetString("GOOGLE_SERVICE_ACCOUNT_JSON_BASE64"),
		ClientID:                 v.GetString("GOOGLE_CLIENT_ID"),
		ClientSecret:             v.GetString("GOOGLE_CLIENT_SECRET"),
		RedirectURL:              v.GetString("GOOGLE_REDIRECT_URI"),
		RefreshToken:             v.GetString("GOOGLE_REFRESH_TOKEN"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Booking.CalendarID == "" {
		return errors.New("BOOKING_CALENDAR_ID is required")
	}
	switch c.Google.AuthMode {
	case AuthModeServiceAccount, AuthModeDelegated:
	default:
		return fmt.Errorf("GOOGLE_AUTH_MODE must be %q or %q, got %q",
			AuthModeServiceAccount, AuthModeDelegated, c.Google.AuthMode)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("BOOKING_CALENDAR_ID", "")
	v.SetDefault("BOOKING_HOLDS_ENABLED", false)
	v.SetDefault("BOOKING_HOLD_TTL", "30s")

	v.SetDefault("GOOGLE_AUTH_MODE", AuthModeServiceAccount)
	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_JSON_BASE64", "")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URI", "")
	v.SetDefault("GOOGLE_REFRESH_TOKEN", "")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
