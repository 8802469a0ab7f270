package config

import (
	"os"
	"strconv"
	"time"
)

type Application struct {
	Environment             string // development, staging or production
	InternalAPIKey          string
	GracefulShutdownTimeout time.Duration
}

type HTTPServer struct {
	Port int
}

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type Logger struct {
	Level string
	Mode  string // development or production
}

type Swagger struct {
	Enabled bool `json:"enabled"`
}

type JWT struct {
	Secret         string
	ExpirationTime time.Duration
}

type OTP struct {
	ExpirationTime time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
	// DebugExposeCode returns generated codes to the caller instead of
	// dispatching them. Honored only outside production; Load forces it
	// off when Environment is "production".
	DebugExposeCode bool
}

type RateLimit struct {
	MaxRequests    int
	WindowDuration time.Duration
}

type Delivery struct {
	SMSProviderURL   string
	SMSSourceNumber  string
	EmailProviderURL string
	EmailSender      string
	APIKey           string
	Timeout          time.Duration
}

type Config struct {
	Application Application
	HTTPServer  HTTPServer
	Database    Database
	Redis       Redis
	Logger      Logger
	Swagger     Swagger
	JWT         JWT
	OTP         OTP
	RateLimit   RateLimit
	Delivery    Delivery
}

func Load() (*Config, error) {
	cfg := &Config{
		Application: Application{
			Environment:             getEnvWithDefault("APPLICATION_ENV", "development"),
			InternalAPIKey:          getEnvWithDefault("APPLICATION_INTERNAL_API_KEY", ""),
			GracefulShutdownTimeout: parseDurationWithDefault("APPLICATION_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		HTTPServer: HTTPServer{
			Port: parseIntWithDefault("HTTP_SERVER_PORT", 8080),
		},
		Database: Database{
			Host:     getEnvWithDefault("DATABASE_HOST", "db"),
			Port:     parseIntWithDefault("DATABASE_PORT", 5432),
			User:     getEnvWithDefault("DATABASE_USER", "otp_verify"),
			Password: getEnvWithDefault("DATABASE_PASSWORD", "otp_verify"),
			Name:     getEnvWithDefault("DATABASE_NAME", "otp_verify"),
			SSLMode:  getEnvWithDefault("DATABASE_SSL_MODE", "disable"),
		},
		Redis: Redis{
			Host:     getEnvWithDefault("REDIS_HOST", "redis"),
			Port:     parseIntWithDefault("REDIS_PORT", 6379),
			Password: getEnvWithDefault("REDIS_PASSWORD", ""),
			DB:       parseIntWithDefault("REDIS_DB", 0),
		},
		Logger: Logger{
			Level: getEnvWithDefault("LOGGER_LEVEL", "info"),
			Mode:  getEnvWithDefault("LOGGER_MODE", "production"),
		},
		Swagger: Swagger{
			Enabled: getEnvBoolWithDefault("SWAGGER_ENABLED", true),
		},
		JWT: JWT{
			Secret:         getEnvWithDefault("JWT_SECRET", "your-super-secret-key-change-in-production"),
			ExpirationTime: parseDurationWithDefault("JWT_EXPIRATION_TIME", 24*time.Hour),
		},
		OTP: OTP{
			ExpirationTime:  parseDurationWithDefault("OTP_EXPIRATION_TIME", 10*time.Minute),
			ResendCooldown:  parseDurationWithDefault("OTP_RESEND_COOLDOWN", 60*time.Second),
			MaxAttempts:     parseIntWithDefault("OTP_MAX_ATTEMPTS", 5),
			DebugExposeCode: getEnvBoolWithDefault("OTP_DEBUG_EXPOSE_CODE", false),
		},
		RateLimit: RateLimit{
			MaxRequests:    parseIntWithDefault("RATE_LIMIT_MAX_REQUESTS", 3),
			WindowDuration: parseDurationWithDefault("RATE_LIMIT_WINDOW_DURATION", 10*time.Minute),
		},
		Delivery: Delivery{
			SMSProviderURL:   getEnvWithDefault("DELIVERY_SMS_PROVIDER_URL", ""),
			SMSSourceNumber:  getEnvWithDefault("DELIVERY_SMS_SOURCE_NUMBER", ""),
			EmailProviderURL: getEnvWithDefault("DELIVERY_EMAIL_PROVIDER_URL", ""),
			EmailSender:      getEnvWithDefault("DELIVERY_EMAIL_SENDER", "no-reply@example.com"),
			APIKey:           getEnvWithDefault("DELIVERY_API_KEY", ""),
			Timeout:          parseDurationWithDefault("DELIVERY_TIMEOUT", 10*time.Second),
		},
	}

	// Debug code exposure must never survive into a deployed build
	if cfg.Application.Environment == "production" {
		cfg.OTP.DebugExposeCode = false
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Application.Environment == "production"
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
