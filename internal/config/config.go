package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	AI        AIConfig
	Email     EmailConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Runtime flags, set from the command line rather than the config file.
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig is the per-IP edge limit, not the AI provider limit.
type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type AIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`

	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	MaxRetries     int `mapstructure:"max_retries"`

	// Questions per worksheet and per provider call.
	QuestionCount int `mapstructure:"question_count"`
	BatchSize     int `mapstructure:"batch_size"`

	// Outbound provider ceilings enforced by the AI rate limiter.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	RequestsPerHour   int `mapstructure:"requests_per_hour"`
	// MinGapMs is the pacing floor between any two provider calls.
	MinGapMs     int `mapstructure:"min_gap_ms"`
	RetryDelayMs int `mapstructure:"retry_delay_ms"`
	BatchPauseMs int `mapstructure:"batch_pause_ms"`
}

type EmailConfig struct {
	SendgridKey string `mapstructure:"sendgrid_key"`
	FromName    string `mapstructure:"from_name"`
	FromAddress string `mapstructure:"from_address"`
	// Base URL of the web frontend, used to build password-reset links.
	AppBaseURL string `mapstructure:"app_base_url"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("THINKDRILLS")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI provider
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Email
	viper.BindEnv("email.sendgrid_key", "SENDGRID_API_KEY")
	viper.BindEnv("email.from_address", "EMAIL_FROM_ADDRESS")
	viper.BindEnv("email.app_base_url", "APP_BASE_URL")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	viper.SetDefault("ai.model", "gpt-3.5-turbo")
	viper.SetDefault("ai.temperature", 0.7)
	viper.SetDefault("ai.timeout_seconds", 60)
	viper.SetDefault("ai.max_retries", 3)
	viper.SetDefault("ai.question_count", 10)
	viper.SetDefault("ai.batch_size", 10)
	viper.SetDefault("ai.requests_per_minute", 5)
	viper.SetDefault("ai.requests_per_hour", 100)
	viper.SetDefault("ai.min_gap_ms", 200)
	viper.SetDefault("ai.retry_delay_ms", 1000)
	viper.SetDefault("ai.batch_pause_ms", 500)
	viper.SetDefault("email.from_name", "ThinkDrills")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	// A zero ceiling would make the AI limiter block forever; reject it here.
	if cfg.AI.RequestsPerMinute < 1 || cfg.AI.RequestsPerHour < 1 {
		return nil, fmt.Errorf("ai rate limit ceilings must be at least 1 (got %d/min, %d/hour)",
			cfg.AI.RequestsPerMinute, cfg.AI.RequestsPerHour)
	}

	return &cfg, nil
}
