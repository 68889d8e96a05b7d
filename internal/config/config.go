package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	// Redis is optional; an empty address disables it.
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	// Auth configures verification of identity-provider tokens.
	Auth struct {
		Secret       string `yaml:"secret" env:"AUTH_JWT_SECRET"`
		Issuer       string `yaml:"issuer" env:"AUTH_JWT_ISSUER"`
		RequireToken bool   `yaml:"require_token" env:"AUTH_REQUIRE_TOKEN"`
	} `yaml:"auth"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Chat struct {
		MessageLimit int    `yaml:"message_limit" env:"CHAT_MESSAGE_LIMIT"`
		OnlineWindow string `yaml:"online_window" env:"CHAT_ONLINE_WINDOW"`
		MaxPinned    int    `yaml:"max_pinned" env:"CHAT_MAX_PINNED"`
	} `yaml:"chat"`

	Moderation struct {
		BlockedTerms []string `yaml:"blocked_terms" env:"MODERATION_BLOCKED_TERMS"`
		MaxLength    int      `yaml:"max_length" env:"MODERATION_MAX_LENGTH"`
		CacheSize    int      `yaml:"cache_size" env:"MODERATION_CACHE_SIZE"`
	} `yaml:"moderation"`

	Presence struct {
		// Backend is "postgres" or "redis"
		Backend string `yaml:"backend" env:"PRESENCE_BACKEND"`
	} `yaml:"presence"`

	RateLimit struct {
		WritesPerMinute int `yaml:"writes_per_minute" env:"RATE_LIMIT_WRITES_PER_MINUTE"`
	} `yaml:"rate_limit"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory is loaded into the environment first.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "campushub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Auth.Issuer = "campushub"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Chat.MessageLimit = 100
	config.Chat.OnlineWindow = "5m"
	config.Chat.MaxPinned = 3

	config.Moderation.MaxLength = 4000
	config.Moderation.CacheSize = 1024

	config.Presence.Backend = "postgres"

	config.RateLimit.WritesPerMinute = 60
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Auth.RequireToken && config.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required when tokens are enforced")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection lifetime: %w", err)
	}

	if _, err := time.ParseDuration(config.Chat.OnlineWindow); err != nil {
		return fmt.Errorf("invalid chat online window: %w", err)
	}

	if config.Chat.MessageLimit <= 0 {
		return fmt.Errorf("chat message limit must be positive")
	}

	if config.Chat.MaxPinned <= 0 {
		return fmt.Errorf("chat max pinned must be positive")
	}

	switch strings.ToLower(config.Presence.Backend) {
	case "postgres":
	case "redis":
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis presence backend requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown presence backend %q", config.Presence.Backend)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// RedisEnabled reports whether a redis address is configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}
