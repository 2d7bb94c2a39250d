package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Upstream gd2 feeds
	ScheduleURLTemplate  string        `envconfig:"SCHEDULE_URL_TEMPLATE" default:"http://gd2.mlb.com/components/game/mlb/year_%s/month_%s/day_%s/miniscoreboard.json"`
	LinescoreURLTemplate string        `envconfig:"LINESCORE_URL_TEMPLATE" default:"http://gd2.mlb.com/%s/linescore.json"`
	GamedayURLTemplate   string        `envconfig:"GAMEDAY_URL_TEMPLATE" default:"http://mlb.com/mlb/gameday/index.jsp?gid=%s"`
	UpstreamTimeout      time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"30s"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"scoreboard"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"scoreboard_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP
	ServerPort      int           `envconfig:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Scheduler
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	DailyIngestCron string `envconfig:"DAILY_INGEST_CRON" default:"0 10 * * *"`
	CleanupCron     string `envconfig:"CLEANUP_CRON" default:"30 10 * * *"`

	// Caching
	FinalByteTTL time.Duration `envconfig:"CACHE_TTL_FINAL_BYTE" default:"6h"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if strings.Count(c.ScheduleURLTemplate, "%s") != 3 {
		return fmt.Errorf("SCHEDULE_URL_TEMPLATE must contain exactly three %%s placeholders")
	}

	if strings.Count(c.LinescoreURLTemplate, "%s") != 1 {
		return fmt.Errorf("LINESCORE_URL_TEMPLATE must contain exactly one %%s placeholder")
	}

	if strings.Count(c.GamedayURLTemplate, "%s") != 1 {
		return fmt.Errorf("GAMEDAY_URL_TEMPLATE must contain exactly one %%s placeholder")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
