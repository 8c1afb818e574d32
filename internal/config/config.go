package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server    Server    `mapstructure:"server" yaml:"server"`
	Database  Database  `mapstructure:"database" yaml:"database"`
	Logger    Logger    `mapstructure:"logger" yaml:"logger"`
	Journal   Journal   `mapstructure:"journal" yaml:"journal"`
	Analytics Analytics `mapstructure:"analytics" yaml:"analytics"`
	Client    Client    `mapstructure:"client" yaml:"client"`
	Tracing   Tracing   `mapstructure:"tracing" yaml:"tracing"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN         string `mapstructure:"dsn" yaml:"dsn"`
	SlowQueryMs int    `mapstructure:"slow_query_ms" yaml:"slow_query_ms"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Journal holds the seed data for a fresh journal database.
type Journal struct {
	DefaultMember   string   `mapstructure:"default_member" yaml:"default_member"`
	InstrumentTypes []string `mapstructure:"instrument_types" yaml:"instrument_types"`
}

// Analytics holds dashboard defaults.
type Analytics struct {
	TopSymbols int    `mapstructure:"top_symbols" yaml:"top_symbols"`
	Timezone   string `mapstructure:"timezone" yaml:"timezone"`
}

// Location returns the timezone used to resolve relative date ranges.
func (a Analytics) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(a.Timezone)
}

// Client holds the configuration for the journal API client.
type Client struct {
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	RateLimit      float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"`
	MaxRetries     int           `mapstructure:"max_retries" yaml:"max_retries"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Tracing toggles the OpenTelemetry stdout exporter.
type Tracing struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and the environment still apply.
func LoadConfig(path string) (Config, error) {
	// .env is optional, real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("JOURNAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.slow_query_ms", d.Database.SlowQueryMs)
	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("journal.default_member", d.Journal.DefaultMember)
	v.SetDefault("journal.instrument_types", d.Journal.InstrumentTypes)
	v.SetDefault("analytics.top_symbols", d.Analytics.TopSymbols)
	v.SetDefault("analytics.timezone", d.Analytics.Timezone)
	v.SetDefault("client.base_url", d.Client.BaseURL)
	v.SetDefault("client.rate_limit", d.Client.RateLimit)             // requests per second
	v.SetDefault("client.rate_limit_burst", d.Client.RateLimitBurst) // burst size
	v.SetDefault("client.max_retries", d.Client.MaxRetries)
	v.SetDefault("client.timeout", d.Client.Timeout)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:            3000,
			AllowedOrigins:  []string{"http://localhost:5173"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			DSN:         "trading.db",
			SlowQueryMs: 200,
		},
		Logger: Logger{
			Level:  "info",
			Format: "console",
		},
		Journal: Journal{
			DefaultMember:   "Me",
			InstrumentTypes: []string{"EQUITY", "ETF", "MUTUAL_FUND"},
		},
		Analytics: Analytics{
			TopSymbols: 5,
		},
		Client: Client{
			BaseURL:        "http://localhost:3000/api",
			RateLimit:      10,
			RateLimitBurst: 5,
			MaxRetries:     3,
			Timeout:        15 * time.Second,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("logger.format must be 'json' or 'console', got '%s'", c.Logger.Format)
	}
	if c.Analytics.TopSymbols < 0 {
		return fmt.Errorf("analytics.top_symbols must not be negative")
	}
	if _, err := c.Analytics.Location(); err != nil {
		return fmt.Errorf("analytics.timezone: %w", err)
	}
	if c.Client.RateLimit <= 0 {
		return fmt.Errorf("client.rate_limit must be positive")
	}
	if c.Client.MaxRetries < 1 {
		return fmt.Errorf("client.max_retries must be at least 1")
	}
	return nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
