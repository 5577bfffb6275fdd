package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	TextGen    TextGenConfig    `mapstructure:"textgen"`
	Generation GenerationConfig `mapstructure:"generation"`
	Leads      LeadsConfig      `mapstructure:"leads"`
	Site       SiteConfig       `mapstructure:"site"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the lib/pq keyword/value connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// URL returns the postgres:// form used by the migration tool.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "memory" or "redis"
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// TextGenConfig configures the text-generation collaborator used by the AI page path
type TextGenConfig struct {
	Provider          string        `mapstructure:"provider"` // "anthropic" or "gemini"
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Temperature       float64       `mapstructure:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// GenerationConfig configures the batch page pipeline
type GenerationConfig struct {
	Delay               time.Duration `mapstructure:"delay"`
	RecommendationCount int           `mapstructure:"recommendation_count"`
	Schedule            string        `mapstructure:"schedule"`
}

// LeadsConfig configures lead intake and the operator endpoints
type LeadsConfig struct {
	BlockedEmailDomains []string `mapstructure:"blocked_email_domains"`
	AdminPassword       string   `mapstructure:"admin_password"`
	MaxMatches          int      `mapstructure:"max_matches"`
}

// SiteConfig holds public site settings used for sitemap URLs
type SiteConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	SitemapMaxAge time.Duration `mapstructure:"sitemap_max_age"`
}

// DefaultBlockedEmailDomains are consumer mail providers rejected by lead intake.
var DefaultBlockedEmailDomains = []string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"aol.com",
	"icloud.com",
	"mail.com",
	"protonmail.com",
	"zoho.com",
	"yandex.com",
	"gmx.com",
	"live.com",
	"msn.com",
}

// envFiles are loaded, in order, before the environment is read. Earlier files win.
var envFiles = []string{".env.local", ".env"}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/softwarescout/")

	// Environment variable settings
	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	normalize(&config)

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile populates the process environment from dotenv files that exist.
// Variables already set in the environment are never overwritten.
func loadEnvFile() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("error loading %s: %w", name, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values. Every key gets a default so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"https://softwarescout.xyz", "http://localhost:*"})
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "softwarescout")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", "1h")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)

	// Text generation defaults
	v.SetDefault("textgen.provider", "anthropic")
	v.SetDefault("textgen.api_key", "")
	v.SetDefault("textgen.model", "")
	v.SetDefault("textgen.base_url", "")
	v.SetDefault("textgen.max_tokens", 4096)
	v.SetDefault("textgen.temperature", 0.7)
	v.SetDefault("textgen.timeout", "120s")
	v.SetDefault("textgen.max_attempts", 3)
	v.SetDefault("textgen.requests_per_minute", 60)

	// Generation pipeline defaults
	v.SetDefault("generation.delay", "1s")
	v.SetDefault("generation.recommendation_count", 4)
	v.SetDefault("generation.schedule", "0 3 * * *")

	// Lead defaults
	v.SetDefault("leads.blocked_email_domains", DefaultBlockedEmailDomains)
	v.SetDefault("leads.admin_password", "")
	v.SetDefault("leads.max_matches", 5)

	// Site defaults
	v.SetDefault("site.base_url", "https://softwarescout.xyz")
	v.SetDefault("site.sitemap_max_age", "1h")
}

// normalize lowercases enum-like values and trims list entries.
func normalize(config *Config) {
	config.Cache.Type = strings.ToLower(strings.TrimSpace(config.Cache.Type))
	config.TextGen.Provider = strings.ToLower(strings.TrimSpace(config.TextGen.Provider))
	config.Site.BaseURL = strings.TrimRight(config.Site.BaseURL, "/")

	domains := make([]string, 0, len(config.Leads.BlockedEmailDomains))
	for _, d := range config.Leads.BlockedEmailDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains = append(domains, d)
		}
	}
	config.Leads.BlockedEmailDomains = domains
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set SCOUT_SERVER_PORT)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisAddr == "" {
		return fmt.Errorf("redis address is required when cache type is 'redis'")
	}

	if config.TextGen.Provider != "anthropic" && config.TextGen.Provider != "gemini" {
		return fmt.Errorf("textgen provider must be 'anthropic' or 'gemini', got: %s", config.TextGen.Provider)
	}

	if config.Generation.RecommendationCount < 2 {
		return fmt.Errorf("generation recommendation_count must be at least 2, got: %d", config.Generation.RecommendationCount)
	}

	if config.Leads.MaxMatches <= 0 {
		return fmt.Errorf("leads max_matches must be positive, got: %d", config.Leads.MaxMatches)
	}

	if _, err := url.ParseRequestURI(config.Site.BaseURL); err != nil {
		return fmt.Errorf("site base_url is not a valid URL: %s", config.Site.BaseURL)
	}

	return nil
}
