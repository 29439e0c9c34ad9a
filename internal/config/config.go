package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// DefaultBaseURL is the public data.police.uk API root.
const DefaultBaseURL = "https://data.police.uk/api"

var (
	ErrInvalidPort     = errors.New("PORT must be a number between 1 and 65535")
	ErrInvalidBaseURL  = errors.New("POLICE_API_BASE_URL must be an absolute http(s) URL")
	ErrInvalidTimeout  = errors.New("POLICE_API_TIMEOUT must be positive")
	ErrInvalidPolicy   = errors.New(`EMPTY_BOUNDARY_POLICY must be "allow" or "strict"`)
	ErrInvalidLogLevel = errors.New("LOG_LEVEL must be debug, info, warn or error")
)

// Config holds the server's settings.
type Config struct {
	Port string `env:"PORT"`

	PoliceAPIBaseURL string        `env:"POLICE_API_BASE_URL"`
	PoliceAPITimeout time.Duration `env:"POLICE_API_TIMEOUT"`

	// EmptyBoundaryPolicy: "allow" returns an aggregate without crime data
	// for a neighbourhood with no boundary, "strict" fails the request.
	EmptyBoundaryPolicy string `env:"EMPTY_BOUNDARY_POLICY"`
	ParallelFetch       bool   `env:"PARALLEL_FETCH"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

// fileConfig is the YAML shape of CONFIG_FILE. Durations are strings.
type fileConfig struct {
	Port                string   `yaml:"port"`
	PoliceAPIBaseURL    string   `yaml:"police_api_base_url"`
	PoliceAPITimeout    string   `yaml:"police_api_timeout"`
	EmptyBoundaryPolicy string   `yaml:"empty_boundary_policy"`
	ParallelFetch       *bool    `yaml:"parallel_fetch"`
	AllowedOrigins      []string `yaml:"cors_allowed_origins"`
	LogLevel            string   `yaml:"log_level"`
	LogFormat           string   `yaml:"log_format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:                "5050",
		PoliceAPIBaseURL:    DefaultBaseURL,
		PoliceAPITimeout:    15 * time.Second,
		EmptyBoundaryPolicy: "allow",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:5174",
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load builds the configuration from, in increasing precedence: defaults,
// the YAML file named by CONFIG_FILE, and environment variables (including
// those in .env.local).
//
// Environment variables:
//   - PORT: listen port (default: 5050)
//   - POLICE_API_BASE_URL: API root (default: https://data.police.uk/api)
//   - POLICE_API_TIMEOUT: per-call timeout, e.g. "10s" (default: 15s)
//   - EMPTY_BOUNDARY_POLICY: "allow" or "strict" (default: allow)
//   - PARALLEL_FETCH: fetch team and events concurrently (default: false)
//   - CORS_ALLOWED_ORIGINS: comma separated origins
//   - LOG_LEVEL, LOG_FORMAT: zap level and "json" or "console"
func Load() (Config, error) {
	_ = godotenv.Load(".env.local")

	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.PoliceAPIBaseURL != "" {
		cfg.PoliceAPIBaseURL = fc.PoliceAPIBaseURL
	}
	if fc.PoliceAPITimeout != "" {
		d, err := time.ParseDuration(fc.PoliceAPITimeout)
		if err != nil {
			return fmt.Errorf("parse police_api_timeout: %w", err)
		}
		cfg.PoliceAPITimeout = d
	}
	if fc.EmptyBoundaryPolicy != "" {
		cfg.EmptyBoundaryPolicy = fc.EmptyBoundaryPolicy
	}
	if fc.ParallelFetch != nil {
		cfg.ParallelFetch = *fc.ParallelFetch
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return ErrInvalidPort
	}

	u, err := url.Parse(c.PoliceAPIBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidBaseURL
	}

	if c.PoliceAPITimeout <= 0 {
		return ErrInvalidTimeout
	}

	switch strings.ToLower(strings.TrimSpace(c.EmptyBoundaryPolicy)) {
	case "", "allow", "strict":
	default:
		return ErrInvalidPolicy
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}
