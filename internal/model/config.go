package model

import (
	"errors"
	"net/url"
	"time"
)

// Config holds every tunable of the policywatch host
type Config struct {
	Backend     BackendConfig     `yaml:"backend" mapstructure:"backend"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Widget      WidgetConfig      `yaml:"widget" mapstructure:"widget"`
	Messaging   MessagingConfig   `yaml:"messaging" mapstructure:"messaging"`
	Settings    SettingsConfig    `yaml:"settings" mapstructure:"settings"`
	History     HistoryConfig     `yaml:"history" mapstructure:"history"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// BackendConfig locates the analysis service
type BackendConfig struct {
	BaseURL         string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	FullAnalysisURL string        `yaml:"full_analysis_url" mapstructure:"full_analysis_url"`
}

// HTTPConfig controls page fetching for the CLI host
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls the analysis result cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// WidgetConfig controls presentation timing and text bounds
type WidgetConfig struct {
	AutoDismiss time.Duration `yaml:"auto_dismiss" mapstructure:"auto_dismiss"`
	InPageLimit int           `yaml:"in_page_limit" mapstructure:"in_page_limit"`
	PopupLimit  int           `yaml:"popup_limit" mapstructure:"popup_limit"`
}

// MessagingConfig controls cross-context request handling
type MessagingConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SettingsConfig locates the persisted settings store
type SettingsConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// HistoryConfig controls the analysis history database
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// ConcurrencyConfig controls batch analysis
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	JSON    bool `yaml:"json" mapstructure:"json"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:         "http://localhost:8502",
			Timeout:         15 * time.Second,
			FullAnalysisURL: "http://localhost:8501",
		},
		HTTP: HTTPConfig{
			Timeout:       10 * time.Second,
			UserAgent:     "policywatch/0.3 (+https://github.com/ppiankov/policywatch)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".policywatch/cache",
			TTL:     24 * time.Hour,
		},
		Widget: WidgetConfig{
			AutoDismiss: 8 * time.Second,
			InPageLimit: 3000,
			PopupLimit:  5000,
		},
		Messaging: MessagingConfig{
			Timeout: 30 * time.Second,
		},
		Settings: SettingsConfig{
			Path: ".policywatch/settings.yaml",
		},
		History: HistoryConfig{
			Enabled: false,
			Dir:     ".policywatch",
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
	}
}

// Configuration validation errors
var (
	ErrInvalidBackendURL = errors.New("invalid backend base_url: must be an absolute http(s) URL")
	ErrInvalidTimeout    = errors.New("invalid timeout: must be positive")
	ErrInvalidTextLimit  = errors.New("invalid text limit: must be positive")
	ErrInvalidWorkers    = errors.New("invalid worker count: must be positive")
)

// Validate checks the configuration for values that would break the host
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBackendURL
	}
	if c.Backend.Timeout <= 0 || c.HTTP.Timeout <= 0 || c.Messaging.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Widget.InPageLimit <= 0 || c.Widget.PopupLimit <= 0 {
		return ErrInvalidTextLimit
	}
	if c.Concurrency.Workers <= 0 {
		return ErrInvalidWorkers
	}
	return nil
}
