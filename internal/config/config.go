// =================================
// File: internal/config/config.go
// =================================
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

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/format"
)

type Config struct {
	APIURL           string                `mapstructure:"api_url"`
	PageSize         int                   `mapstructure:"page_size"`
	RequestTimeoutMs int                   `mapstructure:"request_timeout_ms"`
	Retries          int                   `mapstructure:"retries"`
	RetryDelayMs     int                   `mapstructure:"retry_delay_ms"`
	DebugLogging     bool                  `mapstructure:"debug_logging"`
	DefaultFilter    domain.FilterCriteria `mapstructure:"default_filter"`
	StateFile        string                `mapstructure:"state_file"`
	LogFile          string                `mapstructure:"log_file"`
	LogBufferSize    int                   `mapstructure:"log_buffer_size"`
	ExportDir        string                `mapstructure:"export_dir"`
	ExplorerURL      string                `mapstructure:"explorer_url"`
	ChartURL         string                `mapstructure:"chart_url"`
	SocialLinks      []format.SocialLink   `mapstructure:"social_links"`

	// Derived after load.
	RequestTimeout time.Duration `mapstructure:"-"`
	RetryDelay     time.Duration `mapstructure:"-"`
}

const (
	EnvPrefix = "COPYTRADE"

	DefaultAPIURL           = "https://api-production-0673.up.railway.app"
	DefaultPageSize         = 50
	MaxPageSize             = 100
	DefaultRequestTimeoutMs = 20000
	DefaultRetryDelayMs     = 500
	DefaultStateFile        = "data/state.json"
	DefaultLogFile          = "logs/dashboard.log"
	DefaultLogBufferSize    = 1000
	DefaultExportDir        = "exports"
)

// Load reads configuration from path (optional), .env and COPYTRADE_*
// environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.SocialLinks) == 0 {
		cfg.SocialLinks = format.DefaultSocialLinks()
	}

	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutMs) * time.Millisecond
	cfg.RetryDelay = time.Duration(cfg.RetryDelayMs) * time.Millisecond

	return &cfg, validateConfig(&cfg)
}

func setDefaults(v *viper.Viper) {
	filter := domain.DefaultFilter()
	defaults := map[string]interface{}{
		"api_url":                     DefaultAPIURL,
		"page_size":                   DefaultPageSize,
		"request_timeout_ms":          DefaultRequestTimeoutMs,
		"retries":                     0,
		"retry_delay_ms":              DefaultRetryDelayMs,
		"debug_logging":               false,
		"default_filter.min_roi":      filter.MinROI,
		"default_filter.min_win_rate": filter.MinWinRate,
		"default_filter.min_trades":   filter.MinTrades,
		"state_file":                  DefaultStateFile,
		"log_file":                    DefaultLogFile,
		"log_buffer_size":             DefaultLogBufferSize,
		"export_dir":                  DefaultExportDir,
		"explorer_url":                format.DefaultExplorerURL,
		"chart_url":                   format.DefaultChartURL,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func validateConfig(cfg *Config) error {
	if err := validateURL(cfg.APIURL); err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}
	if cfg.PageSize < 1 || cfg.PageSize > MaxPageSize {
		return fmt.Errorf("page_size must be within 1..%d", MaxPageSize)
	}
	if cfg.RequestTimeoutMs <= 0 {
		return errors.New("invalid request_timeout_ms")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if cfg.RetryDelayMs < 0 {
		return errors.New("invalid retry_delay_ms")
	}
	if cfg.LogBufferSize <= 0 {
		return errors.New("invalid log_buffer_size")
	}
	if err := cfg.DefaultFilter.Validate(); err != nil {
		return fmt.Errorf("invalid default_filter: %w", err)
	}
	for _, link := range cfg.SocialLinks {
		if err := validateURL(link.URL); err != nil {
			return fmt.Errorf("invalid social link %q: %w", link.Name, err)
		}
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("invalid URL protocol")
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// Links returns the outbound link templates.
func (c *Config) Links() format.Links {
	return format.Links{ExplorerURL: c.ExplorerURL, ChartURL: c.ChartURL}
}
