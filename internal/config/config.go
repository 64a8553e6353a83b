// Package config loads application configuration with multi-source
// priority: environment variables override the optional config file
// (~/.cdash-mcp/config.yaml or ./config.yaml), which overrides defaults.
//
// The two knobs that matter operationally are CDASH_URL and CDASH_TOKEN.
// Both are optional: the URL falls back to the public dashboard, and a
// missing token simply disables auth (private instances then answer 401,
// surfaced to the caller as AuthenticationFailed).
//
// The loaded Config is an explicit value handed to constructors; nothing
// reads ambient state after Load returns, so tests can build a Config
// pointing at a fixture server without touching the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidURL indicates the dashboard URL does not parse as http(s).
	ErrInvalidURL = errors.New("invalid dashboard URL")

	// ErrInvalidTimeout indicates a non-positive request timeout.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidRateLimit indicates a negative outbound rate limit.
	ErrInvalidRateLimit = errors.New("invalid rate limit")
)

// Defaults.
const (
	DefaultURL               = "https://my.cdash.org"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 4.0
	DefaultBurst             = 8
)

// Config is the application configuration.
type Config struct {
	// URL is the dashboard base URL.
	URL string `mapstructure:"url"`

	// Token is the bearer token for private dashboards. Never logged.
	Token string `mapstructure:"token"`

	// Timeout bounds each outbound dashboard request.
	Timeout time.Duration `mapstructure:"timeout"`

	// RequestsPerSecond throttles outbound dashboard calls. Zero disables
	// throttling.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`

	// Burst is the throttle burst size.
	Burst int `mapstructure:"burst"`

	// OTLPEndpoint enables trace export when set (e.g. "localhost:4318").
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// Environment tags exported traces (dev, staging, prod).
	Environment string `mapstructure:"environment"`

	// Debug lowers the log level to debug.
	Debug bool `mapstructure:"debug"`
}

// Load reads configuration from defaults, an optional config file, and the
// environment, then validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".cdash-mcp"))
	}
	v.AddConfigPath(".")

	v.SetDefault("url", DefaultURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("requests_per_second", DefaultRequestsPerSecond)
	v.SetDefault("burst", DefaultBurst)
	v.SetDefault("environment", "dev")

	// Fixed variable names, shared with other dashboard tooling.
	bind := func(key, env string) {
		if err := v.BindEnv(key, env); err != nil {
			panic(fmt.Sprintf("binding %s: %v", env, err))
		}
	}
	bind("url", "CDASH_URL")
	bind("token", "CDASH_TOKEN")
	bind("timeout", "CDASH_TIMEOUT")
	bind("otlp_endpoint", "CDASH_MCP_OTLP_ENDPOINT")
	bind("environment", "CDASH_MCP_ENV")
	bind("debug", "CDASH_MCP_DEBUG")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on configuration the client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, c.URL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Timeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRateLimit, c.RequestsPerSecond)
	}
	return nil
}
