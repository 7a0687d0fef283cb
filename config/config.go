// Package config loads korectl and application settings for a kore.Client
// from a YAML file and KORE_* environment variables, resolving credential
// references through package secret.
//
// Precedence, highest first: environment, file, defaults.
//
//	credentials:
//	  client_id: my-client
//	  client_secret: secretref:file:/run/secrets/kore_client_secret
//	requests_per_second: 10
//	timeout: 30s
//	retry:
//	  max_attempts: 3
//	  initial_delay: 1s
//	telemetry:
//	  logging:
//	    enabled: true
//	    level: info
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonwraymond/kore"
	"github.com/jonwraymond/kore/observe"
	"github.com/jonwraymond/kore/resilience"
	"github.com/jonwraymond/kore/secret"
)

// EnvPrefix prefixes every environment variable, e.g. KORE_TIMEOUT.
const EnvPrefix = "KORE"

// ErrMissingCredentials is returned when client_id or client_secret is
// empty after resolution.
var ErrMissingCredentials = errors.New("config: client_id and client_secret are required")

// Config is the file and environment configuration.
type Config struct {
	Credentials       Credentials   `mapstructure:"credentials"`
	Endpoints         Endpoints     `mapstructure:"endpoints"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Retry             Retry         `mapstructure:"retry"`
	UserAgent         string        `mapstructure:"user_agent"`
	AllowInsecure     bool          `mapstructure:"allow_insecure"`
	Telemetry         Telemetry     `mapstructure:"telemetry"`
}

// Credentials may hold literals, ${VAR} references or secretrefs.
type Credentials struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// Endpoints overrides the service origins. Empty means production.
type Endpoints struct {
	Auth     string `mapstructure:"auth"`
	Wireless string `mapstructure:"wireless"`
	SuperSim string `mapstructure:"supersim"`
	Webhook  string `mapstructure:"webhook"`
	Client   string `mapstructure:"client"`
}

// Retry configures the retry policy.
type Retry struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	Multiplier   float64       `mapstructure:"multiplier"`
	Jitter       bool          `mapstructure:"jitter"`
}

// Telemetry configures tracing, metrics and logging.
type Telemetry struct {
	ServiceName string `mapstructure:"service_name"`
	Tracing     struct {
		Enabled   bool    `mapstructure:"enabled"`
		Exporter  string  `mapstructure:"exporter"`
		SamplePct float64 `mapstructure:"sample_pct"`
	} `mapstructure:"tracing"`
	Metrics struct {
		Enabled  bool   `mapstructure:"enabled"`
		Exporter string `mapstructure:"exporter"`
	} `mapstructure:"metrics"`
	Logging struct {
		Enabled bool     `mapstructure:"enabled"`
		Level   string   `mapstructure:"level"`
		Redact  []string `mapstructure:"redact"`
	} `mapstructure:"logging"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("credentials.client_id", "")
	v.SetDefault("credentials.client_secret", "")
	v.SetDefault("endpoints.auth", "")
	v.SetDefault("endpoints.wireless", "")
	v.SetDefault("endpoints.supersim", "")
	v.SetDefault("endpoints.webhook", "")
	v.SetDefault("endpoints.client", "")
	v.SetDefault("requests_per_second", kore.DefaultRequestsPerSecond)
	v.SetDefault("timeout", "30s")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_delay", "1s")
	v.SetDefault("retry.max_delay", "30s")
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter", false)
	v.SetDefault("user_agent", "")
	v.SetDefault("allow_insecure", false)
	v.SetDefault("telemetry.service_name", "kore")
	v.SetDefault("telemetry.tracing.enabled", false)
	v.SetDefault("telemetry.tracing.exporter", "none")
	v.SetDefault("telemetry.tracing.sample_pct", 1.0)
	v.SetDefault("telemetry.metrics.enabled", false)
	v.SetDefault("telemetry.metrics.exporter", "none")
	v.SetDefault("telemetry.logging.enabled", true)
	v.SetDefault("telemetry.logging.level", "info")
	v.SetDefault("telemetry.logging.redact", []string{})
}

// Load reads path, if non-empty, then the environment, and resolves the
// credentials with r. A nil r uses secret.NewDefaultResolver.
//
// Besides the KORE_<SECTION>_<KEY> form, KORE_CLIENT_ID and
// KORE_CLIENT_SECRET set the credentials.
func Load(ctx context.Context, path string, r *secret.Resolver) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("credentials.client_id", EnvPrefix+"_CLIENT_ID", EnvPrefix+"_CREDENTIALS_CLIENT_ID")
	_ = v.BindEnv("credentials.client_secret", EnvPrefix+"_CLIENT_SECRET", EnvPrefix+"_CREDENTIALS_CLIENT_SECRET")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if r == nil {
		var err error
		r, err = secret.NewDefaultResolver(nil)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
	}
	if err := cfg.resolve(ctx, r); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolve(ctx context.Context, r *secret.Resolver) error {
	id, err := r.Resolve(ctx, c.Credentials.ClientID)
	if err != nil {
		return fmt.Errorf("config: client_id: %w", err)
	}
	sec, err := r.Resolve(ctx, c.Credentials.ClientSecret)
	if err != nil {
		return fmt.Errorf("config: client_secret: %w", err)
	}
	c.Credentials.ClientID = id
	c.Credentials.ClientSecret = sec
	return nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Credentials.ClientID) == "" || strings.TrimSpace(c.Credentials.ClientSecret) == "" {
		return ErrMissingCredentials
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("config: requests_per_second must be positive, got %v", c.RequestsPerSecond)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("config: retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	obs := c.ObserveConfig()
	return obs.Validate()
}

// ObserveConfig returns the telemetry settings for observe.NewObserver.
func (c *Config) ObserveConfig() observe.Config {
	t := c.Telemetry
	return observe.Config{
		ServiceName: t.ServiceName,
		Tracing: observe.TracingConfig{
			Enabled:   t.Tracing.Enabled,
			Exporter:  t.Tracing.Exporter,
			SamplePct: t.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  t.Metrics.Enabled,
			Exporter: t.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: t.Logging.Enabled,
			Level:   t.Logging.Level,
			Redact:  t.Logging.Redact,
		},
	}
}

// ClientConfig returns the kore.Config for these settings. obs may be nil.
func (c *Config) ClientConfig(obs observe.Observer) kore.Config {
	return kore.Config{
		ClientID:          c.Credentials.ClientID,
		ClientSecret:      c.Credentials.ClientSecret,
		AuthURL:           c.Endpoints.Auth,
		WirelessURL:       c.Endpoints.Wireless,
		SuperSimURL:       c.Endpoints.SuperSim,
		WebhookURL:        c.Endpoints.Webhook,
		ClientURL:         c.Endpoints.Client,
		RequestsPerSecond: c.RequestsPerSecond,
		Timeout:           c.Timeout,
		Retry: resilience.RetryConfig{
			MaxAttempts:  c.Retry.MaxAttempts,
			InitialDelay: c.Retry.InitialDelay,
			MaxDelay:     c.Retry.MaxDelay,
			Multiplier:   c.Retry.Multiplier,
			Jitter:       c.Retry.Jitter,
		},
		Observer:      obs,
		AllowInsecure: c.AllowInsecure,
		UserAgent:     c.UserAgent,
	}
}
