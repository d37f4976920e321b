// Package config provides configuration loading for the cell info exporter.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tmobile-dashboard/cellinfo/gateway"
	"github.com/tmobile-dashboard/cellinfo/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CELLINFO_"

// Config holds the application configuration.
type Config struct {
	// Gateway configuration
	Gateway GatewayConfig `yaml:"gateway"`

	// Metrics server configuration
	Metrics MetricsConfig `yaml:"metrics"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`

	// Store configuration
	Store StoreConfig `yaml:"store"`
}

// GatewayConfig holds gateway connection settings.
type GatewayConfig struct {
	// URL is the base URL of the gateway
	URL string `yaml:"url"`

	// Model is the gateway model (arcadyan_kvd21, nokia, sagemcom, or auto)
	Model string `yaml:"model"`

	// PollInterval is the minimum time between gateway observations
	PollInterval time.Duration `yaml:"poll_interval"`

	// Timeout for gateway requests
	Timeout time.Duration `yaml:"timeout"`

	// Username for gateway authentication (if required)
	Username string `yaml:"username"`

	// Password for gateway authentication (if required)
	Password string `yaml:"password"`

	// InsecureSkipVerify skips TLS certificate verification
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// RateLimit caps gateway requests per second (0 = no limit)
	RateLimit float64 `yaml:"rate_limit"`

	// MCC and MNC of the operator, attached to every cell identity
	MCC string `yaml:"mcc"`
	MNC string `yaml:"mnc"`
}

// MetricsConfig holds Prometheus metrics server settings.
type MetricsConfig struct {
	// Port to serve metrics on
	Port int `yaml:"port"`

	// Path for metrics endpoint
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Format is the log format (json, text)
	Format string `yaml:"format"`
}

// StoreConfig holds snapshot store settings.
type StoreConfig struct {
	// Path of the LevelDB directory; empty disables recording
	Path string `yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	gw := gateway.DefaultConfig()
	return Config{
		Gateway: GatewayConfig{
			URL:                gw.URL,
			Model:              "auto",
			PollInterval:       5 * time.Second,
			Timeout:            gw.Timeout,
			InsecureSkipVerify: gw.InsecureSkipVerify,
			RateLimit:          gw.RateLimit,
			MCC:                gw.MCC,
			MNC:                gw.MNC,
		},
		Metrics: MetricsConfig{
			Port: 9100,
			Path: "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// Environment variables override values from the config file; malformed
// numbers and durations are ignored.
func LoadConfigFromEnv(cfg *Config) {
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	if url := env("GATEWAY_URL"); url != "" {
		cfg.Gateway.URL = url
	}

	if model := env("GATEWAY_MODEL"); model != "" {
		cfg.Gateway.Model = model
	}

	if interval := env("POLL_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Gateway.PollInterval = d
		}
	}

	if port := env("METRICS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Metrics.Port = p
		}
	}

	if username := env("GATEWAY_USERNAME"); username != "" {
		cfg.Gateway.Username = username
	}

	if password := env("GATEWAY_PASSWORD"); password != "" {
		cfg.Gateway.Password = password
	}

	if level := env("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if format := env("LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	if path := env("STORE_PATH"); path != "" {
		cfg.Store.Path = path
	}
}

// Validate reports settings the exporter cannot run with.
func (c *Config) Validate() error {
	if c.Gateway.URL == "" {
		return fmt.Errorf("gateway url is required")
	}
	if _, err := c.gatewayModel(); err != nil {
		return err
	}
	if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("invalid metrics port %d", c.Metrics.Port)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics path %q must start with /", c.Metrics.Path)
	}
	if c.Gateway.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit %v", c.Gateway.RateLimit)
	}
	return nil
}

func (c *Config) gatewayModel() (gateway.GatewayModel, error) {
	switch strings.ToLower(c.Gateway.Model) {
	case "arcadyan_kvd21", "arcadyan", "kvd21":
		return gateway.ModelArcadyanKVD21, nil
	case "nokia":
		return gateway.ModelNokia, nil
	case "sagemcom":
		return gateway.ModelSagemcom, nil
	case "auto", "":
		return gateway.ModelUnknown, nil
	}
	return "", fmt.Errorf("unknown gateway model %q", c.Gateway.Model)
}

// ToGatewayConfig converts the config to a gateway.ClientConfig.
// Unknown models fall back to auto-detection.
func (c *Config) ToGatewayConfig() gateway.ClientConfig {
	model, err := c.gatewayModel()
	if err != nil {
		model = gateway.ModelUnknown
	}

	return gateway.ClientConfig{
		URL:                c.Gateway.URL,
		Model:              model,
		Timeout:            c.Gateway.Timeout,
		Username:           c.Gateway.Username,
		Password:           c.Gateway.Password,
		InsecureSkipVerify: c.Gateway.InsecureSkipVerify,
		RateLimit:          c.Gateway.RateLimit,
		MCC:                c.Gateway.MCC,
		MNC:                c.Gateway.MNC,
	}
}

// ToLoggingConfig converts the config to a logging.Config.
func (c *Config) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
	}
}
