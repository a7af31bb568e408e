package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/salmon/magicsig"
)

// Config is the salmon CLI configuration.
type Config struct {
	KeyFile   string          `yaml:"key_file"` // File holding the RSA.<n>.<e>.<d> signing key
	Signature SignatureConfig `yaml:"signature"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	LogLevel  string          `yaml:"log_level"` // debug, info, warn, error
}

// SignatureConfig selects how envelopes are signed and verified.
type SignatureConfig struct {
	Algorithm string `yaml:"algorithm"` // RSA-SHA256 or RSA-SHA1
	Padding   string `yaml:"padding"`   // pkcs1v15 or none
}

// DiscoveryConfig controls WebFinger lookups.
type DiscoveryConfig struct {
	Scheme   string `yaml:"scheme"`    // Scheme of host-meta URLs
	Timeout  int    `yaml:"timeout"`   // Per-request timeout in seconds
	Retries  *int   `yaml:"retries"`   // Retry budget for failed lookups, 0 disables retries
	CacheTTL int    `yaml:"cache_ttl"` // Key cache lifetime in seconds, 0 disables
}

// DeliveryConfig controls envelope delivery.
type DeliveryConfig struct {
	Concurrency int `yaml:"concurrency"` // Parallel posts per deliver run
	Timeout     int `yaml:"timeout"`     // Per-request timeout in seconds
}

const defaultRetries = 3

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

func (c *Config) applyDefaults() {
	if c.Signature.Algorithm == "" {
		c.Signature.Algorithm = magicsig.AlgorithmRSASHA256.String()
	}
	if c.Signature.Padding == "" {
		c.Signature.Padding = magicsig.PaddingPKCS1v15.String()
	}
	if c.Discovery.Scheme == "" {
		c.Discovery.Scheme = "https"
	}
	if c.Discovery.Timeout == 0 {
		c.Discovery.Timeout = 10
	}
	if c.Discovery.Retries == nil {
		retries := defaultRetries
		c.Discovery.Retries = &retries
	}
	if c.Delivery.Concurrency == 0 {
		c.Delivery.Concurrency = 4
	}
	if c.Delivery.Timeout == 0 {
		c.Delivery.Timeout = 30
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load reads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Save writes configuration to a file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := magicsig.ParseAlgorithm(c.Signature.Algorithm); err != nil {
		return fmt.Errorf("signature.algorithm: %w", err)
	}

	if _, err := magicsig.ParsePadding(c.Signature.Padding); err != nil {
		return fmt.Errorf("signature.padding: %w", err)
	}

	if c.Discovery.Scheme != "https" && c.Discovery.Scheme != "http" {
		return fmt.Errorf("discovery.scheme must be http or https, got %q", c.Discovery.Scheme)
	}

	if c.Discovery.Timeout < 0 || c.Delivery.Timeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	if c.Discovery.Retries != nil && *c.Discovery.Retries < 0 {
		return fmt.Errorf("discovery.retries cannot be negative")
	}

	if c.Discovery.CacheTTL < 0 {
		return fmt.Errorf("discovery.cache_ttl cannot be negative")
	}

	if c.Delivery.Concurrency < 1 {
		return fmt.Errorf("delivery.concurrency must be at least 1")
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}

// Algorithm returns the configured signature algorithm.
func (c *Config) Algorithm() magicsig.Algorithm {
	alg, _ := magicsig.ParseAlgorithm(c.Signature.Algorithm)
	return alg
}

// Padding returns the configured signature padding.
func (c *Config) Padding() magicsig.Padding {
	padding, _ := magicsig.ParsePadding(c.Signature.Padding)
	return padding
}

// DiscoveryRetries returns how many times a failed lookup is retried.
func (c *Config) DiscoveryRetries() uint64 {
	if c.Discovery.Retries == nil {
		return defaultRetries
	}

	return uint64(max(*c.Discovery.Retries, 0))
}

// DiscoveryTimeout returns the per-request discovery timeout.
func (c *Config) DiscoveryTimeout() time.Duration {
	return time.Duration(c.Discovery.Timeout) * time.Second
}

// DeliveryTimeout returns the per-request delivery timeout.
func (c *Config) DeliveryTimeout() time.Duration {
	return time.Duration(c.Delivery.Timeout) * time.Second
}

// CacheTTL returns how long discovered keys are reused.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Discovery.CacheTTL) * time.Second
}
