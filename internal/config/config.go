package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultHost         = "http://localhost:7700"
	DefaultWaitTimeout  = 5000 * time.Millisecond
	DefaultWaitInterval = 50 * time.Millisecond
)

// Config holds all application configuration
type Config struct {
	// API settings
	Host            string
	RequestTimeout  time.Duration
	APIReadyTimeout int

	// Wait settings
	WaitTimeout  time.Duration
	WaitInterval time.Duration
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Host:            DefaultHost,
		RequestTimeout:  30 * time.Second,
		APIReadyTimeout: 30,
		WaitTimeout:     DefaultWaitTimeout,
		WaitInterval:    DefaultWaitInterval,
	}
}

// LoadFromEnvironment loads configuration from environment variables.
// Durations are given in milliseconds.
func (c *Config) LoadFromEnvironment() {
	if host := os.Getenv("MEILI_HOST"); host != "" {
		c.Host = host
	}

	if timeout := os.Getenv("MEILI_REQUEST_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			c.RequestTimeout = time.Duration(t) * time.Millisecond
		}
	}

	if attempts := os.Getenv("MEILI_API_TIMEOUT"); attempts != "" {
		if a, err := strconv.Atoi(attempts); err == nil {
			c.APIReadyTimeout = a
		}
	}

	if timeout := os.Getenv("MEILI_WAIT_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			c.WaitTimeout = time.Duration(t) * time.Millisecond
		}
	}

	if interval := os.Getenv("MEILI_WAIT_INTERVAL"); interval != "" {
		if i, err := strconv.Atoi(interval); err == nil {
			c.WaitInterval = time.Duration(i) * time.Millisecond
		}
	}
}

// BaseURL returns the host without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.Host, "/")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Host)
	if err != nil {
		return fmt.Errorf("invalid host %q: %w", c.Host, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("host must use http or https, got: %q", c.Host)
	}
	if parsed.Host == "" {
		return fmt.Errorf("host must include a hostname, got: %q", c.Host)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %v", c.RequestTimeout)
	}

	if c.APIReadyTimeout <= 0 {
		return fmt.Errorf("API ready timeout must be positive, got: %d", c.APIReadyTimeout)
	}

	if c.WaitTimeout < 0 {
		return fmt.Errorf("wait timeout must be non-negative, got: %v", c.WaitTimeout)
	}

	if c.WaitInterval <= 0 {
		return fmt.Errorf("wait interval must be positive, got: %v", c.WaitInterval)
	}

	return nil
}
