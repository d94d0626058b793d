package infosimples

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the InfoSimples v2 API root
	DefaultBaseURL = "https://api.infosimples.com/api/v2"
	// DefaultTimeout covers the slowest Receita Federal lookups, which
	// InfoSimples allows to run for up to ten minutes
	DefaultTimeout = 11 * time.Minute
	// DefaultInterval is the minimum spacing between two consultations
	DefaultInterval = 2 * time.Second
	// lookupTimeoutSeconds is passed to InfoSimples as its own upstream timeout
	lookupTimeoutSeconds = 600
)

// Errors for InfoSimples configuration
var (
	ErrConfigMissingToken   = errors.New("infosimples: token is required")
	ErrConfigMissingBaseURL = errors.New("infosimples: base URL is required")
)

// Config holds the InfoSimples client settings
type Config struct {
	BaseURL string
	Token   string
	// Timeout bounds one HTTP exchange
	Timeout time.Duration
	// Interval is the minimum time between two consultations
	Interval time.Duration
}

// NewConfig creates a configuration with defaults for token
func NewConfig(token string) *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Token:    token,
		Timeout:  DefaultTimeout,
		Interval: DefaultInterval,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrConfigMissingToken
	}
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
}
