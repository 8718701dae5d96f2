package db

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// engineConfig is the engine-level option bundle.
// Zero values leave the driver defaults in place.
type engineConfig struct {
	maxConns          int
	minConns          int
	maxConnIdleTime   time.Duration
	maxConnLifetime   time.Duration
	healthCheckPeriod time.Duration
	connectTimeout    time.Duration
	skipPing          bool
}

// EngineOption configures the connection target built by [Open].
type EngineOption func(*engineConfig)

// WithMaxConns sets the maximum number of pooled connections.
func WithMaxConns(n int) EngineOption {
	return func(c *engineConfig) {
		c.maxConns = n
	}
}

// WithMinConns sets the minimum number of connections kept open.
func WithMinConns(n int) EngineOption {
	return func(c *engineConfig) {
		c.minConns = n
	}
}

// WithMaxConnIdleTime closes connections idle for longer than d.
func WithMaxConnIdleTime(d time.Duration) EngineOption {
	return func(c *engineConfig) {
		c.maxConnIdleTime = d
	}
}

// WithMaxConnLifetime closes connections older than d.
func WithMaxConnLifetime(d time.Duration) EngineOption {
	return func(c *engineConfig) {
		c.maxConnLifetime = d
	}
}

// WithHealthCheckPeriod sets how often idle pooled connections are checked.
// Only the Postgres engine runs background health checks.
func WithHealthCheckPeriod(d time.Duration) EngineOption {
	return func(c *engineConfig) {
		c.healthCheckPeriod = d
	}
}

// WithConnectTimeout bounds connection establishment and the startup ping.
func WithConnectTimeout(d time.Duration) EngineOption {
	return func(c *engineConfig) {
		c.connectTimeout = d
	}
}

// WithoutPing skips the startup ping. The engine is then opened lazily and
// connection problems surface on first use.
func WithoutPing() EngineOption {
	return func(c *engineConfig) {
		c.skipPing = true
	}
}

func newEngineConfig(opts ...EngineOption) (engineConfig, error) {
	var cfg engineConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg, cfg.validate()
}

func (c engineConfig) validate() error {
	var errs []error
	if c.maxConns < 0 {
		errs = append(errs, fmt.Errorf("max conns must not be negative, got %d", c.maxConns))
	}
	if c.minConns < 0 {
		errs = append(errs, fmt.Errorf("min conns must not be negative, got %d", c.minConns))
	}
	if c.maxConns > math.MaxInt32 {
		errs = append(errs, fmt.Errorf("max conns must not exceed %d, got %d", math.MaxInt32, c.maxConns))
	}
	if c.minConns > math.MaxInt32 {
		errs = append(errs, fmt.Errorf("min conns must not exceed %d, got %d", math.MaxInt32, c.minConns))
	}
	if c.maxConns > 0 && c.minConns > c.maxConns {
		errs = append(errs, fmt.Errorf("min conns (%d) exceeds max conns (%d)", c.minConns, c.maxConns))
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"max conn idle time", c.maxConnIdleTime},
		{"max conn lifetime", c.maxConnLifetime},
		{"health check period", c.healthCheckPeriod},
		{"connect timeout", c.connectTimeout},
	}
	for _, v := range durations {
		if v.d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", v.name, v.d))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidEngineOption}, errs...)...)
	}
	return nil
}
