package server

import "time"

// Config holds configuration for the server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// ReadTimeout bounds reading the whole request, body included.
	// Zero means no deadline.
	// Default: 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing the response.
	// Zero means no deadline.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for in-flight
	// connections during shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// LenientCookies makes the parser skip malformed cookie segments
	// instead of rejecting the request.
	LenientCookies bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:         ":8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// WithAddress sets the address and returns the config for chaining.
func (c *Config) WithAddress(addr string) *Config {
	c.Address = addr
	return c
}

// WithTimeouts sets the read and write timeouts and returns the config
// for chaining.
func (c *Config) WithTimeouts(read, write time.Duration) *Config {
	c.ReadTimeout = read
	c.WriteTimeout = write
	return c
}

// WithShutdownTimeout sets the shutdown timeout and returns the config
// for chaining.
func (c *Config) WithShutdownTimeout(d time.Duration) *Config {
	c.ShutdownTimeout = d
	return c
}

// withDefaults fills unset fields from DefaultConfig. Timeouts are
// left alone: zero disables them.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	clone := c.Clone()
	defaults := DefaultConfig()
	if clone.Address == "" {
		clone.Address = defaults.Address
	}
	if clone.ShutdownTimeout == 0 {
		clone.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return clone
}
