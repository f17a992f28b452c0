package secrets

import (
	"fmt"
	"os"
)

// Config holds the master secret used to seal stored credentials.
type Config struct {
	Key string `toml:"key"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Key string
}

// Finalize applies environment variable overrides and validation.
// There is no default key.
func (c *Config) Finalize(env *Env) error {
	if env != nil && env.Key != "" {
		if v := os.Getenv(env.Key); v != "" {
			c.Key = v
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Key != "" {
		c.Key = overlay.Key
	}
}

func (c *Config) validate() error {
	if c.Key == "" {
		return fmt.Errorf("key required")
	}
	if len(c.Key) < 16 {
		return fmt.Errorf("key must be at least 16 characters")
	}
	return nil
}
