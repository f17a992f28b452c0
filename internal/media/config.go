package media

import (
	"fmt"
	"os"

	"github.com/JaimeStill/trendr/pkg/formatting"
)

// Config holds image handling limits.
type Config struct {
	MaxImageSize string `toml:"max_image_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	MaxImageSize string
}

// MaxImageSizeBytes parses MaxImageSize into a byte count.
func (c *Config) MaxImageSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxImageSize)
	if err != nil {
		return 20 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxImageSize != "" {
		c.MaxImageSize = overlay.MaxImageSize
	}
}

func (c *Config) loadDefaults() {
	if c.MaxImageSize == "" {
		c.MaxImageSize = "20MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxImageSize != "" {
		if v := os.Getenv(env.MaxImageSize); v != "" {
			c.MaxImageSize = v
		}
	}
}

func (c *Config) validate() error {
	size, err := formatting.ParseBytes(c.MaxImageSize)
	if err != nil {
		return fmt.Errorf("invalid max_image_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_image_size must be positive")
	}
	return nil
}
