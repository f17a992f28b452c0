package queue

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Redis Streams connection and consumer settings.
type Config struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Stream   string `toml:"stream"`
	Group    string `toml:"group"`
	Consumer string `toml:"consumer"`
	Workers  int    `toml:"workers"`
	Block    string `toml:"block"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Addr     string
	Password string
	DB       string
	Stream   string
	Group    string
	Consumer string
	Workers  string
	Block    string
}

// BlockDuration returns Block as a time.Duration.
func (c *Config) BlockDuration() time.Duration {
	d, _ := time.ParseDuration(c.Block)
	return d
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
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.Stream != "" {
		c.Stream = overlay.Stream
	}
	if overlay.Group != "" {
		c.Group = overlay.Group
	}
	if overlay.Consumer != "" {
		c.Consumer = overlay.Consumer
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.Block != "" {
		c.Block = overlay.Block
	}
}

func (c *Config) loadDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Stream == "" {
		c.Stream = "trendr:tasks"
	}
	if c.Group == "" {
		c.Group = "trendr-workers"
	}
	if c.Consumer == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "worker"
		}
		c.Consumer = fmt.Sprintf("%s-%d", host, os.Getpid())
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.Block == "" {
		c.Block = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Addr != "" {
		if v := os.Getenv(env.Addr); v != "" {
			c.Addr = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.DB != "" {
		if v := os.Getenv(env.DB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.DB = n
			}
		}
	}
	if env.Stream != "" {
		if v := os.Getenv(env.Stream); v != "" {
			c.Stream = v
		}
	}
	if env.Group != "" {
		if v := os.Getenv(env.Group); v != "" {
			c.Group = v
		}
	}
	if env.Consumer != "" {
		if v := os.Getenv(env.Consumer); v != "" {
			c.Consumer = v
		}
	}
	if env.Workers != "" {
		if v := os.Getenv(env.Workers); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Workers = n
			}
		}
	}
	if env.Block != "" {
		if v := os.Getenv(env.Block); v != "" {
			c.Block = v
		}
	}
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.DB < 0 {
		return fmt.Errorf("invalid db: %d", c.DB)
	}
	d, err := time.ParseDuration(c.Block)
	if err != nil {
		return fmt.Errorf("invalid block: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("block must be positive")
	}
	return nil
}
