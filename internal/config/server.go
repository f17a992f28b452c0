package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/trendr/pkg/formatting"
)

const (
	EnvServerHost              = "TRENDR_SERVER_HOST"
	EnvServerPort              = "TRENDR_SERVER_PORT"
	EnvServerReadTimeout       = "TRENDR_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "TRENDR_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "TRENDR_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout   = "TRENDR_SERVER_SHUTDOWN_TIMEOUT"
	EnvServerMaxHeaderSize     = "TRENDR_SERVER_MAX_HEADER_SIZE"
)

// ServerConfig holds the API listener settings. WriteTimeout is long because
// synchronous generate calls wait on upstream providers.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
	MaxHeaderSize     string `toml:"max_header_size"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

// ReadHeaderTimeoutDuration returns ReadHeaderTimeout as a time.Duration.
func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(c.ReadHeaderTimeout)
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// MaxHeaderBytes returns MaxHeaderSize in bytes.
func (c *ServerConfig) MaxHeaderBytes() int {
	n, _ := formatting.ParseBytes(c.MaxHeaderSize)
	return int(n)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	mergeString(&c.ReadTimeout, overlay.ReadTimeout)
	mergeString(&c.ReadHeaderTimeout, overlay.ReadHeaderTimeout)
	mergeString(&c.WriteTimeout, overlay.WriteTimeout)
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.MaxHeaderSize, overlay.MaxHeaderSize)
}

func (c *ServerConfig) loadDefaults() {
	defaults := []struct {
		field *string
		value string
	}{
		{&c.Host, "0.0.0.0"},
		{&c.ReadTimeout, "1m"},
		{&c.ReadHeaderTimeout, "10s"},
		{&c.WriteTimeout, "15m"},
		{&c.ShutdownTimeout, "30s"},
		{&c.MaxHeaderSize, "1MB"},
	}
	for _, d := range defaults {
		if *d.field == "" {
			*d.field = d.value
		}
	}
	if c.Port == 0 {
		c.Port = 8080
	}
}

func (c *ServerConfig) loadEnv() {
	overrides := map[string]*string{
		EnvServerHost:              &c.Host,
		EnvServerReadTimeout:       &c.ReadTimeout,
		EnvServerReadHeaderTimeout: &c.ReadHeaderTimeout,
		EnvServerWriteTimeout:      &c.WriteTimeout,
		EnvServerShutdownTimeout:   &c.ShutdownTimeout,
		EnvServerMaxHeaderSize:     &c.MaxHeaderSize,
	}
	for name, field := range overrides {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	durations := []struct {
		name  string
		value string
	}{
		{"read_timeout", c.ReadTimeout},
		{"read_header_timeout", c.ReadHeaderTimeout},
		{"write_timeout", c.WriteTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
	}
	for _, d := range durations {
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}
	if n, err := formatting.ParseBytes(c.MaxHeaderSize); err != nil || n < 1 {
		return fmt.Errorf("invalid max_header_size: %q", c.MaxHeaderSize)
	}
	return nil
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
