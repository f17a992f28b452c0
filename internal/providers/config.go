package providers

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultImageSize is used when an image request names no size.
const DefaultImageSize = "1024x1024"

// Config holds provider chain and backend settings.
type Config struct {
	TextDefault    string       `toml:"text_default"`
	TextFallbacks  []string     `toml:"text_fallbacks"`
	ImageDefault   string       `toml:"image_default"`
	ImageFallbacks []string     `toml:"image_fallbacks"`
	Timeout        string       `toml:"timeout"`
	ImageTimeout   string       `toml:"image_timeout"`
	OpenAI         OpenAIConfig `toml:"openai"`
}

// OpenAIConfig configures the OpenAI text and image providers.
// APIKey is the global key; workspace keys override it.
type OpenAIConfig struct {
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	Model             string `toml:"model"`
	ImageModel        string `toml:"image_model"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	TextDefault       string
	TextFallbacks     string
	ImageDefault      string
	ImageFallbacks    string
	Timeout           string
	ImageTimeout      string
	APIKey            string
	BaseURL           string
	Model             string
	ImageModel        string
	RequestsPerMinute string
}

// TextChain returns the configured text failover chain.
func (c *Config) TextChain() Chain {
	return Chain{Default: c.TextDefault, Fallbacks: c.TextFallbacks}
}

// ImageChain returns the configured image failover chain.
func (c *Config) ImageChain() Chain {
	return Chain{Default: c.ImageDefault, Fallbacks: c.ImageFallbacks}
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// ImageTimeoutDuration returns ImageTimeout as a time.Duration.
func (c *Config) ImageTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ImageTimeout)
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
	if overlay.TextDefault != "" {
		c.TextDefault = overlay.TextDefault
	}
	if overlay.TextFallbacks != nil {
		c.TextFallbacks = overlay.TextFallbacks
	}
	if overlay.ImageDefault != "" {
		c.ImageDefault = overlay.ImageDefault
	}
	if overlay.ImageFallbacks != nil {
		c.ImageFallbacks = overlay.ImageFallbacks
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.ImageTimeout != "" {
		c.ImageTimeout = overlay.ImageTimeout
	}
	if overlay.OpenAI.APIKey != "" {
		c.OpenAI.APIKey = overlay.OpenAI.APIKey
	}
	if overlay.OpenAI.BaseURL != "" {
		c.OpenAI.BaseURL = overlay.OpenAI.BaseURL
	}
	if overlay.OpenAI.Model != "" {
		c.OpenAI.Model = overlay.OpenAI.Model
	}
	if overlay.OpenAI.ImageModel != "" {
		c.OpenAI.ImageModel = overlay.OpenAI.ImageModel
	}
	if overlay.OpenAI.RequestsPerMinute != 0 {
		c.OpenAI.RequestsPerMinute = overlay.OpenAI.RequestsPerMinute
	}
}

func (c *Config) loadDefaults() {
	if c.TextDefault == "" {
		c.TextDefault = NameOpenAI
	}
	if c.TextFallbacks == nil {
		c.TextFallbacks = []string{NameOpenAIStub}
	}
	if c.ImageDefault == "" {
		c.ImageDefault = NameOpenAIImage
	}
	if c.ImageFallbacks == nil {
		c.ImageFallbacks = []string{NameNanoBanana}
	}
	if c.Timeout == "" {
		c.Timeout = "45s"
	}
	if c.ImageTimeout == "" {
		c.ImageTimeout = "90s"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.ImageModel == "" {
		c.OpenAI.ImageModel = "dall-e-3"
	}
	if c.OpenAI.RequestsPerMinute == 0 {
		c.OpenAI.RequestsPerMinute = 60
	}
}

func (c *Config) loadEnv(env *Env) {
	str := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if name == "" {
			return
		}
		if v, ok := os.LookupEnv(name); ok {
			*dst = splitList(v)
		}
	}

	str(env.TextDefault, &c.TextDefault)
	list(env.TextFallbacks, &c.TextFallbacks)
	str(env.ImageDefault, &c.ImageDefault)
	list(env.ImageFallbacks, &c.ImageFallbacks)
	str(env.Timeout, &c.Timeout)
	str(env.ImageTimeout, &c.ImageTimeout)
	str(env.APIKey, &c.OpenAI.APIKey)
	str(env.BaseURL, &c.OpenAI.BaseURL)
	str(env.Model, &c.OpenAI.Model)
	str(env.ImageModel, &c.OpenAI.ImageModel)

	if env.RequestsPerMinute != "" {
		if v := os.Getenv(env.RequestsPerMinute); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.OpenAI.RequestsPerMinute = n
			}
		}
	}
}

func (c *Config) validate() error {
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if d, err := time.ParseDuration(c.ImageTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid image_timeout: %q", c.ImageTimeout)
	}
	if c.OpenAI.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
