package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/trendr/internal/media"
	"github.com/JaimeStill/trendr/internal/providers"
	"github.com/JaimeStill/trendr/pkg/database"
	"github.com/JaimeStill/trendr/pkg/queue"
	"github.com/JaimeStill/trendr/pkg/secrets"
	"github.com/JaimeStill/trendr/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvTrendrEnv             = "TRENDR_ENV"
	EnvTrendrShutdownTimeout = "TRENDR_SHUTDOWN_TIMEOUT"
	EnvTrendrVersion         = "TRENDR_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "TRENDR_DB_HOST",
	Port:            "TRENDR_DB_PORT",
	Name:            "TRENDR_DB_NAME",
	User:            "TRENDR_DB_USER",
	Password:        "TRENDR_DB_PASSWORD",
	SSLMode:         "TRENDR_DB_SSL_MODE",
	MaxOpenConns:    "TRENDR_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "TRENDR_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "TRENDR_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "TRENDR_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "TRENDR_STORAGE_CONTAINER_NAME",
	ConnectionString: "TRENDR_STORAGE_CONNECTION_STRING",
	PublicURL:        "TRENDR_STORAGE_PUBLIC_URL",
}

var queueEnv = &queue.Env{
	Addr:     "TRENDR_QUEUE_ADDR",
	Password: "TRENDR_QUEUE_PASSWORD",
	DB:       "TRENDR_QUEUE_DB",
	Stream:   "TRENDR_QUEUE_STREAM",
	Group:    "TRENDR_QUEUE_GROUP",
	Consumer: "TRENDR_QUEUE_CONSUMER",
	Workers:  "TRENDR_QUEUE_WORKERS",
	Block:    "TRENDR_QUEUE_BLOCK",
}

var providersEnv = &providers.Env{
	TextDefault:       "TRENDR_TEXT_PROVIDER_DEFAULT",
	TextFallbacks:     "TRENDR_TEXT_PROVIDER_FALLBACKS",
	ImageDefault:      "TRENDR_IMAGE_PROVIDER_DEFAULT",
	ImageFallbacks:    "TRENDR_IMAGE_PROVIDER_FALLBACKS",
	Timeout:           "TRENDR_PROVIDER_TIMEOUT",
	ImageTimeout:      "TRENDR_PROVIDER_IMAGE_TIMEOUT",
	APIKey:            "TRENDR_OPENAI_API_KEY",
	BaseURL:           "TRENDR_OPENAI_BASE_URL",
	Model:             "TRENDR_OPENAI_MODEL",
	ImageModel:        "TRENDR_OPENAI_IMAGE_MODEL",
	RequestsPerMinute: "TRENDR_OPENAI_REQUESTS_PER_MINUTE",
}

var secretsEnv = &secrets.Env{
	Key: "TRENDR_SECRET_KEY",
}

var mediaEnv = &media.Env{
	MaxImageSize: "TRENDR_MEDIA_MAX_IMAGE_SIZE",
}

// Config is the root configuration for the Trendr service and worker.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	Queue           queue.Config     `toml:"queue"`
	Providers       providers.Config `toml:"providers"`
	Secrets         secrets.Config   `toml:"secrets"`
	Media           media.Config     `toml:"media"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the TRENDR_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTrendrEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadDatabase finalizes only the database section. The migrate command uses
// it so schema changes do not require provider, storage, or secret settings.
func LoadDatabase() (*database.Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("finalize database config: %w", err)
	}

	return &cfg.Database, nil
}

// read loads config.toml and the TRENDR_ENV overlay without finalizing.
func read() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Queue.Merge(&overlay.Queue)
	c.Providers.Merge(&overlay.Providers)
	c.Secrets.Merge(&overlay.Secrets)
	c.Media.Merge(&overlay.Media)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Queue.Finalize(queueEnv); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	if err := c.Providers.Finalize(providersEnv); err != nil {
		return fmt.Errorf("providers: %w", err)
	}
	if err := c.Secrets.Finalize(secretsEnv); err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	if err := c.Media.Finalize(mediaEnv); err != nil {
		return fmt.Errorf("media: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvTrendrShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvTrendrVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvTrendrEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
