// ABOUTME: Configuration loading for the exercises CLI.
// ABOUTME: Reads config.yaml, EXERCISES_* env vars and bound flags through viper.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/exercises/internal/archive"
	"github.com/harperreed/exercises/internal/storage"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL   = "https://musclewiki.com/newapi/exercise/exercises/"
	DefaultLimit     = 50
	DefaultOffset    = 1050
	DefaultStatus    = "Published"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "exercises/1.0"
	envPrefix        = "EXERCISES"
)

// Config holds the resolved settings.
type Config struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Archive ArchiveConfig `mapstructure:"archive" yaml:"archive"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	Limit     int           `mapstructure:"limit" yaml:"limit"`
	Offset    int           `mapstructure:"offset" yaml:"offset"`
	Status    string        `mapstructure:"status" yaml:"status"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// ArchiveConfig mirrors archive.Config. An empty driver disables archiving.
type ArchiveConfig struct {
	Driver    string `mapstructure:"driver" yaml:"driver,omitempty"`
	Dir       string `mapstructure:"dir" yaml:"dir,omitempty"`
	Name      string `mapstructure:"name" yaml:"name,omitempty"`
	CharmHost string `mapstructure:"charm_host" yaml:"charm_host,omitempty"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Region    string `mapstructure:"region" yaml:"region,omitempty"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	PathStyle bool   `mapstructure:"path_style" yaml:"path_style,omitempty"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// New returns a viper instance with defaults, env binding and the config file path set.
// Callers bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(GetConfigPath())
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.driver", string(storage.SQLite))
	// An empty dsn lets the sqlite store fall back to its XDG data path.
	v.SetDefault("store.dsn", "")
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.limit", DefaultLimit)
	v.SetDefault("api.offset", DefaultOffset)
	v.SetDefault("api.status", DefaultStatus)
	v.SetDefault("api.timeout", DefaultTimeout.String())
	v.SetDefault("api.user_agent", DefaultUserAgent)
	v.SetDefault("log.level", "info")

	// AutomaticEnv only sees keys viper already knows about.
	for _, key := range []string{
		"archive.driver", "archive.dir", "archive.name", "archive.charm_host",
		"archive.bucket", "archive.region", "archive.endpoint",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("archive.path_style", false)

	return v
}

// Load reads the config file if present and unmarshals the merged settings.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Store.DSN = ExpandPath(cfg.Store.DSN)
	cfg.Archive.Dir = ExpandPath(cfg.Archive.Dir)
	return cfg, nil
}

func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Save writes the config as YAML to the XDG config path.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// OpenStore opens and provisions the configured database.
func (c *Config) OpenStore(ctx context.Context) (*storage.DB, error) {
	return storage.Open(ctx, c.Store.Driver, c.Store.DSN)
}

// ArchiveEnabled reports whether a page archive driver is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.archiveConfig().Enabled()
}

// OpenArchive opens the configured page archive.
func (c *Config) OpenArchive(ctx context.Context) (archive.Store, error) {
	ac := c.archiveConfig()
	if !ac.Enabled() {
		return nil, errors.New("no archive driver configured")
	}
	if ac.Dir == "" {
		switch archive.Driver(ac.Driver) {
		case archive.DriverFS:
			ac.Dir = filepath.Join(storage.DataDir(), "pages")
		case archive.DriverBadger:
			ac.Dir = filepath.Join(storage.DataDir(), "pages-badger")
		}
	}
	return archive.Open(ctx, ac)
}

func (c *Config) archiveConfig() archive.Config {
	return archive.Config{
		Driver:    c.Archive.Driver,
		Dir:       c.Archive.Dir,
		Name:      c.Archive.Name,
		CharmHost: c.Archive.CharmHost,
		Bucket:    c.Archive.Bucket,
		Region:    c.Archive.Region,
		Endpoint:  c.Archive.Endpoint,
		PathStyle: c.Archive.PathStyle,
	}
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "exercises", "config.yaml")
}
