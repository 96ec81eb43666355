// Package config loads inphormed settings from defaults, an optional TOML
// file and INPHORMED_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"inphormed/internal/cache"
	"inphormed/internal/client"
	"inphormed/internal/layout"
	"inphormed/internal/server"
	"inphormed/internal/store"
)

const (
	// PathEnv points at an explicit config file.
	PathEnv    = "INPHORMED_CONFIG"
	envPrefix  = "INPHORMED"
	configName = "config"
	configType = "toml"
	configDir  = ".config/inphormed"
)

// Config is the full set of settings.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Client ClientConfig `mapstructure:"client"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures `inphormed serve`.
type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	Storage    string `mapstructure:"storage"`
	Path       string `mapstructure:"path"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// StoragePath returns the file the configured storage driver uses.
func (s ServerConfig) StoragePath() string {
	if s.Storage == store.DriverSQLite {
		return s.SQLitePath
	}
	return s.Path
}

// ClientConfig configures the backend client used by the dashboard.
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig locates the local layout cache.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
	Key string `mapstructure:"key"`
}

// LogConfig configures logging. An empty File logs to stderr.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load reads configuration. path overrides PathEnv and the default location;
// a missing default file is not an error, a missing explicit one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, configDir))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", server.DefaultAddr)
	v.SetDefault("server.storage", store.DriverFile)
	v.SetDefault("server.path", store.DefaultFilePath)
	v.SetDefault("server.sqlite_path", "outputs/ui_layout.db")
	v.SetDefault("client.base_url", client.DefaultBaseURL)
	v.SetDefault("client.timeout", client.DefaultTimeout)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.key", layout.CacheKey)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	switch c.Server.Storage {
	case store.DriverFile, store.DriverSQLite:
	default:
		return fmt.Errorf("server.storage: unknown driver %q", c.Server.Storage)
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive, got %s", c.Client.Timeout)
	}
	if strings.TrimSpace(c.Cache.Key) == "" {
		return errors.New("cache.key is empty")
	}
	return nil
}

// CacheDir resolves the cache directory: INPHORMED_CACHE_DIR wins over the
// configured dir. An empty result lets cache.NewStore pick its default.
func (c *Config) CacheDir() string {
	if dir := os.Getenv(cache.DirEnv); dir != "" {
		return dir
	}
	return c.Cache.Dir
}
