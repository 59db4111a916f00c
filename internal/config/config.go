// Package config loads themeforge configuration from defaults, an optional
// YAML file and TF_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed configuration tree.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Library  LibraryConfig  `mapstructure:"library"`
	Share    ShareConfig    `mapstructure:"share"`
	Editor   EditorConfig   `mapstructure:"editor"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host           string          `mapstructure:"host"`
	Port           int             `mapstructure:"port"`
	ReadOnly       bool            `mapstructure:"read_only"`
	DevMode        bool            `mapstructure:"dev_mode"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// Addr returns the listen address as host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RateLimitConfig is the per-IP token bucket.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// LoggingConfig selects the zap level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LibraryConfig names the storage keys of the two library collections.
type LibraryConfig struct {
	ThemesKey   string `mapstructure:"themes_key"`
	ProjectsKey string `mapstructure:"projects_key"`
}

// ShareConfig configures share URLs.
type ShareConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// EditorConfig tunes the mutation engine.
type EditorConfig struct {
	LightnessIncrement float64 `mapstructure:"lightness_increment"`
}

// WebhookConfig configures library change notifications. An empty URL
// disables delivery.
type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// setDefaults registers a default for every key so that environment
// variables are honored by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_only", false)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.rate_limit.rps", 100)
	v.SetDefault("server.rate_limit.burst", 200)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/themeforge.db")
	v.SetDefault("library.themes_key", "themeforge.library.themes")
	v.SetDefault("library.projects_key", "themeforge.library.projects")
	v.SetDefault("share.base_url", "http://localhost:8080/")
	v.SetDefault("share.debounce", "2s")
	v.SetDefault("editor.lightness_increment", 0.2)
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.timeout", "10s")
}

// Load reads configuration from configPath, or from themeforge.yaml in the
// usual locations when configPath is empty. A missing default file is not an
// error.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("themeforge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/themeforge")
	}

	// TF_SERVER_PORT=9090 overrides server.port.
	v.SetEnvPrefix("TF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Decode unmarshals v into a Config and validates it.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	case c.Server.RateLimit.RPS <= 0 || c.Server.RateLimit.Burst <= 0:
		return fmt.Errorf("server.rate_limit must be positive")
	case c.Database.Path == "":
		return fmt.Errorf("database.path is required")
	case c.Share.Debounce < 0:
		return fmt.Errorf("share.debounce must not be negative")
	case c.Editor.LightnessIncrement < 0 || c.Editor.LightnessIncrement > 1:
		return fmt.Errorf("editor.lightness_increment %v out of range [0,1]", c.Editor.LightnessIncrement)
	case c.Webhook.URL != "" && c.Webhook.Timeout <= 0:
		return fmt.Errorf("webhook.timeout must be positive")
	}
	return nil
}
