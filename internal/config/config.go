// Package config loads addons-cli settings from .addons.yaml, ADDONS_*
// environment variables, an optional .env file and bound command flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-addons/pkg/schema"
)

const (
	// EnvPrefix prefixes every environment override: ADDONS_SCHEMA,
	// ADDONS_THEME_NAME and so on.
	EnvPrefix = "ADDONS"
	// ConfigName is the config file looked up in the working and home
	// directories.
	ConfigName = ".addons"
	// DefaultHTTPTimeout bounds remote schema fetches.
	DefaultHTTPTimeout = 10 * time.Second
)

// ThemeConfig selects the go-theme theme and variant applied to HTML output.
type ThemeConfig struct {
	Name     string `mapstructure:"name"`
	Variant  string `mapstructure:"variant"`
	Manifest string `mapstructure:"manifest"`
}

// Config holds the CLI runtime configuration.
type Config struct {
	Schema         string        `mapstructure:"schema"`
	EntityType     string        `mapstructure:"entity_type"`
	Format         string        `mapstructure:"format"`
	Theme          ThemeConfig   `mapstructure:"theme"`
	IgnoreReadOnly bool          `mapstructure:"ignore_read_only"`
	Placeholders   bool          `mapstructure:"placeholders"`
	Strict         bool          `mapstructure:"strict"`
	Verbose        bool          `mapstructure:"verbose"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
}

// SchemaFormat returns Format as a schema.Format.
func (c Config) SchemaFormat() schema.Format {
	return schema.Format(c.Format)
}

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every key so environment overrides are seen by
// Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("schema", "")
	v.SetDefault("entity_type", "")
	v.SetDefault("format", "")
	v.SetDefault("theme.name", "")
	v.SetDefault("theme.variant", "")
	v.SetDefault("theme.manifest", "")
	v.SetDefault("ignore_read_only", false)
	v.SetDefault("placeholders", false)
	v.SetDefault("strict", false)
	v.SetDefault("verbose", false)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
}

// ReadFile reads path, or searches for .addons.yaml in the working and home
// directories when path is blank. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", describe(path), err)
	}
	return nil
}

// LoadEnv loads the given dotenv files into the process environment. Files
// that do not exist are skipped; variables already set are kept.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load env %s: %w", path, err)
		}
	}
	return nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Schema = strings.TrimSpace(cfg.Schema)
	cfg.EntityType = strings.TrimSpace(cfg.EntityType)
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.Theme.Name = strings.TrimSpace(cfg.Theme.Name)
	cfg.Theme.Variant = strings.TrimSpace(cfg.Theme.Variant)

	switch schema.Format(cfg.Format) {
	case "", schema.FormatJSON, schema.FormatYAML, schema.FormatHCL, schema.FormatOpenAPI:
	default:
		return Config{}, fmt.Errorf("config: unsupported schema format %q", cfg.Format)
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	return cfg, nil
}

func describe(path string) string {
	if path == "" {
		return ConfigName + ".yaml"
	}
	return path
}
