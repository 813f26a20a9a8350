// Package config provides configuration types, defaults and loading for the
// mailpreview command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pthm/mailpreview/lib/encoding"
)

// EnvPrefix prefixes environment overrides, e.g. MAILPREVIEW_ADDR.
const EnvPrefix = "MAILPREVIEW"

// DefaultFile is looked up in the working directory when no config file is
// given.
const DefaultFile = "mailpreview.yaml"

// Config holds all configuration options for mailpreview.
type Config struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	Manifest    string `mapstructure:"manifest" yaml:"manifest"`
	OutDir      string `mapstructure:"out_dir" yaml:"out_dir"`
	BasePath    string `mapstructure:"base_path" yaml:"base_path"`
	Title       string `mapstructure:"title" yaml:"title"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`       // debug, info, warn or error
	IndexFormat string `mapstructure:"index_format" yaml:"index_format"` // json or msgpack
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Addr:        "localhost:4000",
		Manifest:    "previews.hcl",
		OutDir:      "previews-site",
		Title:       "Email previews",
		LogLevel:    "info",
		IndexFormat: string(encoding.JSON),
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.Manifest == "" {
		errs = append(errs, errors.New("manifest is required"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := encoding.ParseFormat(c.IndexFormat); err != nil {
		errs = append(errs, fmt.Errorf("index_format: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	return level, nil
}

// SetDefaults registers the defaults with v so environment overrides and
// Unmarshal see every key.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("manifest", d.Manifest)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("base_path", d.BasePath)
	v.SetDefault("title", d.Title)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("index_format", d.IndexFormat)
}

// Load reads configuration into v and returns the validated result.
//
// Lookup order, later wins: defaults, the config file (file, or
// ./mailpreview.yaml when file is empty and it exists), MAILPREVIEW_*
// environment variables, and any flags already bound to v.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(DefaultFile, filepath.Ext(DefaultFile)))
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteDefault writes the default configuration as YAML to path. It does
// not overwrite an existing file.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	return f.Close()
}
