// Package config loads the metaform tool configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

// Config is the file-backed configuration shared by the CLI commands.
type Config struct {
	Listen   string `yaml:"listen"`
	Database string `yaml:"database"`
	LogLevel string `yaml:"logLevel"`
	// Palette lists the field types offered for "add field", in order. Empty
	// means every known type.
	Palette []metaform.FieldType `yaml:"palette"`
	// Sanitize strips unsafe markup from html fields on load and on edit.
	Sanitize bool `yaml:"sanitize"`
	// FetchTimeout bounds remote document loads.
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:       ":8080",
		Database:     "file:metaform.db",
		LogLevel:     "info",
		Sanitize:     true,
		FetchTimeout: 10 * time.Second,
	}
}

// Load reads path on top of Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	for _, t := range c.Palette {
		if !t.Valid() {
			return fmt.Errorf("unknown palette field type %q", t)
		}
	}
	if c.FetchTimeout < 0 {
		return errors.New("fetchTimeout must not be negative")
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	if strings.TrimSpace(c.LogLevel) == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid logLevel %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// PaletteTypes returns the configured palette or every known type.
func (c Config) PaletteTypes() []metaform.FieldType {
	if len(c.Palette) == 0 {
		return metaform.FieldTypes()
	}
	return append([]metaform.FieldType(nil), c.Palette...)
}
