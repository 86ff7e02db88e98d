// Package config loads runtime settings for the timeclock commands.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultDataFile = "moviment.txt"
	defaultHTTPAddr = "127.0.0.1:8080"
	defaultLogLevel = "info"
)

// Config holds runtime settings.
type Config struct {
	// DataFile is the attendance file, relative to the working directory
	// unless absolute.
	DataFile string `yaml:"data_file"`
	// AuditDB is a SQLite path for the audit log. Empty keeps it in memory.
	AuditDB  string `yaml:"audit_db"`
	HTTPAddr string `yaml:"http_addr"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from disk. An empty path yields Default().
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()
	return LoadFromReader(file)
}

// LoadFromReader constructs a Config from YAML.
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.DataFile) == "" {
		c.DataFile = defaultDataFile
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		c.HTTPAddr = defaultHTTPAddr
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return errors.New("config: data_file is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("config: invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
