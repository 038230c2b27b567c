// Package config provides configuration management for vspheremap.
//
// Config file locations (priority order):
//  1. $VSPHEREMAP_CONFIG
//  2. ./vspheremap.yaml
//  3. ~/.config/vspheremap/config.yaml
//  4. /etc/vspheremap/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultAddr          = ":8000"
	defaultDatabasePath  = "./vspheremap.db"
	defaultKeepSnapshots = 10
	defaultLogLevel      = "info"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(15 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(60 * time.Second)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(120 * time.Second)
	}
	if c.Collector.Type == "" {
		c.Collector.Type = CollectorFile
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Database.KeepSnapshots == 0 {
		c.Database.KeepSnapshots = defaultKeepSnapshots
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the loaded values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	if c.Collector.PollInterval < 0 {
		return fmt.Errorf("invalid config: collector.poll_interval must not be negative")
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	source := c.Collector.Path
	if source == "" {
		source = "(none)"
	}
	return fmt.Sprintf("Listen: %s, Collector: %s %s, Poll: %s, Watch: %t, Database: %s",
		c.Server.Addr, c.Collector.Type, source, c.Collector.PollInterval.Duration(),
		c.Collector.Watch, c.Database.Path)
}
