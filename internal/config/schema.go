package config

import "time"

// Config is the root configuration structure
type Config struct {
	Version   int             `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Collector CollectorConfig `yaml:"collector"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
	ReadTimeout    Duration `yaml:"read_timeout"`
	WriteTimeout   Duration `yaml:"write_timeout"`
	IdleTimeout    Duration `yaml:"idle_timeout"`
}

// Collector types
const (
	CollectorFile = "file"
)

// CollectorConfig describes where inventory snapshots come from
type CollectorConfig struct {
	Type string `yaml:"type" validate:"oneof=file"`
	// Path is the collector export file (JSON or YAML)
	Path string `yaml:"path"`
	// PollInterval re-reads the export periodically; zero disables polling
	PollInterval Duration `yaml:"poll_interval"`
	// Watch triggers a refresh whenever the export file is rewritten
	Watch bool `yaml:"watch"`
	// CollectOnStart runs a collection at startup even when a persisted
	// snapshot was restored
	CollectOnStart bool `yaml:"collect_on_start"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
	// KeepSnapshots bounds the number of persisted snapshots
	KeepSnapshots int `yaml:"keep_snapshots" validate:"min=1"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
