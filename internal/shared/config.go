package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	State    StateConfig    `toml:"state"`
	Behavior BehaviorConfig `toml:"behavior"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig contains the remote music server connection settings.
type ServerConfig struct {
	URL            string        `toml:"url" validate:"required,url"`
	Token          string        `toml:"token"`
	RequestTimeout time.Duration `toml:"request_timeout" validate:"gte=0"`
	RateLimit      float64       `toml:"rate_limit" validate:"gte=0"`
	Burst          int           `toml:"burst" validate:"gte=0"`
}

// StateConfig contains settings for the database holding durable dialog state.
type StateConfig struct {
	Path         string `toml:"path" validate:"required"`
	MaxOpenConns int    `toml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `toml:"max_idle_conns" validate:"gte=0"`
}

// BehaviorConfig toggles user-visible behavior of playlist actions.
type BehaviorConfig struct {
	NotifyRemoveFailures bool          `toml:"notify_remove_failures"`
	SelectionTimeout     time.Duration `toml:"selection_timeout" validate:"gte=0"`
	StatusDuration       time.Duration `toml:"status_duration"` // negative keeps notices until replaced
}

// LoggingConfig contains log level and the file used while the TUI is running.
type LoggingConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports whether the configuration can be used to build a provider. Failures wrap
// [ErrInvalidConfig] and name the offending keys as they appear in the TOML file.
func (c *Config) Validate() error {
	err := configValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	problems := make([]string, len(fields))
	for i, fe := range fields {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			problems[i] = fmt.Sprintf("%s fails %s=%s", key, fe.Tag(), fe.Param())
		} else {
			problems[i] = fmt.Sprintf("%s fails %s", key, fe.Tag())
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// configValidator reports fields by their toml keys.
func configValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
