// Package config provides YAML configuration parsing for the healthcheck binary.
//
// The target itself is always given on the command line; a config file only
// tunes how it is checked. Every field is optional.
//
// Example configuration:
//
//	port: 443
//	scheme: http
//	interval: 30s
//	timeout: 10s
//	count: 0
//	log_level: info
//
// ${VAR} and ${VAR:-default} references anywhere in the file are replaced
// with environment values before the YAML is parsed.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort     = 443
	defaultScheme   = "http"
	defaultInterval = 30 * time.Second
	defaultLogLevel = "info"
)

// minInterval keeps a misconfigured file from hammering the target.
const minInterval = 1 * time.Second

// Config is the root configuration structure.
//
// Use [Load] or [Parse] to create a Config from YAML, or [Default] for the
// values used when no file is given.
type Config struct {
	// Port is the port both endpoints are requested on. Defaults to 443.
	Port int `yaml:"port"`

	// Scheme is "http" or "https". Defaults to "http".
	Scheme string `yaml:"scheme"`

	// Interval is the delay between iterations.
	// Accepts duration strings like "30s", "1m". Defaults to 30s.
	Interval Duration `yaml:"interval"`

	// Timeout is the per-request timeout. Zero (the default) means none.
	Timeout Duration `yaml:"timeout"`

	// Count stops the checker after this many iterations. Zero means forever.
	Count int `yaml:"count"`

	// LogLevel is the diagnostic log level: debug, info, warn or error.
	// Defaults to info.
	LogLevel string `yaml:"log_level"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Port:     defaultPort,
		Scheme:   defaultScheme,
		Interval: Duration(defaultInterval),
		LogLevel: defaultLogLevel,
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse expands environment variables in data, parses it as YAML, applies
// defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded, err := expandEnvVars(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to expand config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Scheme == "" {
		cfg.Scheme = defaultScheme
	}
	if cfg.Interval == 0 {
		cfg.Interval = Duration(defaultInterval)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.Scheme != "http" && c.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", c.Scheme)
	}

	if c.Interval.Duration() < minInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minInterval, c.Interval.Duration())
	}

	if c.Timeout != 0 {
		if c.Timeout.Duration() < 0 {
			return fmt.Errorf("timeout cannot be negative, got %s", c.Timeout.Duration())
		}
		if c.Timeout.Duration() < time.Second {
			return fmt.Errorf("timeout must be at least 1s if specified, got %s", c.Timeout.Duration())
		}
	}

	if c.Count < 0 {
		return fmt.Errorf("count cannot be negative, got %d", c.Count)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}

	return nil
}
