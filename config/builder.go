package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/jpalmerr/healthcheck"
)

// BuildOptions converts a parsed configuration into [healthcheck.Option] values.
//
// Output and logger are passed through unchanged; a nil logger falls back to
// the monitor's default.
func BuildOptions(cfg *Config, out io.Writer, logger *slog.Logger) []healthcheck.Option {
	opts := []healthcheck.Option{
		healthcheck.WithPort(cfg.Port),
		healthcheck.WithScheme(cfg.Scheme),
		healthcheck.WithInterval(cfg.Interval.Duration()),
		healthcheck.WithTimeout(cfg.Timeout.Duration()),
		healthcheck.WithMaxIterations(cfg.Count),
	}

	if out != nil {
		opts = append(opts, healthcheck.WithOutput(out))
	}
	if logger != nil {
		opts = append(opts, healthcheck.WithLogger(logger))
	}

	return opts
}

// Level converts the configured log level to a [slog.Level].
// Unknown values map to info; [Config.Validate] rejects them earlier.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
