package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jpalmerr/healthcheck"
	"github.com/jpalmerr/healthcheck/config"
	"github.com/spf13/cobra"
)

func init() {
	flags := rootCmd.Flags()
	flags.StringP("config", "c", "", "path to config file")
	flags.Int("port", 0, "port to request (default 443)")
	flags.Duration("interval", 0, "delay between checks (default 30s)")
	flags.Duration("timeout", 0, "per-request timeout (default none)")
	flags.Int("count", 0, "stop after this many checks (default: run forever)")
	flags.String("log-level", "", "diagnostic log level: debug, info, warn, error (default info)")
}

// newLogger creates a JSON logger on stderr so stdout carries only status lines.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Level())

	m, err := healthcheck.New(args[0], config.BuildOptions(cfg, cmd.OutOrStdout(), logger)...)
	if err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}

	// cancel on SIGINT/SIGTERM; the monitor exits cleanly and we return 0
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return m.Start(ctx)
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("interval") {
		d, _ := flags.GetDuration("interval")
		cfg.Interval = config.Duration(d)
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		cfg.Timeout = config.Duration(d)
	}
	if flags.Changed("count") {
		cfg.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
