package main

import (
	"fmt"

	"github.com/jpalmerr/healthcheck/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without checking anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a healthcheck configuration file without contacting the target.

This command expands environment variables, parses the YAML and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  healthcheck validate -c healthcheck.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	timeout := "none"
	if cfg.Timeout != 0 {
		timeout = cfg.Timeout.Duration().String()
	}
	count := "unlimited"
	if cfg.Count > 0 {
		count = fmt.Sprintf("%d", cfg.Count)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Endpoints: %s://<target>:%d/healthz, /now\n", cfg.Scheme, cfg.Port)
	fmt.Fprintf(out, "  Interval:  %s\n", cfg.Interval.Duration())
	fmt.Fprintf(out, "  Timeout:   %s\n", timeout)
	fmt.Fprintf(out, "  Checks:    %s\n", count)
	fmt.Fprintf(out, "  Log level: %s\n", cfg.LogLevel)

	return nil
}
