// Package main is the entry point for the healthcheck CLI.
//
// Usage:
//
//	healthcheck 10.0.0.5                     # Check every 30s until interrupted
//	healthcheck 10.0.0.5 -c healthcheck.yaml # Tune port, interval, timeout
//	healthcheck validate -c healthcheck.yaml # Validate configuration
//	healthcheck version                      # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd checks the target given as its only argument.
var rootCmd = &cobra.Command{
	Use:   "healthcheck <ip_address>",
	Short: "Periodically check a service's /healthz and /now endpoints",
	Long: `healthcheck polls a service's /healthz and /now endpoints and prints
one status line per check to standard output.

Each check requests http://<ip_address>:443/healthz. When that answers 200,
/now is requested and its "path" and "current_time" fields are reported.
Paths under /internal/ are reported as "Access Denied 403". Errors are
printed and never stop the loop; the next check starts 30 seconds after the
previous one finished.

The command runs until interrupted (Ctrl+C) or it receives SIGTERM.

Example:
  healthcheck 10.0.0.5
  healthcheck svc.example.com --interval 10s --timeout 5s`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this healthcheck binary.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "healthcheck %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
