package healthcheck

import (
	"errors"
	"io"
	"log/slog"
	"time"
)

// monitorConfig holds mutable state during Monitor construction.
type monitorConfig struct {
	port            int
	scheme          string
	interval        time.Duration
	timeout         time.Duration
	maxIterations   int
	output          io.Writer
	logger          *slog.Logger
	clock           func() time.Time
	resultCallbacks []func(Result)
}

// Option is a function that configures a [Monitor] during construction.
//
// Options return an error if validation fails.
type Option func(*monitorConfig) error

// WithPort sets the port both endpoints are requested on.
//
// Defaults to 443. The default scheme is still plain HTTP; see [WithScheme].
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *monitorConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithScheme sets the URL scheme, "http" (default) or "https".
func WithScheme(scheme string) Option {
	return func(cfg *monitorConfig) error {
		if scheme != "http" && scheme != "https" {
			return errors.New(`scheme must be "http" or "https"`)
		}
		cfg.scheme = scheme
		return nil
	}
}

// WithInterval sets the delay between the end of one iteration and the
// start of the next. Defaults to 30 seconds.
//
// Returns an error if the duration is zero or negative.
func WithInterval(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d <= 0 {
			return errors.New("interval must be positive")
		}
		cfg.interval = d
		return nil
	}
}

// WithTimeout sets a per-request timeout.
//
// Zero, the default, means no timeout: a target that never answers blocks
// the loop until the context passed to [Monitor.Start] is cancelled.
//
// Returns an error if the duration is negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d < 0 {
			return errors.New("timeout cannot be negative")
		}
		cfg.timeout = d
		return nil
	}
}

// WithMaxIterations stops the monitor after n iterations.
// Zero, the default, means run until the context is cancelled.
func WithMaxIterations(n int) Option {
	return func(cfg *monitorConfig) error {
		if n < 0 {
			return errors.New("max iterations cannot be negative")
		}
		cfg.maxIterations = n
		return nil
	}
}

// WithOutput sets where status lines are written. Defaults to os.Stdout.
//
// Returns an error if w is nil.
func WithOutput(w io.Writer) Option {
	return func(cfg *monitorConfig) error {
		if w == nil {
			return errors.New("output cannot be nil")
		}
		cfg.output = w
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for diagnostics.
//
// Status lines never go through the logger. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *monitorConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithClock sets the source of the timestamps printed in status lines.
// Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(cfg *monitorConfig) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.clock = now
		return nil
	}
}

// WithResultCallback registers a function to be called after each iteration
// is reported.
//
// Callbacks run synchronously in registration order on the goroutine that
// prints results, so a slow callback delays output. Panics are recovered and
// logged. Nil callbacks are silently ignored.
func WithResultCallback(cb func(Result)) Option {
	return func(cfg *monitorConfig) error {
		if cb == nil {
			return nil
		}
		cfg.resultCallbacks = append(cfg.resultCallbacks, cb)
		return nil
	}
}
