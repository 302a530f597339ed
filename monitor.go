package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/jpalmerr/healthcheck/internal/poller"
)

const (
	defaultPort     = 443
	defaultScheme   = "http"
	defaultInterval = 30 * time.Second
)

// Monitor repeatedly checks one target and prints a status line per iteration.
//
// A Monitor is created with [New] and run with [Monitor.Start]:
//
//	m, err := healthcheck.New("10.0.0.5")
//	if err != nil {
//	    return err
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	m.Start(ctx) // blocks until ctx is cancelled
type Monitor struct {
	target          string
	port            int
	scheme          string
	interval        time.Duration
	timeout         time.Duration
	maxIterations   int
	reporter        *Reporter
	logger          *slog.Logger
	clock           func() time.Time
	resultCallbacks []func(Result)
}

// New creates a [Monitor] for target with the given options.
//
// target is an IP address or hostname without scheme, port or path.
// Defaults:
//   - Port: 443
//   - Scheme: http
//   - Interval: 30 seconds
//   - Timeout: none
//   - Output: os.Stdout
//
// Returns an error if target is invalid or any option is invalid.
func New(target string, opts ...Option) (*Monitor, error) {
	if err := ValidateTarget(target); err != nil {
		return nil, err
	}

	cfg := &monitorConfig{
		port:     defaultPort,
		scheme:   defaultScheme,
		interval: defaultInterval,
		output:   os.Stdout,
		clock:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		target:          target,
		port:            cfg.port,
		scheme:          cfg.scheme,
		interval:        cfg.interval,
		timeout:         cfg.timeout,
		maxIterations:   cfg.maxIterations,
		reporter:        NewReporter(cfg.output),
		logger:          logger,
		clock:           cfg.clock,
		resultCallbacks: cfg.resultCallbacks,
	}, nil
}

// ValidateTarget reports whether target can be used as a host.
//
// A target must be non-empty and must not contain a scheme, a path or
// whitespace. IPv6 literals may be given with or without brackets.
func ValidateTarget(target string) error {
	if target == "" {
		return errors.New("target is required")
	}
	if strings.Contains(target, "://") {
		return fmt.Errorf("target %q must not include a scheme", target)
	}
	if strings.ContainsAny(target, "/?#@") {
		return fmt.Errorf("target %q must be a bare IP address or hostname", target)
	}
	if strings.IndexFunc(target, unicode.IsSpace) != -1 {
		return fmt.Errorf("target %q must not contain whitespace", target)
	}
	return nil
}

// Start runs the check loop and blocks until it ends.
//
// The first iteration runs immediately. Each iteration's status lines are
// written to the configured output, then the monitor waits for the interval
// before the next one. Start returns nil when ctx is cancelled or the
// iteration limit is reached. An error writing to the output is logged and
// does not stop the loop. A nil ctx is treated as context.Background().
func (m *Monitor) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	m.logger.Info("healthcheck starting",
		"target", m.target,
		"base_url", m.BaseURL(),
		"interval", m.interval.String(),
	)

	if ctx.Err() != nil {
		return nil
	}

	client := poller.NewClient(m.timeout)
	checker := poller.NewChecker(m.target, m.scheme, m.port, client, m.clock)
	scheduler := poller.NewScheduler(checker, m.interval, m.maxIterations, m.logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	for pr := range scheduler.Results() {
		result := pollerResultToPublicResult(pr)

		if err := m.reporter.Report(result); err != nil {
			m.logger.Error("failed to report result", "error", err)
		}

		for _, cb := range m.resultCallbacks {
			invokeCallbackSafe(cb, result, m.logger)
		}

		logAttrs := []any{
			"check_id", result.ID,
			"outcome", result.Outcome.String(),
			"health_status", result.HealthStatusCode,
			"now_status", result.NowStatusCode,
			"latency_ms", result.Latency.Milliseconds(),
		}
		switch result.Outcome {
		case OutcomeHealthy:
			m.logger.Debug("check completed", logAttrs...)
		case OutcomeError:
			m.logger.Warn("check completed with error", append(logAttrs, "error", result.Err)...)
		default:
			m.logger.Warn("check completed", logAttrs...)
		}
	}

	m.logger.Info("healthcheck stopped")
	return nil
}

// Target returns the checked host.
func (m *Monitor) Target() string {
	return m.target
}

// BaseURL returns the scheme, host and port both endpoints are requested on,
// e.g. "http://10.0.0.5:443".
func (m *Monitor) BaseURL() string {
	return poller.BaseURL(m.target, m.scheme, m.port)
}

// Interval returns the delay between iterations.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Timeout returns the per-request timeout; zero means none.
func (m *Monitor) Timeout() time.Duration {
	return m.timeout
}

// pollerResultToPublicResult converts an internal poller result to the public type.
func pollerResultToPublicResult(pr poller.CheckResult) Result {
	return Result{
		ID:               pr.ID,
		Target:           pr.Target,
		Outcome:          Outcome(pr.Outcome),
		HealthStatusCode: pr.HealthStatusCode,
		NowStatusCode:    pr.NowStatusCode,
		Path:             pr.Path,
		CurrentTime:      pr.CurrentTime,
		Latency:          pr.Latency,
		CheckedAt:        pr.CheckedAt,
		Err:              pr.Error,
	}
}

// invokeCallbackSafe calls a result callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(Result), result Result, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("result callback panicked",
				"panic", r,
				"check_id", result.ID,
			)
		}
	}()
	cb(result)
}
