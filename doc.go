// Package healthcheck periodically checks a single service and prints a
// human-readable status line for every check.
//
// Each iteration requests GET /healthz on the target. If that answers 200,
// GET /now is requested and its JSON body ({"path": ..., "current_time": ...})
// is inspected. The iteration is then classified and printed:
//
//	Service is down at Mon Jan  2 15:04:05 2006
//	Service is healthy
//	Current time on /now is 2006-01-02T15:04:05Z at Mon Jan  2 15:04:05 2006
//	Access Denied 403
//	Failed to retrieve current time with status code 500 at Mon Jan  2 15:04:05 2006
//	Error: request failed: ... at Mon Jan  2 15:04:05 2006
//
// No outcome stops the loop. After every iteration the monitor waits for a
// fixed interval (30 seconds by default) and starts again, until the context
// passed to [Monitor.Start] is cancelled.
//
// # Quick Start
//
//	m, err := healthcheck.New("10.0.0.5")
//	if err != nil {
//	    return err
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	m.Start(ctx)
//
// Requests go to http://<target>:443 by default. Note that this is plain
// HTTP on the HTTPS port; use [WithScheme] and [WithPort] to change it.
//
// # Architecture
//
//   - internal/poller: HTTP client, single-iteration checker and the fixed-delay scheduler
//   - config: YAML configuration for the healthcheck binary
//   - cmd/healthcheck: command line interface
package healthcheck
