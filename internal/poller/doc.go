// Package poller provides the polling loop for healthcheck.
//
// This package is internal to healthcheck and handles the periodic checking
// of a single target. Iterations are strictly sequential: one /healthz
// request, then at most one /now request, then a fixed delay.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with optional timeout and size limits
//   - [Checker]: Runs one iteration and classifies the outcome
//   - [ParseNow]: Decodes the /now response body
//   - [Scheduler]: Repeats iterations with a fixed delay and emits results
//
// Users of the healthcheck library should not need to interact with this
// package directly. Configuration is done through the main healthcheck package.
package poller
