package poller

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Outcome values produced by [Checker.Check]. These mirror the public
// healthcheck.Outcome constants without importing them.
const (
	OutcomeDown         = "down"
	OutcomeHealthy      = "healthy"
	OutcomeAccessDenied = "access_denied"
	OutcomeFailed       = "failed"
	OutcomeError        = "error"
)

const (
	healthPath     = "/healthz"
	nowPath        = "/now"
	internalPrefix = "/internal/"
)

// CheckResult holds the outcome of one iteration against the target.
type CheckResult struct {
	// ID uniquely identifies this iteration in logs.
	ID string

	// Target is the host that was checked.
	Target string

	// Outcome is one of the Outcome* constants.
	Outcome string

	// HealthStatusCode is the status code returned by /healthz.
	// Zero if the request failed before receiving a response.
	HealthStatusCode int

	// NowStatusCode is the status code returned by /now.
	// Zero if /now was not requested or failed before a response.
	NowStatusCode int

	// Path and CurrentTime are taken from a successful /now body.
	Path        string
	CurrentTime string

	// Latency is the combined duration of the requests made.
	Latency time.Duration

	// CheckedAt is when the iteration finished.
	CheckedAt time.Time

	// Error is set when Outcome is OutcomeError.
	Error error
}

// Checker runs a single health iteration against one target.
type Checker struct {
	target    string
	healthURL string
	nowURL    string
	client    *Client
	now       func() time.Time
}

// NewChecker creates a [Checker] for target on the given scheme and port.
//
// target may be a hostname, an IPv4 address or an IPv6 address, optionally
// in brackets. If now is nil, time.Now is used.
func NewChecker(target, scheme string, port int, client *Client, now func() time.Time) *Checker {
	base := BaseURL(target, scheme, port)
	if now == nil {
		now = time.Now
	}
	return &Checker{
		target:    target,
		healthURL: base + healthPath,
		nowURL:    base + nowPath,
		client:    client,
		now:       now,
	}
}

// BaseURL builds scheme://host:port for target.
func BaseURL(target, scheme string, port int) string {
	host := strings.TrimSuffix(strings.TrimPrefix(target, "["), "]")
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	return u.String()
}

// Check performs one iteration: /healthz, then /now if the service is up.
func (c *Checker) Check(ctx context.Context) CheckResult {
	result := CheckResult{Target: c.target}

	health := c.client.Get(ctx, c.healthURL)
	result.HealthStatusCode = health.StatusCode
	result.Latency = health.Latency

	switch {
	case health.Error != nil:
		return c.fail(result, health.Error)
	case health.StatusCode != http.StatusOK:
		result.Outcome = OutcomeDown
		result.CheckedAt = c.now()
		return result
	}

	now := c.client.Get(ctx, c.nowURL)
	result.NowStatusCode = now.StatusCode
	result.Latency += now.Latency

	switch {
	case now.Error != nil:
		return c.fail(result, now.Error)
	case now.StatusCode != http.StatusOK:
		result.Outcome = OutcomeFailed
		result.CheckedAt = c.now()
		return result
	}

	body, err := ParseNow(now.Body)
	if err != nil {
		return c.fail(result, fmt.Errorf("%s: %w", nowPath, err))
	}
	result.Path = body.Path

	if strings.HasPrefix(body.Path, internalPrefix) {
		result.Outcome = OutcomeAccessDenied
		result.CheckedAt = c.now()
		return result
	}

	currentTime, err := body.CurrentTime()
	if err != nil {
		return c.fail(result, fmt.Errorf("%s: %w", nowPath, err))
	}
	result.CurrentTime = currentTime
	result.Outcome = OutcomeHealthy
	result.CheckedAt = c.now()
	return result
}

func (c *Checker) fail(result CheckResult, err error) CheckResult {
	result.Outcome = OutcomeError
	result.Error = err
	result.CheckedAt = c.now()
	return result
}
