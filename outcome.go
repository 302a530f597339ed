package healthcheck

import "time"

// Outcome classifies the result of one check iteration.
//
// Outcome is a string type holding one of the predefined values:
// [OutcomeDown], [OutcomeHealthy], [OutcomeAccessDenied], [OutcomeFailed]
// or [OutcomeError]. Every outcome ends only the current iteration; the
// monitor always carries on with the next one.
type Outcome string

const (
	// OutcomeDown means /healthz answered with a status other than 200.
	// The /now endpoint is not requested in that iteration.
	OutcomeDown Outcome = "down"

	// OutcomeHealthy means both endpoints answered 200 and /now reported
	// a public path.
	OutcomeHealthy Outcome = "healthy"

	// OutcomeAccessDenied means /now reported a path under /internal/.
	OutcomeAccessDenied Outcome = "access_denied"

	// OutcomeFailed means /now answered with a status other than 200.
	OutcomeFailed Outcome = "failed"

	// OutcomeError means a request or the /now body could not be processed:
	// connection refused, timeout, malformed JSON, missing field.
	OutcomeError Outcome = "error"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// Result holds the outcome of a single check iteration.
type Result struct {
	// ID uniquely identifies the iteration in logs.
	ID string

	// Target is the host that was checked.
	Target string

	// Outcome is the classification of the iteration.
	Outcome Outcome

	// HealthStatusCode is the HTTP status returned by /healthz.
	// Zero if the request failed before receiving a response.
	HealthStatusCode int

	// NowStatusCode is the HTTP status returned by /now.
	// Zero if /now was not requested or failed before receiving a response.
	NowStatusCode int

	// Path is the "path" field of the /now body; empty when absent.
	Path string

	// CurrentTime is the "current_time" field of the /now body, as text.
	CurrentTime string

	// Latency is the combined duration of the iteration's requests.
	Latency time.Duration

	// CheckedAt is the local time at which the iteration finished.
	CheckedAt time.Time

	// Err is set when Outcome is [OutcomeError].
	Err error
}
