package healthcheck

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"
)

// TimestampLayout is the layout used for timestamps in status lines,
// e.g. "Mon Jan  2 15:04:05 2006".
const TimestampLayout = time.ANSIC

// Lines renders r as the human-readable status lines printed for it.
func (r Result) Lines() []string {
	ts := r.CheckedAt.Format(TimestampLayout)

	switch r.Outcome {
	case OutcomeDown:
		return []string{"Service is down at " + ts}
	case OutcomeAccessDenied:
		return []string{"Access Denied 403"}
	case OutcomeHealthy:
		return []string{
			"Service is healthy",
			fmt.Sprintf("Current time on %s is %s at %s", r.Path, r.CurrentTime, ts),
		}
	case OutcomeFailed:
		return []string{"Failed to retrieve current time with status code " + strconv.Itoa(r.NowStatusCode) + " at " + ts}
	default:
		msg := "unknown error"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		return []string{fmt.Sprintf("Error: %s at %s", msg, ts)}
	}
}

// Reporter writes status lines for each [Result] to an output stream.
//
// Reporter is safe for concurrent use; the lines of one result are never
// interleaved with another's.
type Reporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewReporter creates a [Reporter] writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report writes the lines for r, one per line.
func (rp *Reporter) Report(r Result) error {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	for _, line := range r.Lines() {
		if _, err := io.WriteString(rp.w, line+"\n"); err != nil {
			return fmt.Errorf("failed to write status line: %w", err)
		}
	}
	return nil
}
