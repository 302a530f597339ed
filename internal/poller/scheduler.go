package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scheduler runs [Checker] iterations one after another with a fixed delay.
//
// The delay starts when an iteration finishes, so the time between two
// iterations is the interval plus however long the requests took. Results
// are emitted on a channel that can be consumed by the caller.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Scheduler struct {
	check         func(ctx context.Context) CheckResult
	target        string
	interval      time.Duration
	maxIterations int
	client        *Client
	results       chan CheckResult
	logger        *slog.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup

	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once
}

// NewScheduler creates a new [Scheduler].
//
// Parameters:
//   - checker: Runs a single iteration against the target
//   - interval: Delay between the end of one iteration and the start of the next
//   - maxIterations: Number of iterations before stopping; 0 means unbounded
//   - logger: Logger for scheduler events (panic recovery, etc.)
//
// The scheduler must be started with [Scheduler.Start] and stopped with
// [Scheduler.Stop]. Results are available via [Scheduler.Results].
func NewScheduler(checker *Checker, interval time.Duration, maxIterations int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		check:         checker.Check,
		target:        checker.target,
		interval:      interval,
		maxIterations: maxIterations,
		client:        checker.client,
		results:       make(chan CheckResult, 1),
		logger:        logger,
	}
}

// Results returns a receive-only channel that emits [CheckResult] values.
//
// The channel is closed when the scheduler stops, including when the
// iteration limit is reached.
func (s *Scheduler) Results() <-chan CheckResult {
	return s.results
}

// Start begins the iteration loop in a background goroutine.
//
// The first iteration runs immediately. Start is idempotent; if Stop was
// called before Start, Start is a no-op. If ctx is nil, context.Background()
// is used as the parent context.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	pollCtx := s.ctx // capture under lock to avoid race
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.closeOnce.Do(func() { close(s.results) })
		s.run(pollCtx)
	}()
}

func (s *Scheduler) run(ctx context.Context) {
	timer := time.NewTimer(s.interval)
	timer.Stop()
	defer timer.Stop()

	for iteration := 1; ; iteration++ {
		result := s.safeCheck(ctx)

		// an iteration interrupted by shutdown is not reported
		if ctx.Err() != nil {
			return
		}

		select {
		case s.results <- result:
		case <-ctx.Done():
			return
		}

		if s.maxIterations > 0 && iteration >= s.maxIterations {
			return
		}

		timer.Reset(s.interval)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// Stop halts the scheduler and waits for the loop goroutine to exit.
//
// An in-flight request is cancelled through its context. Stop is idempotent
// and safe to call before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()

	if s.client != nil {
		s.client.Close()
	}

	// ensure channel is closed even if Start() was never called
	s.closeOnce.Do(func() { close(s.results) })
}

// safeCheck runs one iteration with panic recovery.
// A panic is logged with a correlation ID and reported as an error outcome.
func (s *Scheduler) safeCheck(ctx context.Context) (result CheckResult) {
	id := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()

			s.logger.Error("check panic",
				"correlation_id", id,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(stack),
			)

			result = CheckResult{
				ID:        id,
				Target:    s.target,
				Outcome:   OutcomeError,
				CheckedAt: time.Now(),
				Error:     fmt.Errorf("check panic (correlation_id: %s)", id),
			}
		}
	}()

	result = s.check(ctx)
	result.ID = id
	return result
}
