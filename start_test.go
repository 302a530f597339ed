package healthcheck

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syncBuffer is a bytes.Buffer safe for concurrent writes and reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTarget starts a server answering /healthz and /now with the given
// statuses and /now body, and returns its host and port.
func newTarget(t *testing.T, healthStatus, nowStatus int, nowBody string, nowCalls *atomic.Int32) (string, int) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			w.WriteHeader(healthStatus)
		case "/now":
			if nowCalls != nil {
				nowCalls.Add(1)
			}
			w.WriteHeader(nowStatus)
			_, _ = w.Write([]byte(nowBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return splitServerURL(t, server.URL)
}

func splitServerURL(t *testing.T, rawURL string) (string, int) {
	t.Helper()

	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("failed to split host: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}

// runOnce runs a monitor for a single iteration and returns its output.
func runOnce(t *testing.T, host string, port int, opts ...Option) string {
	t.Helper()

	var out syncBuffer
	opts = append([]Option{
		WithPort(port),
		WithOutput(&out),
		WithLogger(discardLogger()),
		WithMaxIterations(1),
		WithTimeout(5 * time.Second),
		WithClock(func() time.Time { return checkedAt }),
	}, opts...)

	m, err := New(host, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return out.String()
}

func TestStart_Healthy(t *testing.T) {
	host, port := newTarget(t, http.StatusOK, http.StatusOK, `{"path": "/now", "current_time": "2024-03-09T08:07:06Z"}`, nil)

	got := runOnce(t, host, port)

	want := "Service is healthy\n" +
		"Current time on /now is 2024-03-09T08:07:06Z at Sat Mar  9 08:07:06 2024\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestStart_AccessDenied(t *testing.T) {
	bodies := []string{
		`{"path": "/internal/admin", "current_time": 1}`,
		`{"path": "/internal/admin"}`,
		`{"path": "/internal/admin", "current_time": null}`,
		`{"path": "/internal/admin", "current_time": {"a": 1}}`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			host, port := newTarget(t, http.StatusOK, http.StatusOK, body, nil)

			got := runOnce(t, host, port)

			if got != "Access Denied 403\n" {
				t.Errorf("output = %q, want exactly %q", got, "Access Denied 403\n")
			}
		})
	}
}

func TestStart_Down_SkipsNow(t *testing.T) {
	var nowCalls atomic.Int32
	host, port := newTarget(t, http.StatusServiceUnavailable, http.StatusOK, `{}`, &nowCalls)

	got := runOnce(t, host, port)

	if got != "Service is down at Sat Mar  9 08:07:06 2024\n" {
		t.Errorf("output = %q", got)
	}
	if nowCalls.Load() != 0 {
		t.Errorf("/now called %d times, want 0", nowCalls.Load())
	}
}

func TestStart_NowFailed(t *testing.T) {
	host, port := newTarget(t, http.StatusOK, http.StatusInternalServerError, `oops`, nil)

	got := runOnce(t, host, port)

	if !strings.HasPrefix(got, "Failed to retrieve current time") || !strings.Contains(got, "500") {
		t.Errorf("output = %q, want a failed-to-retrieve line with 500", got)
	}
}

func TestStart_MalformedJSON(t *testing.T) {
	host, port := newTarget(t, http.StatusOK, http.StatusOK, `not json`, nil)

	got := runOnce(t, host, port)

	if !strings.HasPrefix(got, "Error: ") || !strings.HasSuffix(got, " at Sat Mar  9 08:07:06 2024\n") {
		t.Errorf("output = %q, want an Error line", got)
	}
}

func TestStart_ConnectionRefused_KeepsLooping(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	host, port := splitServerURL(t, server.URL)
	server.Close()

	var out syncBuffer
	m, err := New(host,
		WithPort(port),
		WithOutput(&out),
		WithLogger(discardLogger()),
		WithInterval(10*time.Millisecond),
		WithMaxIterations(3),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), out.String())
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "Error: ") {
			t.Errorf("line %d = %q, want an Error line", i, line)
		}
	}
}

// TestStart_BlocksUntilContextCancelled verifies that Start runs until the
// context is cancelled when no iteration limit is set.
func TestStart_BlocksUntilContextCancelled(t *testing.T) {
	host, port := newTarget(t, http.StatusOK, http.StatusOK, `{"current_time": "t"}`, nil)

	m, err := New(host,
		WithPort(port),
		WithOutput(io.Discard),
		WithLogger(discardLogger()),
		WithInterval(20*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("Start() returned early with error: %v", err)
	default:
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}
}

func TestStart_AlreadyCancelledContext(t *testing.T) {
	var nowCalls atomic.Int32
	host, port := newTarget(t, http.StatusOK, http.StatusOK, `{"current_time": "t"}`, &nowCalls)

	var out syncBuffer
	m, err := New(host, WithPort(port), WithOutput(&out), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.Start(ctx); err != nil {
		t.Errorf("Start() error = %v, want nil", err)
	}
	if out.String() != "" {
		t.Errorf("output = %q, want none", out.String())
	}
}

func TestStart_NilContext(t *testing.T) {
	host, port := newTarget(t, http.StatusOK, http.StatusOK, `{"path": "/now", "current_time": "t"}`, nil)

	var out syncBuffer
	m, err := New(host, WithPort(port), WithOutput(&out), WithLogger(discardLogger()), WithMaxIterations(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var ctx context.Context
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "Service is healthy\n") {
		t.Errorf("output = %q, want a healthy report", out.String())
	}
}

func TestStart_LogsFailures(t *testing.T) {
	host, port := newTarget(t, http.StatusBadGateway, http.StatusOK, `{}`, nil)

	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, err := New(host,
		WithPort(port),
		WithOutput(io.Discard),
		WithLogger(logger),
		WithMaxIterations(1),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	out := logs.String()
	for _, want := range []string{"healthcheck starting", "outcome=down", "health_status=502", "check_id=", "healthcheck stopped"} {
		if !strings.Contains(out, want) {
			t.Errorf("logs missing %q\nGot: %s", want, out)
		}
	}
}
