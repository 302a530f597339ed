// Example of embedding healthcheck as a library against the mock target.
package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/healthcheck"
	"github.com/jpalmerr/healthcheck/example/mock"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		logger.Error("failed to listen", "error", err)
		os.Exit(1)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	go func() {
		srv := &http.Server{Handler: mock.New(logger).Handler(), ReadHeaderTimeout: 5 * time.Second}
		_ = srv.Serve(ln)
	}()

	downs := 0
	m, err := healthcheck.New("127.0.0.1",
		healthcheck.WithPort(port),
		healthcheck.WithInterval(2*time.Second),
		healthcheck.WithLogger(logger),
		healthcheck.WithResultCallback(func(r healthcheck.Result) {
			if r.Outcome == healthcheck.OutcomeDown {
				downs++
				logger.Warn("target reported down", "times", downs)
			}
		}),
	)
	if err != nil {
		logger.Error("failed to create monitor", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Start(ctx); err != nil {
		logger.Error("healthcheck error", "error", err)
		os.Exit(1)
	}
}
