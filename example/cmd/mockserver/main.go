// Standalone mock target for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/healthcheck 127.0.0.1 --port 9999 --interval 2s
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jpalmerr/healthcheck/example/mock"
)

func main() {
	fmt.Println("Mock target starting on :9999")
	fmt.Println("Each /healthz request moves to the next scenario: healthy → internal → down → now failing")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	srv := &http.Server{
		Addr:              ":9999",
		Handler:           mock.New(slog.Default()).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
