package mock

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServer_CyclesScenarios(t *testing.T) {
	srv := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	for round := 0; round < 2; round++ {
		for _, sc := range DefaultScenarios {
			resp, err := http.Get(ts.URL + "/healthz")
			if err != nil {
				t.Fatalf("GET /healthz failed: %v", err)
			}
			_ = resp.Body.Close()
			if resp.StatusCode != sc.HealthStatus {
				t.Fatalf("%s: /healthz status = %d, want %d", sc.Name, resp.StatusCode, sc.HealthStatus)
			}
			if sc.HealthStatus != http.StatusOK {
				continue
			}

			resp, err = http.Get(ts.URL + "/now")
			if err != nil {
				t.Fatalf("GET /now failed: %v", err)
			}
			if resp.StatusCode != sc.NowStatus {
				t.Fatalf("%s: /now status = %d, want %d", sc.Name, resp.StatusCode, sc.NowStatus)
			}
			if sc.NowStatus == http.StatusOK {
				var body struct {
					Path        string `json:"path"`
					CurrentTime string `json:"current_time"`
				}
				if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
					t.Fatalf("%s: failed to decode /now: %v", sc.Name, err)
				}
				if body.Path != sc.Path {
					t.Errorf("%s: path = %q, want %q", sc.Name, body.Path, sc.Path)
				}
				if body.CurrentTime == "" {
					t.Errorf("%s: current_time is empty", sc.Name)
				}
			}
			_ = resp.Body.Close()
		}
	}
}

func TestServer_CustomScenarios(t *testing.T) {
	srv := New(nil, Scenario{Name: "always down", HealthStatus: http.StatusBadGateway})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	for i := 0; i < 3; i++ {
		resp, err := http.Get(ts.URL + "/healthz")
		if err != nil {
			t.Fatalf("GET /healthz failed: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", resp.StatusCode)
		}
	}
}
