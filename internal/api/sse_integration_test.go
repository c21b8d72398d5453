package api

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/camview/internal/events"
	"github.com/smazurov/camview/internal/logging"
)

// readSSE collects event and data lines from an SSE body until the test ends.
func readSSE(t *testing.T, resp *http.Response) <-chan string {
	t.Helper()
	lines := make(chan string, 32)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "event:") && !strings.HasPrefix(line, "data:") {
				continue
			}
			select {
			case lines <- line:
			case <-t.Context().Done():
				return
			}
		}
	}()
	return lines
}

func waitFor(t *testing.T, lines <-chan string, substr string) string {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("stream closed before %q", substr)
			}
			if strings.Contains(line, substr) {
				return line
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q", substr)
		}
	}
}

func openStream(t *testing.T, url string) *http.Response {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		t.Fatalf("Expected SSE content type, got %s", resp.Header.Get("Content-Type"))
	}
	return resp
}

func TestSSEConnectionAndEvents(t *testing.T) {
	fx := newFixture(t, func(o *Options) {
		o.AuthUsername = "test"
		o.AuthPassword = "test"
	})
	ts := httptest.NewServer(fx.server.GetMux())
	defer ts.Close()

	credentials := base64.StdEncoding.EncodeToString([]byte("test:test"))
	lines := readSSE(t, openStream(t, fmt.Sprintf("%s/api/events?auth=%s", ts.URL, credentials)))

	// Initial view state confirms the connection.
	waitFor(t, lines, "event: view-changed")
	waitFor(t, lines, `"rotation":0`)

	fx.ctrl.Rotate()
	waitFor(t, lines, `"rotation":1`)

	fx.bus.Publish(events.UsageErrorEvent{Action: "pointer", Message: "no selection mode active"})
	waitFor(t, lines, "event: usage-error")
}

func TestSSERequiresAuth(t *testing.T) {
	fx := newFixture(t, func(o *Options) {
		o.AuthUsername = "test"
		o.AuthPassword = "test"
	})
	ts := httptest.NewServer(fx.server.GetMux())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/events")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLogStreamReplaysAndFollows(t *testing.T) {
	fx := newFixture(t)
	publish := LogPublisher(fx.bus)
	ts := httptest.NewServer(fx.server.GetMux())
	defer ts.Close()

	logging.GetLogger("api-test").Info("replayed entry")
	lines := readSSE(t, openStream(t, ts.URL+"/api/logs/stream"))

	// Replay runs after the subscription, so live entries follow it.
	waitFor(t, lines, "replayed entry")
	publish(logging.LogEntry{Timestamp: time.Now(), Level: "info", Module: "api-test", Message: "streamed entry"})
	waitFor(t, lines, "streamed entry")
}
