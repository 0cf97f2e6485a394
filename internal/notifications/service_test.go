package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bnbscout/internal/config"
	"bnbscout/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRunStarted(context.Background(), "london"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	message  string
	tags     string
	priority string
}

func newCaptureServer(t *testing.T, sink *[]captured) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		*sink = append(*sink, captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
	}))
}

func newNtfyService(topic string) notifications.Service {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = topic
	return notifications.NewService(&cfg)
}

func TestNtfyServiceFormatsRunMessages(t *testing.T) {
	var got []captured
	server := newCaptureServer(t, &got)
	defer server.Close()
	svc := newNtfyService(server.URL)
	ctx := context.Background()

	if err := svc.NotifyRunStarted(ctx, "london"); err != nil {
		t.Fatalf("NotifyRunStarted failed: %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, "london", 42, 0, 90*time.Second); err != nil {
		t.Fatalf("NotifyRunCompleted failed: %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, "london", 42, 2, time.Minute); err != nil {
		t.Fatalf("NotifyRunCompleted failed: %v", err)
	}
	if err := svc.NotifyRunFailed(ctx, "london", errors.New("search fetch exhausted")); err != nil {
		t.Fatalf("NotifyRunFailed failed: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("captured %d notifications, want 4", len(got))
	}
	if got[0].title != "bnbscout - Run Started" || got[0].message != "Started monitoring run for london" {
		t.Fatalf("run started = %+v", got[0])
	}
	if got[1].message != "london: 42 listings processed in 1m30s" {
		t.Fatalf("clean completion message = %q", got[1].message)
	}
	if got[2].title != "bnbscout - Run Complete (with errors)" {
		t.Fatalf("errored completion title = %q", got[2].title)
	}
	if got[2].message != "london: 42 listings processed, 2 rooms failed in 1m0s" {
		t.Fatalf("errored completion message = %q", got[2].message)
	}
	if got[3].priority != "high" || got[3].message != "Run failed for london: search fetch exhausted" {
		t.Fatalf("failure notification = %+v", got[3])
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	svc := newNtfyService(server.URL)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for http 403")
	}
}
