package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bnbscout/internal/config"
)

const userAgent = "bnbscout/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyRunStarted(ctx context.Context, searchName string) error
	NotifyRunCompleted(ctx context.Context, searchName string, listings, failed int, duration time.Duration) error
	NotifyRunFailed(ctx context.Context, searchName string, err error) error
	NotifyNewListings(ctx context.Context, searchName string, count int) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, searchName string) error {
	searchName = strings.TrimSpace(searchName)
	data := payload{
		title:   "bnbscout - Run Started",
		message: fmt.Sprintf("Started monitoring run for %s", searchName),
		tags:    []string{"bnbscout", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, searchName string, listings, failed int, duration time.Duration) error {
	searchName = strings.TrimSpace(searchName)
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if failed == 0 {
		title = "bnbscout - Run Complete"
		message = fmt.Sprintf("%s: %d listings processed in %s", searchName, listings, durationText)
	} else {
		title = "bnbscout - Run Complete (with errors)"
		message = fmt.Sprintf("%s: %d listings processed, %d rooms failed in %s", searchName, listings, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"bnbscout", "run", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, searchName string, err error) error {
	var builder strings.Builder
	builder.WriteString("Run failed")
	if searchName = strings.TrimSpace(searchName); searchName != "" {
		builder.WriteString(" for ")
		builder.WriteString(searchName)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "bnbscout - Run Failed",
		message:  builder.String(),
		tags:     []string{"bnbscout", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyNewListings(ctx context.Context, searchName string, count int) error {
	searchName = strings.TrimSpace(searchName)
	data := payload{
		title:    "bnbscout - New Listings",
		message:  fmt.Sprintf("%d new listings found for %s", count, searchName),
		tags:     []string{"bnbscout", "listings", "new"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "bnbscout - Test",
		message:  "Notification system test",
		tags:     []string{"bnbscout", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string) error { return nil }
func (noopService) NotifyRunCompleted(context.Context, string, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyRunFailed(context.Context, string, error) error  { return nil }
func (noopService) NotifyNewListings(context.Context, string, int) error  { return nil }
func (noopService) TestNotification(context.Context) error                { return nil }

// NewNop returns a Service that discards every notification.
func NewNop() Service { return noopService{} }
