package pipeline

import (
	"context"
	"log/slog"
	"time"

	"bnbscout/internal/logging"
)

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = 5 * time.Second
)

// Sleeper performs retry and pacing sleeps. Tests inject a no-op.
type Sleeper func(time.Duration)

// withRetries runs op up to attempts times with a fixed delay between
// tries, honoring context cancellation. The last error is returned when
// every attempt fails.
func withRetries(ctx context.Context, logger *slog.Logger, sleeper Sleeper, attempts int, delay time.Duration, label string, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		logger.Warn("attempt failed",
			slog.String("operation", label),
			slog.Int(logging.FieldAttempt, attempt),
			slog.Int("max_attempts", attempts),
			slog.Any("error", lastErr),
		)
		if attempt < attempts {
			sleeper(delay)
		}
	}
	return lastErr
}
