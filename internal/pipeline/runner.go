package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"bnbscout/internal/annotations"
	"bnbscout/internal/ledger"
	"bnbscout/internal/listing"
	"bnbscout/internal/logging"
	"bnbscout/internal/notifications"
	"bnbscout/internal/search"
)

const defaultAIPace = time.Second

// Runner executes monitoring runs.
type Runner struct {
	market   Marketplace
	scorer   Scorer
	store    *ledger.Store
	notifier notifications.Service
	logger   *slog.Logger

	sleeper       Sleeper
	retryAttempts int
	retryDelay    time.Duration
	pace          time.Duration
}

// Option customizes the runner.
type Option func(*Runner)

// WithSleeper overrides how retry and pacing sleeps are performed
// (useful for tests).
func WithSleeper(sleeper Sleeper) Option {
	return func(r *Runner) {
		if sleeper != nil {
			r.sleeper = sleeper
		}
	}
}

// WithRetryPolicy overrides the per-fetch retry count and delay.
func WithRetryPolicy(attempts int, delay time.Duration) Option {
	return func(r *Runner) {
		if attempts > 0 {
			r.retryAttempts = attempts
		}
		if delay >= 0 {
			r.retryDelay = delay
		}
	}
}

// NewRunner constructs a pipeline runner.
func NewRunner(market Marketplace, scorer Scorer, store *ledger.Store, notifier notifications.Service, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	r := &Runner{
		market:        market,
		scorer:        scorer,
		store:         store,
		notifier:      notifier,
		logger:        logging.WithComponent(logger, "pipeline"),
		sleeper:       time.Sleep,
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
		pace:          defaultAIPace,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result summarizes one completed run.
type Result struct {
	RunID          string
	ListingsFound  int
	NewListings    int
	DetailsFetched int
	RoomsFailed    int
	RoomsScored    int
}

// ErrSearchLocked is wrapped into the error returned when another process
// holds the search lock.
var ErrSearchLocked = errors.New("search is locked by another process")

// Run executes a full monitoring run for the search: fetch and filter,
// details and reviews, AI scoring, then the merged table write.
func (r *Runner) Run(ctx context.Context, sc *search.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := r.logger.With(
		slog.String(logging.FieldSearch, sc.Name),
		slog.String(logging.FieldRunID, runID),
	)

	lock := flock.New(sc.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire search lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrSearchLocked, sc.LockPath())
	}
	defer func() { _ = lock.Unlock() }()

	if err := sc.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure search directories: %w", err)
	}

	started := time.Now()
	if r.store != nil {
		if _, err := r.store.StartRun(ctx, runID, sc.Name); err != nil {
			return nil, err
		}
	}
	if err := r.notifier.NotifyRunStarted(ctx, sc.Name); err != nil {
		logger.Warn("start notification failed", slog.Any("error", err))
	}

	result, runErr := r.execute(ctx, logger, sc, runID)
	if runErr != nil {
		logger.Error("run failed", slog.Any("error", runErr))
		r.finishRun(ctx, logger, runID, ledger.StatusFailed, result, runErr.Error())
		if err := r.notifier.NotifyRunFailed(ctx, sc.Name, runErr); err != nil {
			logger.Warn("failure notification failed", slog.Any("error", err))
		}
		return nil, runErr
	}

	r.finishRun(ctx, logger, runID, ledger.StatusCompleted, result, "")
	if err := r.notifier.NotifyRunCompleted(ctx, sc.Name, result.ListingsFound, result.RoomsFailed, time.Since(started)); err != nil {
		logger.Warn("completion notification failed", slog.Any("error", err))
	}
	if result.NewListings > 0 {
		if err := r.notifier.NotifyNewListings(ctx, sc.Name, result.NewListings); err != nil {
			logger.Warn("new listing notification failed", slog.Any("error", err))
		}
	}
	logger.Info("run completed",
		slog.Int("listings", result.ListingsFound),
		slog.Int("new_listings", result.NewListings),
		slog.Int("failed", result.RoomsFailed),
		slog.Int("scored", result.RoomsScored),
		slog.Duration("elapsed", time.Since(started).Round(time.Second)),
	)
	return result, nil
}

func (r *Runner) execute(ctx context.Context, logger *slog.Logger, sc *search.Context, runID string) (*Result, error) {
	result := &Result{RunID: runID}

	previous, err := listing.ReadListings(sc.ResultsPath())
	if err != nil {
		return result, err
	}
	previousRooms := make(map[string]bool, len(previous))
	for _, l := range previous {
		previousRooms[l.RoomID] = true
	}

	stageLogger := logger.With(slog.String(logging.FieldStage, "search"))
	listings, err := r.fetchListings(ctx, stageLogger, sc.Config)
	if err != nil {
		return result, err
	}
	result.ListingsFound = len(listings)
	if len(listings) == 0 {
		// An empty post-filter set would truncate every CSV on disk.
		// Keep the previous run's data and finish without writing.
		stageLogger.Warn("search returned no listings, keeping previous data")
		return result, nil
	}
	for _, l := range listings {
		if !previousRooms[l.RoomID] {
			result.NewListings++
		}
	}

	existingDetails, err := listing.ReadDetails(sc.DetailsPath())
	if err != nil {
		return result, err
	}
	stageLogger = logger.With(slog.String(logging.FieldStage, "details"))
	details, failedRooms := r.fetchDetails(ctx, stageLogger, sc, runID, listings, existingDetails)
	result.DetailsFetched = len(details) - len(existingDetails)
	if result.DetailsFetched < 0 {
		result.DetailsFetched = 0
	}
	result.RoomsFailed = len(failedRooms)

	existingTexts, err := listing.ReadReviewTexts(sc.ReviewsPath())
	if err != nil {
		return result, err
	}
	stageLogger = logger.With(slog.String(logging.FieldStage, "reviews"))
	texts := r.updateReviews(ctx, stageLogger, listings, details, existingTexts)

	stageLogger = logger.With(slog.String(logging.FieldStage, "score"))
	texts, scored := r.scoreReviews(ctx, stageLogger, sc.Config, texts)
	result.RoomsScored = scored

	annotationSet, err := annotations.Load(sc.RatingsPath())
	if err != nil {
		return result, err
	}
	merged := listing.Merge(listings, details, texts, annotationSet)

	if err := listing.WriteListings(sc.ResultsPath(), listings); err != nil {
		return result, err
	}
	if err := listing.WriteDetails(sc.DetailsPath(), details); err != nil {
		return result, err
	}
	if err := listing.WriteReviewTexts(sc.ReviewsPath(), texts); err != nil {
		return result, err
	}
	if err := listing.WriteMerged(sc.MergedPath(), merged); err != nil {
		return result, err
	}
	if err := listing.WriteFailedRooms(sc.FailedRoomsPath(), failedRooms); err != nil {
		return result, err
	}
	return result, nil
}

func (r *Runner) finishRun(ctx context.Context, logger *slog.Logger, runID, status string, result *Result, message string) {
	if r.store == nil {
		return
	}
	counts := ledger.Counts{}
	if result != nil {
		counts = ledger.Counts{
			ListingsFound:  result.ListingsFound,
			DetailsFetched: result.DetailsFetched,
			RoomsFailed:    result.RoomsFailed,
			RoomsScored:    result.RoomsScored,
		}
	}
	if err := r.store.FinishRun(ctx, runID, status, counts, message); err != nil {
		logger.Warn("ledger finish failed", slog.Any("error", err))
	}
}

func (r *Runner) recordFailure(ctx context.Context, logger *slog.Logger, runID, searchName, roomID, stage string, cause error) {
	if r.store == nil {
		return
	}
	failure := ledger.Failure{
		RunID:      runID,
		SearchName: searchName,
		RoomID:     roomID,
		Stage:      stage,
		Message:    cause.Error(),
	}
	if err := r.store.RecordFailure(ctx, failure); err != nil {
		logger.Warn("ledger record failed", slog.Any("error", err))
	}
}
