package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"bnbscout/internal/aireview"
	"bnbscout/internal/listing"
	"bnbscout/internal/logging"
	"bnbscout/internal/marketplace"
	"bnbscout/internal/search"
)

// Marketplace is the slice of the marketplace client the pipeline uses.
type Marketplace interface {
	Search(ctx context.Context, params marketplace.SearchParams) ([]listing.Listing, error)
	RoomDetail(ctx context.Context, roomID string, params marketplace.SearchParams) (listing.Detail, error)
	AllReviews(ctx context.Context, roomID string) ([]listing.Review, error)
}

// Scorer is the slice of the completion client the pipeline uses.
type Scorer interface {
	Query(ctx context.Context, text string, p aireview.Prompt) (string, error)
}

func searchParams(cfg *search.Config) marketplace.SearchParams {
	return marketplace.SearchParams{
		CheckIn:  cfg.CheckIn,
		CheckOut: cfg.CheckOut,
		NELat:    cfg.NELat,
		NELong:   cfg.NELong,
		SWLat:    cfg.SWLat,
		SWLong:   cfg.SWLong,
		Zoom:     cfg.ZoomValue,
		Currency: cfg.Currency,
	}
}

func toPrompt(p *search.AIPrompt) aireview.Prompt {
	if p == nil {
		return aireview.Prompt{}
	}
	prompt := aireview.Prompt{
		RolePrompt:     p.RolePrompt,
		Model:          p.ModelName,
		MaxTokens:      p.MaxTokens,
		Temperature:    p.Temperature,
		FunctionSchema: p.FunctionSchema,
	}
	if len(p.Questions) > 0 {
		prompt.Question = p.Questions[0]
	}
	return prompt
}

// fetchListings runs the search stage: fetch everything for the bounding
// box, deduplicate, and keep rows inside the configured price band. Rows
// without a price survive the filter.
func (r *Runner) fetchListings(ctx context.Context, logger *slog.Logger, cfg *search.Config) ([]listing.Listing, error) {
	var results []listing.Listing
	err := withRetries(ctx, logger, r.sleeper, r.retryAttempts, r.retryDelay, "marketplace search", func() error {
		fetched, err := r.market.Search(ctx, searchParams(cfg))
		if err != nil {
			return err
		}
		results = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}

	deduped := listing.DedupeListings(results)
	kept := make([]listing.Listing, 0, len(deduped))
	for _, l := range deduped {
		if l.TotalPrice != nil && (*l.TotalPrice < cfg.MinPrice || *l.TotalPrice > cfg.DefaultMaxPrice) {
			continue
		}
		kept = append(kept, l)
	}
	logger.Info("listings fetched",
		slog.Int("fetched", len(results)),
		slog.Int("unique", len(deduped)),
		slog.Int("kept", len(kept)),
	)
	return kept, nil
}

// fetchDetails fetches detail records for rooms missing from the existing
// table. Exhausted rooms land in the returned failed list and the run
// ledger; the stage never aborts on a single room.
func (r *Runner) fetchDetails(ctx context.Context, logger *slog.Logger, sc *search.Context, runID string, listings []listing.Listing, existing []listing.Detail) ([]listing.Detail, []string) {
	known := make(map[string]bool, len(existing))
	for _, d := range existing {
		known[d.RoomID] = true
	}

	details := append([]listing.Detail{}, existing...)
	var failed []string
	params := searchParams(sc.Config)

	for _, l := range listings {
		if known[l.RoomID] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return details, failed
		}
		roomLogger := logger.With(slog.String(logging.FieldRoomID, l.RoomID))

		var detail listing.Detail
		err := withRetries(ctx, roomLogger, r.sleeper, r.retryAttempts, r.retryDelay, "room detail", func() error {
			fetched, err := r.market.RoomDetail(ctx, l.RoomID, params)
			if err != nil {
				return err
			}
			detail = fetched
			return nil
		})
		if err != nil {
			roomLogger.Error("room detail exhausted", slog.Any("error", err))
			failed = append(failed, l.RoomID)
			r.recordFailure(ctx, roomLogger, runID, sc.Name, l.RoomID, "details", err)
			continue
		}
		details = append(details, detail)
	}
	return listing.DedupeDetails(details), failed
}

// updateReviews downloads reviews for rooms missing from the existing
// review table and builds their persisted blobs. A row is always produced,
// even when the download fails.
func (r *Runner) updateReviews(ctx context.Context, logger *slog.Logger, listings []listing.Listing, details []listing.Detail, existing []listing.ReviewText) []listing.ReviewText {
	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.RoomID] = true
	}
	detailByRoom := make(map[string]listing.Detail, len(details))
	for _, d := range details {
		detailByRoom[d.RoomID] = d
	}

	texts := append([]listing.ReviewText{}, existing...)
	for _, l := range listings {
		if known[l.RoomID] {
			continue
		}
		if ctx.Err() != nil {
			return texts
		}
		roomLogger := logger.With(slog.String(logging.FieldRoomID, l.RoomID))

		var reviews []listing.Review
		err := withRetries(ctx, roomLogger, r.sleeper, r.retryAttempts, r.retryDelay, "room reviews", func() error {
			fetched, err := r.market.AllReviews(ctx, l.RoomID)
			if err != nil {
				return err
			}
			reviews = fetched
			return nil
		})
		if err != nil {
			roomLogger.Error("review download exhausted", slog.Any("error", err))
			texts = append(texts, listing.FailedReviewText(l.RoomID, err))
			continue
		}

		var detail *listing.Detail
		if d, ok := detailByRoom[l.RoomID]; ok {
			detail = &d
		}
		texts = append(texts, listing.BuildReviewText(l.RoomID, reviews, detail))
	}
	return listing.DedupeReviewTexts(texts)
}

// scoreReviews fills in missing AI summaries and ratings. Rows already
// carrying a value are skipped; calls are paced to avoid rate limits.
func (r *Runner) scoreReviews(ctx context.Context, logger *slog.Logger, cfg *search.Config, texts []listing.ReviewText) ([]listing.ReviewText, int) {
	summaryPrompt := toPrompt(cfg.AIReviewSummary)
	ratingPrompt := toPrompt(cfg.AIRating)
	scored := 0

	for i := range texts {
		if ctx.Err() != nil {
			break
		}
		row := &texts[i]
		roomLogger := logger.With(slog.String(logging.FieldRoomID, row.RoomID))

		if row.Summary == "" && summaryPrompt.Question != "" && row.Text != "" {
			answer, err := r.scorer.Query(ctx, row.Text, summaryPrompt)
			if err != nil {
				roomLogger.Error("summary query failed", slog.Any("error", err))
			} else {
				row.Summary = aireview.CleanSummary(answer)
			}
			r.sleeper(r.pace)
		}

		if row.AIRating == nil && ratingPrompt.Question != "" && row.Summary != "" {
			answer, err := r.scorer.Query(ctx, row.Summary, ratingPrompt)
			if err != nil {
				roomLogger.Error("rating query failed", slog.Any("error", err))
			} else if rating := aireview.ExtractRating(answer); rating != nil {
				row.AIRating = rating
				scored++
			} else {
				roomLogger.Warn("no rating in response", slog.String("response", answer))
			}
			r.sleeper(r.pace)
		}
	}
	return texts, scored
}
