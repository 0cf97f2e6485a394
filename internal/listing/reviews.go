package listing

import (
	"fmt"
	"strings"
)

// NoReviewsText is the placeholder blob for rooms with no reviews.
const NoReviewsText = "No reviews available for this property."

// FormatReviews joins the reviews into the blob fed to AI scoring.
func FormatReviews(reviews []Review) string {
	parts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		parts = append(parts, fmt.Sprintf("%s %s Rating: %d", r.CreatedAt, r.Comments, r.Rating))
	}
	return strings.Join(parts, "; ")
}

// BuildReviewText assembles the persisted review blob for a room: the
// formatted reviews (or the no-reviews placeholder) with the detail blurbs
// appended. detail may be nil when the room has no detail record.
func BuildReviewText(roomID string, reviews []Review, detail *Detail) ReviewText {
	text := FormatReviews(reviews)
	if text == "" {
		text = NoReviewsText
	}

	var highlights, locationDescriptions, description string
	if detail != nil {
		highlights = detail.Highlights
		locationDescriptions = detail.LocationDescriptions
		description = detail.Description
	}
	text += fmt.Sprintf("\nHighlights: %s\nLocation Description: %s\nDescription: %s",
		highlights, locationDescriptions, description)

	return ReviewText{RoomID: roomID, Text: text}
}

// FailedReviewText records a fetch failure while still producing a row so
// the room is not retried forever.
func FailedReviewText(roomID string, err error) ReviewText {
	return ReviewText{
		RoomID: roomID,
		Text:   fmt.Sprintf("Error retrieving reviews: %v\n%s", err, NoReviewsText),
	}
}
