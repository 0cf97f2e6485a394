// Package listing holds the domain records produced by a monitoring run
// and the table operations over them: deduplication, left joins, filtering,
// and CSV persistence.
package listing

import "fmt"

// Listing is one marketplace search result.
type Listing struct {
	RoomID      string
	Name        string
	Title       string
	Category    string
	Kind        string
	Badges      []string
	Latitude    *float64
	Longitude   *float64
	TotalPrice  *float64
	Rating      *float64
	ReviewCount *int
	Currency    string
}

// URL returns the public page for the listing.
func (l Listing) URL() string {
	return fmt.Sprintf("https://www.airbnb.com/rooms/%s", l.RoomID)
}

// Detail is the per-room detail record.
type Detail struct {
	RoomID               string
	PersonCapacity       *int
	RoomType             string
	IsSuperHost          bool
	Amenities            []string
	Description          string
	SubDescription       string
	Highlights           string
	LocationDescriptions string
	Latitude             *float64
	Longitude            *float64
}

// Review is a single guest review.
type Review struct {
	RoomID    string
	CreatedAt string
	Comments  string
	Rating    int
}

// ReviewText is the per-room review row: the concatenated review blob fed
// to AI scoring plus the scores once computed. Summary stays empty and
// AIRating nil until the scoring stage fills them in.
type ReviewText struct {
	RoomID   string
	Text     string
	Summary  string
	AIRating *float64
}

// Annotation is a user-recorded rating and note. Rating 6 means unrated.
type Annotation struct {
	RoomID string
	Rating float64
	Notes  string
}

// UnratedSentinel is the user rating meaning "not rated yet".
const UnratedSentinel = 6

// Row is one merged table entry: a listing left-joined with its detail,
// review text, score, and annotation. Missing counterparts leave nullable
// fields nil and the rest zero-valued.
type Row struct {
	Listing

	PersonCapacity       *int
	RoomType             string
	IsSuperHost          bool
	Amenities            []string
	Description          string
	SubDescription       string
	Highlights           string
	LocationDescriptions string

	ReviewsText string

	AIReviewSummary string
	AIRating        *float64

	UserRating float64
	UserNotes  string
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
