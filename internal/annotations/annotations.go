// Package annotations persists the user's per-room ratings and notes to
// user_ratings.csv inside a search directory.
package annotations

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"bnbscout/internal/fileutil"
	"bnbscout/internal/listing"
)

var header = []string{"room_id", "user_rating", "user_notes"}

// Load reads the annotation file. A missing file is an empty set. Ratings
// that fail to parse fall back to the unrated sentinel.
func Load(path string) ([]listing.Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read annotations: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse annotations: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	annotations := make([]listing.Annotation, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 || record[0] == "" {
			continue
		}
		a := listing.Annotation{RoomID: record[0], Rating: listing.UnratedSentinel}
		if len(record) > 1 {
			if v, err := strconv.ParseFloat(record[1], 64); err == nil {
				a.Rating = v
			}
		}
		if len(record) > 2 {
			a.Notes = record[2]
		}
		annotations = append(annotations, a)
	}
	return annotations, nil
}

// Save writes the annotation file atomically. Rows carrying the unrated
// sentinel with no notes hold no information and are dropped.
func Save(path string, annotations []listing.Annotation) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write annotations header: %w", err)
	}
	for _, a := range annotations {
		if a.Rating == listing.UnratedSentinel && a.Notes == "" {
			continue
		}
		record := []string{
			a.RoomID,
			strconv.FormatFloat(a.Rating, 'f', -1, 64),
			a.Notes,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write annotation row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush annotations: %w", err)
	}
	return fileutil.WriteAtomic(path, buf.Bytes())
}

// Apply overlays one updated annotation onto the set, replacing any
// existing entry for the room.
func Apply(annotations []listing.Annotation, updated listing.Annotation) []listing.Annotation {
	for i, a := range annotations {
		if a.RoomID == updated.RoomID {
			annotations[i] = updated
			return annotations
		}
	}
	return append(annotations, updated)
}
