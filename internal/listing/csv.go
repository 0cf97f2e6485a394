package listing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bnbscout/internal/fileutil"
)

// CSV headers for the persisted tables. Column order is stable so the
// files diff cleanly across runs.
var (
	resultsHeader = []string{
		"room_id", "name", "title", "category", "kind", "badges",
		"latitude", "longitude", "total_price", "rating", "review_count", "currency",
	}
	detailsHeader = []string{
		"room_id", "person_capacity", "room_type", "is_super_host", "amenities",
		"description", "sub_description", "highlights", "location_descriptions",
		"latitude", "longitude",
	}
	reviewsHeader = []string{"room_id", "reviews_text", "AI_review_summary", "AI_rating"}
	mergedHeader  = []string{
		"room_id", "name", "title", "category", "kind", "badges",
		"latitude", "longitude", "total_price", "rating", "review_count", "currency",
		"person_capacity", "room_type", "is_super_host", "amenities",
		"description", "sub_description", "highlights", "location_descriptions",
		"reviews_text", "AI_review_summary", "AI_rating", "user_rating", "user_notes",
	}
)

const listSeparator = "; "

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func parseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return floatPtr(v), nil
}

func parseInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	// Review counts sometimes arrive as "12.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return intPtr(int(f)), nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return intPtr(v), nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}

func writeTable(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return fileutil.WriteAtomic(path, buf.Bytes())
}

// readTable reads a CSV with the expected header, mapping column names to
// positions so column reordering in hand-edited files stays harmless. A
// missing file yields a nil record set and no error.
func readTable(path string, required []string) ([]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[name] = i
	}
	for _, name := range required {
		if _, ok := position[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for name, idx := range position {
			if idx < len(record) {
				row[name] = record[idx]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteListings persists the search results table.
func WriteListings(path string, items []Listing) error {
	rows := make([][]string, 0, len(items))
	for _, l := range items {
		rows = append(rows, []string{
			l.RoomID, l.Name, l.Title, l.Category, l.Kind,
			strings.Join(l.Badges, listSeparator),
			formatFloat(l.Latitude), formatFloat(l.Longitude),
			formatFloat(l.TotalPrice), formatFloat(l.Rating),
			formatInt(l.ReviewCount), l.Currency,
		})
	}
	return writeTable(path, resultsHeader, rows)
}

// ReadListings loads the results table. A missing file is an empty table.
func ReadListings(path string) ([]Listing, error) {
	records, err := readTable(path, []string{"room_id"})
	if err != nil {
		return nil, err
	}
	items := make([]Listing, 0, len(records))
	for _, rec := range records {
		l := Listing{
			RoomID:   rec["room_id"],
			Name:     rec["name"],
			Title:    rec["title"],
			Category: rec["category"],
			Kind:     rec["kind"],
			Badges:   splitList(rec["badges"]),
			Currency: rec["currency"],
		}
		if l.Latitude, err = parseFloat(rec["latitude"]); err != nil {
			return nil, fmt.Errorf("room %s latitude: %w", l.RoomID, err)
		}
		if l.Longitude, err = parseFloat(rec["longitude"]); err != nil {
			return nil, fmt.Errorf("room %s longitude: %w", l.RoomID, err)
		}
		if l.TotalPrice, err = parseFloat(rec["total_price"]); err != nil {
			return nil, fmt.Errorf("room %s total_price: %w", l.RoomID, err)
		}
		if l.Rating, err = parseFloat(rec["rating"]); err != nil {
			return nil, fmt.Errorf("room %s rating: %w", l.RoomID, err)
		}
		if l.ReviewCount, err = parseInt(rec["review_count"]); err != nil {
			return nil, fmt.Errorf("room %s review_count: %w", l.RoomID, err)
		}
		items = append(items, l)
	}
	return items, nil
}

// WriteDetails persists the per-room detail table.
func WriteDetails(path string, items []Detail) error {
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		rows = append(rows, []string{
			d.RoomID, formatInt(d.PersonCapacity), d.RoomType,
			strconv.FormatBool(d.IsSuperHost),
			strings.Join(d.Amenities, listSeparator),
			d.Description, d.SubDescription, d.Highlights, d.LocationDescriptions,
			formatFloat(d.Latitude), formatFloat(d.Longitude),
		})
	}
	return writeTable(path, detailsHeader, rows)
}

// ReadDetails loads the detail table. A missing file is an empty table.
func ReadDetails(path string) ([]Detail, error) {
	records, err := readTable(path, []string{"room_id"})
	if err != nil {
		return nil, err
	}
	items := make([]Detail, 0, len(records))
	for _, rec := range records {
		d := Detail{
			RoomID:               rec["room_id"],
			RoomType:             rec["room_type"],
			Amenities:            splitList(rec["amenities"]),
			Description:          rec["description"],
			SubDescription:       rec["sub_description"],
			Highlights:           rec["highlights"],
			LocationDescriptions: rec["location_descriptions"],
		}
		d.IsSuperHost = strings.EqualFold(rec["is_super_host"], "true")
		if d.PersonCapacity, err = parseInt(rec["person_capacity"]); err != nil {
			return nil, fmt.Errorf("room %s person_capacity: %w", d.RoomID, err)
		}
		if d.Latitude, err = parseFloat(rec["latitude"]); err != nil {
			return nil, fmt.Errorf("room %s latitude: %w", d.RoomID, err)
		}
		if d.Longitude, err = parseFloat(rec["longitude"]); err != nil {
			return nil, fmt.Errorf("room %s longitude: %w", d.RoomID, err)
		}
		items = append(items, d)
	}
	return items, nil
}

// WriteReviewTexts persists the per-room review rows, scores included.
func WriteReviewTexts(path string, items []ReviewText) error {
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, []string{r.RoomID, r.Text, r.Summary, formatFloat(r.AIRating)})
	}
	return writeTable(path, reviewsHeader, rows)
}

// ReadReviewTexts loads the review rows. A missing file is an empty table.
func ReadReviewTexts(path string) ([]ReviewText, error) {
	records, err := readTable(path, []string{"room_id"})
	if err != nil {
		return nil, err
	}
	items := make([]ReviewText, 0, len(records))
	for _, rec := range records {
		item := ReviewText{
			RoomID:  rec["room_id"],
			Text:    rec["reviews_text"],
			Summary: rec["AI_review_summary"],
		}
		if item.AIRating, err = parseFloat(rec["AI_rating"]); err != nil {
			return nil, fmt.Errorf("room %s AI_rating: %w", item.RoomID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// WriteMerged persists the merged table.
func WriteMerged(path string, rows []Row) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.RoomID, r.Name, r.Title, r.Category, r.Kind,
			strings.Join(r.Badges, listSeparator),
			formatFloat(r.Latitude), formatFloat(r.Longitude),
			formatFloat(r.TotalPrice), formatFloat(r.Rating),
			formatInt(r.ReviewCount), r.Currency,
			formatInt(r.PersonCapacity), r.RoomType,
			strconv.FormatBool(r.IsSuperHost),
			strings.Join(r.Amenities, listSeparator),
			r.Description, r.SubDescription, r.Highlights, r.LocationDescriptions,
			r.ReviewsText, r.AIReviewSummary, formatFloat(r.AIRating),
			strconv.FormatFloat(r.UserRating, 'f', -1, 64), r.UserNotes,
		})
	}
	return writeTable(path, mergedHeader, out)
}

// ReadMerged loads the merged table. A missing file is an empty table.
func ReadMerged(path string) ([]Row, error) {
	records, err := readTable(path, []string{"room_id"})
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		r := Row{
			Listing: Listing{
				RoomID:   rec["room_id"],
				Name:     rec["name"],
				Title:    rec["title"],
				Category: rec["category"],
				Kind:     rec["kind"],
				Badges:   splitList(rec["badges"]),
				Currency: rec["currency"],
			},
			RoomType:             rec["room_type"],
			Amenities:            splitList(rec["amenities"]),
			Description:          rec["description"],
			SubDescription:       rec["sub_description"],
			Highlights:           rec["highlights"],
			LocationDescriptions: rec["location_descriptions"],
			ReviewsText:          rec["reviews_text"],
			AIReviewSummary:      rec["AI_review_summary"],
			UserRating:           UnratedSentinel,
			UserNotes:            rec["user_notes"],
		}
		r.IsSuperHost = strings.EqualFold(rec["is_super_host"], "true")
		if r.Latitude, err = parseFloat(rec["latitude"]); err != nil {
			return nil, fmt.Errorf("room %s latitude: %w", r.RoomID, err)
		}
		if r.Longitude, err = parseFloat(rec["longitude"]); err != nil {
			return nil, fmt.Errorf("room %s longitude: %w", r.RoomID, err)
		}
		if r.TotalPrice, err = parseFloat(rec["total_price"]); err != nil {
			return nil, fmt.Errorf("room %s total_price: %w", r.RoomID, err)
		}
		if r.Rating, err = parseFloat(rec["rating"]); err != nil {
			return nil, fmt.Errorf("room %s rating: %w", r.RoomID, err)
		}
		if r.ReviewCount, err = parseInt(rec["review_count"]); err != nil {
			return nil, fmt.Errorf("room %s review_count: %w", r.RoomID, err)
		}
		if r.PersonCapacity, err = parseInt(rec["person_capacity"]); err != nil {
			return nil, fmt.Errorf("room %s person_capacity: %w", r.RoomID, err)
		}
		if r.AIRating, err = parseFloat(rec["AI_rating"]); err != nil {
			return nil, fmt.Errorf("room %s AI_rating: %w", r.RoomID, err)
		}
		if raw := rec["user_rating"]; raw != "" {
			if v, parseErr := strconv.ParseFloat(raw, 64); parseErr == nil {
				r.UserRating = v
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// WriteFailedRooms persists the failed room ID list, one per line.
func WriteFailedRooms(path string, roomIDs []string) error {
	if len(roomIDs) == 0 {
		return fileutil.WriteAtomic(path, nil)
	}
	return fileutil.WriteAtomic(path, []byte(strings.Join(roomIDs, "\n")+"\n"))
}

// ReadFailedRooms loads the failed room ID list. A missing file is empty.
func ReadFailedRooms(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}
