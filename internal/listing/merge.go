package listing

// Dedupe keeps the last occurrence of each room_id, preserving first-seen
// order. Later entries win so refreshed data replaces stale rows.
func Dedupe[T any](items []T, key func(T) string) []T {
	index := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		id := key(item)
		if pos, ok := index[id]; ok {
			out[pos] = item
			continue
		}
		index[id] = len(out)
		out = append(out, item)
	}
	return out
}

// DedupeListings keeps one row per room_id.
func DedupeListings(items []Listing) []Listing {
	return Dedupe(items, func(l Listing) string { return l.RoomID })
}

// DedupeDetails keeps one detail per room_id, latest entry winning.
func DedupeDetails(items []Detail) []Detail {
	return Dedupe(items, func(d Detail) string { return d.RoomID })
}

// DedupeReviewTexts keeps one review blob per room_id.
func DedupeReviewTexts(items []ReviewText) []ReviewText {
	return Dedupe(items, func(r ReviewText) string { return r.RoomID })
}

// Merge left-joins details, review rows, and annotations onto the
// listings. Every listing yields exactly one row; rooms with no counterpart
// in a side table get null fields, never a dropped row. Annotations missing
// a room leave the rating at the unrated sentinel.
func Merge(listings []Listing, details []Detail, texts []ReviewText, annotations []Annotation) []Row {
	detailByRoom := make(map[string]Detail, len(details))
	for _, d := range details {
		detailByRoom[d.RoomID] = d
	}
	textByRoom := make(map[string]ReviewText, len(texts))
	for _, t := range texts {
		textByRoom[t.RoomID] = t
	}
	annotationByRoom := make(map[string]Annotation, len(annotations))
	for _, a := range annotations {
		annotationByRoom[a.RoomID] = a
	}

	rows := make([]Row, 0, len(listings))
	for _, l := range listings {
		row := Row{Listing: l, UserRating: UnratedSentinel}
		if d, ok := detailByRoom[l.RoomID]; ok {
			row.PersonCapacity = d.PersonCapacity
			row.RoomType = d.RoomType
			row.IsSuperHost = d.IsSuperHost
			row.Amenities = d.Amenities
			row.Description = d.Description
			row.SubDescription = d.SubDescription
			row.Highlights = d.Highlights
			row.LocationDescriptions = d.LocationDescriptions
			if d.Latitude != nil {
				row.Latitude = d.Latitude
			}
			if d.Longitude != nil {
				row.Longitude = d.Longitude
			}
		}
		if text, ok := textByRoom[l.RoomID]; ok {
			row.ReviewsText = text.Text
			row.AIReviewSummary = text.Summary
			row.AIRating = text.AIRating
		}
		if a, ok := annotationByRoom[l.RoomID]; ok {
			row.UserRating = a.Rating
			row.UserNotes = a.Notes
		}
		rows = append(rows, row)
	}
	return rows
}
