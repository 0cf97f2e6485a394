package listing

import "sort"

// Filters are the dashboard's range and category constraints. Null fields
// on a row are permissive: a row with no price, AI rating, marketplace
// rating, or capacity passes the corresponding range check.
type Filters struct {
	MinPrice float64
	MaxPrice float64

	MinUserRating float64
	MaxUserRating float64

	MinAIRating float64
	MaxAIRating float64

	MinMarketRating float64
	MaxMarketRating float64

	PersonCapacity int

	Categories []string
}

func inRange(v *float64, lo, hi float64) bool {
	if v == nil {
		return true
	}
	return *v >= lo && *v <= hi
}

// Apply filters and sorts the rows. User ratings are always concrete (the
// unrated sentinel stands in for missing values) so that range check is
// strict; the other ranges skip null values. Results come back sorted by
// total price ascending with priceless rows last.
func Apply(rows []Row, f Filters) []Row {
	categorySet := make(map[string]struct{}, len(f.Categories))
	for _, c := range f.Categories {
		categorySet[c] = struct{}{}
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !inRange(row.TotalPrice, f.MinPrice, f.MaxPrice) {
			continue
		}
		if row.UserRating < f.MinUserRating || row.UserRating > f.MaxUserRating {
			continue
		}
		if !inRange(row.AIRating, f.MinAIRating, f.MaxAIRating) {
			continue
		}
		if !inRange(row.Rating, f.MinMarketRating, f.MaxMarketRating) {
			continue
		}
		if f.PersonCapacity > 0 && row.PersonCapacity != nil && *row.PersonCapacity < f.PersonCapacity {
			continue
		}
		if len(categorySet) > 0 {
			if _, ok := categorySet[row.Category]; !ok {
				continue
			}
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].TotalPrice, out[j].TotalPrice
		switch {
		case pi == nil && pj == nil:
			return false
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})
	return out
}

// DefaultFilters builds the permissive starting filters for a dashboard
// session from configured bounds.
func DefaultFilters(minPrice, maxPrice, minUser, maxUser, minAI, maxAI, minMarket, maxMarket float64, capacity int, categories []string) Filters {
	return Filters{
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
		MinUserRating:   minUser,
		MaxUserRating:   maxUser,
		MinAIRating:     minAI,
		MaxAIRating:     maxAI,
		MinMarketRating: minMarket,
		MaxMarketRating: maxMarket,
		PersonCapacity:  capacity,
		Categories:      categories,
	}
}
