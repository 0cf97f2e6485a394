package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// URLParams holds the search parameters extracted from a marketplace URL.
type URLParams struct {
	Location string
	City     string
	CheckIn  string
	CheckOut string
	NELat    float64
	NELong   float64
	SWLat    float64
	SWLong   float64
	Zoom     float64
}

// ParseURL extracts search parameters from a marketplace search URL copied
// out of a browser. The bounding box and zoom come from the map state query
// parameters; dates from checkin/checkout.
func ParseURL(raw string) (*URLParams, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse search URL: %w", err)
	}
	query := parsed.Query()

	params := &URLParams{
		Location: strings.ReplaceAll(query.Get("query"), " ", "_"),
		CheckIn:  query.Get("checkin"),
		CheckOut: query.Get("checkout"),
	}

	coords := []struct {
		name string
		dst  *float64
	}{
		{"ne_lat", &params.NELat},
		{"ne_lng", &params.NELong},
		{"sw_lat", &params.SWLat},
		{"sw_lng", &params.SWLong},
		{"zoom", &params.Zoom},
	}
	for _, coord := range coords {
		value := query.Get(coord.name)
		if value == "" {
			return nil, fmt.Errorf("search URL missing %q parameter", coord.name)
		}
		parsedValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("search URL parameter %q: %w", coord.name, err)
		}
		*coord.dst = parsedValue
	}

	if params.CheckIn == "" || params.CheckOut == "" {
		return nil, fmt.Errorf("search URL missing checkin/checkout dates")
	}

	params.City = cityFromLocation(params.Location)
	return params, nil
}

// SuggestedName proposes a search directory name from the parsed URL.
func (p *URLParams) SuggestedName() string {
	city := p.City
	if city == "" {
		city = "search"
	}
	return fmt.Sprintf("%s_%s", city, p.CheckIn)
}

func cityFromLocation(location string) string {
	city := location
	if idx := strings.IndexAny(city, ",_"); idx >= 0 {
		city = city[:idx]
	}
	return city
}
