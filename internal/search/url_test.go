package search

import "testing"

const sampleURL = "https://www.airbnb.com/s/London--United-Kingdom/homes?" +
	"query=London%2C%20United%20Kingdom&checkin=2026-09-01&checkout=2026-09-08" +
	"&ne_lat=51.56&ne_lng=-0.05&sw_lat=51.46&sw_lng=-0.21&zoom=12.5"

func TestParseURL(t *testing.T) {
	params, err := ParseURL(sampleURL)
	if err != nil {
		t.Fatalf("ParseURL failed: %v", err)
	}
	if params.CheckIn != "2026-09-01" || params.CheckOut != "2026-09-08" {
		t.Fatalf("unexpected dates: %q %q", params.CheckIn, params.CheckOut)
	}
	if params.NELat != 51.56 || params.NELong != -0.05 {
		t.Fatalf("unexpected NE corner: %v %v", params.NELat, params.NELong)
	}
	if params.SWLat != 51.46 || params.SWLong != -0.21 {
		t.Fatalf("unexpected SW corner: %v %v", params.SWLat, params.SWLong)
	}
	if params.Zoom != 12.5 {
		t.Fatalf("zoom = %v, want 12.5", params.Zoom)
	}
	if params.City != "London" {
		t.Fatalf("city = %q, want London", params.City)
	}
}

func TestParseURLMissingCoordinate(t *testing.T) {
	raw := "https://www.airbnb.com/s/homes?query=Paris&checkin=2026-09-01&checkout=2026-09-08" +
		"&ne_lat=48.9&ne_lng=2.4&sw_lat=48.8&zoom=12"
	if _, err := ParseURL(raw); err == nil {
		t.Fatal("expected error for missing sw_lng")
	}
}

func TestParseURLMissingDates(t *testing.T) {
	raw := "https://www.airbnb.com/s/homes?query=Paris" +
		"&ne_lat=48.9&ne_lng=2.4&sw_lat=48.8&sw_lng=2.2&zoom=12"
	if _, err := ParseURL(raw); err == nil {
		t.Fatal("expected error for missing checkin/checkout")
	}
}

func TestSuggestedName(t *testing.T) {
	params := &URLParams{City: "London", CheckIn: "2026-09-01"}
	if got := params.SuggestedName(); got != "London_2026-09-01" {
		t.Fatalf("SuggestedName = %q", got)
	}
	empty := &URLParams{CheckIn: "2026-09-01"}
	if got := empty.SuggestedName(); got != "search_2026-09-01" {
		t.Fatalf("SuggestedName with empty city = %q", got)
	}
}
