package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestSearchParsesWirePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("checkin"); got != "2026-09-01" {
			t.Errorf("checkin = %q", got)
		}
		if got := r.Header.Get("X-Airbnb-API-Key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[
			{"room_id":"101","name":"Cosy flat","category":"Entire home",
			 "coordinates":{"latitude":51.5,"longitud":-0.12},
			 "price":{"total":{"amount":164}},
			 "rating":{"value":4.83,"reviewCount":212}},
			{"room_id":"102","name":"No extras"}
		]}`)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	listings, err := client.Search(context.Background(), SearchParams{
		CheckIn:  "2026-09-01",
		CheckOut: "2026-09-08",
		Currency: "GBP",
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}

	full := listings[0]
	if full.RoomID != "101" || full.Currency != "GBP" {
		t.Fatalf("unexpected listing: %+v", full)
	}
	if full.Longitude == nil || *full.Longitude != -0.12 {
		t.Fatalf("longitude = %v, want -0.12 from the longitud wire key", full.Longitude)
	}
	if full.TotalPrice == nil || *full.TotalPrice != 164 {
		t.Fatalf("total price = %v, want 164", full.TotalPrice)
	}
	if full.Rating == nil || *full.Rating != 4.83 || full.ReviewCount == nil || *full.ReviewCount != 212 {
		t.Fatalf("rating info = %v/%v", full.Rating, full.ReviewCount)
	}

	bare := listings[1]
	if bare.TotalPrice != nil || bare.Rating != nil || bare.Latitude != nil {
		t.Fatalf("missing wire objects should yield nils: %+v", bare)
	}
}

func TestSearchRequiresDates(t *testing.T) {
	client := NewClient("")
	if _, err := client.Search(context.Background(), SearchParams{}); err == nil {
		t.Fatal("expected error for missing dates")
	}
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), SearchParams{CheckIn: "2026-09-01", CheckOut: "2026-09-08"})
	if err == nil {
		t.Fatal("expected error for http 429")
	}
}

func TestRoomDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/rooms/101" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"person_capacity":4,
			"room_type":"Entire rental unit",
			"is_super_host":true,
			"amenities":["Wifi","Washer"],
			"description":"Bright flat",
			"sub_description":{"title":"4 guests","items":["2 bedrooms","1 bath"]},
			"highlights":[{"title":"Great location"},{"title":"Self check-in"}],
			"location_descriptions":[{"title":"Getting around","content":"Metro 5 min"}],
			"coordinates":{"latitude":51.51,"longitud":-0.11}
		}`)
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	detail, err := client.RoomDetail(context.Background(), "101", SearchParams{Currency: "GBP"})
	if err != nil {
		t.Fatalf("RoomDetail failed: %v", err)
	}
	if detail.RoomID != "101" {
		t.Fatalf("room id = %q, want injected 101", detail.RoomID)
	}
	if detail.PersonCapacity == nil || *detail.PersonCapacity != 4 {
		t.Fatalf("capacity = %v", detail.PersonCapacity)
	}
	if detail.Highlights != "Great location; Self check-in" {
		t.Fatalf("highlights = %q", detail.Highlights)
	}
	if detail.LocationDescriptions != "Getting around: Metro 5 min" {
		t.Fatalf("location descriptions = %q", detail.LocationDescriptions)
	}
	if detail.SubDescription != "4 guests · 2 bedrooms · 1 bath" {
		t.Fatalf("sub description = %q", detail.SubDescription)
	}
	if detail.Longitude == nil || *detail.Longitude != -0.11 {
		t.Fatalf("longitude = %v", detail.Longitude)
	}
}

func TestAllReviewsPagination(t *testing.T) {
	var offsets []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/reviews" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("_offset"))
		offsets = append(offsets, offset)

		count := ReviewPageSize
		if offset >= ReviewPageSize {
			count = 3
		}
		reviews := make([]map[string]any, count)
		for i := range reviews {
			reviews[i] = map[string]any{
				"created_at": fmt.Sprintf("2025-01-%02d", i%28+1),
				"comments":   "fine stay",
				"rating":     5,
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"reviews": reviews})
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	reviews, err := client.AllReviews(context.Background(), "101")
	if err != nil {
		t.Fatalf("AllReviews failed: %v", err)
	}
	if len(reviews) != ReviewPageSize+3 {
		t.Fatalf("got %d reviews, want %d", len(reviews), ReviewPageSize+3)
	}
	if len(offsets) != 2 || offsets[0] != 0 || offsets[1] != ReviewPageSize {
		t.Fatalf("offsets = %v, want [0 %d]", offsets, ReviewPageSize)
	}
	if reviews[0].RoomID != "101" {
		t.Fatalf("room id not attached: %+v", reviews[0])
	}
}
