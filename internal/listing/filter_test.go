package listing

import "testing"

func permissive() Filters {
	return Filters{
		MaxPrice:        1e9,
		MaxUserRating:   6,
		MaxAIRating:     5,
		MaxMarketRating: 5,
	}
}

func TestApplyPriceRange(t *testing.T) {
	rows := []Row{
		{Listing: Listing{RoomID: "a", TotalPrice: floatPtr(164)}, UserRating: UnratedSentinel},
		{Listing: Listing{RoomID: "b", TotalPrice: floatPtr(185)}, UserRating: UnratedSentinel},
	}
	f := permissive()
	f.MinPrice = 170
	f.MaxPrice = 200

	filtered := Apply(rows, f)
	if len(filtered) != 1 || filtered[0].RoomID != "b" {
		t.Fatalf("filtered = %+v, want only room b", filtered)
	}
}

func TestApplyNullPricePasses(t *testing.T) {
	rows := []Row{
		{Listing: Listing{RoomID: "priced", TotalPrice: floatPtr(500)}, UserRating: UnratedSentinel},
		{Listing: Listing{RoomID: "unpriced"}, UserRating: UnratedSentinel},
	}
	f := permissive()
	f.MaxPrice = 100

	filtered := Apply(rows, f)
	if len(filtered) != 1 || filtered[0].RoomID != "unpriced" {
		t.Fatalf("filtered = %+v, want only the priceless row", filtered)
	}
}

func TestApplyUserRatingStrict(t *testing.T) {
	rows := []Row{
		{Listing: Listing{RoomID: "rated"}, UserRating: 4},
		{Listing: Listing{RoomID: "unrated"}, UserRating: UnratedSentinel},
	}
	f := permissive()
	f.MaxUserRating = 5

	filtered := Apply(rows, f)
	if len(filtered) != 1 || filtered[0].RoomID != "rated" {
		t.Fatalf("filtered = %+v, want unrated row excluded", filtered)
	}
}

func TestApplyNullAIRatingPasses(t *testing.T) {
	rows := []Row{
		{Listing: Listing{RoomID: "low"}, AIRating: floatPtr(1), UserRating: UnratedSentinel},
		{Listing: Listing{RoomID: "unscored"}, UserRating: UnratedSentinel},
	}
	f := permissive()
	f.MinAIRating = 3

	filtered := Apply(rows, f)
	if len(filtered) != 1 || filtered[0].RoomID != "unscored" {
		t.Fatalf("filtered = %+v, want only the unscored row", filtered)
	}
}

func TestApplyCapacityAndCategory(t *testing.T) {
	rows := []Row{
		{Listing: Listing{RoomID: "small", Category: "Private room"}, PersonCapacity: intPtr(1), UserRating: UnratedSentinel},
		{Listing: Listing{RoomID: "big", Category: "Entire home"}, PersonCapacity: intPtr(4), UserRating: UnratedSentinel},
		{Listing: Listing{RoomID: "unknown", Category: "Entire home"}, UserRating: UnratedSentinel},
	}
	f := permissive()
	f.PersonCapacity = 2
	f.Categories = []string{"Entire home"}

	filtered := Apply(rows, f)
	if len(filtered) != 2 {
		t.Fatalf("filtered = %+v, want big and unknown", filtered)
	}
	for _, row := range filtered {
		if row.Category != "Entire home" {
			t.Fatalf("category filter leaked: %+v", row)
		}
	}
}

func TestApplySortsByPriceAscending(t *testing.T) {
	rows := []Row{
		{Listing: Listing{RoomID: "mid", TotalPrice: floatPtr(200)}, UserRating: UnratedSentinel},
		{Listing: Listing{RoomID: "none"}, UserRating: UnratedSentinel},
		{Listing: Listing{RoomID: "cheap", TotalPrice: floatPtr(90)}, UserRating: UnratedSentinel},
	}
	filtered := Apply(rows, permissive())
	want := []string{"cheap", "mid", "none"}
	for i, id := range want {
		if filtered[i].RoomID != id {
			t.Fatalf("sort order = %v, want %v at %d", filtered[i].RoomID, id, i)
		}
	}
}
