package marketplace

import (
	"strings"

	"bnbscout/internal/listing"
)

// wireCoordinates decodes the API's coordinate object. The longitude key
// really is "longitud" in the upstream schema; do not correct it.
type wireCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitud"`
}

type wirePrice struct {
	Total *struct {
		Amount float64 `json:"amount"`
	} `json:"total"`
}

type wireRating struct {
	Value       *float64 `json:"value"`
	ReviewCount *int     `json:"reviewCount"`
}

type wireListing struct {
	RoomID      string           `json:"room_id"`
	Name        string           `json:"name"`
	Title       string           `json:"title"`
	Category    string           `json:"category"`
	Kind        string           `json:"kind"`
	Badges      []string         `json:"badges"`
	Coordinates *wireCoordinates `json:"coordinates"`
	Price       *wirePrice       `json:"price"`
	Rating      *wireRating      `json:"rating"`
}

type searchResponse struct {
	Results []wireListing `json:"results"`
}

func (w wireListing) toListing(currency string) listing.Listing {
	l := listing.Listing{
		RoomID:   w.RoomID,
		Name:     w.Name,
		Title:    w.Title,
		Category: w.Category,
		Kind:     w.Kind,
		Badges:   w.Badges,
		Currency: currency,
	}
	if w.Coordinates != nil {
		lat, lng := w.Coordinates.Latitude, w.Coordinates.Longitude
		l.Latitude = &lat
		l.Longitude = &lng
	}
	if w.Price != nil && w.Price.Total != nil {
		amount := w.Price.Total.Amount
		l.TotalPrice = &amount
	}
	if w.Rating != nil {
		l.Rating = w.Rating.Value
		l.ReviewCount = w.Rating.ReviewCount
	}
	return l
}

type wireHighlight struct {
	Title string `json:"title"`
}

type wireLocationDescription struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type wireSubDescription struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type detailResponse struct {
	RoomID               string                    `json:"room_id"`
	PersonCapacity       *int                      `json:"person_capacity"`
	RoomType             string                    `json:"room_type"`
	IsSuperHost          bool                      `json:"is_super_host"`
	Amenities            []string                  `json:"amenities"`
	Description          string                    `json:"description"`
	SubDescription       *wireSubDescription       `json:"sub_description"`
	Highlights           []wireHighlight           `json:"highlights"`
	LocationDescriptions []wireLocationDescription `json:"location_descriptions"`
	Coordinates          *wireCoordinates          `json:"coordinates"`
}

func (w detailResponse) toDetail() listing.Detail {
	d := listing.Detail{
		RoomID:      w.RoomID,
		RoomType:    w.RoomType,
		IsSuperHost: w.IsSuperHost,
		Amenities:   w.Amenities,
		Description: w.Description,
	}
	d.PersonCapacity = w.PersonCapacity
	if w.SubDescription != nil {
		parts := append([]string{}, w.SubDescription.Items...)
		if w.SubDescription.Title != "" {
			parts = append([]string{w.SubDescription.Title}, parts...)
		}
		d.SubDescription = strings.Join(parts, " · ")
	}
	if len(w.Highlights) > 0 {
		titles := make([]string, 0, len(w.Highlights))
		for _, h := range w.Highlights {
			if h.Title != "" {
				titles = append(titles, h.Title)
			}
		}
		d.Highlights = strings.Join(titles, "; ")
	}
	if len(w.LocationDescriptions) > 0 {
		parts := make([]string, 0, len(w.LocationDescriptions))
		for _, ld := range w.LocationDescriptions {
			switch {
			case ld.Title != "" && ld.Content != "":
				parts = append(parts, ld.Title+": "+ld.Content)
			case ld.Title != "":
				parts = append(parts, ld.Title)
			case ld.Content != "":
				parts = append(parts, ld.Content)
			}
		}
		d.LocationDescriptions = strings.Join(parts, "\n")
	}
	if w.Coordinates != nil {
		lat, lng := w.Coordinates.Latitude, w.Coordinates.Longitude
		d.Latitude = &lat
		d.Longitude = &lng
	}
	return d
}

type wireReview struct {
	CreatedAt string `json:"created_at"`
	Comments  string `json:"comments"`
	Rating    int    `json:"rating"`
}

type reviewsResponse struct {
	Reviews []wireReview `json:"reviews"`
}
