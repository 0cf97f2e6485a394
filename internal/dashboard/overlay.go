package dashboard

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// OverlayPoint is one named location from a map overlay file, for example
// a metro station.
type OverlayPoint struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Overlay is a loaded overlay file.
type Overlay struct {
	Name   string
	Points []OverlayPoint
}

// LoadOverlay reads an overlay CSV. The file needs latitude and longitude
// columns; the point name comes from a name or station column, falling
// back to the first column.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overlay: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse overlay %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("overlay %s: no data rows", path)
	}

	latIdx, lngIdx, nameIdx := -1, -1, 0
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "latitude":
			latIdx = i
		case "longitude":
			lngIdx = i
		case "name", "station":
			nameIdx = i
		}
	}
	if latIdx < 0 || lngIdx < 0 {
		return nil, fmt.Errorf("overlay %s: missing latitude/longitude columns", path)
	}

	overlay := &Overlay{Name: overlayName(path)}
	for _, record := range records[1:] {
		if latIdx >= len(record) || lngIdx >= len(record) {
			continue
		}
		lat, latErr := strconv.ParseFloat(record[latIdx], 64)
		lng, lngErr := strconv.ParseFloat(record[lngIdx], 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		point := OverlayPoint{Latitude: lat, Longitude: lng}
		if nameIdx < len(record) {
			point.Name = record[nameIdx]
		}
		overlay.Points = append(overlay.Points, point)
	}
	if len(overlay.Points) == 0 {
		return nil, fmt.Errorf("overlay %s: no usable rows", path)
	}
	return overlay, nil
}

func overlayName(path string) string {
	base := path
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ".csv")
}

// Nearest returns the overlay point closest to the coordinate and its
// distance in kilometers.
func (o *Overlay) Nearest(lat, lng float64) (OverlayPoint, float64) {
	best := OverlayPoint{}
	bestDist := math.MaxFloat64
	for _, p := range o.Points {
		if d := haversineKm(lat, lng, p.Latitude, p.Longitude); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
