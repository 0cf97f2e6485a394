package search

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const validConfigYAML = `check_in: "2026-09-01"
check_out: "2026-09-08"
ne_lat: 51.56
ne_long: -0.05
sw_lat: 51.46
sw_long: -0.21
zoom_value: 12.5
currency: "GBP"
default_max_price: 2000
min_price: 100
selected_categories: ["Private room"]
highlight_keywords: ["wifi", "metro"]
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigParsesValues(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.CheckIn != "2026-09-01" || cfg.CheckOut != "2026-09-08" {
		t.Fatalf("unexpected dates: %q %q", cfg.CheckIn, cfg.CheckOut)
	}
	if cfg.NELat != 51.56 || cfg.SWLong != -0.21 {
		t.Fatalf("unexpected bounding box: %+v", cfg)
	}
	if cfg.Currency != "GBP" {
		t.Fatalf("currency = %q, want GBP", cfg.Currency)
	}
	if cfg.DefaultMaxPrice != 2000 || cfg.MinPrice != 100 {
		t.Fatalf("unexpected prices: max=%v min=%v", cfg.DefaultMaxPrice, cfg.MinPrice)
	}
	if len(cfg.SelectedCategories) != 1 || cfg.SelectedCategories[0] != "Private room" {
		t.Fatalf("unexpected categories: %v", cfg.SelectedCategories)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DefaultOccupants != 1 {
		t.Fatalf("DefaultOccupants = %d, want 1", cfg.DefaultOccupants)
	}
	if cfg.DefaultMaxUserRating != 6 {
		t.Fatalf("DefaultMaxUserRating = %v, want 6", cfg.DefaultMaxUserRating)
	}
	if cfg.DefaultMaxAIRating != 5 || cfg.DefaultMaxMarketRating != 5 {
		t.Fatalf("rating caps = %v/%v, want 5/5", cfg.DefaultMaxAIRating, cfg.DefaultMaxMarketRating)
	}
}

func TestLoadConfigMissingRequiredKey(t *testing.T) {
	contents := `check_in: "2026-09-01"
check_out: "2026-09-08"
ne_lat: 51.56
ne_long: -0.05
sw_lat: 51.46
sw_long: -0.21
currency: "EUR"
default_max_price: 2000
`
	_, err := LoadConfig(writeConfig(t, contents))
	if err == nil {
		t.Fatal("expected error for missing zoom_value")
	}
	var missing *ErrMissingKey
	if !errors.As(err, &missing) {
		t.Fatalf("error type = %T, want *ErrMissingKey", err)
	}
	if missing.Key != "zoom_value" {
		t.Fatalf("missing key = %q, want zoom_value", missing.Key)
	}
}

func TestLoadConfigZeroCoordinateIsPresent(t *testing.T) {
	contents := `check_in: "2026-09-01"
check_out: "2026-09-08"
ne_lat: 0.0
ne_long: 0.0
sw_lat: -0.1
sw_long: -0.1
zoom_value: 10
currency: "EUR"
default_max_price: 1000
`
	cfg, err := LoadConfig(writeConfig(t, contents))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.NELat != 0 || cfg.NELong != 0 {
		t.Fatalf("zero coordinates not preserved: %+v", cfg)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	params := &URLParams{
		Location: "London_United_Kingdom",
		City:     "London",
		CheckIn:  "2026-09-01",
		CheckOut: "2026-09-08",
		NELat:    51.56,
		NELong:   -0.05,
		SWLat:    51.46,
		SWLong:   -0.21,
		Zoom:     12.5,
	}
	cfg := DefaultConfig(params, "GBP")
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.CheckIn != cfg.CheckIn || loaded.Currency != "GBP" {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
	if loaded.AIRating == nil || loaded.AIRating.FunctionSchema == nil {
		t.Fatal("AI rating prompt lost in round trip")
	}
	if loaded.AIRating.ModelName != "gpt-4o-mini" {
		t.Fatalf("model = %q, want gpt-4o-mini", loaded.AIRating.ModelName)
	}
}
