package search

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AIPrompt carries the prompt settings for one AI request kind.
// FunctionSchema, when present, is forwarded verbatim as the completion
// API's function-calling schema.
type AIPrompt struct {
	Questions      []string       `yaml:"questions"`
	RolePrompt     string         `yaml:"role_prompt"`
	ModelName      string         `yaml:"model_name"`
	MaxTokens      int            `yaml:"max_tokens"`
	Temperature    float64        `yaml:"temperature"`
	FunctionSchema map[string]any `yaml:"function_schema,omitempty"`
}

// Config holds the per-search settings read from config.yaml.
type Config struct {
	CheckIn  string `yaml:"check_in"`
	CheckOut string `yaml:"check_out"`

	NELat     float64 `yaml:"ne_lat"`
	NELong    float64 `yaml:"ne_long"`
	SWLat     float64 `yaml:"sw_lat"`
	SWLong    float64 `yaml:"sw_long"`
	ZoomValue float64 `yaml:"zoom_value"`

	Currency        string  `yaml:"currency"`
	MinPrice        float64 `yaml:"min_price"`
	DefaultMaxPrice float64 `yaml:"default_max_price"`

	DefaultOccupants int `yaml:"default_occupants"`

	DefaultMinPrice        float64 `yaml:"default_min_price"`
	DefaultMinUserRating   float64 `yaml:"default_min_user_rating"`
	DefaultMaxUserRating   float64 `yaml:"default_max_user_rating"`
	DefaultMinAIRating     float64 `yaml:"default_min_ai_rating"`
	DefaultMaxAIRating     float64 `yaml:"default_max_ai_rating"`
	DefaultMinMarketRating float64 `yaml:"default_min_market_rating"`
	DefaultMaxMarketRating float64 `yaml:"default_max_market_rating"`

	HighlightKeywords  []string `yaml:"highlight_keywords"`
	SelectedCategories []string `yaml:"selected_categories"`

	MapOverlayFile1 string `yaml:"map_overlay_file_1"`
	MapOverlayFile2 string `yaml:"map_overlay_file_2"`

	AIReviewSummary *AIPrompt `yaml:"ai_review_summary,omitempty"`
	AIRating        *AIPrompt `yaml:"ai_rating,omitempty"`
}

// requiredKeys are the config.yaml keys without which a run cannot proceed.
var requiredKeys = []string{
	"check_in",
	"check_out",
	"ne_lat",
	"ne_long",
	"sw_lat",
	"sw_long",
	"zoom_value",
	"currency",
	"default_max_price",
}

// ErrMissingKey wraps the name of a required key absent from config.yaml.
type ErrMissingKey struct {
	Key string
}

func (e *ErrMissingKey) Error() string {
	return fmt.Sprintf("required configuration %q is missing from config.yaml", e.Key)
}

// LoadConfig reads and validates a search config.yaml. A missing required
// key yields *ErrMissingKey; callers treat that as fatal for the run.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read search config: %w", err)
	}

	var present map[string]any
	if err := yaml.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("parse search config: %w", err)
	}
	for _, key := range requiredKeys {
		if _, ok := present[key]; !ok {
			return nil, &ErrMissingKey{Key: key}
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse search config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DefaultOccupants <= 0 {
		c.DefaultOccupants = 1
	}
	if c.DefaultMaxUserRating == 0 {
		c.DefaultMaxUserRating = 6
	}
	if c.DefaultMaxAIRating == 0 {
		c.DefaultMaxAIRating = 5
	}
	if c.DefaultMaxMarketRating == 0 {
		c.DefaultMaxMarketRating = 5
	}
}

// Marshal renders the config back to YAML for persistence.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal search config: %w", err)
	}
	return data, nil
}
