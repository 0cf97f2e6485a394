package search

import (
	"fmt"
	"os"
	"path/filepath"

	"bnbscout/internal/textutil"
)

// DefaultConfig builds the initial configuration for a new search from
// parsed URL parameters and the configured currency.
func DefaultConfig(params *URLParams, currency string) *Config {
	if currency == "" {
		currency = "EUR"
	}
	return &Config{
		CheckIn:  params.CheckIn,
		CheckOut: params.CheckOut,

		NELat:     params.NELat,
		NELong:    params.NELong,
		SWLat:     params.SWLat,
		SWLong:    params.SWLong,
		ZoomValue: params.Zoom,

		Currency:        currency,
		MinPrice:        0,
		DefaultMaxPrice: 5000,

		DefaultOccupants: 1,

		DefaultMinPrice:      0,
		DefaultMinUserRating: 0,
		DefaultMaxUserRating: 6,

		HighlightKeywords: []string{
			"private", "shared", "sharing", "attached", "separate",
			"en suite", "bathroom", "underground", "metro", "train",
			"tube", "bus", "stop", "wifi", "wi-fi", "hot water",
			"washer", "laundry", "washing", "machine",
		},
		SelectedCategories: []string{},

		AIReviewSummary: &AIPrompt{
			Questions: []string{
				"Summarize the following reviews into concise bullet points focusing on these areas: " +
					"1. Transportation 2. Bathroom and hot water 3. Sleeping arrangements " +
					"4. Cleanliness 5. Unexpected Points",
			},
			RolePrompt: "You are a review summarizer specializing in extracting concise, focused summaries " +
				"from guest reviews. Your task is to summarize guest reviews by categorizing feedback " +
				"into specific areas, providing 1 or 2 bullet points for each category. Each bullet " +
				"point should be succinct and convey only essential information.",
			ModelName:   "gpt-4o-mini",
			MaxTokens:   500,
			Temperature: 0.1,
		},

		AIRating: &AIPrompt{
			Questions: []string{
				"Provide a numerical rating between 1 and 5 based on the text you are given.",
			},
			RolePrompt: "You are an expert rating analyst. Your task is to provide a numerical rating between " +
				"1 and 5 based on the text you are given. Please provide a rating based on the following " +
				"criteria: 1. Transportation 2. Bathroom and hot water 3. Sleeping arrangements " +
				"4. Cleanliness 5. Unexpected Points. A lack of specific mentions should lower the rating.",
			ModelName:   "gpt-4o-mini",
			MaxTokens:   500,
			Temperature: 0.1,
			FunctionSchema: map[string]any{
				"name":        "rate_string",
				"description": "Evaluate a given string and return a rating between 1 and 5.",
				"parameters": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"AI_rating": map[string]any{
							"type":        "number",
							"minimum":     1.0,
							"maximum":     5.0,
							"description": "Overall rating.",
						},
					},
					"required": []string{"AI_rating"},
				},
			},
		},
	}
}

// Create provisions a new search directory under searchesRoot with the
// default configuration derived from params. It refuses to overwrite an
// existing search of the same name.
func Create(searchesRoot, name string, params *URLParams, currency string) (*Context, error) {
	if name == "" {
		name = params.SuggestedName()
	}
	name = textutil.SanitizeFileName(name)
	if name == "" {
		return nil, fmt.Errorf("search name is required")
	}
	dir := filepath.Join(searchesRoot, name)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("search %q already exists at %s", name, dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("check search directory: %w", err)
	}

	ctx := &Context{Name: name, Dir: dir, Config: DefaultConfig(params, currency)}
	if err := ctx.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("create search directories: %w", err)
	}
	if err := ctx.SaveConfig(); err != nil {
		return nil, fmt.Errorf("write search config: %w", err)
	}
	return ctx, nil
}
