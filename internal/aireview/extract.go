package aireview

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ratingPattern = regexp.MustCompile(`\{"AI_rating":(\d+(?:\.\d)?)\}`)

// SummaryUnavailable is stored when a malformed summary response cannot be
// repaired by any step of the cleaning chain.
const SummaryUnavailable = "Summary unavailable"

// ExtractRating pulls the numeric rating out of a structured completion
// response. A bare numeric literal is taken as-is; otherwise the
// {"AI_rating":X} pattern is searched for. Returns nil when no rating can
// be recovered.
func ExtractRating(response string) *float64 {
	response = strings.TrimSpace(response)
	if v, err := strconv.ParseFloat(response, 64); err == nil {
		return &v
	}
	match := ratingPattern.FindStringSubmatch(response)
	if match == nil {
		return nil
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// alreadyCleaned reports whether the summary carries no structural
// characters left over from a JSON-shaped response.
func alreadyCleaned(summary string) bool {
	return !strings.ContainsAny(summary, "{}[]")
}

// CleanSummary strips the JSON wrapping a model sometimes puts around a
// summary. The fallback chain: already-clean text passes through, then a
// strict JSON parse, then a loose parse tolerating single quotes, then the
// text after the first colon, and finally the SummaryUnavailable sentinel.
func CleanSummary(summary string) string {
	if alreadyCleaned(summary) {
		return summary
	}

	if cleaned, ok := firstValue(summary); ok {
		return cleaned
	}
	if cleaned, ok := firstValue(strings.ReplaceAll(summary, "'", `"`)); ok {
		return cleaned
	}

	if idx := strings.Index(summary, ":"); idx >= 0 {
		if after := strings.TrimSpace(summary[idx+1:]); after != "" {
			return after
		}
	}
	return SummaryUnavailable
}

// firstValue parses the input as JSON and returns the first object value,
// or the value itself when the input is not an object.
func firstValue(input string) (string, bool) {
	decoder := json.NewDecoder(strings.NewReader(input))
	token, err := decoder.Token()
	if err != nil {
		return "", false
	}

	delim, isDelim := token.(json.Delim)
	if !isDelim || delim != '{' {
		// Not an object; accept scalars and arrays as their own value.
		var value any
		if err := json.Unmarshal([]byte(input), &value); err != nil {
			return "", false
		}
		return stringify(value), true
	}

	if !decoder.More() {
		return "", false
	}
	if _, err := decoder.Token(); err != nil {
		return "", false
	}
	var value any
	if err := decoder.Decode(&value); err != nil {
		return "", false
	}
	return stringify(value), true
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
