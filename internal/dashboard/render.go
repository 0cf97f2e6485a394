package dashboard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bnbscout/internal/listing"
	"bnbscout/internal/tableutil"
)

// priceFormatter renders amounts in the search currency.
type priceFormatter struct {
	unit    currency.Unit
	printer *message.Printer
	valid   bool
}

func newPriceFormatter(code string) priceFormatter {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return priceFormatter{printer: message.NewPrinter(language.English)}
	}
	return priceFormatter{
		unit:    unit,
		printer: message.NewPrinter(language.English),
		valid:   true,
	}
}

func (f priceFormatter) format(price *float64) string {
	if price == nil {
		return "-"
	}
	if !f.valid {
		return strconv.FormatFloat(*price, 'f', 0, 64)
	}
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(*price)))
}

func formatRating(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatUserRating(v float64) string {
	if v == listing.UnratedSentinel {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

// highlightKeywords wraps case-insensitive keyword matches in the text so
// they stand out in detail views. Styling is skipped when the output is
// not a terminal.
func highlightKeywords(input string, keywords []string, styled bool) string {
	if !styled || len(keywords) == 0 {
		return input
	}
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(keyword))
		if err != nil {
			continue
		}
		input = pattern.ReplaceAllStringFunc(input, func(match string) string {
			return text.Colors{text.Bold, text.FgHiYellow}.Sprint(match)
		})
	}
	return input
}

func (s *Session) tableFor(rows []listing.Row) string {
	headers := []string{"#", "Name", "Price", "Rating", "Reviews", "AI", "User", "Notes"}
	aligns := []tableutil.Alignment{
		tableutil.AlignRight, tableutil.AlignLeft, tableutil.AlignRight, tableutil.AlignRight,
		tableutil.AlignRight, tableutil.AlignRight, tableutil.AlignRight, tableutil.AlignLeft,
	}

	rendered := make([][]string, 0, len(rows))
	for i, row := range rows {
		reviewCount := "-"
		if row.ReviewCount != nil {
			reviewCount = strconv.Itoa(*row.ReviewCount)
		}
		rendered = append(rendered, []string{
			strconv.Itoa(i + 1),
			truncate(row.Name, 42),
			s.prices.format(row.TotalPrice),
			formatRating(row.Rating),
			reviewCount,
			formatRating(row.AIRating),
			formatUserRating(row.UserRating),
			truncate(row.UserNotes, 24),
		})
	}
	return tableutil.Render(headers, rendered, aligns)
}

func (s *Session) detailFor(row listing.Row) string {
	var b strings.Builder
	keywords := s.ctx.Config.HighlightKeywords

	fmt.Fprintf(&b, "%s\n%s\n", row.Name, row.URL())
	if row.Title != "" {
		fmt.Fprintf(&b, "%s\n", row.Title)
	}
	fmt.Fprintf(&b, "Price: %s   Rating: %s   AI: %s   User: %s\n",
		s.prices.format(row.TotalPrice),
		formatRating(row.Rating),
		formatRating(row.AIRating),
		formatUserRating(row.UserRating),
	)
	if row.PersonCapacity != nil {
		fmt.Fprintf(&b, "Capacity: %d   Type: %s\n", *row.PersonCapacity, row.RoomType)
	}
	if row.Latitude != nil && row.Longitude != nil {
		for _, overlay := range s.overlays {
			point, dist := overlay.Nearest(*row.Latitude, *row.Longitude)
			fmt.Fprintf(&b, "Nearest %s: %s (%.2f km)\n", overlay.Name, point.Name, dist)
		}
	}
	if row.AIReviewSummary != "" {
		fmt.Fprintf(&b, "\nAI summary:\n%s\n", highlightKeywords(row.AIReviewSummary, keywords, s.styled))
	}
	if row.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", highlightKeywords(row.Description, keywords, s.styled))
	}
	if row.Highlights != "" {
		fmt.Fprintf(&b, "\nHighlights: %s\n", highlightKeywords(row.Highlights, keywords, s.styled))
	}
	if row.LocationDescriptions != "" {
		fmt.Fprintf(&b, "\nLocation:\n%s\n", highlightKeywords(row.LocationDescriptions, keywords, s.styled))
	}
	if row.UserNotes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", row.UserNotes)
	}
	return b.String()
}
