// Package dashboard implements the interactive filtering and annotation
// loop over a search's merged table.
package dashboard

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"bnbscout/internal/annotations"
	"bnbscout/internal/fileutil"
	"bnbscout/internal/listing"
	"bnbscout/internal/logging"
	"bnbscout/internal/search"
)

// Session holds the state of one interactive dashboard run.
type Session struct {
	ctx         *search.Context
	rows        []listing.Row
	annotations []listing.Annotation
	filters     listing.Filters
	overlays    []*Overlay
	visible     []listing.Row
	prices      priceFormatter

	in     io.Reader
	out    io.Writer
	styled bool
	dirty  bool
	logger *slog.Logger
}

// SessionOption customizes a dashboard session.
type SessionOption func(*Session)

// WithIO overrides the input and output streams. Styling stays on only
// when the new output is a terminal.
func WithIO(in io.Reader, out io.Writer) SessionOption {
	return func(s *Session) {
		if in != nil {
			s.in = in
		}
		if out != nil {
			s.out = out
			s.styled = false
			if f, ok := out.(*os.File); ok {
				s.styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
			}
		}
	}
}

// WithLogger attaches a logger to the session.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logging.WithComponent(logger, "dashboard")
		}
	}
}

// NewSession loads the merged table and annotations for a search and
// prepares the interactive loop with the configured default filters.
func NewSession(sc *search.Context, opts ...SessionOption) (*Session, error) {
	rows, err := listing.ReadMerged(sc.MergedPath())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no merged data for search %q; run the monitor first", sc.Name)
	}

	annotationSet, err := annotations.Load(sc.RatingsPath())
	if err != nil {
		return nil, err
	}

	cfg := sc.Config
	maxPrice := cfg.DefaultMaxPrice
	if maxPrice <= 0 {
		maxPrice = 1e9
	}
	session := &Session{
		ctx:         sc,
		rows:        rows,
		annotations: annotationSet,
		filters: listing.DefaultFilters(
			cfg.DefaultMinPrice, maxPrice,
			cfg.DefaultMinUserRating, cfg.DefaultMaxUserRating,
			cfg.DefaultMinAIRating, cfg.DefaultMaxAIRating,
			cfg.DefaultMinMarketRating, cfg.DefaultMaxMarketRating,
			cfg.DefaultOccupants, cfg.SelectedCategories,
		),
		prices: newPriceFormatter(cfg.Currency),
		in:     os.Stdin,
		out:    os.Stdout,
		styled: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(session)
	}

	session.applyAnnotations()
	session.loadOverlays()
	return session, nil
}

func (s *Session) applyAnnotations() {
	byRoom := make(map[string]listing.Annotation, len(s.annotations))
	for _, a := range s.annotations {
		byRoom[a.RoomID] = a
	}
	for i := range s.rows {
		if a, ok := byRoom[s.rows[i].RoomID]; ok {
			s.rows[i].UserRating = a.Rating
			s.rows[i].UserNotes = a.Notes
		}
	}
}

func (s *Session) loadOverlays() {
	for _, path := range []string{s.ctx.Config.MapOverlayFile1, s.ctx.Config.MapOverlayFile2} {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		expanded, err := fileutil.ExpandPath(path)
		if err == nil {
			path = expanded
		}
		overlay, err := LoadOverlay(path)
		if err != nil {
			s.logger.Warn("overlay skipped", slog.String("path", path), slog.Any("error", err))
			continue
		}
		s.overlays = append(s.overlays, overlay)
	}
}

// Run drives the interactive loop until quit or EOF. Unsaved annotation
// changes are persisted on exit.
func (s *Session) Run() error {
	s.render()
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, err := s.dispatch(line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		if quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if s.dirty {
		if err := s.save(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) render() {
	s.visible = listing.Apply(s.rows, s.filters)
	fmt.Fprintf(s.out, "%s\n%d of %d listings (type 'help' for commands)\n",
		s.tableFor(s.visible), len(s.visible), len(s.rows))
}

func (s *Session) dispatch(line string) (bool, error) {
	fields := strings.Fields(line)
	command, args := fields[0], fields[1:]

	switch command {
	case "help":
		s.printHelp()
	case "list":
		s.render()
	case "price":
		return false, s.setRange(args, &s.filters.MinPrice, &s.filters.MaxPrice)
	case "user":
		return false, s.setRange(args, &s.filters.MinUserRating, &s.filters.MaxUserRating)
	case "ai":
		return false, s.setRange(args, &s.filters.MinAIRating, &s.filters.MaxAIRating)
	case "market":
		return false, s.setRange(args, &s.filters.MinMarketRating, &s.filters.MaxMarketRating)
	case "capacity":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: capacity <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return false, fmt.Errorf("capacity must be a non-negative integer")
		}
		s.filters.PersonCapacity = n
		s.dirty = true
		s.render()
	case "category":
		if len(args) == 1 && args[0] == "clear" {
			s.filters.Categories = nil
		} else if len(args) > 0 {
			s.filters.Categories = append(s.filters.Categories, strings.Join(args, " "))
		} else {
			return false, fmt.Errorf("usage: category <name>|clear")
		}
		s.dirty = true
		s.render()
	case "reset":
		cfg := s.ctx.Config
		s.filters = listing.DefaultFilters(
			cfg.DefaultMinPrice, cfg.DefaultMaxPrice,
			cfg.DefaultMinUserRating, cfg.DefaultMaxUserRating,
			cfg.DefaultMinAIRating, cfg.DefaultMaxAIRating,
			cfg.DefaultMinMarketRating, cfg.DefaultMaxMarketRating,
			cfg.DefaultOccupants, cfg.SelectedCategories,
		)
		s.render()
	case "show":
		row, err := s.rowAt(args)
		if err != nil {
			return false, err
		}
		fmt.Fprint(s.out, s.detailFor(*row))
	case "rate":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: rate <#> <0-6>")
		}
		row, err := s.rowAt(args[:1])
		if err != nil {
			return false, err
		}
		rating, err := strconv.ParseFloat(args[1], 64)
		if err != nil || rating < 0 || rating > listing.UnratedSentinel {
			return false, fmt.Errorf("rating must be between 0 and %d", listing.UnratedSentinel)
		}
		s.annotate(row.RoomID, rating, row.UserNotes)
		s.render()
	case "note":
		if len(args) < 1 {
			return false, fmt.Errorf("usage: note <#> <text>")
		}
		row, err := s.rowAt(args[:1])
		if err != nil {
			return false, err
		}
		s.annotate(row.RoomID, row.UserRating, strings.Join(args[1:], " "))
		s.render()
	case "save":
		if err := s.save(); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "saved")
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (type 'help')", command)
	}
	return false, nil
}

func (s *Session) setRange(args []string, lo, hi *float64) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: <min> <max>")
	}
	minV, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("bad minimum %q", args[0])
	}
	maxV, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("bad maximum %q", args[1])
	}
	if minV > maxV {
		return fmt.Errorf("minimum exceeds maximum")
	}
	*lo, *hi = minV, maxV
	s.dirty = true
	s.render()
	return nil
}

func (s *Session) rowAt(args []string) (*listing.Row, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("a row number is required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(s.visible) {
		return nil, fmt.Errorf("row number must be between 1 and %d", len(s.visible))
	}
	return &s.visible[n-1], nil
}

func (s *Session) annotate(roomID string, rating float64, notes string) {
	s.annotations = annotations.Apply(s.annotations, listing.Annotation{
		RoomID: roomID,
		Rating: rating,
		Notes:  notes,
	})
	for i := range s.rows {
		if s.rows[i].RoomID == roomID {
			s.rows[i].UserRating = rating
			s.rows[i].UserNotes = notes
		}
	}
	s.dirty = true
}

func (s *Session) save() error {
	if err := annotations.Save(s.ctx.RatingsPath(), s.annotations); err != nil {
		return err
	}
	s.saveFilterDefaults()
	s.dirty = false
	return nil
}

// saveFilterDefaults writes the current filter values back into the search
// config so the next session starts where this one left off.
func (s *Session) saveFilterDefaults() {
	cfg := s.ctx.Config
	cfg.DefaultMinPrice = s.filters.MinPrice
	cfg.DefaultMaxPrice = s.filters.MaxPrice
	cfg.DefaultMinUserRating = s.filters.MinUserRating
	cfg.DefaultMaxUserRating = s.filters.MaxUserRating
	cfg.DefaultMinAIRating = s.filters.MinAIRating
	cfg.DefaultMaxAIRating = s.filters.MaxAIRating
	cfg.DefaultMinMarketRating = s.filters.MinMarketRating
	cfg.DefaultMaxMarketRating = s.filters.MaxMarketRating
	cfg.DefaultOccupants = s.filters.PersonCapacity
	cfg.SelectedCategories = s.filters.Categories
	if err := s.ctx.SaveConfig(); err != nil {
		s.logger.Warn("filter defaults not saved", slog.Any("error", err))
	}
}

func (s *Session) printHelp() {
	fmt.Fprint(s.out, `commands:
  list                      redraw the table
  price <min> <max>         filter by total price
  user <min> <max>          filter by your rating (6 = unrated)
  ai <min> <max>            filter by AI rating
  market <min> <max>        filter by marketplace rating
  capacity <n>              minimum guest capacity
  category <name>|clear     restrict to categories
  reset                     restore configured defaults
  show <#>                  listing detail
  rate <#> <0-6>            record your rating
  note <#> <text>           record a note
  save                      write annotations to disk
  quit                      save pending changes and exit
`)
}
