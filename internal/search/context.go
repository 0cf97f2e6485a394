package search

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"bnbscout/internal/fileutil"
)

// Context is the explicit handle for one search: its name, directory, and
// parsed configuration. Pipeline stages and the dashboard receive a Context
// instead of reading environment state.
type Context struct {
	Name   string
	Dir    string
	Config *Config
}

// Load resolves an existing search under searchesRoot and parses its config.
func Load(searchesRoot, name string) (*Context, error) {
	if name == "" {
		return nil, fmt.Errorf("search name is required")
	}
	dir := filepath.Join(searchesRoot, name)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("search %q: %s is not a directory", name, dir)
	}

	cfg, err := LoadConfig(filepath.Join(dir, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", name, err)
	}

	return &Context{Name: name, Dir: dir, Config: cfg}, nil
}

// List returns the names of existing search directories, sorted.
func List(searchesRoot string) ([]string, error) {
	entries, err := os.ReadDir(searchesRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read searches directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ConfigPath returns the search's config.yaml location.
func (c *Context) ConfigPath() string {
	return filepath.Join(c.Dir, "config.yaml")
}

// OutputDir returns the directory holding the search's CSV artifacts.
func (c *Context) OutputDir() string {
	return filepath.Join(c.Dir, "output_data")
}

// ResultsPath returns the search results CSV location.
func (c *Context) ResultsPath() string {
	return filepath.Join(c.OutputDir(), "results.csv")
}

// DetailsPath returns the per-listing details CSV location.
func (c *Context) DetailsPath() string {
	return filepath.Join(c.OutputDir(), "details.csv")
}

// ReviewsPath returns the reviews CSV location.
func (c *Context) ReviewsPath() string {
	return filepath.Join(c.OutputDir(), "reviews.csv")
}

// MergedPath returns the merged table CSV location.
func (c *Context) MergedPath() string {
	return filepath.Join(c.OutputDir(), "merged.csv")
}

// FailedRoomsPath returns the failed room ID list location.
func (c *Context) FailedRoomsPath() string {
	return filepath.Join(c.OutputDir(), "failed_rooms.txt")
}

// RatingsPath returns the user annotation CSV location.
func (c *Context) RatingsPath() string {
	return filepath.Join(c.Dir, "user_ratings.csv")
}

// LockPath returns the search's lock file location.
func (c *Context) LockPath() string {
	return filepath.Join(c.Dir, "monitor.lock")
}

// EnsureDirectories creates the search's directory skeleton.
func (c *Context) EnsureDirectories() error {
	return fileutil.EnsureDir(c.OutputDir())
}

// SaveConfig writes the (possibly updated) config back to config.yaml.
func (c *Context) SaveConfig() error {
	data, err := c.Config.Marshal()
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(c.ConfigPath(), data)
}
