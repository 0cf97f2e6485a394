package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"bnbscout/internal/listing"
	"bnbscout/internal/search"
)

const testSearchURL = "https://www.airbnb.com/s/London--United-Kingdom/homes?" +
	"query=London%2C%20United%20Kingdom&checkin=2026-09-01&checkout=2026-09-08&" +
	"ne_lat=51.6&ne_lng=-0.05&sw_lat=51.4&sw_lng=-0.3&zoom=12"

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(
		"[paths]\nsearches_dir = %q\nlog_dir = %q\n\n[logging]\nlevel = \"error\"\n",
		filepath.Join(base, "searches"),
		filepath.Join(base, "logs"),
	)
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}

func TestConfigInitCommand(t *testing.T) {
	configPath := writeTestConfig(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, configPath, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, configPath, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when target exists without --overwrite")
	}
}

func TestConfigValidateCommand(t *testing.T) {
	configPath := writeTestConfig(t)
	out, _, err := runCLI(t, configPath, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestSearchNewAndList(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, configPath, "", "search", "new", testSearchURL, "--name", "london")
	if err != nil {
		t.Fatalf("search new: %v", err)
	}
	requireContains(t, out, `Created search "london"`)

	out, _, err = runCLI(t, configPath, "", "search", "list")
	if err != nil {
		t.Fatalf("search list: %v", err)
	}
	requireContains(t, out, "london")
	requireContains(t, out, "2026-09-01")
}

func TestSearchNewDerivesName(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, configPath, "", "search", "new", testSearchURL)
	if err != nil {
		t.Fatalf("search new: %v", err)
	}
	requireContains(t, out, `Created search "London_2026-09-01"`)
}

func TestSearchNewRejectsDuplicate(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, _, err := runCLI(t, configPath, "", "search", "new", testSearchURL, "--name", "dup"); err != nil {
		t.Fatalf("first search new: %v", err)
	}
	if _, _, err := runCLI(t, configPath, "", "search", "new", testSearchURL, "--name", "dup"); err == nil {
		t.Fatal("expected duplicate search to be rejected")
	}
}

func TestRunsEmpty(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, configPath, "", "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No recorded runs")

	out, _, err = runCLI(t, configPath, "", "runs", "--failures")
	if err != nil {
		t.Fatalf("runs --failures: %v", err)
	}
	requireContains(t, out, "No recorded failures")
}

func TestMonitorUnknownSearch(t *testing.T) {
	configPath := writeTestConfig(t)
	if _, _, err := runCLI(t, configPath, "", "monitor", "missing"); err == nil {
		t.Fatal("expected error for unknown search")
	}
}

func TestDashboardUnknownSearch(t *testing.T) {
	configPath := writeTestConfig(t)
	if _, _, err := runCLI(t, configPath, "", "dashboard", "missing"); err == nil {
		t.Fatal("expected error for unknown search")
	}
}

func seedMergedData(t *testing.T, configPath, name string) {
	t.Helper()
	if _, _, err := runCLI(t, configPath, "", "search", "new", testSearchURL, "--name", name); err != nil {
		t.Fatalf("search new: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var searchesDir string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "searches_dir") {
			searchesDir = strings.Trim(strings.TrimSpace(strings.SplitN(line, "=", 2)[1]), `"`)
		}
	}
	if searchesDir == "" {
		t.Fatal("searches_dir not found in test config")
	}

	sc, err := search.Load(searchesDir, name)
	if err != nil {
		t.Fatalf("load search: %v", err)
	}
	price := 120.0
	rows := []listing.Row{{
		Listing: listing.Listing{
			RoomID:     "42",
			Name:       "Bright studio",
			TotalPrice: &price,
			Currency:   "EUR",
		},
		UserRating: listing.UnratedSentinel,
	}}
	if err := listing.WriteMerged(sc.MergedPath(), rows); err != nil {
		t.Fatalf("write merged: %v", err)
	}
}

func TestLaunchSkipMonitorOpensDashboard(t *testing.T) {
	configPath := writeTestConfig(t)
	seedMergedData(t, configPath, "seeded")

	out, _, err := runCLI(t, configPath, "1\nquit\n", "launch", "--skip-monitor")
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	requireContains(t, out, "Saved searches:")
	requireContains(t, out, "Bright studio")
}

func TestLaunchRejectsOutOfRangeSelection(t *testing.T) {
	configPath := writeTestConfig(t)
	seedMergedData(t, configPath, "seeded")

	if _, _, err := runCLI(t, configPath, "9\n", "launch", "--skip-monitor"); err == nil {
		t.Fatal("expected error for out of range selection")
	}
}

func TestLaunchStreamsMonitorOutput(t *testing.T) {
	orig := monitorCommandContext
	monitorCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo from stdout; echo from stderr >&2")
	}
	t.Cleanup(func() { monitorCommandContext = orig })

	configPath := writeTestConfig(t)
	seedMergedData(t, configPath, "seeded")

	out, _, err := runCLI(t, configPath, "1\nquit\n", "launch")
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	requireContains(t, out, "from stdout")
	requireContains(t, out, "from stderr")
	requireContains(t, out, "Bright studio")
}

func TestLaunchPropagatesMonitorFailure(t *testing.T) {
	orig := monitorCommandContext
	monitorCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "exit 3")
	}
	t.Cleanup(func() { monitorCommandContext = orig })

	configPath := writeTestConfig(t)
	seedMergedData(t, configPath, "seeded")

	if _, _, err := runCLI(t, configPath, "1\n", "launch"); err == nil {
		t.Fatal("expected error when the monitor child exits non-zero")
	}
}
