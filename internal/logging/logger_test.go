package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerRendersComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	WithComponent(logger, "monitor").Info("fetched search results",
		slog.String(FieldSearch, "porto_2025"),
		slog.Int("count", 214),
	)

	line := buf.String()
	if !strings.Contains(line, "[monitor]") {
		t.Fatalf("expected component marker in output: %q", line)
	}
	if !strings.Contains(line, "fetched search results") {
		t.Fatalf("expected message in output: %q", line)
	}
	if !strings.Contains(line, "search=porto_2025") || !strings.Contains(line, "count=214") {
		t.Fatalf("expected fields in output: %q", line)
	}
}

func TestConsoleHandlerQuotesSpacedValues(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Warn("skipping room", slog.String("reason", "max retries reached"))

	if !strings.Contains(buf.String(), `reason="max retries reached"`) {
		t.Fatalf("expected quoted value in output: %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info record to be filtered, got %q", buf.String())
	}

	logger.Error("kept")
	if !strings.Contains(buf.String(), "ERROR") {
		t.Fatalf("expected error record, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if parseLevel("nonsense") != slog.LevelInfo {
		t.Fatal("expected unknown level to map to info")
	}
}
