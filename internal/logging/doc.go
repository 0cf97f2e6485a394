// Package logging assembles the structured slog loggers used across
// bnbscout commands and pipeline stages.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and defines the standardized attribute keys (search name, room
// ID, run ID) so every component emits log lines with the same shape.
// Prefer these constructors over hand-rolled slog setup.
package logging
