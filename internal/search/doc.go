// Package search manages per-search state: the directory layout under the
// searches root, the search's config.yaml, and helpers for creating a new
// search from a marketplace URL.
//
// A search.Context is the explicit object handed to pipeline stages and the
// dashboard; nothing below the CLI reads ambient environment state to decide
// which search is active.
package search
