// Package notifications delivers run events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The Service interface covers the run milestones so the pipeline
// can emit consistent messages without duplicating HTTP glue.
package notifications
