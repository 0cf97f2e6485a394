// Package pipeline drives one monitoring run of a search: fetch and filter
// marketplace results, refresh per-room details and reviews, score review
// text through the completion API, and write the merged table.
//
// Runs are incremental. Rooms already present in the on-disk tables are not
// fetched again; exhausted fetch attempts are recorded in the run ledger
// and failed_rooms.txt and the run continues.
package pipeline
