// Package logs provides file tailing with bounded memory usage. It supports
// negative offsets for "last N lines" reads and a follow mode that polls for
// new lines until the caller's context ends. The `bnbscout logs` command is
// the main consumer.
package logs
