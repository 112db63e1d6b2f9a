// Package logging builds the process-wide slog logger and shared attribute
// helpers. Console output is a compact single-line format with the component
// attribute promoted to a message prefix; JSON output uses lowercase level
// names and RFC3339 UTC timestamps.
package logging
