// Package organizer derives the destination directory and filename for each
// classified recording. Service categories file by local date, name-based
// categories embed the sanitized broadcast name, holidays embed the year and
// label, and the recurring annual event numbers repeat occurrences within a
// year via the ledger counter with a directory scan as fallback.
package organizer
