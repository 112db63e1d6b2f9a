// Package download moves a broadcast recording through the export request,
// status polling, and file download steps. Writes are atomic and the ledger
// guards against repeat downloads.
package download
