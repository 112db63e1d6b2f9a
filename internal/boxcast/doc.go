// Package boxcast provides the HTTP client for the BoxCast REST API:
// broadcast listing, recording detail lookup, export requests, export
// status polling, and asset streaming.
package boxcast
