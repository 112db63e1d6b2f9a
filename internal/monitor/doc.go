// Package monitor detects live-broadcast edges and verifies the weekly
// service schedule against the organization's regular windows.
package monitor
