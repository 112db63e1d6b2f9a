// Package notify delivers run events to a Discord webhook or an ntfy topic.
// Per-event toggles in configuration control which events reach the channel;
// an unconfigured backend degrades to a noop service.
package notify
