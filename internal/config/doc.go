// Package config loads, validates, and normalizes Carillon configuration.
//
// Configuration is a single TOML file. Load applies defaults, expands ~ in
// paths, resolves the local time zone and start date, and validates
// cross-field constraints. All tunable behavior — keyword tables, service
// windows' inputs, polling bounds, notification routing — flows from here so
// the classifier, resolver, and state machine stay free of ambient state.
package config
