// Package analytics builds the Monday weekly summary of scheduled and
// recorded broadcasts per category and archives report history in SQLite.
package analytics
