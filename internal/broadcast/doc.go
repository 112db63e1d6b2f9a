// Package broadcast models remote streaming events and classifies them into
// organizational categories.
//
// Classification is deterministic, pure, and total: name-keyword rules take
// precedence over weekday/time-window rules, and every broadcast receives
// exactly one category with "uncategorized" as the fallback. All window
// comparisons use half-open interval overlap against the broadcast's full
// local interval, never a point-in-time test.
package broadcast
