// Package ledger persists the idempotency record keeping repeated runs from
// redoing work: completed downloads keyed by recording identifier, the live
// broadcast set for edge detection, the daily and weekly gate dates, and the
// annual-event counters. The backing store is a single JSON document read at
// run start and written atomically at run end.
package ledger
