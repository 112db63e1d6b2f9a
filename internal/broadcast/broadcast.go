package broadcast

import (
	"time"

	"carillon/internal/interval"
)

// Broadcast is one scheduled or recorded streaming event fetched from the
// remote account. StopsAt may be zero when the platform has no end instant;
// consumers assume the configured default duration in that case.
type Broadcast struct {
	ID           string
	Name         string
	StartsAt     time.Time
	StopsAt      time.Time
	HasRecording bool
	IsLive       bool
}

// HasStop reports whether the platform supplied an end instant.
func (b Broadcast) HasStop() bool {
	return !b.StopsAt.IsZero()
}

// LocalInterval converts the broadcast's span into the organization's time
// zone. A missing end instant is assumed as start plus defaultDuration, so
// the result's end is never before its start.
func (b Broadcast) LocalInterval(loc *time.Location, defaultDuration time.Duration) interval.Interval {
	start := b.StartsAt.In(loc)
	if b.HasStop() && b.StopsAt.After(b.StartsAt) {
		return interval.New(start, b.StopsAt.In(loc))
	}
	return interval.New(start, start.Add(defaultDuration))
}
