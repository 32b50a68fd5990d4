package clock

import "time"

// Clock supplies the current wall-clock time for sale-window and expiration
// decisions.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystem returns a clock reading the system time in loc.
func NewSystem(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc).Truncate(time.Microsecond)
}

// Fixed is a clock frozen at a settable instant
type Fixed struct {
	t time.Time
}

// NewFixed returns a clock that always reports t
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time { return f.t }

// Set moves the fixed clock to t
func (f *Fixed) Set(t time.Time) { f.t = t }

// Advance moves the fixed clock forward by d
func (f *Fixed) Advance(d time.Duration) { f.t = f.t.Add(d) }

// InZone reinterprets the wall-clock fields of t as a time in loc.
// Timestamps read from TIMESTAMP WITHOUT TIME ZONE columns come back as UTC
// and must be read as local times of the configured zone.
func InZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// InZonePtr is InZone for nullable timestamps
func InZonePtr(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := InZone(*t, loc)
	return &v
}
