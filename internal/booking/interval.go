package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is a half-open time range [start, end) on a single calendar
// date.  Clock values are minute-granular ("HH:MM") and the date uses the
// "YYYY-MM-DD" form.  Construct values with NewInterval so that the
// end-after-start invariant always holds.
//
// Fields:
//  Date     – calendar date in "2006-01-02" form.
//  StartMin – start of the range as minutes since midnight (inclusive).
//  EndMin   – end of the range as minutes since midnight (exclusive).
type Interval struct {
	Date     string
	StartMin int
	EndMin   int
}

// NewInterval validates and builds an Interval from a date and two clock
// strings.  It returns ErrInvalidInterval when the date is not a valid
// "YYYY-MM-DD" value, a clock value is malformed, or end is not strictly
// after start.
func NewInterval(date, start, end string) (Interval, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return Interval{}, fmt.Errorf("%w: bad date %q", ErrInvalidInterval, date)
	}
	s, err := parseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, fmt.Errorf("%w: end %q must be after start %q", ErrInvalidInterval, end, start)
	}
	return Interval{Date: date, StartMin: s, EndMin: e}, nil
}

// Overlaps reports whether two intervals intersect.  Intervals on
// different dates never overlap.  On the same date the half-open rule
// applies: [a1,a2) and [b1,b2) overlap iff a1 < b2 AND b1 < a2, so
// back-to-back ranges such as 09:00-10:00 and 10:00-11:00 do not collide.
func (i Interval) Overlaps(o Interval) bool {
	if i.Date != o.Date {
		return false
	}
	return i.StartMin < o.EndMin && o.StartMin < i.EndMin
}

// Start returns the inclusive start of the interval as "HH:MM".
func (i Interval) Start() string { return formatClock(i.StartMin) }

// End returns the exclusive end of the interval as "HH:MM".
func (i Interval) End() string { return formatClock(i.EndMin) }

// String renders the interval for logs and error messages.
func (i Interval) String() string {
	return i.Date + " " + i.Start() + "-" + i.End()
}

// parseClock converts an "HH:MM" string into minutes since midnight.  It
// accepts 00:00 through 23:59 and rejects everything else with
// ErrInvalidInterval.
func parseClock(v string) (int, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: bad clock value %q", ErrInvalidInterval, v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: bad clock value %q", ErrInvalidInterval, v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: bad clock value %q", ErrInvalidInterval, v)
	}
	return h*60 + m, nil
}

func formatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
