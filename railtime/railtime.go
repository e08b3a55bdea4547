// Package railtime implements date-aware time handling for rail services:
// parsing strict "HH:MM" strings against an anchor date, and detecting the
// midnight rollovers that overnight services require.
package railtime

import (
	"fmt"
	"time"

	"github.com/onwardrail/core/railerr"
)

// RollingOverThreshold is the gap, in either direction, above which a step
// between consecutive times in a sequence is interpreted as a midnight
// crossing rather than ordinary schedule irregularity. The threshold is
// exclusive: a gap of exactly this many minutes never crosses.
const RollingOverThreshold = 6 * time.Hour

// RailTime is a (date, time-of-day) pair with minute precision, ordered by
// absolute instant.
type RailTime struct {
	t time.Time
}

// New constructs a RailTime from a date (only the Y/M/D fields are used)
// and an hour/minute time-of-day.
func New(date time.Time, hour, minute int) RailTime {
	y, m, d := date.Date()
	return RailTime{t: time.Date(y, m, d, hour, minute, 0, 0, time.UTC)}
}

// FromTime wraps an already-combined date+time value, truncated to the
// minute.
func FromTime(t time.Time) RailTime {
	return RailTime{t: t.Truncate(time.Minute)}
}

// ParseHHMM parses a strict five-character "HH:MM" string (hours 0-23,
// minutes 0-59) stamped onto the given anchor date.
func ParseHHMM(s string, date time.Time) (RailTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return RailTime{}, railerr.NewTime("expected HH:MM format: " + s)
	}
	hour, ok := parseTwoDigits(s[0:2])
	if !ok || hour > 23 {
		return RailTime{}, railerr.NewTime("invalid hour: " + s)
	}
	minute, ok := parseTwoDigits(s[3:5])
	if !ok || minute > 59 {
		return RailTime{}, railerr.NewTime("invalid minute: " + s)
	}
	return New(date, hour, minute), nil
}

func parseTwoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// Date returns the date component, midnight UTC.
func (r RailTime) Date() time.Time {
	y, m, d := r.t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Hour returns the hour-of-day (0-23).
func (r RailTime) Hour() int { return r.t.Hour() }

// Minute returns the minute-of-hour (0-59).
func (r RailTime) Minute() int { return r.t.Minute() }

// Time returns the underlying absolute instant.
func (r RailTime) Time() time.Time { return r.t }

// String renders the time-of-day as "HH:MM".
func (r RailTime) String() string {
	return fmt.Sprintf("%02d:%02d", r.t.Hour(), r.t.Minute())
}

// Add returns r shifted by d, which may advance or retreat the date.
func (r RailTime) Add(d time.Duration) RailTime {
	return RailTime{t: r.t.Add(d)}
}

// Sub returns the signed duration from other to r.
func (r RailTime) Sub(other RailTime) time.Duration {
	return r.t.Sub(other.t)
}

// Before reports whether r is strictly before other.
func (r RailTime) Before(other RailTime) bool { return r.t.Before(other.t) }

// After reports whether r is strictly after other.
func (r RailTime) After(other RailTime) bool { return r.t.After(other.t) }

// Equal reports whether r and other denote the same absolute instant.
func (r RailTime) Equal(other RailTime) bool { return r.t.Equal(other.t) }

// Compare returns -1, 0, or +1 as r is before, equal to, or after other.
func (r RailTime) Compare(other RailTime) int {
	switch {
	case r.t.Before(other.t):
		return -1
	case r.t.After(other.t):
		return 1
	default:
		return 0
	}
}

// ParseSequenceForward parses a sequence of optional HH:MM strings that
// upstream claims is in chronological order. The anchor date applies to the
// first present entry; a present entry whose time-of-day is more than
// RollingOverThreshold earlier than the previous present entry's
// time-of-day is interpreted as a midnight crossing and advances the
// running date by one day before being stamped. Absent entries pass
// through unchanged and do not participate in rollover detection.
func ParseSequenceForward(times []string, present []bool, anchor time.Time) ([]*RailTime, error) {
	return parseSequence(times, present, anchor, false)
}

// ParseSequenceReverse is the mirror of ParseSequenceForward for a sequence
// in reverse chronological order: a present entry more than
// RollingOverThreshold later than the previous present entry's time-of-day
// decrements the running date by one day.
func ParseSequenceReverse(times []string, present []bool, anchor time.Time) ([]*RailTime, error) {
	return parseSequence(times, present, anchor, true)
}

func parseSequence(times []string, present []bool, anchor time.Time, reverse bool) ([]*RailTime, error) {
	if len(times) != len(present) {
		return nil, railerr.NewTime("times and present slices must have equal length")
	}
	out := make([]*RailTime, len(times))
	currentDate := anchor
	var prevTOD time.Duration
	havePrev := false

	for i, s := range times {
		if !present[i] {
			out[i] = nil
			continue
		}
		rt, err := ParseHHMM(s, currentDate)
		if err != nil {
			return nil, err
		}
		tod := timeOfDay(rt)

		if havePrev {
			diff := tod - prevTOD
			if !reverse && diff < -RollingOverThreshold {
				currentDate = currentDate.AddDate(0, 0, 1)
				rt = New(currentDate, rt.Hour(), rt.Minute())
			} else if reverse && diff > RollingOverThreshold {
				currentDate = currentDate.AddDate(0, 0, -1)
				rt = New(currentDate, rt.Hour(), rt.Minute())
			}
		}

		out[i] = &rt
		prevTOD = tod
		havePrev = true
	}
	return out, nil
}

func timeOfDay(r RailTime) time.Duration {
	return time.Duration(r.Hour())*time.Hour + time.Duration(r.Minute())*time.Minute
}
