// Package tzexpand expands calendar positions used by tzdata into Unix instants.
//
// Instants are nominal: they are computed as if every time of day were given in UT.
// Offsets and the w/s/u suffixes are not applied.
package tzexpand

import (
	"time"

	"github.com/ngrash/tzjson/internal/unixtime"
)

const (
	// MaxInstant stands for "no effective upper bound". It is the largest date
	// representable by an ECMAScript Date, 275760-09-13T00:00:00Z, in seconds.
	MaxInstant int64 = 8_640_000_000_000
	// MinInstant is the mirror image of MaxInstant.
	MinInstant int64 = -MaxInstant

	// EpochYear is the year time zones were first used.
	EpochYear = 1883
)

// Epoch is 1883-01-01T00:00:00Z, the earliest instant of any zone history.
var Epoch = unixtime.FromDateTime(EpochYear, 1, 1, 0, 0, 0)

const (
	maxCalendarYear = 275760
	minCalendarYear = -271821
)

// At returns the instant of the given calendar position, clamped to [MinInstant, MaxInstant].
// Day, hour, minute and second may be out of range and are normalized.
func At(year int, month time.Month, day int, tod time.Duration) int64 {
	if year > maxCalendarYear {
		return MaxInstant
	}
	if year < minCalendarYear {
		return MinInstant
	}
	secs := int(tod / time.Second)
	return Clamp(unixtime.FromDateTime(year, int(month), day, 0, 0, 0) + int64(secs))
}

// YearStart returns the first instant of the given year.
func YearStart(year int) int64 {
	return At(year, time.January, 1, 0)
}

// YearEnd returns the last instant of the given year, i.e. Dec 31 23:59:59.
func YearEnd(year int) int64 {
	if year >= maxCalendarYear {
		return MaxInstant
	}
	return At(year+1, time.January, 1, 0) - 1
}

// Clamp limits an instant to [MinInstant, MaxInstant].
func Clamp(instant int64) int64 {
	return max(MinInstant, min(instant, MaxInstant))
}

// Date splits an instant into its calendar components.
func Date(instant int64) (year int, month time.Month, day int, tod time.Duration) {
	y, mo, d, h, mi, s := unixtime.ToDateTime(instant)
	tod = time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute + time.Duration(s)*time.Second
	return y, time.Month(mo), d, tod
}
