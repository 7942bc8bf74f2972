package tzdata

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/ngrash/tzjson/internal/tzexpand"
)

// Year represents a year in the proleptic Gregorian calendar.
type Year int

func (y Year) String() string {
	if y == MaxYear {
		return "max"
	}
	return strconv.Itoa(int(y))
}

const (
	// MinYear means the indefinite past.
	MinYear Year = 0
	// MaxYear means the indefinite future. It is far beyond any year a 4-digit literal can express.
	MaxYear Year = math.MaxInt32
)

// TimeForm tells in which frame a time of day is expressed.
type TimeForm int

func (f TimeForm) String() string {
	switch f {
	case WallClock:
		return "WallClock"
	case StandardTime:
		return "StandardTime"
	case UniversalTime:
		return "UniversalTime"
	default:
		return "<UNDEFINED>"
	}
}

// Char returns the zic suffix letter of the form: w, s or u.
func (f TimeForm) Char() string {
	switch f {
	case StandardTime:
		return "s"
	case UniversalTime:
		return "u"
	default:
		return "w"
	}
}

const (
	WallClock TimeForm = iota
	StandardTime
	UniversalTime
)

// DayForm represents the form of a day in a rule or zone line.
type DayForm int

func (f DayForm) String() string {
	switch f {
	case DayFormNum:
		return "DayNum"
	case DayFormLast:
		return "Last"
	case DayFormFirst:
		return "First"
	case DayFormAfter:
		return "After"
	case DayFormBefore:
		return "Before"
	default:
		return "<UNDEFINED>"
	}
}

const (
	DayFormNum DayForm = iota
	DayFormLast
	DayFormFirst
	DayFormAfter
	DayFormBefore
)

// Day represents the ON column of a rule line or the day of an UNTIL column.
type Day struct {
	Form DayForm
	Num  int
	Day  time.Weekday
}

// Code returns the compact encoding of the day rule: "l0" for the last Sunday,
// "f1" for the first Monday, "0>=8" and "0<=25" for comparisons and the day
// number otherwise. Weekdays are numbered from Sunday = 0.
func (d Day) Code() string {
	switch d.Form {
	case DayFormLast:
		return fmt.Sprintf("l%d", d.Day)
	case DayFormFirst:
		return fmt.Sprintf("f%d", d.Day)
	case DayFormAfter:
		return fmt.Sprintf("%d>=%d", d.Day, d.Num)
	case DayFormBefore:
		return fmt.Sprintf("%d<=%d", d.Day, d.Num)
	default:
		return strconv.Itoa(d.Num)
	}
}

// Resolve returns the calendar date the day denotes in the given month.
// The >= and <= forms can resolve into a neighboring month.
func (d Day) Resolve(year int, month time.Month) (int, time.Month, int) {
	switch d.Form {
	case DayFormLast:
		return year, month, tzexpand.LastWeekday(year, month, d.Day)
	case DayFormFirst:
		return tzexpand.WeekdayOnOrAfter(year, month, 1, d.Day)
	case DayFormAfter:
		return tzexpand.WeekdayOnOrAfter(year, month, d.Num, d.Day)
	case DayFormBefore:
		return tzexpand.WeekdayOnOrBefore(year, month, d.Num, d.Day)
	default:
		return year, month, d.Num
	}
}

// parseDay parses the ON column of a rule line and the day part of an UNTIL column.
//
// Recognized forms are a day number, lastSun, firstSun, Sun>=8 and Sun<=25.
// Weekday names may be abbreviated or spelled out in full.
func parseDay(s string) (Day, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 31 {
			return Day{}, fmt.Errorf("day %d out of range", n)
		}
		return Day{Form: DayFormNum, Num: n}, nil
	}
	l := fold(s)
	if strings.HasPrefix(l, "last") {
		day, err := parseWeekday(l[4:])
		if err != nil {
			return Day{}, err
		}
		return Day{Form: DayFormLast, Day: day}, nil
	}
	if strings.HasPrefix(l, "first") {
		day, err := parseWeekday(l[5:])
		if err != nil {
			return Day{}, err
		}
		return Day{Form: DayFormFirst, Day: day}, nil
	}
	if strings.Contains(s, "=") {
		form := DayFormBefore
		parts := strings.Split(s, "<=")
		if len(parts) != 2 {
			form = DayFormAfter
			parts = strings.Split(s, ">=")
		}
		if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) == 0 {
			return Day{}, fmt.Errorf("expected weekday<=dayofmonth or weekday>=dayofmonth")
		}
		day, err := parseWeekday(parts[0])
		if err != nil {
			return Day{}, fmt.Errorf("left part of comparison %q: %w", parts[0], err)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return Day{}, fmt.Errorf("right part of comparison %q: %w", parts[1], err)
		}
		return Day{Form: form, Day: day, Num: n}, nil
	}
	return Day{}, fmt.Errorf("invalid day %q", s)
}

// parseTimeOfDayWithSuffix strips one of the given suffix letters, matched case-insensitively,
// and parses the rest as a time of day. The returned suffix is lower case.
func parseTimeOfDayWithSuffix(s string, suffixes string) (time.Duration, string, error) {
	var suffix string
	if n := len(s); n > 1 {
		if last := strings.ToLower(s[n-1:]); strings.Contains(suffixes, last) {
			suffix = last
			s = s[:n-1]
		}
	}
	d, err := parseTimeOfDay(s)
	if err != nil {
		return 0, "", err
	}
	return d, suffix, nil
}

// parseTimeOfDay parses a time of day relative to 00:00.
//
// Recognized forms include 2, 2:00, 01:28:14, 00:19:32.13, 24:00, 260:00, -2:30
// and "-", which is equivalent to 0.
func parseTimeOfDay(s string) (time.Duration, error) {
	if s == "-" {
		return 0, nil
	}
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("too many components in %q", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("invalid hour %q", parts[0])
	}
	var minutes, seconds, millis int
	if len(parts) > 1 {
		if minutes, err = strconv.Atoi(parts[1]); err != nil || minutes < 0 || minutes > 59 {
			return 0, fmt.Errorf("invalid minute %q", parts[1])
		}
	}
	if len(parts) > 2 {
		whole, frac, _ := strings.Cut(parts[2], ".")
		if seconds, err = strconv.Atoi(whole); err != nil || seconds < 0 || seconds > 59 {
			return 0, fmt.Errorf("invalid second %q", parts[2])
		}
		if frac != "" {
			// Pad or truncate to milliseconds.
			frac = (frac + "000")[:3]
			if millis, err = strconv.Atoi(frac); err != nil {
				return 0, fmt.Errorf("invalid fractional second %q", parts[2])
			}
		}
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	if negative {
		d = -d
	}
	return d, nil
}

// minutes converts a time of day to whole minutes, dropping seconds.
func minutes(d time.Duration) int {
	return int(d / time.Minute)
}

func parseMonth(s string) (time.Month, error) {
	l := fold(s)
	for m := time.January; m <= time.December; m++ {
		long := fold(m.String())
		if isAbbrev(l, long, long[:3]) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid month %q", s)
}

// weekdayAbbrevs lists the shortest unambiguous prefix of each weekday name.
var weekdayAbbrevs = [...]string{
	time.Sunday:    "su",
	time.Monday:    "m",
	time.Tuesday:   "tu",
	time.Wednesday: "w",
	time.Thursday:  "th",
	time.Friday:    "f",
	time.Saturday:  "sa",
}

func parseWeekday(s string) (time.Weekday, error) {
	l := fold(s)
	for d, short := range weekdayAbbrevs {
		wd := time.Weekday(d)
		if isAbbrev(l, fold(wd.String()), short) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// isAbbrev reports whether s abbreviates long to at least min.
// s is compared case-insensitively, long and min must already be folded.
func isAbbrev(s string, long string, min string) bool {
	s = fold(s)
	return strings.HasPrefix(s, min) && strings.HasPrefix(long, s)
}

// fold returns the case-folded form of s.
func fold(s string) string {
	return cases.Fold().String(s)
}

// unquote removes quotes from a string.
// It returns the unquoted string and true if the string was quoted.
func unquote(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1], true
	}
	return s, false
}

// containsSpecialChar reports whether s contains characters reserved for future extensions.
func containsSpecialChar(s string) bool {
	return strings.ContainsAny(s, "!$%&'()*,/:;<=>?@[\\]^`{|}~")
}
