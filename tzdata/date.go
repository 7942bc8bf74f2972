package tzdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ngrash/tzjson/internal/tzexpand"
)

const (
	// Present is the boundary text of a zone line without UNTIL columns.
	Present = "present"
	// Max is the boundary text of a date without upper bound.
	Max = "max"
)

// Instant returns the first instant of the date u denotes. Omitted fields take their earliest value.
// The time of day is taken as is, regardless of its frame.
func (u Until) Instant() int64 {
	y, m, d := u.Day.Resolve(u.Year, u.Month)
	return tzexpand.At(y, m, d, u.Time)
}

// ParseDate returns the first instant of a date given as YEAR [MONTH [DAY [TIME]]].
// "max" resolves to tzexpand.MaxInstant and "present" resolves to now.
func ParseDate(s string, now int64) (int64, error) {
	switch strings.TrimSpace(s) {
	case Max:
		return tzexpand.MaxInstant, nil
	case Present, "":
		return now, nil
	}
	u, err := ParseUntil(s)
	if err != nil {
		return 0, err
	}
	return u.Instant(), nil
}

// UntilInstant returns the last instant before the date s, i.e. the last instant still covered
// by a zone line with UNTIL s. "present" resolves to now, "max" to tzexpand.MaxInstant.
func UntilInstant(s string, now int64) (int64, error) {
	switch strings.TrimSpace(s) {
	case Max:
		return tzexpand.MaxInstant, nil
	case Present, "":
		return now, nil
	}
	first, err := ParseDate(s, now)
	if err != nil {
		return 0, err
	}
	return first - 1, nil
}

// LastInstant returns the last instant of the period s names: the last second of the year for
// "1994", of the month for "1994 Oct", of the day for "1994 Oct 26" and the second before the
// given time for "1994 Oct 26 2:00".
func LastInstant(s string, now int64) (int64, error) {
	switch strings.TrimSpace(s) {
	case Max:
		return tzexpand.MaxInstant, nil
	case Present, "":
		return now, nil
	}
	u, err := ParseUntil(s)
	if err != nil {
		return 0, err
	}
	y, m, d := u.Day.Resolve(u.Year, u.Month)
	switch u.Precision {
	case UntilYear:
		return tzexpand.YearEnd(y), nil
	case UntilMonth:
		return tzexpand.At(y, m+1, 1, 0) - 1, nil
	case UntilDay:
		return tzexpand.At(y, m, d+1, 0) - 1, nil
	default:
		return u.Instant() - 1, nil
	}
}

// FormatDate formats an instant the way an UNTIL column writes it, omitting trailing fields
// that hold their default value: "1994", "1994 Oct", "1994 Oct 26", "1994 Oct 26 2:00".
// tzexpand.MaxInstant formats as "max".
func FormatDate(instant int64) string {
	if instant >= tzexpand.MaxInstant {
		return Max
	}
	y, m, d, tod := tzexpand.Date(instant)

	parts := []string{strconv.Itoa(y)}
	switch {
	case tod != 0:
		parts = append(parts, m.String()[:3], strconv.Itoa(d), formatTimeOfDay(tod))
	case d != 1:
		parts = append(parts, m.String()[:3], strconv.Itoa(d))
	case m != time.January:
		parts = append(parts, m.String()[:3])
	}
	return strings.Join(parts, " ")
}

// formatTimeOfDay formats as H:MM, or H:MM:SS if there are seconds.
func formatTimeOfDay(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if s != 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", h, m)
}
