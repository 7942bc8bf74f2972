package tzexpand

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type ymd struct {
	Year  int
	Month time.Month
	Day   int
}

func TestWeekdayOnOrAfter(t *testing.T) {
	cases := []struct {
		in      ymd
		weekday time.Weekday
		want    ymd
	}{
		// Leap day
		{ymd{2020, time.February, 28}, time.Saturday, ymd{2020, time.February, 29}},
		// Leap day in a non-leap year
		{ymd{2021, time.February, 28}, time.Saturday, ymd{2021, time.March, 6}},
		// Day of week is on the exact day of month
		{ymd{2021, time.March, 28}, time.Sunday, ymd{2021, time.March, 28}},
		// Day of week is later in the same month
		{ymd{2021, time.March, 15}, time.Sunday, ymd{2021, time.March, 21}},
		// Day of week is next month
		{ymd{2021, time.March, 30}, time.Sunday, ymd{2021, time.April, 4}},
		// Day of week is next year
		{ymd{2021, time.December, 30}, time.Sunday, ymd{2022, time.January, 2}},
	}
	for _, c := range cases {
		y, m, d := WeekdayOnOrAfter(c.in.Year, c.in.Month, c.in.Day, c.weekday)
		if diff := cmp.Diff(c.want, ymd{y, m, d}); diff != "" {
			t.Errorf("WeekdayOnOrAfter(%+v, %v) mismatch (-want +got):\n%s", c.in, c.weekday, diff)
		}
	}
}

func TestWeekdayOnOrBefore(t *testing.T) {
	cases := []struct {
		in      ymd
		weekday time.Weekday
		want    ymd
	}{
		// Day of week is on the exact day of month
		{ymd{2021, time.March, 28}, time.Sunday, ymd{2021, time.March, 28}},
		// Day of week is earlier in the same month
		{ymd{2021, time.March, 15}, time.Sunday, ymd{2021, time.March, 14}},
		// Day of week is last month
		{ymd{2021, time.March, 5}, time.Sunday, ymd{2021, time.February, 28}},
		// Day of week is last year
		{ymd{2021, time.January, 2}, time.Sunday, ymd{2020, time.December, 27}},
	}
	for _, c := range cases {
		y, m, d := WeekdayOnOrBefore(c.in.Year, c.in.Month, c.in.Day, c.weekday)
		if diff := cmp.Diff(c.want, ymd{y, m, d}); diff != "" {
			t.Errorf("WeekdayOnOrBefore(%+v, %v) mismatch (-want +got):\n%s", c.in, c.weekday, diff)
		}
	}
}

func TestLastWeekday(t *testing.T) {
	cases := []struct {
		year    int
		month   time.Month
		weekday time.Weekday
		want    int
	}{
		{2021, time.March, time.Sunday, 28},
		{2020, time.February, time.Saturday, 29},
		{1987, time.October, time.Sunday, 25},
		{1900, time.February, time.Wednesday, 28},
	}
	for _, c := range cases {
		if got := LastWeekday(c.year, c.month, c.weekday); got != c.want {
			t.Errorf("LastWeekday(%d, %v, %v) = %d, want %d", c.year, c.month, c.weekday, got, c.want)
		}
	}
}

func TestDayOfWeekMatchesTimePackage(t *testing.T) {
	for _, d := range []ymd{{1883, time.January, 1}, {1600, time.March, 1}, {2000, time.February, 29}, {-44, time.March, 15}} {
		want := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
		if got := dayOfWeek(d.Year, d.Month, d.Day); got != want {
			t.Errorf("dayOfWeek(%+v) = %v, want %v", d, got, want)
		}
	}
}

func TestYearBounds(t *testing.T) {
	if got, want := YearStart(1987), time.Date(1987, time.January, 1, 0, 0, 0, 0, time.UTC).Unix(); got != want {
		t.Errorf("YearStart(1987) = %d, want %d", got, want)
	}
	if got, want := YearEnd(1992), time.Date(1992, time.December, 31, 23, 59, 59, 0, time.UTC).Unix(); got != want {
		t.Errorf("YearEnd(1992) = %d, want %d", got, want)
	}
	if got := YearEnd(1 << 31); got != MaxInstant {
		t.Errorf("YearEnd(huge) = %d, want MaxInstant", got)
	}
	if got, want := Epoch, time.Date(1883, time.January, 1, 0, 0, 0, 0, time.UTC).Unix(); got != want {
		t.Errorf("Epoch = %d, want %d", got, want)
	}
}

func TestAtNormalizesTimeOfDay(t *testing.T) {
	got := At(1994, time.October, 26, 24*time.Hour)
	want := time.Date(1994, time.October, 27, 0, 0, 0, 0, time.UTC).Unix()
	if got != want {
		t.Errorf("At(24:00) = %d, want %d", got, want)
	}
}
