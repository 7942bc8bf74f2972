package tzdata

import (
	"testing"
	"time"

	"github.com/ngrash/tzjson/internal/tzexpand"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1994", unix(1994, time.January, 1, 0, 0, 0)},
		{"1994 Oct", unix(1994, time.October, 1, 0, 0, 0)},
		{"1994 Oct 26", unix(1994, time.October, 26, 0, 0, 0)},
		{"1994 Oct 26 2:00", unix(1994, time.October, 26, 2, 0, 0)},
		{"1994 Oct lastSun", unix(1994, time.October, 30, 0, 0, 0)},
		{"1994 Oct Sun>=31 1:00u", unix(1994, time.November, 6, 1, 0, 0)},
		{"1994 Oct 26 24:00", unix(1994, time.October, 27, 0, 0, 0)},
		{"max", tzexpand.MaxInstant},
		{"present", now},
	}
	for _, c := range cases {
		got, err := ParseDate(c.in, now)
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDate(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"soon", "1994 Foo", "1994 Oct 0", "1994 Oct 26 2:xx", "1994 Oct 26 2:00 extra"} {
		if got, err := ParseDate(in, now); err == nil {
			t.Errorf("ParseDate(%q) = %d, want error", in, got)
		}
	}
}

func TestUntilInstant(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1915 Oct 26", unix(1915, time.October, 25, 23, 59, 59)},
		{"1884", unix(1883, time.December, 31, 23, 59, 59)},
		{"present", now},
		{"max", tzexpand.MaxInstant},
	}
	for _, c := range cases {
		got, err := UntilInstant(c.in, now)
		if err != nil {
			t.Errorf("UntilInstant(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("UntilInstant(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestLastInstant(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1994", unix(1994, time.December, 31, 23, 59, 59)},
		{"1994 Oct", unix(1994, time.October, 31, 23, 59, 59)},
		{"1994 Oct 26", unix(1994, time.October, 26, 23, 59, 59)},
		{"1994 Oct 26 2:00", unix(1994, time.October, 26, 1, 59, 59)},
		{"1992 Feb", unix(1992, time.February, 29, 23, 59, 59)},
		{"1900 Feb", unix(1900, time.February, 28, 23, 59, 59)},
		{"1994 Dec", unix(1994, time.December, 31, 23, 59, 59)},
		{"max", tzexpand.MaxInstant},
	}
	for _, c := range cases {
		got, err := LastInstant(c.in, now)
		if err != nil {
			t.Errorf("LastInstant(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("LastInstant(%q) = %s, want %s", c.in, time.Unix(got, 0).UTC(), time.Unix(c.want, 0).UTC())
		}
	}
}

func TestFormatDate_RoundTrip(t *testing.T) {
	for _, in := range []string{
		"1994",
		"1994 Oct",
		"1994 Oct 26",
		"1994 Oct 26 2:00",
		"1915 Oct 26",
		"1946 Jan 1 2:00",
		"1883 Nov 18 12:03:58",
		"max",
	} {
		instant, err := ParseDate(in, now)
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", in, err)
			continue
		}
		if got := FormatDate(instant); got != in {
			t.Errorf("FormatDate(ParseDate(%q)) = %q", in, got)
		}
	}
}

func TestSentinelsAreNotYears(t *testing.T) {
	upper, err := UntilInstant("max", now)
	if err != nil {
		t.Fatal(err)
	}
	year9999, err := UntilInstant("9999", now)
	if err != nil {
		t.Fatal(err)
	}
	if upper <= year9999 {
		t.Errorf("max (%d) does not lie beyond 9999 (%d)", upper, year9999)
	}
	if MaxYear.String() != "max" || Year(9999).String() != "9999" {
		t.Errorf("Year.String() confuses MaxYear and 9999")
	}
	if got := tzexpand.YearEnd(int(MaxYear)); got != tzexpand.MaxInstant {
		t.Errorf("YearEnd(MaxYear) = %d, want MaxInstant", got)
	}
}
