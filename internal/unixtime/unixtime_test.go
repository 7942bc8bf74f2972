package unixtime

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFromDateTime(t *testing.T) {
	cases := []struct {
		y, mo, d, h, mi, s int
	}{
		{1970, 1, 1, 0, 0, 0},
		{1883, 1, 1, 0, 0, 0},
		{1915, 10, 26, 0, 0, 0},
		{1992, 2, 29, 23, 59, 59},
		{2000, 3, 1, 12, 30, 15},
		{2038, 1, 19, 3, 14, 8},
		{1, 1, 1, 0, 0, 0},
		{0, 2, 29, 0, 0, 0},
		{-1, 12, 31, 23, 59, 59},
		{275760, 9, 13, 0, 0, 0},
	}
	for _, c := range cases {
		want := time.Date(c.y, time.Month(c.mo), c.d, c.h, c.mi, c.s, 0, time.UTC).Unix()
		if got := FromDateTime(c.y, c.mo, c.d, c.h, c.mi, c.s); got != want {
			t.Errorf("FromDateTime(%d, %d, %d, %d, %d, %d) = %d, want %d", c.y, c.mo, c.d, c.h, c.mi, c.s, got, want)
		}
	}
}

func TestFromDateTime_Normalizes(t *testing.T) {
	// 24:00 is the start of the next day.
	if got, want := FromDateTime(1994, 10, 26, 24, 0, 0), FromDateTime(1994, 10, 27, 0, 0, 0); got != want {
		t.Errorf("hour 24: got %d, want %d", got, want)
	}
	// Month 13 rolls over into January of the next year.
	if got, want := FromDateTime(1999, 13, 1, 0, 0, 0), FromDateTime(2000, 1, 1, 0, 0, 0); got != want {
		t.Errorf("month 13: got %d, want %d", got, want)
	}
	// Day 0 is the last day of the previous month.
	if got, want := FromDateTime(1992, 3, 0, 0, 0, 0), FromDateTime(1992, 2, 29, 0, 0, 0); got != want {
		t.Errorf("day 0: got %d, want %d", got, want)
	}
}

func TestToDateTime(t *testing.T) {
	type dt struct{ Y, Mo, D, H, Mi, S int }
	for _, unix := range []int64{
		0,
		-1,
		951782400, // 2000-02-29
		-2713910400,
		FromDateTime(1994, 12, 31, 23, 59, 59),
		FromDateTime(-44, 3, 15, 12, 0, 0),
		8640000000000,
	} {
		want := time.Unix(unix, 0).UTC()
		var got dt
		got.Y, got.Mo, got.D, got.H, got.Mi, got.S = ToDateTime(unix)
		w := dt{want.Year(), int(want.Month()), want.Day(), want.Hour(), want.Minute(), want.Second()}
		if diff := cmp.Diff(w, got); diff != "" {
			t.Errorf("ToDateTime(%d) mismatch (-want +got):\n%s", unix, diff)
		}
	}
}
