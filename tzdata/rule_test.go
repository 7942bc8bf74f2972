package tzdata

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTransitionFromFields(t *testing.T) {
	cases := []struct {
		line string
		want Transition
	}{
		{
			line: "Rule    StJohns 1987    only    -       Apr     Sun>=1  0:01    1:00    D",
			want: Transition{Name: "StJohns", From: 1987, To: 1987, Month: time.April, On: "0>=1", Day: Day{Form: DayFormAfter, Day: time.Sunday, Num: 1},
				At: "0:01", AtMinutes: 1, Ref: WallClock, Save: "1:00", SaveMinutes: 60, Letter: "D"},
		},
		{
			line: "Rule    StJohns 1987    2006    -       Oct     lastSun 0:01    0       S",
			want: Transition{Name: "StJohns", From: 1987, To: 2006, Month: time.October, On: "l0", Day: Day{Form: DayFormLast, Day: time.Sunday},
				At: "0:01", AtMinutes: 1, Ref: WallClock, Save: "0", SaveMinutes: 0, Letter: "S"},
		},
		{
			line: "Rule Mine min max - Jan firstMon 2:00s -1:00 -",
			want: Transition{Name: "Mine", From: MinYear, To: MaxYear, Month: time.January, On: "f1", Day: Day{Form: DayFormFirst, Day: time.Monday},
				At: "2:00", AtMinutes: 120, Ref: StandardTime, Save: "-1:00", SaveMinutes: -60, Letter: ""},
		},
		{
			line: "Rule Mine 2000 2005 - Dec Sat<=25 23:59:59Z 0:30:45 HS",
			want: Transition{Name: "Mine", From: 2000, To: 2005, Month: time.December, On: "6<=25", Day: Day{Form: DayFormBefore, Day: time.Saturday, Num: 25},
				At: "23:59:59", AtMinutes: 23*60 + 59, Ref: UniversalTime, Save: "0:30:45", SaveMinutes: 30, Letter: "HS"},
		},
		{
			line: "Rule Mine 2000 only - Mar 5 2g 1:00d -",
			want: Transition{Name: "Mine", From: 2000, To: 2000, Month: time.March, On: "5", Day: Day{Form: DayFormNum, Num: 5},
				At: "2", AtMinutes: 120, Ref: UniversalTime, Save: "1:00d", SaveMinutes: 60},
		},
		{
			line: "Rule Mine 2000 only - Mar 5 2:00W 0s -",
			want: Transition{Name: "Mine", From: 2000, To: 2000, Month: time.March, On: "5", Day: Day{Form: DayFormNum, Num: 5},
				At: "2:00", AtMinutes: 120, Ref: WallClock, Save: "0s", SaveMinutes: 0},
		},
	}
	for _, c := range cases {
		got, err := TransitionFromFields(strings.Fields(c.line))
		if err != nil {
			t.Errorf("TransitionFromFields(%q) error: %v", c.line, err)
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("TransitionFromFields(%q) mismatch (-want +got):\n%s", c.line, diff)
		}
	}
}

func TestTransitionFromFields_Invalid(t *testing.T) {
	cases := []string{
		"Rule StJohns 1987 only - Apr Sun>=1 0:01 1:00",    // too few fields
		"Zone StJohns 1987 only - Apr Sun>=1 0:01 1:00 D",  // wrong keyword
		"Rule StJohns 1987 only - Foo Sun>=1 0:01 1:00 D",  // month
		"Rule StJohns 1987 only - Apr Xyz>=1 0:01 1:00 D",  // weekday
		"Rule StJohns abc only - Apr Sun>=1 0:01 1:00 D",   // year
		"Rule StJohns 1987 only - Apr Sun>=1 0:xx 1:00 D",  // time
		"Rule StJohns 1987 1980 - Apr Sun>=1 0:01 1:00 D",  // TO before FROM
		"Rule 1StJohns 1987 only - Apr Sun>=1 0:01 1:00 D", // name starts with a digit
		"Rule StJohns 1987 only - Apr 32 0:01 1:00 D",      // day out of range
	}
	for _, line := range cases {
		if got, err := TransitionFromFields(strings.Fields(line)); err == nil {
			t.Errorf("TransitionFromFields(%q) = %+v, want error", line, got)
		}
	}
}

func TestNewTransition_MatchesFields(t *testing.T) {
	fromFields, err := TransitionFromFields(strings.Fields("Rule Fiji 1998 1999 - Nov Sun>=1 2:00 1:00 -"))
	if err != nil {
		t.Fatal(err)
	}
	fromRecord, err := NewTransition(RuleRecord{
		Name: "Fiji", From: "1998", To: "1999", In: "Nov", On: "Sun>=1", At: "2:00", Save: "1:00", Letter: "-",
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromFields, fromRecord); diff != "" {
		t.Errorf("NewTransition() mismatch (-fields +record):\n%s", diff)
	}
	if !fromRecord.IsStart() {
		t.Errorf("IsStart() = false for SAVE 1:00")
	}
}

func TestRawZoneFromFields(t *testing.T) {
	got, err := RawZoneFromFields(strings.Fields("Zone Pacific/Fiji 11:55:44 - LMT 1915 Oct 26"), now)
	if err != nil {
		t.Fatal(err)
	}
	want := RawZone{
		Name:      "Pacific/Fiji",
		Offset:    "11:55:44",
		StdOff:    11*time.Hour + 55*time.Minute + 44*time.Second,
		Rules:     ZoneRules{Form: ZoneRulesStandard},
		Format:    "LMT",
		Until:     "1915 Oct 26",
		UntilDate: unix(1915, time.October, 25, 23, 59, 59),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RawZoneFromFields() mismatch (-want +got):\n%s", diff)
	}
}

func TestContinuationFromFields(t *testing.T) {
	cases := []struct {
		line string
		want RawZone
	}{
		{
			line: "12:00 Fiji +12/+13",
			want: RawZone{Continuation: true, Name: "Pacific/Fiji", Offset: "12:00", StdOff: 12 * time.Hour,
				Rules: ZoneRules{Form: ZoneRulesName, Name: "Fiji"}, Format: "+12/+13", Until: Present, UntilDate: now},
		},
		{
			line: "-3:30 1:00 NDT 1946 Jan 1 2:00",
			want: RawZone{Continuation: true, Name: "Pacific/Fiji", Offset: "-3:30", StdOff: -3*time.Hour - 30*time.Minute,
				Rules: ZoneRules{Form: ZoneRulesTime, Save: time.Hour}, Format: "NDT", Until: "1946 Jan 1 2:00",
				UntilDate: unix(1946, time.January, 1, 1, 59, 59)},
		},
		{
			line: "1:00 - CET 1979 Oct lastSun 2:00s",
			want: RawZone{Continuation: true, Name: "Pacific/Fiji", Offset: "1:00", StdOff: time.Hour,
				Rules: ZoneRules{Form: ZoneRulesStandard}, Format: "CET", Until: "1979 Oct lastSun 2:00s",
				UntilDate: unix(1979, time.October, 28, 1, 59, 59)},
		},
	}
	for _, c := range cases {
		got, err := ContinuationFromFields("Pacific/Fiji", strings.Fields(c.line), now)
		if err != nil {
			t.Errorf("ContinuationFromFields(%q) error: %v", c.line, err)
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("ContinuationFromFields(%q) mismatch (-want +got):\n%s", c.line, diff)
		}
	}
}

func TestNewRawZone_MatchesFields(t *testing.T) {
	fromFields, err := RawZoneFromFields(strings.Fields("Zone America/St_Johns -3:30:52 - LMT 1884"), now)
	if err != nil {
		t.Fatal(err)
	}
	fromRecord, err := NewRawZone(ZoneRecord{Name: "America/St_Johns", StdOff: "-3:30:52", Rules: "-", Format: "LMT", Until: "1884"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromFields, fromRecord); diff != "" {
		t.Errorf("NewRawZone() mismatch (-fields +record):\n%s", diff)
	}
}

func TestRawZone_Invalid(t *testing.T) {
	cases := []string{
		"Zone A/B 1:00 -",                 // too few fields
		"Zone ../etc 1:00 - X",            // dot component
		"Zone A/B 1:xx - X",               // offset
		"Zone A/B 1:00 - X 1990 Foo",      // until month
		"Zone A/B 1:00 - X 1990 Jan 1 2 3", // too many fields
	}
	for _, line := range cases {
		if got, err := RawZoneFromFields(strings.Fields(line), now); err == nil {
			t.Errorf("RawZoneFromFields(%q) = %+v, want error", line, got)
		}
	}
}
