package tzdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawZone is one zone line or zone continuation line.
type RawZone struct {
	Continuation bool          // Continuation is true if the line is a continuation line.
	Name         string        // NAME column, inherited from the zone line on continuation lines.
	Offset       string        // STDOFF column as written.
	StdOff       time.Duration // STDOFF column.
	Rules        ZoneRules     // RULES column.
	Format       string        // FORMAT column.
	Until        string        // UNTIL columns joined by single spaces, Present if absent.
	UntilDate    int64         // Last instant covered by this line.
}

// RuleName returns the name of the referenced rule set, or "" if the line does not reference one.
func (z RawZone) RuleName() string {
	if z.Rules.Form == ZoneRulesName {
		return z.Rules.Name
	}
	return ""
}

// ZoneRecord is a zone line or continuation line that has already been split into its text columns.
// Until holds the optional UNTIL columns joined by spaces.
type ZoneRecord struct {
	Continuation bool
	Name         string
	StdOff       string
	Rules        string
	Format       string
	Until        string
}

// RawZoneFromFields builds a RawZone from the fields of a zone line:
//
//	Zone  NAME        STDOFF  RULES   FORMAT  [UNTIL]
//	Zone  Asia/Amman  2:00    Jordan  EE%sT   2017 Oct 27 01:00
//
// now is the instant an absent UNTIL resolves to.
func RawZoneFromFields(fields []string, now int64) (RawZone, error) {
	if len(fields) < 5 {
		return RawZone{}, fmt.Errorf("expected at least 5 fields, got %d", len(fields))
	}
	if len(fields) > 9 {
		return RawZone{}, fmt.Errorf("expected at most 9 fields, got %d", len(fields))
	}
	if !isKeyword(fields[0], keywordZone) {
		return RawZone{}, fmt.Errorf("expected 'Zone', got %q", fields[0])
	}
	return NewRawZone(ZoneRecord{
		Name:   fields[1],
		StdOff: fields[2],
		Rules:  fields[3],
		Format: fields[4],
		Until:  strings.Join(fields[5:], " "),
	}, now)
}

// ContinuationFromFields builds a RawZone from the fields of a continuation line of zone name.
// A continuation line has the same form as a zone line without the "Zone" keyword and the name.
func ContinuationFromFields(name string, fields []string, now int64) (RawZone, error) {
	if len(fields) < 3 {
		return RawZone{}, fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}
	if len(fields) > 7 {
		return RawZone{}, fmt.Errorf("expected at most 7 fields, got %d", len(fields))
	}
	return NewRawZone(ZoneRecord{
		Continuation: true,
		Name:         name,
		StdOff:       fields[0],
		Rules:        fields[1],
		Format:       fields[2],
		Until:        strings.Join(fields[3:], " "),
	}, now)
}

// NewRawZone builds a RawZone from a pre-split zone record.
func NewRawZone(r ZoneRecord, now int64) (RawZone, error) {
	var (
		z    RawZone
		errs error
		err  error
	)
	z.Continuation = r.Continuation
	// A continuation record may leave the name to whoever routes it.
	if !r.Continuation || r.Name != "" {
		if z.Name, err = parseZoneNAME(r.Name); err != nil {
			errs = errors.Join(errs, fmt.Errorf("NAME %q: %w", r.Name, err))
		}
	}
	if z.StdOff, err = parseTimeOfDay(r.StdOff); err != nil {
		errs = errors.Join(errs, fmt.Errorf("STDOFF %q: %w", r.StdOff, err))
	}
	z.Offset = r.StdOff
	if z.Rules, err = parseZoneRULES(r.Rules); err != nil {
		errs = errors.Join(errs, fmt.Errorf("RULES %q: %w", r.Rules, err))
	}
	if z.Format, err = parseZoneFORMAT(r.Format); err != nil {
		errs = errors.Join(errs, fmt.Errorf("FORMAT %q: %w", r.Format, err))
	}
	z.Until = strings.Join(strings.Fields(r.Until), " ")
	if z.Until == "" {
		z.Until = Present
	}
	if z.UntilDate, err = UntilInstant(z.Until, now); err != nil {
		errs = errors.Join(errs, fmt.Errorf("UNTIL %q: %w", r.Until, err))
	}
	return z, errs
}

// parseZoneNAME parses the NAME column of a zone line.
// No file name component of the name may be "." or "..".
func parseZoneNAME(s string) (string, error) {
	if len(s) == 0 {
		return "", fmt.Errorf("empty name")
	}
	for _, part := range strings.Split(s, "/") {
		if part == "." || part == ".." {
			return "", fmt.Errorf("name contains a %q component", part)
		}
	}
	return s, nil
}

// ZoneRulesForm represents the type of the RULES column of a zone line.
type ZoneRulesForm int

func (f ZoneRulesForm) String() string {
	switch f {
	case ZoneRulesName:
		return "Name"
	case ZoneRulesTime:
		return "Time"
	case ZoneRulesStandard:
		return "Standard"
	default:
		return "<UNDEFINED>"
	}
}

const (
	// ZoneRulesStandard means standard time always applies because the RULES column is "-".
	ZoneRulesStandard ZoneRulesForm = iota
	// ZoneRulesName means the RULES column references rule lines by name.
	ZoneRulesName
	// ZoneRulesTime means the RULES column contains a fixed amount of saved time.
	ZoneRulesTime
)

// ZoneRules represents the RULES column of a zone line.
type ZoneRules struct {
	Form ZoneRulesForm
	// Name contains the name if Form is ZoneRulesName.
	Name string
	// Save contains the saved time if Form is ZoneRulesTime.
	Save time.Duration
}

// parseZoneRULES parses the RULES column of a zone line.
func parseZoneRULES(s string) (ZoneRules, error) {
	if s == "-" || s == "" {
		return ZoneRules{Form: ZoneRulesStandard}, nil
	}
	if d, _, err := parseTimeOfDayWithSuffix(s, "sd"); err == nil {
		return ZoneRules{Form: ZoneRulesTime, Save: d}, nil
	}
	// Whether a rule set of that name exists is only known once all files are read.
	name, err := parseRuleNAME(s)
	if err != nil {
		return ZoneRules{}, err
	}
	return ZoneRules{Form: ZoneRulesName, Name: name}, nil
}

// parseZoneFORMAT parses the FORMAT column of a zone line.
func parseZoneFORMAT(s string) (string, error) {
	if len(s) == 0 {
		return "", fmt.Errorf("empty format")
	}
	unquoted, _ := unquote(s)
	return unquoted, nil
}

// Precision tells how many fields of an UNTIL column are present.
type Precision int

const (
	UntilYear Precision = iota + 1
	UntilMonth
	UntilDay
	UntilTime
)

// Until represents the UNTIL column of a zone line.
// Trailing fields may be omitted and default to the earliest possible value.
type Until struct {
	Precision Precision
	Year      int
	Month     time.Month
	Day       Day
	Time      time.Duration
	Form      TimeForm
}

// ParseUntil parses the UNTIL column of a zone line, YEAR [MONTH [DAY [TIME]]].
// The month, day and time of day have the same format as the IN, ON and AT fields of a rule.
func ParseUntil(s string) (Until, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return Until{}, fmt.Errorf("empty")
	}
	if len(parts) > 4 {
		return Until{}, fmt.Errorf("too many fields: %d", len(parts))
	}

	var (
		u   Until
		err error
	)
	if u.Year, err = parseYear(parts[0]); err != nil {
		return u, fmt.Errorf("year: %w", err)
	}
	u.Precision = UntilYear
	u.Month = time.January
	u.Day = Day{Form: DayFormNum, Num: 1}

	if len(parts) > 1 {
		if u.Month, err = parseMonth(parts[1]); err != nil {
			return u, fmt.Errorf("month: %w", err)
		}
		u.Precision = UntilMonth
	}
	if len(parts) > 2 {
		if u.Day, err = parseDay(parts[2]); err != nil {
			return u, fmt.Errorf("day: %w", err)
		}
		u.Precision = UntilDay
	}
	if len(parts) > 3 {
		d, suffix, err := parseTimeOfDayWithSuffix(parts[3], "wsugz")
		if err != nil {
			return u, fmt.Errorf("time: %w", err)
		}
		u.Time = d
		switch suffix {
		case "s":
			u.Form = StandardTime
		case "u", "g", "z":
			u.Form = UniversalTime
		}
		u.Precision = UntilTime
	}
	return u, nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return y, nil
}
