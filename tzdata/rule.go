package tzdata

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Transition is one rule line: the start or the end of daylight saving time for a named rule set,
// recurring every year from From to To.
//
// A Transition with SaveMinutes != 0 starts daylight saving time, one with SaveMinutes == 0 ends it.
type Transition struct {
	Name        string     // NAME column.
	From        Year       // FROM column, MinYear for "minimum".
	To          Year       // TO column, equal to From for "only", MaxYear for "maximum".
	Month       time.Month // IN column.
	On          string     // ON column in compact form, see Day.Code.
	Day         Day        // ON column.
	At          string     // AT column without its suffix letter.
	AtMinutes   int        // AT column in minutes after 00:00, seconds dropped.
	Ref         TimeForm   // Frame of the AT column.
	Save        string     // SAVE column as written.
	SaveMinutes int        // SAVE column in minutes, seconds dropped.
	Letter      string     // LETTER/S column, empty for "-".
}

// IsStart reports whether the transition starts daylight saving time.
func (t Transition) IsStart() bool {
	return t.SaveMinutes != 0
}

// RuleRecord is a rule line that has already been split into its text columns.
type RuleRecord struct {
	Name   string
	From   string
	To     string
	In     string
	On     string
	At     string
	Save   string
	Letter string
}

// TransitionFromFields builds a Transition from the ten whitespace separated fields of a rule line:
//
//	Rule  NAME  FROM  TO    -  IN   ON       AT     SAVE   LETTER/S
//	Rule  US    1967  1973  -  Apr  lastSun  2:00w  1:00d  D
func TransitionFromFields(fields []string) (Transition, error) {
	if len(fields) != 10 {
		return Transition{}, fmt.Errorf("expected 10 fields, got %d", len(fields))
	}
	if !isKeyword(fields[0], keywordRule) {
		return Transition{}, fmt.Errorf("expected 'Rule', got %q", fields[0])
	}
	return NewTransition(RuleRecord{
		Name:   fields[1],
		From:   fields[2],
		To:     fields[3],
		In:     fields[5],
		On:     fields[6],
		At:     fields[7],
		Save:   fields[8],
		Letter: fields[9],
	})
}

// NewTransition builds a Transition from a pre-split rule record.
// All columns are checked; the returned error joins one error per invalid column.
func NewTransition(r RuleRecord) (Transition, error) {
	var (
		t    Transition
		errs error
		err  error
	)
	if t.Name, err = parseRuleNAME(r.Name); err != nil {
		errs = errors.Join(errs, fmt.Errorf("NAME %q: %w", r.Name, err))
	}
	if t.From, err = parseRuleFROM(r.From); err != nil {
		errs = errors.Join(errs, fmt.Errorf("FROM %q: %w", r.From, err))
	}
	if t.To, err = parseRuleTO(r.To, t.From); err != nil {
		errs = errors.Join(errs, fmt.Errorf("TO %q: %w", r.To, err))
	} else if t.To < t.From {
		errs = errors.Join(errs, fmt.Errorf("TO %q: before FROM %q", r.To, r.From))
	}
	if t.Month, err = parseMonth(r.In); err != nil {
		errs = errors.Join(errs, fmt.Errorf("IN %q: %w", r.In, err))
	}
	if t.Day, err = parseDay(r.On); err != nil {
		errs = errors.Join(errs, fmt.Errorf("ON %q: %w", r.On, err))
	}
	t.On = t.Day.Code()
	if err = t.parseAT(r.At); err != nil {
		errs = errors.Join(errs, fmt.Errorf("AT %q: %w", r.At, err))
	}
	if err = t.parseSAVE(r.Save); err != nil {
		errs = errors.Join(errs, fmt.Errorf("SAVE %q: %w", r.Save, err))
	}
	if t.Letter, err = parseRuleLETTERS(r.Letter); err != nil {
		errs = errors.Join(errs, fmt.Errorf("LETTER/S %q: %w", r.Letter, err))
	}
	return t, errs
}

// parseRuleNAME parses the NAME column of a rule.
// The name must not start with a digit, "-" or "+", and an unquoted name
// must not contain characters reserved for future extensions.
func parseRuleNAME(s string) (string, error) {
	if len(s) == 0 {
		return "", fmt.Errorf("empty name")
	}
	if s[0] >= '0' && s[0] <= '9' {
		return "", fmt.Errorf("name starts with a digit")
	}
	if s[0] == '-' || s[0] == '+' {
		return "", fmt.Errorf("name starts with a sign")
	}
	unquoted, wasQuoted := unquote(s)
	if !wasQuoted && containsSpecialChar(s) {
		return "", fmt.Errorf("name contains special character")
	}
	return unquoted, nil
}

// parseRuleFROM parses the FROM column of a rule.
// The words minimum and maximum may be abbreviated.
func parseRuleFROM(s string) (Year, error) {
	if isAbbrev(s, "minimum", "mi") {
		return MinYear, nil
	}
	if isAbbrev(s, "maximum", "ma") {
		return MaxYear, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year")
	}
	if Year(n) >= MaxYear {
		return 0, fmt.Errorf("year out of range")
	}
	return Year(n), nil
}

// parseRuleTO parses the TO column of a rule. In addition to minimum and maximum,
// the word only repeats the value of the FROM column.
func parseRuleTO(s string, from Year) (Year, error) {
	if isAbbrev(s, "only", "o") {
		return from, nil
	}
	return parseRuleFROM(s)
}

// parseAT parses the AT column of a rule. The time may be followed by w for wall clock time,
// s for standard time, or u, g or z for universal time. Wall clock time is the default.
func (t *Transition) parseAT(s string) error {
	d, suffix, err := parseTimeOfDayWithSuffix(s, "wsugz")
	if err != nil {
		return err
	}
	switch suffix {
	case "s":
		t.Ref = StandardTime
	case "u", "g", "z":
		t.Ref = UniversalTime
	default:
		t.Ref = WallClock
	}
	t.At = s
	if suffix != "" {
		t.At = s[:len(s)-1]
	}
	t.AtMinutes = minutes(d)
	return nil
}

// parseSAVE parses the SAVE column of a rule. It has the same format as the AT column
// except that the suffix letters are s for standard time and d for daylight saving time.
func (t *Transition) parseSAVE(s string) error {
	d, _, err := parseTimeOfDayWithSuffix(s, "sd")
	if err != nil {
		return err
	}
	t.Save = s
	t.SaveMinutes = minutes(d)
	return nil
}

// parseRuleLETTERS parses the LETTER/S column of a rule. "-" stands for an empty variable part.
func parseRuleLETTERS(s string) (string, error) {
	if len(s) == 0 {
		return "", fmt.Errorf("empty letter")
	}
	s, _ = unquote(s)
	if s == "-" {
		return "", nil
	}
	return s, nil
}
