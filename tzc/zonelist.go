package tzc

import (
	"fmt"

	"github.com/ngrash/tzjson/internal/tzexpand"
	"github.com/ngrash/tzjson/tzdata"
)

// EpochText is the From text of the first zone of every zone list.
const EpochText = "1883"

// NoRule labels intervals no rule applies to.
const NoRule = "-"

// Zone is one period of a zone's history with a fixed standard offset.
type Zone struct {
	Name     string
	Offset   string
	Format   string
	From     string // Boundary text the period starts at.
	To       string // Boundary text the period ends before, tzdata.Present if open-ended.
	FromDate int64  // First instant of the period.
	ToDate   int64  // Last instant of the period.
	Rules    tzdata.ZoneRules
	// Applicable holds the rules of the referenced rule set that overlap [FromDate, ToDate].
	Applicable Rules
}

// UnknownRulesError is returned when a zone references a rule set that does not exist.
type UnknownRulesError struct {
	Zone  string
	Rules string
}

func (e *UnknownRulesError) Error() string {
	return fmt.Sprintf("tzc: zone %s references unknown rules %q", e.Zone, e.Rules)
}

// RuleLookup returns the compiled rule set of the given name.
type RuleLookup func(name string) (Rules, bool)

// ZoneList collects the zone lines of one zone in source order.
type ZoneList struct {
	name string
	raw  []tzdata.RawZone
}

// NewZoneList returns an empty ZoneList. It returns ErrUnnamed if name is empty.
func NewZoneList(name string) (*ZoneList, error) {
	if name == "" {
		return nil, ErrUnnamed
	}
	return &ZoneList{name: name}, nil
}

// Name returns the name of the zone.
func (l *ZoneList) Name() string { return l.name }

// Len returns the number of zone lines added so far.
func (l *ZoneList) Len() int { return len(l.raw) }

// Add appends a zone line. The line keeps its place in the zone's history.
func (l *ZoneList) Add(z tzdata.RawZone) {
	l.raw = append(l.raw, z)
}

// Compile turns the zone lines into consecutive zones. Each zone starts one second after the
// previous one ends; the first one starts at the 1883 epoch. Zones referencing a rule set get the
// rules of that set that overlap them. lookup must see every rule set in its final state.
// A present period that starts after now ends where it starts, so it never inverts.
func (l *ZoneList) Compile(lookup RuleLookup) ([]Zone, error) {
	zones := make([]Zone, 0, len(l.raw))
	from, fromDate := EpochText, tzexpand.Epoch
	for _, raw := range l.raw {
		z := Zone{
			Name:     l.name,
			Offset:   raw.Offset,
			Format:   raw.Format,
			From:     from,
			To:       raw.Until,
			FromDate: fromDate,
			ToDate:   raw.UntilDate,
			Rules:    raw.Rules,
		}
		if raw.Until == tzdata.Present && z.ToDate < z.FromDate {
			// An announced change may take effect after now; the period it opens is still current.
			z.ToDate = z.FromDate
		}
		if name := raw.RuleName(); name != "" {
			rules, ok := lookup(name)
			if !ok {
				return nil, &UnknownRulesError{Zone: l.name, Rules: name}
			}
			if z.FromDate <= z.ToDate {
				z.Applicable = rules.Applicable(z.FromDate, z.ToDate)
			}
		}
		zones = append(zones, z)
		from, fromDate = raw.Until, raw.UntilDate+1
	}
	return zones, nil
}

// Interval is a part of a zone in which at most one rule applies.
type Interval struct {
	From         string
	To           string
	FromDate     int64
	ToDate       int64
	Offset       string
	Abbreviation string
	Rule         string // Label of the applicable rule, NoRule if there is none.
}

// Intervals splits the zone at the boundaries of its applicable rules. Spans that no rule
// covers, before, between or after the rules, become intervals labeled NoRule.
//
// The first interval starts at the zone's From text and the last one ends at its To text.
// Inner boundaries are formatted like UNTIL columns: an interval ends before its To text.
func (z Zone) Intervals() []Interval {
	var out []Interval
	add := func(from, to int64, label string) {
		out = append(out, Interval{
			From:         tzdata.FormatDate(from),
			To:           tzdata.FormatDate(to + 1),
			FromDate:     from,
			ToDate:       to,
			Offset:       z.Offset,
			Abbreviation: z.Format,
			Rule:         label,
		})
	}

	cursor := z.FromDate
	if z.ToDate >= z.FromDate {
		for _, r := range z.Applicable {
			lo, hi := max(r.FromDate, cursor), min(r.ToDate, z.ToDate)
			if lo > hi {
				continue
			}
			if lo > cursor {
				add(cursor, lo-1, NoRule)
			}
			add(lo, hi, r.Label())
			cursor = hi + 1
		}
	}
	if cursor <= z.ToDate || len(out) == 0 {
		add(cursor, z.ToDate, NoRule)
	}

	out[0].From = z.From
	out[len(out)-1].To = z.To
	return out
}
