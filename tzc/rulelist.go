package tzc

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/ngrash/tzjson/internal/tzexpand"
	"github.com/ngrash/tzjson/tzdata"
)

// ErrUnnamed is returned when a RuleList or ZoneList is created without a name.
var ErrUnnamed = errors.New("tzc: list requires a name")

// Rule is a range of years in which one start and one end transition of a rule set apply together.
// Either of them may be missing when its counterpart has no overlapping range.
type Rule struct {
	Name     string
	Index    int // Position in the compiled sequence of the rule set.
	From     tzdata.Year
	To       tzdata.Year
	FromDate int64 // Jan 1 00:00:00 of From.
	ToDate   int64 // Dec 31 23:59:59 of To, tzexpand.MaxInstant if To is tzdata.MaxYear.
	Start    *tzdata.Transition
	End      *tzdata.Transition
}

// Label names the rule the way zone intervals refer to it, e.g. "EU[3]".
func (r Rule) Label() string {
	return fmt.Sprintf("%s[%d]", r.Name, r.Index)
}

// Rules is a compiled rule set, ordered by From.
type Rules []Rule

// Applicable returns the rules whose range overlaps [from, to]. Both ends are inclusive.
func (rs Rules) Applicable(from, to int64) Rules {
	var out Rules
	for _, r := range rs {
		if r.FromDate <= to && from <= r.ToDate {
			out = append(out, r)
		}
	}
	return out
}

// RuleList collects the transitions of one rule set.
type RuleList struct {
	name        string
	transitions []tzdata.Transition
}

// NewRuleList returns an empty RuleList. It returns ErrUnnamed if name is empty.
func NewRuleList(name string) (*RuleList, error) {
	if name == "" {
		return nil, ErrUnnamed
	}
	return &RuleList{name: name}, nil
}

// Name returns the name of the rule set.
func (l *RuleList) Name() string { return l.name }

// Len returns the number of transitions added so far.
func (l *RuleList) Len() int { return len(l.transitions) }

// Add appends a transition. The transition must belong to the rule set.
func (l *RuleList) Add(t tzdata.Transition) error {
	if t.Name != l.name {
		return fmt.Errorf("tzc: transition of rule set %q added to %q", t.Name, l.name)
	}
	l.transitions = append(l.transitions, t)
	return nil
}

// AddAll appends transitions in order. It stops at the first one that does not belong to the rule set.
func (l *RuleList) AddAll(ts []tzdata.Transition) error {
	for _, t := range ts {
		if err := l.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// Compile pairs the start and end transitions added so far into rules.
//
// Starts (SaveMinutes != 0) and ends (SaveMinutes == 0) are each sorted by their year range and
// walked in step. Where a start and an end range overlap, the intersection becomes a rule holding
// both. Years covered by only one side become rules holding only that side. Years covered by
// neither side are left out. Every year is assigned to at most one rule: a transition whose
// years have all been assigned already is skipped.
//
// The result is ordered by From and the rules do not overlap. Compile does not modify the list;
// calling it again without adding transitions returns an equal result.
func (l *RuleList) Compile() Rules {
	var starts, ends []tzdata.Transition
	for _, t := range l.transitions {
		if t.IsStart() {
			starts = append(starts, t)
		} else {
			ends = append(ends, t)
		}
	}
	byRange := func(a, b tzdata.Transition) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	}
	slices.SortStableFunc(starts, byRange)
	slices.SortStableFunc(ends, byRange)

	p := pairing{name: l.name}
	i, j := 0, 0
	for i < len(starts) && j < len(ends) && !p.exhausted {
		s, e := &starts[i], &ends[j]
		sFrom, eFrom := p.lowest(s.From), p.lowest(e.From)
		switch {
		case s.To < sFrom:
			i++ // shadowed by earlier rules
		case e.To < eFrom:
			j++
		case sFrom < eFrom && s.To < eFrom:
			p.emit(sFrom, s.To, s, nil) // orphan start
			i++
		case eFrom < sFrom && e.To < sFrom:
			p.emit(eFrom, e.To, nil, e) // orphan end
			j++
		case sFrom < eFrom:
			p.emit(sFrom, eFrom-1, s, nil) // start-only prefix, the overlap follows
		case eFrom < sFrom:
			p.emit(eFrom, sFrom-1, nil, e) // end-only prefix
		default:
			p.emit(sFrom, min(s.To, e.To), s, e)
			switch {
			case s.To < e.To:
				i++
			case e.To < s.To:
				j++
			default:
				i++
				j++
			}
		}
	}
	for ; i < len(starts) && !p.exhausted; i++ {
		if from := p.lowest(starts[i].From); from <= starts[i].To {
			p.emit(from, starts[i].To, &starts[i], nil)
		}
	}
	for ; j < len(ends) && !p.exhausted; j++ {
		if from := p.lowest(ends[j].From); from <= ends[j].To {
			p.emit(from, ends[j].To, nil, &ends[j])
		}
	}
	return p.rules
}

// pairing accumulates the rules of one Compile run and tracks the first year not yet assigned.
type pairing struct {
	name      string
	rules     Rules
	next      tzdata.Year
	started   bool
	exhausted bool // MaxYear has been assigned
}

// lowest returns the first year at or after from that is not yet assigned to a rule.
func (p *pairing) lowest(from tzdata.Year) tzdata.Year {
	if p.started && from < p.next {
		return p.next
	}
	return from
}

func (p *pairing) emit(from, to tzdata.Year, start, end *tzdata.Transition) {
	r := Rule{
		Name:     p.name,
		Index:    len(p.rules),
		From:     from,
		To:       to,
		FromDate: tzexpand.YearStart(int(from)),
		ToDate:   tzexpand.YearEnd(int(to)),
	}
	// Copies, so that rules never share state with the list or with each other.
	if start != nil {
		s := *start
		r.Start = &s
	}
	if end != nil {
		e := *end
		r.End = &e
	}
	p.rules = append(p.rules, r)
	p.started = true
	if to >= tzdata.MaxYear {
		p.exhausted = true
		return
	}
	p.next = to + 1
}
