package tzc

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ngrash/tzjson/tzdata"
)

// ZoneSet routes the records of any number of tzdata files to their rule and zone lists.
// All files must be added before Compile is called: a zone can only be resolved against
// a complete rule set.
type ZoneSet struct {
	rules    map[string]*RuleList
	zones    map[string]*ZoneList
	lastZone string // zone that received the previous raw zone
}

// NewZoneSet returns an empty ZoneSet.
func NewZoneSet() *ZoneSet {
	return &ZoneSet{
		rules: make(map[string]*RuleList),
		zones: make(map[string]*ZoneList),
	}
}

// AddTransition adds t to the rule list of its name, creating the list on first use.
func (s *ZoneSet) AddTransition(t tzdata.Transition) error {
	l, ok := s.rules[t.Name]
	if !ok {
		var err error
		if l, err = NewRuleList(t.Name); err != nil {
			return err
		}
		s.rules[t.Name] = l
	}
	return l.Add(t)
}

// AddTransitions adds transitions in order.
func (s *ZoneSet) AddTransitions(ts []tzdata.Transition) error {
	for _, t := range ts {
		if err := s.AddTransition(t); err != nil {
			return err
		}
	}
	return nil
}

// AddRawZone adds z to the zone list of its name. A raw zone without a name continues
// the zone that received the previous raw zone.
func (s *ZoneSet) AddRawZone(z tzdata.RawZone) error {
	name := z.Name
	if name == "" {
		name = s.lastZone
	}
	if name == "" {
		return fmt.Errorf("tzc: continuation line without a preceding zone")
	}
	l, ok := s.zones[name]
	if !ok {
		var err error
		if l, err = NewZoneList(name); err != nil {
			return err
		}
		s.zones[name] = l
	}
	l.Add(z)
	s.lastZone = name
	return nil
}

// AddRawZones adds raw zones in order.
func (s *ZoneSet) AddRawZones(zs []tzdata.RawZone) error {
	for _, z := range zs {
		if err := s.AddRawZone(z); err != nil {
			return err
		}
	}
	return nil
}

// AddFile adds all transitions and raw zones of f. Links are ignored.
func (s *ZoneSet) AddFile(f tzdata.File) error {
	if err := s.AddTransitions(f.Transitions); err != nil {
		return err
	}
	return s.AddRawZones(f.RawZones)
}

// RuleLists returns the rule lists by name.
func (s *ZoneSet) RuleLists() map[string]*RuleList { return s.rules }

// ZoneLists returns the zone lists by name.
func (s *ZoneSet) ZoneLists() map[string]*ZoneList { return s.zones }

// Compiled is the result of compiling a ZoneSet.
type Compiled struct {
	Rules map[string]Rules
	Zones map[string][]Zone
}

// RuleNames returns the names of all rule sets in lexical order.
func (c *Compiled) RuleNames() []string {
	return slices.Sorted(maps.Keys(c.Rules))
}

// ZoneNames returns the names of all zones in lexical order.
func (c *Compiled) ZoneNames() []string {
	return slices.Sorted(maps.Keys(c.Zones))
}

// Compile compiles every rule list and then every zone list against the compiled rules.
// Errors of individual zones are joined; zones that compiled are returned regardless.
func (s *ZoneSet) Compile() (*Compiled, error) {
	c := &Compiled{
		Rules: make(map[string]Rules, len(s.rules)),
		Zones: make(map[string][]Zone, len(s.zones)),
	}
	for name, l := range s.rules {
		c.Rules[name] = l.Compile()
	}
	lookup := func(name string) (Rules, bool) {
		rs, ok := c.Rules[name]
		return rs, ok
	}

	var errs error
	for _, name := range slices.Sorted(maps.Keys(s.zones)) {
		zones, err := s.zones[name].Compile(lookup)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		c.Zones[name] = zones
	}
	return c, errs
}

// Restrict returns the part of c in force at the given instant: for each zone the one period
// containing it, and the rule sets these periods reference. Rule sets are kept whole so that
// interval labels keep pointing at the right rule.
func (c *Compiled) Restrict(at int64) *Compiled {
	out := &Compiled{
		Rules: make(map[string]Rules),
		Zones: make(map[string][]Zone),
	}
	for name, zones := range c.Zones {
		for _, z := range zones {
			if z.FromDate <= at && at <= z.ToDate {
				out.Zones[name] = []Zone{z}
				if rs, ok := c.Rules[z.Rules.Name]; ok && z.Rules.Form == tzdata.ZoneRulesName {
					out.Rules[z.Rules.Name] = rs
				}
				break
			}
		}
	}
	return out
}
