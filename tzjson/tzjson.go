// Package tzjson renders compiled rule sets and zones as documents and stores them
// as JSON or YAML files.
//
// Each rule set becomes rules/NAME.json and each zone becomes ZONE.json, where
// the slashes of a zone name such as America/St_Johns become directories.
package tzjson

import (
	"github.com/ngrash/tzjson/tzc"
	"github.com/ngrash/tzjson/tzdata"
)

// Transition is the document form of a start or end transition of a rule.
type Transition struct {
	Month            int    `json:"month" yaml:"month"`
	Rule             string `json:"rule" yaml:"rule"`
	Time             string `json:"time" yaml:"time"`
	ZoneChar         string `json:"zoneChar" yaml:"zoneChar"`
	Savings          string `json:"savings" yaml:"savings"`
	Abbreviation     string `json:"abbreviation" yaml:"abbreviation"`
	TimeInMinutes    int    `json:"timeInMinutes" yaml:"timeInMinutes"`
	SavingsInMinutes int    `json:"savingsInMinutes" yaml:"savingsInMinutes"`
}

// Dates bounds a rule in Unix seconds, both ends inclusive.
type Dates struct {
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end" yaml:"end"`
}

// Rule is the document form of a compiled rule.
type Rule struct {
	Dates Dates       `json:"dates" yaml:"dates"`
	Start *Transition `json:"start,omitempty" yaml:"start,omitempty"`
	End   *Transition `json:"end,omitempty" yaml:"end,omitempty"`
}

// RuleDocument holds a whole rule set. Zone documents refer to its rules by
// position, e.g. "EU[3]" is Rules[3] of the EU document.
type RuleDocument struct {
	Name  string `json:"name" yaml:"name"`
	Rules []Rule `json:"rules" yaml:"rules"`
}

// Zone is one interval of a zone's history.
type Zone struct {
	From         string `json:"from" yaml:"from"`
	To           string `json:"to" yaml:"to"`
	Offset       string `json:"offset" yaml:"offset"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`
	Rule         string `json:"rule" yaml:"rule"`
}

// ZoneDocument holds the intervals of all periods of a zone in order.
type ZoneDocument struct {
	Name  string `json:"name" yaml:"name"`
	Zones []Zone `json:"zones" yaml:"zones"`
}

func newTransition(t *tzdata.Transition) *Transition {
	if t == nil {
		return nil
	}
	return &Transition{
		Month:            int(t.Month),
		Rule:             t.On,
		Time:             t.At,
		ZoneChar:         t.Ref.Char(),
		Savings:          t.Save,
		Abbreviation:     t.Letter,
		TimeInMinutes:    t.AtMinutes,
		SavingsInMinutes: t.SaveMinutes,
	}
}

// NewRuleDocument renders a compiled rule set.
func NewRuleDocument(name string, rules tzc.Rules) RuleDocument {
	doc := RuleDocument{Name: name, Rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		doc.Rules = append(doc.Rules, Rule{
			Dates: Dates{Start: r.FromDate, End: r.ToDate},
			Start: newTransition(r.Start),
			End:   newTransition(r.End),
		})
	}
	return doc
}

// NewZoneDocument renders the periods of a zone, split into intervals.
func NewZoneDocument(name string, zones []tzc.Zone) ZoneDocument {
	doc := ZoneDocument{Name: name, Zones: []Zone{}}
	for _, z := range zones {
		for _, iv := range z.Intervals() {
			doc.Zones = append(doc.Zones, Zone{
				From:         iv.From,
				To:           iv.To,
				Offset:       iv.Offset,
				Abbreviation: iv.Abbreviation,
				Rule:         iv.Rule,
			})
		}
	}
	return doc
}
