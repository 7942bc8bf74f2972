// Package tzc compiles parsed tzdata into rule intervals and zone histories.
//
// A RuleList pairs the start and end transitions of one rule set into non-overlapping Rules.
// A ZoneList turns the lines of one zone into consecutive Zones, each annotated with the Rules
// that apply to it. A ZoneSet routes the records of whole files to the right lists.
//
// Lists are builders: records are added first, then Compile derives a fresh result.
package tzc

import (
	"bytes"

	"github.com/ngrash/tzjson/tzdata"
)

// CompileBytes parses a tzdata buffer and compiles it.
func CompileBytes(dataBuf []byte, opts ...tzdata.Option) (*Compiled, error) {
	f, err := tzdata.Parse(bytes.NewReader(dataBuf), opts...)
	if err != nil {
		return nil, err
	}
	return Compile(f)
}

// Compile routes all files into a new ZoneSet and compiles it.
func Compile(files ...tzdata.File) (*Compiled, error) {
	s := NewZoneSet()
	for _, f := range files {
		if err := s.AddFile(f); err != nil {
			return nil, err
		}
	}
	return s.Compile()
}
