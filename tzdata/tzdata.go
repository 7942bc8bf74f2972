// Package tzdata provides a parser for the tzdata source files provided by IANA
// at https://www.iana.org/time-zones.
package tzdata

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// File represents the result of parsing a tzdata file.
// It contains the parsed rule lines, zone lines and link lines, each in the order they appear in the file.
type File struct {
	Source      string // Name of the parsed file, if known.
	Transitions []Transition
	RawZones    []RawZone
	Links       []LinkLine
}

// LinkLine represents a link line. Links are parsed but otherwise ignored.
type LinkLine struct {
	Target string
	Name   string
}

// ParseError is a malformed line. It contains the line number and the line where the error occurred.
type ParseError struct {
	Source string // Name of the parsed file, if known.
	Line   int
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d: %q: %v", e.Source, e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError is a source that could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("read tzdata: %v", e.Err)
	}
	return fmt.Sprintf("read tzdata %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Option configures Parse.
type Option func(*options)

type options struct {
	source string
	now    int64
	report func(*ParseError)
}

// SkipInvalid makes Parse continue after malformed lines. Each one is passed to report, which may be nil.
// Without this option Parse stops at the first malformed line.
func SkipInvalid(report func(*ParseError)) Option {
	return func(o *options) {
		if report == nil {
			report = func(*ParseError) {}
		}
		o.report = report
	}
}

// WithNow sets the instant, in Unix seconds, that "present" resolves to.
// It defaults to the time Parse is called.
func WithNow(now int64) Option {
	return func(o *options) { o.now = now }
}

// WithSource names the parsed input in errors.
func WithSource(name string) Option {
	return func(o *options) { o.source = name }
}

// Parse parses the content of a tzdata file.
//
// Fields are separated by white space and "#" starts a comment that extends to the end of the line.
// Lines starting with a comment are ignored entirely. A line with at most one field ends the
// zone that was opened last, as do rule and link lines. Other lines following a zone line
// are continuation lines of that zone.
func Parse(r io.Reader, opts ...Option) (File, error) {
	o := options{now: time.Now().Unix()}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		result     = File{Source: o.source}
		p          = lineParser{now: o.now}
		scanner    = bufio.NewScanner(r)
		lineNumber int
	)
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		err := p.parseLine(line, &result)
		if err == nil {
			continue
		}
		pe := &ParseError{Source: o.source, Line: lineNumber, Text: line, Err: err}
		if o.report == nil {
			return result, pe
		}
		o.report(pe)
	}
	if err := scanner.Err(); err != nil {
		return result, &IOError{Path: o.source, Err: err}
	}
	return result, nil
}

// ParseFile opens name on fs and parses it.
func ParseFile(fs afero.Fs, name string, opts ...Option) (File, error) {
	f, err := fs.Open(name)
	if err != nil {
		return File{}, &IOError{Path: name, Err: err}
	}
	defer f.Close()
	return Parse(f, append([]Option{WithSource(name)}, opts...)...)
}

// parserState is the state of the line parser between two lines.
type parserState int

const (
	// noZoneOpen means continuation lines are not expected.
	noZoneOpen parserState = iota
	// zoneOpen means the next non-keyword line continues the zone in lineParser.zone.
	zoneOpen
	// zoneInvalid means continuation lines belong to a zone line that failed to parse.
	zoneInvalid
)

// lineParser turns lines into records, tracking which zone continuation lines belong to.
type lineParser struct {
	state parserState
	zone  string
	now   int64
}

func (p *lineParser) open(name string) {
	p.state = zoneOpen
	p.zone = name
}

// reject remembers the zone of a malformed zone line so its continuation lines are
// rejected with it.
func (p *lineParser) reject(fields []string) {
	p.state = zoneInvalid
	p.zone = ""
	if len(fields) > 1 {
		if name, err := parseZoneNAME(fields[1]); err == nil {
			p.zone = name
		}
	}
}

func (p *lineParser) close() {
	p.state = noZoneOpen
	p.zone = ""
}

func (p *lineParser) parseLine(line string, f *File) error {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return nil // comment lines do not end a zone
	}
	fields := splitLine(line)
	if len(fields) <= 1 {
		p.close()
		return nil
	}

	switch {
	case isKeyword(fields[0], keywordRule):
		p.close()
		t, err := TransitionFromFields(fields)
		if err != nil {
			return fmt.Errorf("parse rule: %w", err)
		}
		f.Transitions = append(f.Transitions, t)
	case isKeyword(fields[0], keywordZone):
		z, err := RawZoneFromFields(fields, p.now)
		if err != nil {
			p.reject(fields)
			return fmt.Errorf("parse zone: %w", err)
		}
		p.open(z.Name)
		f.RawZones = append(f.RawZones, z)
	case isKeyword(fields[0], keywordLink):
		p.close()
		l, err := parseLinkLine(fields)
		if err != nil {
			return fmt.Errorf("parse link: %w", err)
		}
		f.Links = append(f.Links, l)
	case p.state == zoneOpen:
		z, err := ContinuationFromFields(p.zone, fields, p.now)
		if err != nil {
			return fmt.Errorf("parse zone continuation: %w", err)
		}
		f.RawZones = append(f.RawZones, z)
	case p.state == zoneInvalid:
		if p.zone == "" {
			return fmt.Errorf("continuation of malformed zone line")
		}
		return fmt.Errorf("continuation of malformed zone %s", p.zone)
	default:
		return fmt.Errorf("unexpected line")
	}
	return nil
}

// splitLine strips the comment from a line and splits the rest into fields.
// It returns nil if nothing is left.
func splitLine(line string) []string {
	if i := strings.Index(line, "#"); i != -1 {
		line = line[:i]
	}
	return strings.Fields(line)
}

type keyword struct {
	long string
	min  string
}

// Keywords may be abbreviated down to their first letter, as tzdata.zi does.
var (
	keywordRule = keyword{"rule", "r"}
	keywordZone = keyword{"zone", "z"}
	keywordLink = keyword{"link", "l"}
)

func isKeyword(s string, k keyword) bool {
	return isAbbrev(s, k.long, k.min)
}

// parseLinkLine parses a link line:
//
//	Link  TARGET           LINK-NAME
//	Link  Europe/Istanbul  Asia/Istanbul
func parseLinkLine(fields []string) (LinkLine, error) {
	if len(fields) != 3 {
		return LinkLine{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	if fields[1] == fields[2] {
		return LinkLine{}, fmt.Errorf("%q links to itself", fields[2])
	}
	return LinkLine{Target: fields[1], Name: fields[2]}, nil
}
