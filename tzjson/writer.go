package tzjson

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/ngrash/tzjson/tzc"
)

// RulesDir is the directory below the target directory that holds rule documents.
const RulesDir = "rules"

// RulePath returns the path of the rule document of name, relative to the target directory.
func RulePath(name string, f Format) string {
	return filepath.Join(RulesDir, name+f.Ext())
}

// ZonePath returns the path of the zone document of name, relative to the target directory.
func ZonePath(name string, f Format) string {
	return filepath.FromSlash(name) + f.Ext()
}

// Writer stores documents below a target directory of a file system.
type Writer struct {
	fs      afero.Fs
	dir     string
	format  Format
	indent  string
	written func(path string)
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithFormat sets the document format. The default is JSON.
func WithFormat(f Format) WriterOption {
	return func(w *Writer) { w.format = f }
}

// WithIndent sets the indentation. The default is DefaultIndent.
func WithIndent(indent string) WriterOption {
	return func(w *Writer) { w.indent = indent }
}

// OnWrite registers fn to be called with the path of every written document.
func OnWrite(fn func(path string)) WriterOption {
	return func(w *Writer) { w.written = fn }
}

// NewWriter returns a Writer storing documents below dir on fs.
func NewWriter(fs afero.Fs, dir string, opts ...WriterOption) *Writer {
	w := &Writer{fs: fs, dir: dir, format: JSON, indent: DefaultIndent}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRules stores doc and returns the path it was written to.
func (w *Writer) WriteRules(doc RuleDocument) (string, error) {
	return w.write(RulePath(doc.Name, w.format), doc)
}

// WriteZone stores doc and returns the path it was written to.
func (w *Writer) WriteZone(doc ZoneDocument) (string, error) {
	return w.write(ZonePath(doc.Name, w.format), doc)
}

// WriteCompiled stores a document for every rule set and every zone of c, in
// lexical order of their names. It returns the number of documents written.
func (w *Writer) WriteCompiled(c *tzc.Compiled) (int, error) {
	var n int
	for _, name := range c.RuleNames() {
		if _, err := w.WriteRules(NewRuleDocument(name, c.Rules[name])); err != nil {
			return n, err
		}
		n++
	}
	for _, name := range c.ZoneNames() {
		if _, err := w.WriteZone(NewZoneDocument(name, c.Zones[name])); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (w *Writer) write(rel string, doc any) (string, error) {
	p := filepath.Join(w.dir, rel)
	var buf bytes.Buffer
	if err := w.format.Encode(&buf, doc, w.indent); err != nil {
		return "", fmt.Errorf("encode %s: %w", p, err)
	}
	if err := w.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	if err := afero.WriteFile(w.fs, p, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	if w.written != nil {
		w.written(p)
	}
	return p, nil
}

// ReadRules reads the rule document at path, guessing the format from the extension.
func ReadRules(fs afero.Fs, path string) (RuleDocument, error) {
	var doc RuleDocument
	err := read(fs, path, &doc)
	return doc, err
}

// ReadZone reads the zone document at path, guessing the format from the extension.
func ReadZone(fs afero.Fs, path string) (ZoneDocument, error) {
	var doc ZoneDocument
	err := read(fs, path, &doc)
	return doc, err
}

func read(fs afero.Fs, path string, v any) error {
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := format.Decode(f, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
