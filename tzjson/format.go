package tzjson

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an encoding of documents.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// DefaultIndent is the indentation of written documents.
const DefaultIndent = "    "

// ParseFormat returns the format named s, ignoring case. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Ext returns the file extension of f including the dot.
func (f Format) Ext() string {
	if f == YAML {
		return ".yaml"
	}
	return ".json"
}

// Encode writes v to w in format f, followed by a newline.
func (f Format) Encode(w io.Writer, v any, indent string) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", indent)
		// Day rules such as "0<=25" are kept readable.
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(max(len(indent), 2))
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", string(f))
}

// Decode reads a document in format f into v.
func (f Format) Decode(r io.Reader, v any) error {
	switch f {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		return dec.Decode(v)
	}
	return fmt.Errorf("unknown format %q", string(f))
}
