package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// FindingValue is a tagged union: either a text leaf or a nested structural
// value kept as compact JSON.
type FindingValue struct {
	Kind FindingKind
	Text string          // set for TextFinding
	Raw  json.RawMessage // set for StructuredFinding
}

// Finding is one named unit of analysis output.
type Finding struct {
	Category string
	Value    FindingValue
}

// Findings maps category names to values while keeping the order in which
// the backend sent them. A nil Findings means "no findings yet".
type Findings []Finding

// TextValue builds a text leaf.
func TextValue(s string) FindingValue {
	return FindingValue{Kind: TextFinding, Text: s}
}

// StructuredValue builds a structural value from any JSON document.
func StructuredValue(raw []byte) (FindingValue, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return FindingValue{}, fmt.Errorf("invalid structured finding: %w", err)
	}
	return FindingValue{Kind: StructuredFinding, Raw: buf.Bytes()}, nil
}

// Body returns the display body: the raw text for a leaf, or a two-space
// indented dump for a structural value.
func (v FindingValue) Body() string {
	switch v.Kind {
	case TextFinding:
		return v.Text
	case StructuredFinding:
		var buf bytes.Buffer
		if err := json.Indent(&buf, v.Raw, "", "  "); err != nil {
			return string(v.Raw)
		}
		return buf.String()
	default:
		return ""
	}
}

// MarshalJSON writes the value back in its wire form.
func (v FindingValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case TextFinding:
		return json.Marshal(v.Text)
	case StructuredFinding:
		if len(v.Raw) == 0 {
			return []byte("null"), nil
		}
		return v.Raw, nil
	default:
		return nil, fmt.Errorf("unknown finding kind %q", v.Kind)
	}
}

// UnmarshalJSON picks the variant from the first token of the document.
func (v *FindingValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	}
	sv, err := StructuredValue(trimmed)
	if err != nil {
		return err
	}
	*v = sv
	return nil
}

// Get returns the value stored for a category.
func (f Findings) Get(category string) (FindingValue, bool) {
	for _, finding := range f {
		if finding.Category == category {
			return finding.Value, true
		}
	}
	return FindingValue{}, false
}

// MarshalJSON writes the findings as a JSON object in stored order.
func (f Findings) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, finding := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(finding.Category)
		if err != nil {
			return nil, err
		}
		val, err := finding.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order. A repeated key keeps
// its first position and its last value.
func (f *Findings) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("findings must be a JSON object")
	}

	out := Findings{}
	index := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected findings key %v", keyTok)
		}
		var value FindingValue
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode finding %q: %w", key, err)
		}
		if i, seen := index[key]; seen {
			out[i].Value = value
			continue
		}
		index[key] = len(out)
		out = append(out, Finding{Category: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}
