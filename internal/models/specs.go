// internal/models/specs.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SpecKind identifies which variant a SpecValue holds.
type SpecKind int

const (
	SpecNull SpecKind = iota
	SpecString
	SpecNumber
	SpecBool
	SpecList
)

// SpecValue is one dynamically-typed device attribute: a string, number,
// boolean, list of strings, or null.
type SpecValue struct {
	kind SpecKind
	str  string
	num  float64
	b    bool
	list []string
}

func StringValue(s string) SpecValue { return SpecValue{kind: SpecString, str: s} }

func NumberValue(n float64) SpecValue { return SpecValue{kind: SpecNumber, num: n} }

func BoolValue(b bool) SpecValue { return SpecValue{kind: SpecBool, b: b} }

func ListValue(items ...string) SpecValue {
	return SpecValue{kind: SpecList, list: append([]string(nil), items...)}
}

// Kind reports the variant held by v.
func (v SpecValue) Kind() SpecKind { return v.kind }

// UnmarshalJSON accepts any JSON value. Objects and unsupported shapes decode
// to null so a single odd attribute never rejects the whole payload.
func (v *SpecValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = SpecValue{}
		return nil
	}

	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode spec value: %w", err)
	}

	*v = specFromRaw(raw)
	return nil
}

func (v SpecValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case SpecString:
		return json.Marshal(v.str)
	case SpecNumber:
		return json.Marshal(v.num)
	case SpecBool:
		return json.Marshal(v.b)
	case SpecList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

func specFromRaw(raw interface{}) SpecValue {
	switch t := raw.(type) {
	case string:
		return StringValue(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return SpecValue{}
		}
		return NumberValue(f)
	case float64:
		return NumberValue(t)
	case bool:
		return BoolValue(t)
	case []interface{}:
		items := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			items = append(items, scalarText(item))
		}
		return SpecValue{kind: SpecList, list: items}
	default:
		return SpecValue{}
	}
}

func scalarText(item interface{}) string {
	switch t := item.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Specs is the schema-less attribute map of a device. Absent keys mean
// "unknown"; every getter is total and reports absence through its bool.
type Specs map[string]SpecValue

// GetString returns the trimmed text of a scalar attribute. Numbers and
// booleans are rendered as text; empty strings count as absent.
func (s Specs) GetString(key string) (string, bool) {
	v, ok := s[key]
	if !ok {
		return "", false
	}

	var text string
	switch v.kind {
	case SpecString:
		text = strings.TrimSpace(v.str)
	case SpecNumber:
		text = strconv.FormatFloat(v.num, 'f', -1, 64)
	case SpecBool:
		text = strconv.FormatBool(v.b)
	default:
		return "", false
	}

	if text == "" {
		return "", false
	}
	return text, true
}

// GetNumber returns a numeric attribute; numeric strings are parsed.
func (s Specs) GetNumber(key string) (float64, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}

	switch v.kind {
	case SpecNumber:
		return v.num, true
	case SpecString:
		t := strings.TrimSpace(v.str)
		if t == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// GetInt is GetNumber truncated toward zero.
func (s Specs) GetInt(key string) (int, bool) {
	f, ok := s.GetNumber(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// GetBool returns a boolean attribute; "true"/"false" strings are accepted.
func (s Specs) GetBool(key string) (bool, bool) {
	v, ok := s[key]
	if !ok {
		return false, false
	}

	switch v.kind {
	case SpecBool:
		return v.b, true
	case SpecString:
		switch strings.ToLower(strings.TrimSpace(v.str)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// GetStringList returns a list attribute. Scalars are not promoted to lists.
func (s Specs) GetStringList(key string) ([]string, bool) {
	v, ok := s[key]
	if !ok || v.kind != SpecList {
		return nil, false
	}
	return v.list, true
}

// ListContains reports whether the list attribute holds item exactly.
func (s Specs) ListContains(key, item string) bool {
	list, _ := s.GetStringList(key)
	for _, entry := range list {
		if entry == item {
			return true
		}
	}
	return false
}

// ListContainsFold is ListContains with case-insensitive matching.
func (s Specs) ListContainsFold(key, item string) bool {
	list, _ := s.GetStringList(key)
	for _, entry := range list {
		if strings.EqualFold(strings.TrimSpace(entry), item) {
			return true
		}
	}
	return false
}

// StringIs reports whether the string attribute equals want, ignoring case.
func (s Specs) StringIs(key, want string) bool {
	got, ok := s.GetString(key)
	return ok && strings.EqualFold(got, want)
}
