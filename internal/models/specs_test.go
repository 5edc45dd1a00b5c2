// internal/models/specs_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSpecs(t *testing.T, raw string) Specs {
	t.Helper()
	var s Specs
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return s
}

func TestSpecValue_UnmarshalJSON(t *testing.T) {
	s := decodeSpecs(t, `{
		"os": "iOS",
		"batteryMah": 4500,
		"hasHdmi": true,
		"codecs": ["AAC", null, 3],
		"nested": {"a": 1},
		"missing": null
	}`)

	assert.Equal(t, SpecString, s["os"].Kind())
	assert.Equal(t, SpecNumber, s["batteryMah"].Kind())
	assert.Equal(t, SpecBool, s["hasHdmi"].Kind())
	assert.Equal(t, SpecList, s["codecs"].Kind())
	assert.Equal(t, SpecNull, s["nested"].Kind())
	assert.Equal(t, SpecNull, s["missing"].Kind())

	codecs, ok := s.GetStringList("codecs")
	require.True(t, ok)
	assert.Equal(t, []string{"AAC", "3"}, codecs)
}

func TestSpecs_GetString(t *testing.T) {
	s := Specs{
		"padded": StringValue("  macOS "),
		"blank":  StringValue("   "),
		"number": NumberValue(65),
		"flag":   BoolValue(false),
		"list":   ListValue("a"),
		"null":   {},
	}

	tests := []struct {
		key      string
		expected string
		ok       bool
	}{
		{"padded", "macOS", true},
		{"blank", "", false},
		{"number", "65", true},
		{"flag", "false", true},
		{"list", "", false},
		{"null", "", false},
		{"absent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := s.GetString(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSpecs_GetNumber(t *testing.T) {
	s := Specs{
		"number":  NumberValue(1.5),
		"numeric": StringValue(" 96 "),
		"text":    StringValue("fast"),
		"flag":    BoolValue(true),
	}

	v, ok := s.GetNumber("number")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	v, ok = s.GetNumber("numeric")
	assert.True(t, ok)
	assert.Equal(t, 96.0, v)

	_, ok = s.GetNumber("text")
	assert.False(t, ok)

	_, ok = s.GetNumber("flag")
	assert.False(t, ok)

	_, ok = s.GetNumber("absent")
	assert.False(t, ok)

	n, ok := Specs{"ram": NumberValue(15.9)}.GetInt("ram")
	assert.True(t, ok)
	assert.Equal(t, 15, n)
}

func TestSpecs_GetBool(t *testing.T) {
	s := Specs{
		"bool":  BoolValue(true),
		"upper": StringValue("FALSE"),
		"text":  StringValue("yes"),
		"num":   NumberValue(1),
	}

	v, ok := s.GetBool("bool")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = s.GetBool("upper")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = s.GetBool("text")
	assert.False(t, ok)

	_, ok = s.GetBool("num")
	assert.False(t, ok)
}

func TestSpecs_ListMatching(t *testing.T) {
	s := Specs{"codecs": ListValue("AAC", "aptX"), "os": StringValue("iOS")}

	assert.True(t, s.ListContains("codecs", "aptX"))
	assert.False(t, s.ListContains("codecs", "APTX"))
	assert.True(t, s.ListContainsFold("codecs", "APTX"))
	assert.False(t, s.ListContains("os", "iOS"), "scalars are not promoted to lists")
	assert.True(t, s.StringIs("os", "IOS"))

	var nilSpecs Specs
	assert.False(t, nilSpecs.ListContains("codecs", "AAC"))
	_, ok := nilSpecs.GetString("os")
	assert.False(t, ok)
}

func TestDevicePayload_Categories(t *testing.T) {
	p := &DevicePayload{Devices: []Device{
		{DeviceID: 1, Type: " phone "},
		{DeviceID: 2, Type: "SMARTWATCH"},
		{DeviceID: 3, Type: "SmartPhone"},
		{DeviceID: 4, Type: "toaster"},
	}}

	assert.Len(t, p.DevicesOf(CategoryPhone), 2)
	assert.Equal(t, int64(1), p.FirstOf(CategoryPhone).DeviceID)
	assert.Equal(t, int64(2), p.FirstOf(CategoryWatch).DeviceID)
	assert.Nil(t, p.FirstOf(CategoryLaptop))
	assert.Equal(t, CategoryUnknown, p.Devices[3].Category())
}
