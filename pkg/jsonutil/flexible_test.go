package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"hello"`, "hello"},
		{"integer", `42`, "42"},
		{"float", `0.85`, "0.85"},
		{"boolean", `true`, "true"},
		{"null", `null`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleStringValue(json.RawMessage(tt.raw)))
		})
	}
}

func TestFlexibleFloatValue(t *testing.T) {
	assert.Equal(t, 0.85, FlexibleFloatValue(json.RawMessage(`0.85`)))
	assert.Equal(t, 0.85, FlexibleFloatValue(json.RawMessage(`"0.85"`)))
	assert.Equal(t, 0.85, FlexibleFloatValue(json.RawMessage(`" 0.85 "`)))
	assert.Equal(t, 0.0, FlexibleFloatValue(json.RawMessage(`"high"`)))
	assert.Equal(t, 0.0, FlexibleFloatValue(json.RawMessage(`null`)))
}

func TestFlexibleBoolValue(t *testing.T) {
	assert.True(t, FlexibleBoolValue(json.RawMessage(`true`)))
	assert.True(t, FlexibleBoolValue(json.RawMessage(`"true"`)))
	assert.True(t, FlexibleBoolValue(json.RawMessage(`"True"`)))
	assert.True(t, FlexibleBoolValue(json.RawMessage(`1`)))
	assert.False(t, FlexibleBoolValue(json.RawMessage(`false`)))
	assert.False(t, FlexibleBoolValue(json.RawMessage(`"no"`)))
	assert.False(t, FlexibleBoolValue(json.RawMessage(`0`)))
	assert.False(t, FlexibleBoolValue(json.RawMessage(`null`)))
}
