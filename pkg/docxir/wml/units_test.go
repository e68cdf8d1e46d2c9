package wml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOnOff(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"Off", false},
		{"none", false},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOnOff(tt.val))
		})
	}
}

func TestHalfPoints(t *testing.T) {
	pt, ok := ParseHalfPoints("21")
	assert.True(t, ok)
	assert.Equal(t, 10.5, pt)

	_, ok = ParseHalfPoints("abc")
	assert.False(t, ok)
	_, ok = ParseHalfPoints("0")
	assert.False(t, ok)

	assert.Equal(t, "24", FormatHalfPoints(12))
	assert.Equal(t, "21", FormatHalfPoints(10.5))
	assert.Equal(t, "21", FormatHalfPoints(10.4))
	assert.Equal(t, "1", FormatHalfPoints(0))
}

func TestParseTwips(t *testing.T) {
	tests := []struct {
		val  string
		want int
		ok   bool
	}{
		{"1440", 1440, true},
		{" 720 ", 720, true},
		{"1440.0", 1440, true},
		{"-200", -200, true},
		{"", 0, false},
		{"1in", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			got, ok := ParseTwips(tt.val)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
