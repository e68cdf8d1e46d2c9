package wml

import (
	"strconv"
	"strings"
)

// ParseOnOff interprets a toggle property value. An element without w:val
// is on; "0", "false", "off" and "none" turn it off.
func ParseOnOff(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

// ParseHalfPoints converts a w:sz value (half-points) to points.
func ParseHalfPoints(val string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n / 2, true
}

// FormatHalfPoints converts points to a w:sz value, rounded to the nearest
// half-point.
func FormatHalfPoints(pt float64) string {
	hp := int(pt*2 + 0.5)
	if hp < 1 {
		hp = 1
	}
	return strconv.Itoa(hp)
}

// ParseTwips parses a twentieths-of-a-point measure. Values such as "1440"
// and "1440.0" are accepted.
func ParseTwips(val string) (int, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(val); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
