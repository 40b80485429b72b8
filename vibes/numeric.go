package vibes

import (
	"math"
	"strconv"
	"strings"
)

// floatToInteger converts f when it holds an exact integer inside the int64
// range. 2^63 is excluded because it does not fit.
func floatToInteger(f float64) (int64, bool) {
	if math.Floor(f) != f {
		return 0, false
	}
	if f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// ToInteger coerces v to an integer: ints as-is, floats with an exact
// integral value, numeric strings by the same rules.
func ToInteger(v Value) (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.Int(), true
	case KindFloat:
		return floatToInteger(v.Float())
	case KindString:
		n, ok := StringToNumber(v.data.(string))
		if !ok {
			return 0, false
		}
		return ToInteger(n)
	default:
		return 0, false
	}
}

// ToNumber coerces v to a number value, converting numeric strings.
func ToNumber(v Value) (Value, bool) {
	switch v.kind {
	case KindInt, KindFloat:
		return v, true
	case KindString:
		return StringToNumber(v.data.(string))
	default:
		return NewNil(), false
	}
}

// StringToNumber parses decimal or hexadecimal integers and decimal floats,
// ignoring surrounding whitespace.
func StringToNumber(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NewNil(), false
	}
	base := 10
	if hasHexPrefix(s) {
		base = 0
	}
	if i, err := strconv.ParseInt(s, base, 64); err == nil && !strings.Contains(s, "_") {
		return NewInt(i), true
	}
	if !isDecimalLiteral(s) {
		return NewNil(), false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return NewFloat(f), true
		}
		return NewNil(), false
	}
	return NewFloat(f), true
}

func hasHexPrefix(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isDecimalLiteral(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == 'e', r == 'E', r == '+', r == '-':
		default:
			return false
		}
	}
	return true
}

// ToText returns the text form of strings and numbers. Other kinds are not
// text-like and report false.
func ToText(v Value) (string, bool) {
	switch v.kind {
	case KindString, KindInt, KindFloat:
		return v.String(), true
	default:
		return "", false
	}
}
