package vibes

import (
	"math"
	"testing"
)

func TestToInteger(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want int64
		ok   bool
	}{
		{"int", NewInt(42), 42, true},
		{"integral float", NewFloat(3), 3, true},
		{"fractional float", NewFloat(3.5), 0, false},
		{"huge float", NewFloat(math.Pow(2, 63)), 0, false},
		{"min int float", NewFloat(-math.Pow(2, 63)), math.MinInt64, true},
		{"numeric string", NewString(" 12 "), 12, true},
		{"hex string", NewString("0x10"), 16, true},
		{"float string", NewString("2.0"), 2, true},
		{"leading zero string", NewString("010"), 10, true},
		{"non numeric string", NewString("ten"), 0, false},
		{"bool", NewBool(true), 0, false},
		{"nil", NewNil(), 0, false},
	}
	for _, tc := range tests {
		got, ok := ToInteger(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: ToInteger(%v) = %d, %v; want %d, %v", tc.name, tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStringToNumberKinds(t *testing.T) {
	if v, ok := StringToNumber("7"); !ok || v.Kind() != KindInt {
		t.Fatalf("expected int, got %v %v", v.Kind(), ok)
	}
	if v, ok := StringToNumber("7.25"); !ok || v.Kind() != KindFloat || v.Float() != 7.25 {
		t.Fatalf("expected float 7.25, got %v", v)
	}
	if v, ok := StringToNumber("1e400"); !ok || !math.IsInf(v.Float(), 1) {
		t.Fatalf("expected +inf, got %v %v", v, ok)
	}
	for _, bad := range []string{"", "1_000", "0b101", "abc", "--1"} {
		if _, ok := StringToNumber(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestNumberTextForms(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{NewInt(10), "10"},
		{NewInt(-3), "-3"},
		{NewFloat(2), "2.0"},
		{NewFloat(1.5), "1.5"},
		{NewFloat(1e100), "1e+100"},
		{NewFloat(math.Inf(-1)), "-inf"},
		{NewFloat(0.1), "0.1"},
	}
	for _, tc := range tests {
		got, ok := ToText(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("ToText(%#v) = %q, %v; want %q", tc.in, got, ok, tc.want)
		}
	}
	if _, ok := ToText(NewBool(false)); ok {
		t.Fatalf("booleans are not text-like")
	}
	if _, ok := ToText(NewTable(NewTableSized(0, 0))); ok {
		t.Fatalf("tables are not text-like")
	}
}
