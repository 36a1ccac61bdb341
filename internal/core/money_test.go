package core

import (
	"errors"
	"strconv"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"1.0", 1, true},
		{"1.23", 1.23, true},
		{"1,23", 1.23, true},
		{" 2.50 ", 2.5, true},
		{"-40", -40, true},
		{"0", 0, true},
		{"1e3", 1000, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1,234.5", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{100, "100.0"},
		{-40, "-40.0"},
		{0, "0.0"},
		{12.34, "12.34"},
		{0.1, "0.1"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.out {
			t.Fatalf("%v expected %q, got %q", tc.in, tc.out, got)
		}
	}
}

func TestFormatAmountRoundTrip(t *testing.T) {
	for _, f := range []float64{0.1 + 0.2, 1.0 / 3, 123456789.125, -0.0001} {
		back, err := strconv.ParseFloat(FormatAmount(f), 64)
		if err != nil || back != f {
			t.Fatalf("%v did not round-trip: %v (err=%v)", f, back, err)
		}
	}
}
