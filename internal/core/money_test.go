package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmountCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 500 ", 50000, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmountCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseIncomeCentsAllowsSignAndZero(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"95400", 9540000, true},
		{"0", 0, true},
		{"-500", -50000, true},
		{"-0.5", -50, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseIncomeCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{50000, "500"},
		{50050, "500.5"},
		{50025, "500.25"},
		{-50, "-0.5"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("cents=%d expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 50000, -50050} {
		data, err := json.Marshal(Money{Cents: cents})
		if err != nil {
			t.Fatalf("marshal %d: %v", cents, err)
		}
		var back Money
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back.Cents != cents {
			t.Fatalf("round trip %d -> %s -> %d", cents, data, back.Cents)
		}
	}
}

func TestMoneyUnmarshalPlainNumbers(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"500", 50000},
		{"500.25", 50025},
		{"-3", -300},
		{`"42.5"`, 4250}, // quoted decimals appear in older snapshots
	}
	for _, tc := range cases {
		var m Money
		if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if m.Cents != tc.cents {
			t.Fatalf("%s expected %d cents, got %d", tc.in, tc.cents, m.Cents)
		}
	}
}
