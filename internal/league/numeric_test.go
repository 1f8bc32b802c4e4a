package league

import "testing"

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{"22.5", Options{}, 22.5, true},
		{"22.5%", Options{}, 22.5, true},
		{".823", Options{}, 0.823, true},
		{"1.024,5", Options{}, 1024.5, true},
		{"1,024.5", Options{}, 1024.5, true},
		{"81,9", Options{}, 81.9, true},
		{"1 024", Options{DecimalSeparator: '.', ThousandsSeparator: ' '}, 1024, true},
		{"", Options{}, 0, false},
		{"n/a", Options{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumeric(tt.in, tt.opt)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseNumeric(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
