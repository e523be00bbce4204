package parser

import (
	"math"
	"testing"
)

func TestSerialToISO(t *testing.T) {
	tests := []struct {
		serial   float64
		expected string
		ok       bool
	}{
		{0, "1899-12-30", true},
		{1, "1899-12-31", true},
		{2, "1900-01-01", true},
		{44927, "2023-01-01", true},
		{45000, "2023-03-15", true},
		{45000.75, "2023-03-15", true},
		{-1, "", false},
		{math.NaN(), "", false},
		{1e12, "", false},
	}

	for _, tt := range tests {
		result, ok := SerialToISO(tt.serial)
		if ok != tt.ok || result != tt.expected {
			t.Errorf("SerialToISO(%v) = %q, %v; expected %q, %v", tt.serial, result, ok, tt.expected, tt.ok)
		}
	}
}
