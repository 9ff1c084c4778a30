package utils

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{5, "5"},
		{-3, "-3"},
		{2.5, "2.5"},
		{0.1 + 0.2, "0.3"},
		{1.0 / 3, "0.3333333333"},
		{2.0 / 3, "0.6666666667"},
		{123456789, "123456789"},
		{1e21, "1000000000000000000000"},
		{1e-11, "0"},
		{-1e-11, "-0"},
		{math.Copysign(0, -1), "-0"},
		{math.Pi, "3.1415926536"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "∞"},
		{math.Inf(-1), "-∞"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.input); got != tt.expected {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestProgramName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "main"},
		{"prog.icl", "prog"},
		{"/a/b/fact.icl", "fact"},
		{"notes.txt", "notes.txt"},
	}
	for _, tt := range tests {
		if got := ProgramName(tt.input); got != tt.expected {
			t.Errorf("ProgramName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
