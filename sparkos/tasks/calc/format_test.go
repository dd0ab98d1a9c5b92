package calc

import (
	"math"
	"testing"
)

func TestFormatOperand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "0"},
		{in: "0", want: "0"},
		{in: "7", want: "7"},
		{in: "1234", want: "1,234"},
		{in: "1234567", want: "1,234,567"},
		{in: "999999999999999", want: "999,999,999,999,999"},
		{in: "1000000000000000", want: "1,000,000,000,000,000"},
		{in: "12345678901234567890", want: "12,345,678,901,234,567,000"},
		{in: "123456789012345678901234567890", want: "123,456,789,012,345,680,000,000,000,000"},
		{in: "-12345678901234567890.5", want: "-12,345,678,901,234,567,000.5"},
		{in: "12.", want: "12."},
		{in: "1234.5678", want: "1,234.5678"},
		{in: "1000.000", want: "1,000.000"},
		{in: ".5", want: ".5"},
		{in: ".", want: "."},
		{in: "0007", want: "7"},
		{in: "-3", want: "-3"},
		{in: "-1234.5", want: "-1,234.5"},
		{in: "Error", want: ""},
		{in: "Infinity", want: "∞"},
		{in: "-Infinity", want: "-∞"},
		{in: "NaN", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatOperand(tt.in); got != tt.want {
				t.Fatalf("FormatOperand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNumberText(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0"},
		{in: math.Copysign(0, -1), want: "0"},
		{in: 16, want: "16"},
		{in: -2.5, want: "-2.5"},
		{in: 0.1 + 0.2, want: "0.30000000000000004"},
		{in: 1e21, want: "1e+21"},
		{in: 1.5e-7, want: "1.5e-7"},
		{in: 123456789012, want: "123456789012"},
		{in: math.Inf(1), want: "Infinity"},
		{in: math.Inf(-1), want: "-Infinity"},
		{in: math.NaN(), want: "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := numberText(tt.in); got != tt.want {
				t.Fatalf("numberText(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSecondaryLine(t *testing.T) {
	if got := secondaryLine("", OpNone); got != "" {
		t.Fatalf("secondaryLine(none) = %q, want empty", got)
	}
	if got := secondaryLine("98765.4", OpDivide); got != "98,765.4 ÷" {
		t.Fatalf("secondaryLine() = %q, want %q", got, "98,765.4 ÷")
	}
}

func TestOperatorGlyphs(t *testing.T) {
	for _, op := range Operators {
		if got := OperatorForGlyph(op.Glyph()); got != op {
			t.Fatalf("OperatorForGlyph(%q) = %v, want %v", op.Glyph(), got, op)
		}
	}
	if got := OperatorForGlyph('%'); got != OpNone {
		t.Fatalf("OperatorForGlyph('%%') = %v, want none", got)
	}
	if OpNone.Glyph() != 0 {
		t.Fatalf("OpNone.Glyph() = %q, want 0", OpNone.Glyph())
	}
}
