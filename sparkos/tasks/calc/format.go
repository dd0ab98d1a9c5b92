package calc

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupPrinter = message.NewPrinter(language.English)

// FormatOperand renders operand text for the display.
//
// The integer part is grouped by thousands and the fraction, including an empty one
// after a trailing point, is kept verbatim. An unparseable integer part renders as
// nothing and an empty operand renders as "0".
func FormatOperand(text string) string {
	if text == "" {
		return "0"
	}

	intPart, frac, hasFrac := strings.Cut(text, ".")

	var b strings.Builder
	if v, ok := parseDecimal(intPart); ok {
		b.WriteString(groupInteger(v))
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func groupInteger(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case v == 0 && math.Signbit(v):
		return "-0"
	}
	if math.Abs(v) < 1e15 {
		return groupPrinter.Sprintf("%d", int64(math.Round(v)))
	}
	// Past int64 precision print the shortest round-trip digits padded with
	// zeros, not the float's exact binary expansion.
	return groupDigits(strconv.FormatFloat(math.Round(v), 'f', -1, 64))
}

// groupDigits inserts thousands separators into an optionally signed run
// of digits.
func groupDigits(s string) string {
	sign, digits := "", s
	if strings.HasPrefix(s, "-") {
		sign, digits = "-", s[1:]
	}
	var b strings.Builder
	b.WriteString(sign)
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// secondaryLine renders "<previous> <glyph>" while an operator is pending.
func secondaryLine(prev string, op Operator) string {
	if op == OpNone {
		return ""
	}
	return FormatOperand(prev) + " " + string(op.Glyph())
}
