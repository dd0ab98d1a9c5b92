package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// operand holds either typed text or a computed number.
//
// Computed results stay numeric until the next edit so chained operations do not
// round-trip through text.
type operand struct {
	text     string
	num      float64
	computed bool
}

func textOperand(s string) operand { return operand{text: s} }

func numberOperand(v float64) operand { return operand{num: v, computed: true} }

func (o operand) empty() bool { return !o.computed && o.text == "" }

func (o operand) String() string {
	if o.computed {
		return numberText(o.num)
	}
	return o.text
}

// parse reads the operand as a decimal number. NaN does not count as a number.
func (o operand) parse() (float64, bool) {
	if o.computed {
		return o.num, !math.IsNaN(o.num)
	}
	return parseDecimal(o.text)
}

func (o operand) withoutLast() operand {
	s := o.String()
	if s == "" {
		return o
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return textOperand(s[:len(s)-size])
}

func (o operand) hasPoint() bool { return strings.ContainsRune(o.String(), '.') }

func parseDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// numberText renders v the way a scripting runtime's number-to-string does: the
// shortest round-trip decimal, switching to exponent form below 1e-6 and from 1e21.
func numberText(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + exp[:1] + digits
}
