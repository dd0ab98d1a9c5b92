package calc

import "unicode/utf8"

type keyKind uint8

const (
	keyNone keyKind = iota
	keyRune
	keyEnter
	keyBackspace
	keyEsc
	keyDelete
)

type key struct {
	kind keyKind
	r    rune
}

// nextKey decodes one key from VT100 input. ok is false when b holds an
// incomplete sequence that needs more bytes.
func nextKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) == 0 {
		return 0, key{}, false
	}

	switch b[0] {
	case 0x1b:
		return parseEscapeKey(b)
	case '\r', '\n':
		return 1, key{kind: keyEnter}, true
	case 0x7f, 0x08:
		return 1, key{kind: keyBackspace}, true
	}
	if b[0] < 0x20 {
		return 1, key{}, true
	}
	if !utf8.FullRune(b) {
		return 0, key{}, false
	}
	r, sz := utf8.DecodeRune(b)
	if r == utf8.RuneError && sz == 1 {
		return 1, key{}, true
	}
	return sz, key{kind: keyRune, r: r}, true
}

func parseEscapeKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) < 2 || b[1] != '[' {
		return 1, key{kind: keyEsc}, true
	}
	if len(b) < 3 {
		return 0, key{}, false
	}
	switch {
	case b[2] >= 'A' && b[2] <= 'Z':
		// Cursor keys mean nothing here.
		return 3, key{}, true
	case b[2] == '3':
		if len(b) < 4 {
			return 0, key{}, false
		}
		if b[3] == '~' {
			return 4, key{kind: keyDelete}, true
		}
	case b[2] >= '0' && b[2] <= '9':
		// Skip other "ESC [ n ~" sequences.
		for i := 2; i < len(b) && i < 8; i++ {
			if b[i] == '~' {
				return i + 1, key{}, true
			}
			if b[i] < '0' || b[i] > '9' {
				break
			}
		}
		if len(b) < 8 && b[len(b)-1] >= '0' && b[len(b)-1] <= '9' {
			return 0, key{}, false
		}
	}
	return 1, key{kind: keyEsc}, true
}

type action uint8

const (
	actNone action = iota
	actSymbol
	actOperator
	actCompute
	actClear
	actDelete
)

// event is one calculator input, from a key or a button.
type event struct {
	act action
	r   rune
	op  Operator
}

func (e event) String() string {
	switch e.act {
	case actSymbol:
		return string(e.r)
	case actOperator:
		return string(e.op.Glyph())
	case actCompute:
		return "="
	case actClear:
		return "AC"
	case actDelete:
		return "DEL"
	default:
		return ""
	}
}

func eventForKey(k key) event {
	switch k.kind {
	case keyEnter:
		return event{act: actCompute}
	case keyEsc:
		return event{act: actClear}
	case keyBackspace, keyDelete:
		return event{act: actDelete}
	case keyRune:
		return eventForRune(k.r)
	default:
		return event{}
	}
}

func eventForRune(r rune) event {
	switch {
	case isEntrySymbol(r):
		return event{act: actSymbol, r: r}
	case r == '=':
		return event{act: actCompute}
	case r == '*' || r == 'x' || r == 'X':
		return event{act: actOperator, op: OpMultiply}
	case r == '/':
		return event{act: actOperator, op: OpDivide}
	}
	if op := OperatorForGlyph(r); op != OpNone {
		return event{act: actOperator, op: op}
	}
	return event{}
}

// apply feeds e into s.
func (e event) apply(s *State) {
	switch e.act {
	case actSymbol:
		s.Append(e.r)
	case actOperator:
		s.ChooseOperator(e.op)
	case actCompute:
		s.Compute()
	case actClear:
		s.Clear()
	case actDelete:
		s.DeleteLast()
	}
}
