package proto

import "unicode/utf8"

// CalcDisplay is the rendered state of the calculator, as pushed to display subscribers.
type CalcDisplay struct {
	Previous string
	Current  string

	// Active is the highlighted operator glyph, or 0 when none is pending.
	Active rune
	Error  bool

	// Truncated reports that Current lost leading bytes to fit the message.
	Truncated bool
}

const (
	calcFlagError = 1 << iota
	calcFlagTruncated
)

const (
	calcHeaderBytes  = 6
	maxPreviousBytes = 48
)

// CalcDisplayPayload encodes a MsgCalcDisplay payload into at most max bytes.
//
// Layout:
//   - u8: flags (bit0 error, bit1 current truncated)
//   - u32: active operator rune, little-endian (0 = none)
//   - u8: len(previous)
//   - bytes: previous
//   - bytes: current (rest of payload)
//
// Previous is cut to 48 bytes. Current keeps its rightmost bytes when it does not fit.
func CalcDisplayPayload(d CalcDisplay, max int) []byte {
	prev := clipLeft(d.Previous, maxPreviousBytes)
	room := max - calcHeaderBytes - len(prev)
	if room < 0 {
		room = 0
	}
	cur := clipLeft(d.Current, room)

	var flags byte
	if d.Error {
		flags |= calcFlagError
	}
	if d.Truncated || len(cur) < len(d.Current) {
		flags |= calcFlagTruncated
	}

	buf := make([]byte, 0, calcHeaderBytes+len(prev)+len(cur))
	buf = append(buf, flags,
		byte(d.Active), byte(d.Active>>8), byte(d.Active>>16), byte(d.Active>>24),
		byte(len(prev)))
	buf = append(buf, prev...)
	buf = append(buf, cur...)
	return buf
}

// DecodeCalcDisplayPayload decodes a CalcDisplayPayload.
func DecodeCalcDisplayPayload(b []byte) (CalcDisplay, bool) {
	if len(b) < calcHeaderBytes {
		return CalcDisplay{}, false
	}
	n := int(b[5])
	if calcHeaderBytes+n > len(b) {
		return CalcDisplay{}, false
	}
	active := rune(uint32(b[1]) | uint32(b[2])<<8 | uint32(b[3])<<16 | uint32(b[4])<<24)
	return CalcDisplay{
		Previous:  string(b[calcHeaderBytes : calcHeaderBytes+n]),
		Current:   string(b[calcHeaderBytes+n:]),
		Active:    active,
		Error:     b[0]&calcFlagError != 0,
		Truncated: b[0]&calcFlagTruncated != 0,
	}, true
}

// clipLeft keeps the rightmost bytes of s that fit in n without splitting a rune.
func clipLeft(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}
