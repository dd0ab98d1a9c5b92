package proto

import "unicode/utf8"

// LogLinePayload is line as UTF-8 without a trailing newline, cut to at
// most max bytes on a rune boundary.
func LogLinePayload(line string, max int) []byte {
	for len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if len(line) > max {
		i := max
		for i > 0 && !utf8.RuneStart(line[i]) {
			i--
		}
		line = line[:i]
	}
	return []byte(line)
}
