package hal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func collectKeys(t *testing.T, kbd *hostKeyboard, n int) []KeyEvent {
	t.Helper()
	var out []KeyEvent
	deadline := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case ev := <-kbd.Events():
			out = append(out, ev)
		case <-deadline:
			t.Fatalf("got %d key events, want %d: %+v", len(out), n, out)
		}
	}
	return out
}

func TestRuneFeederHoldsSplitSequence(t *testing.T) {
	kbd := newHostKeyboard()
	f := &runeFeeder{kbd: kbd}
	b := []byte("8÷2")
	f.feed(b[:2])
	f.feed(b[2:])

	got := collectKeys(t, kbd, 3)
	if got[0].Rune != '8' || got[1].Rune != '÷' || got[2].Rune != '2' {
		t.Fatalf("events = %+v, want 8 ÷ 2", got)
	}
}

func TestReadKeysMapsControlBytes(t *testing.T) {
	kbd := newHostKeyboard()
	if err := readKeys(context.Background(), strings.NewReader("1\x7f\x1b\n\t"), kbd); err != nil {
		t.Fatalf("readKeys() = %v", err)
	}
	got := collectKeys(t, kbd, 4)
	want := []KeyEvent{
		{Press: true, Rune: '1'},
		{Code: KeyBackspace, Press: true},
		{Code: KeyEscape, Press: true},
		{Code: KeyEnter, Press: true},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	select {
	case ev := <-kbd.Events():
		t.Fatalf("unexpected event %+v for tab", ev)
	default:
	}
}

func TestTapeFollowsAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.tape")
	if err := os.WriteFile(path, []byte("12"), 0o644); err != nil {
		t.Fatal(err)
	}
	kbd := newHostKeyboard()
	tp := &tape{path: path, feed: runeFeeder{kbd: kbd}}
	if err := tp.drain(); err != nil {
		t.Fatalf("drain() = %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("+3")
	f.Close()
	if err := tp.drain(); err != nil {
		t.Fatalf("drain() = %v", err)
	}

	var s strings.Builder
	for _, ev := range collectKeys(t, kbd, 4) {
		s.WriteRune(ev.Rune)
	}
	if s.String() != "12+3" {
		t.Fatalf("keys = %q, want %q", s.String(), "12+3")
	}
}

func TestTapeRestartsAfterTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.tape")
	os.WriteFile(path, []byte("999"), 0o644)
	kbd := newHostKeyboard()
	tp := &tape{path: path, feed: runeFeeder{kbd: kbd}}
	tp.drain()
	collectKeys(t, kbd, 3)

	os.WriteFile(path, []byte("4"), 0o644)
	if err := tp.drain(); err != nil {
		t.Fatalf("drain() = %v", err)
	}
	if got := collectKeys(t, kbd, 1); got[0].Rune != '4' {
		t.Fatalf("key = %q, want '4'", got[0].Rune)
	}
}
