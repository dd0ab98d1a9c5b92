package hal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"sparkcalc/internal/filenotify"
)

// runeFeeder turns a byte stream into key events, holding back a split
// UTF-8 sequence until the rest arrives.
type runeFeeder struct {
	kbd   *hostKeyboard
	carry []byte
}

func (f *runeFeeder) feed(b []byte) {
	buf := append(f.carry, b...)
	for len(buf) > 0 {
		if !utf8.FullRune(buf) {
			break
		}
		r, n := utf8.DecodeRune(buf)
		buf = buf[n:]
		if ev, ok := keyEventFromRune(r); ok {
			f.kbd.inject(ev)
		}
	}
	f.carry = append(f.carry[:0], buf...)
}

// readKeys feeds r into the keyboard until EOF or ctx is done.
func readKeys(ctx context.Context, r io.Reader, kbd *hostKeyboard) error {
	br := bufio.NewReader(r)
	f := &runeFeeder{kbd: kbd}
	buf := make([]byte, 256)
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := br.Read(buf)
		f.feed(buf[:n])
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read keys: %w", err)
		}
	}
}

// tape replays a key file and then follows bytes appended to it.
type tape struct {
	path string
	off  int64
	feed runeFeeder
}

func (t *tape) drain() error {
	f, err := os.Open(t.path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if fi.Size() < t.off {
		// Truncated: start over as a new tape.
		t.off = 0
		t.feed.carry = t.feed.carry[:0]
	}
	if _, err := f.Seek(t.off, io.SeekStart); err != nil {
		return err
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	t.off += int64(len(b))
	t.feed.feed(b)
	return nil
}

func followTape(ctx context.Context, path string, kbd *hostKeyboard, log Logger) error {
	w := filenotify.New()
	defer w.Close()
	if err := w.Add(path); err != nil {
		return fmt.Errorf("keys tape: %w", err)
	}

	t := &tape{path: path, feed: runeFeeder{kbd: kbd}}
	if err := t.drain(); err != nil {
		return fmt.Errorf("keys tape: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if filenotify.Changed(ev) {
				if err := t.drain(); err != nil {
					return fmt.Errorf("keys tape: %w", err)
				}
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			log.WriteLine("keys tape: " + err.Error())
		}
	}
}

// startKeySources starts the stdin and tape readers named in cfg.
// inputDone is closed when KeysIn reaches EOF.
func (h *hostHAL) startKeySources(ctx context.Context, cfg HostConfig) {
	if cfg.KeysIn != nil {
		go func() {
			defer close(h.inputDone)
			if err := readKeys(ctx, cfg.KeysIn, h.kbd); err != nil {
				h.logger.WriteLine(err.Error())
			}
		}()
	}
	if cfg.TapePath != "" {
		go func() {
			if err := followTape(ctx, cfg.TapePath, h.kbd, h.logger); err != nil {
				h.logger.WriteLine(err.Error())
			}
		}()
	}
}
