package filenotify

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var errNotWatched = errors.New("filenotify: not watched")

type stamp struct {
	mod  time.Time
	size int64
}

// PollingWatcher compares size and modification time on every interval.
type PollingWatcher struct {
	interval time.Duration

	mu    sync.Mutex
	files map[string]stamp

	events chan fsnotify.Event
	errors chan error

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func NewPollingWatcher(interval time.Duration) *PollingWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	w := &PollingWatcher{
		interval: interval,
		files:    make(map[string]stamp),
		events:   make(chan fsnotify.Event),
		errors:   make(chan error),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.poll()
	return w
}

func (w *PollingWatcher) Events() <-chan fsnotify.Event { return w.events }
func (w *PollingWatcher) Errors() <-chan error          { return w.errors }

func (w *PollingWatcher) Add(name string) error {
	fi, err := os.Stat(name)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[name] = stamp{mod: fi.ModTime(), size: fi.Size()}
	return nil
}

func (w *PollingWatcher) Remove(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[name]; !ok {
		return errNotWatched
	}
	delete(w.files, name)
	return nil
}

func (w *PollingWatcher) Close() error {
	w.once.Do(func() {
		close(w.stop)
		<-w.done
		close(w.events)
		close(w.errors)
	})
	return nil
}

func (w *PollingWatcher) poll() {
	defer close(w.done)
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-t.C:
			for _, ev := range w.check() {
				select {
				case w.events <- ev:
				case <-w.stop:
					return
				}
			}
		}
	}
}

// check collects events under the lock and sends them after releasing it.
func (w *PollingWatcher) check() []fsnotify.Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []fsnotify.Event
	for name, old := range w.files {
		fi, err := os.Stat(name)
		if os.IsNotExist(err) {
			delete(w.files, name)
			out = append(out, fsnotify.Event{Name: name, Op: fsnotify.Remove})
			continue
		}
		if err != nil {
			continue
		}
		cur := stamp{mod: fi.ModTime(), size: fi.Size()}
		if cur != old {
			w.files[name] = cur
			out = append(out, fsnotify.Event{Name: name, Op: fsnotify.Write})
		}
	}
	return out
}
