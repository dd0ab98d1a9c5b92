// Package filenotify reports writes to a watched file. It prefers fsnotify and
// falls back to polling where the platform has no event backend (network
// mounts, some containers).
package filenotify

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is used by New when fsnotify is unavailable.
const DefaultPollInterval = 100 * time.Millisecond

// FileWatcher delivers change events for the files it was given.
type FileWatcher interface {
	Events() <-chan fsnotify.Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}

// New returns an fsnotify watcher, or a poller when that cannot be created.
func New() FileWatcher {
	w, err := NewEventWatcher()
	if err != nil {
		return NewPollingWatcher(DefaultPollInterval)
	}
	return w
}

// Changed reports whether ev may have changed the file's contents.
func Changed(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
