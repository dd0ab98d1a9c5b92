package filenotify

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// EventWatcher forwards fsnotify events until it is closed.
type EventWatcher struct {
	w      *fsnotify.Watcher
	events chan fsnotify.Event
	errors chan error

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func NewEventWatcher() (*EventWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &EventWatcher{
		w:      fw,
		events: make(chan fsnotify.Event),
		errors: make(chan error),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.forward()
	return w, nil
}

func (w *EventWatcher) Events() <-chan fsnotify.Event { return w.events }
func (w *EventWatcher) Errors() <-chan error          { return w.errors }
func (w *EventWatcher) Add(name string) error         { return w.w.Add(name) }
func (w *EventWatcher) Remove(name string) error      { return w.w.Remove(name) }

func (w *EventWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.w.Close()
		<-w.done
		close(w.events)
		close(w.errors)
	})
	return err
}

func (w *EventWatcher) forward() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			select {
			case w.events <- ev:
			case <-w.stop:
				return
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.stop:
				return
			}
		}
	}
}
