//go:build linux

package inputdevice

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// HotplugWatcher observes /dev/input for device add/remove and feeds
// DEVICE_ADDED/DEVICE_REMOVED notifications to a callback. Per spec.md
// §4.4, these are observed only for logging: the watcher also calls
// OpenAll transparently so a freshly plugged-in keyboard is picked up by
// the multiplexer without the controller's main loop doing anything
// special, mirroring the teacher's own fsnotify watch-loop goroutine
// shape in internal/collector/filechanges.go.
type HotplugWatcher struct {
	mux      *Multiplexer
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onEvent  func(RawEvent)
}

// NewHotplugWatcher creates a watcher bound to mux. onEvent is called for
// every DEVICE_ADDED/DEVICE_REMOVED notification; it may be nil.
func NewHotplugWatcher(mux *Multiplexer, onEvent func(RawEvent)) (*HotplugWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add("/dev/input"); err != nil {
		w.Close()
		return nil, err
	}

	return &HotplugWatcher{
		mux:      mux,
		watcher:  w,
		stopChan: make(chan struct{}),
		onEvent:  onEvent,
	}, nil
}

// Start begins watching in a background goroutine. It never touches the
// coalescing buffer or the store; it only reopens newly appeared devices
// and reports notifications through onEvent.
func (w *HotplugWatcher) Start() {
	go w.run()
}

func (w *HotplugWatcher) run() {
	for {
		select {
		case <-w.stopChan:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *HotplugWatcher) handle(ev fsnotify.Event) {
	// Give the kernel a moment to finish creating device nodes and
	// populating sysfs capability files before re-enumerating.
	time.Sleep(50 * time.Millisecond)

	switch {
	case ev.Op&fsnotify.Create != 0:
		opened, _ := w.mux.OpenAll()
		for _, d := range opened {
			if w.onEvent != nil {
				w.onEvent(RawEvent{Kind: KindDeviceAdded, DevicePath: d.Path})
			}
		}
	case ev.Op&fsnotify.Remove != 0:
		if w.onEvent != nil {
			w.onEvent(RawEvent{Kind: KindDeviceRemoved, DevicePath: ev.Name})
		}
	}
}

// Stop tears down the watcher goroutine and releases the fsnotify handle.
func (w *HotplugWatcher) Stop() {
	close(w.stopChan)
	w.watcher.Close()
}
