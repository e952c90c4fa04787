// Package eventhandler implements the EventHandler: it owns the
// multiplexer and device-enumeration handles, dispatches decoded kernel
// events, and feeds the coalescing buffer (spec.md §4.4).
package eventhandler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/typetrace/backend/internal/buffer"
	"github.com/typetrace/backend/internal/inputdevice"
	"github.com/typetrace/backend/internal/logging"
	"github.com/typetrace/backend/internal/permission"
)

// ErrSeatAssignment wraps any failure from the multiplexer's AssignSeat
// call, letting callers distinguish it from the permission/accessibility
// stages via errors.Is without parsing error text.
var ErrSeatAssignment = errors.New("eventhandler: seat assignment failed")

// Multiplexer is the narrow slice of *inputdevice.Multiplexer the handler
// depends on, so tests can substitute a fake that never touches
// /dev/input.
type Multiplexer interface {
	AssignSeat(seat string) error
	OpenAll() ([]inputdevice.Device, []error)
	Dispatch(timeout time.Duration) ([]inputdevice.RawEvent, error)
	Close()
}

// FlushFunc persists a completed batch. It is installed by the controller
// and ultimately wraps Store.WriteBatch.
type FlushFunc func([]buffer.Event) error

// Clock abstracts date derivation for tests; defaults to time.Now.
type Clock func() time.Time

// EventHandler is the sole owner of the multiplexer, the device
// enumerator, and the coalescing buffer for the lifetime of the daemon.
type EventHandler struct {
	mux         Multiplexer
	enum        inputdevice.Enumerator
	buf         *buffer.CoalescingBuffer
	pollTimeout time.Duration
	keyNameMax  int
	now         Clock
	flush       FlushFunc
	log         *logging.Logger
}

// Config bundles the construction-time tunables.
type Config struct {
	Mux           Multiplexer
	Enum          inputdevice.Enumerator
	BufferSize    int
	BufferTimeout time.Duration
	PollTimeout   time.Duration
	KeyNameMax    int
	Now           Clock
	Logger        *logging.Logger
	// Stderr receives the permission remediation text on failure.
	// Defaults to os.Stderr when nil.
	Stderr io.Writer
	// CheckPermission defaults to permission.RequireInputGroup. Tests
	// inject a stub here so construction doesn't depend on the test
	// host's actual "input" group membership.
	CheckPermission func(io.Writer) error
}

// New performs the full construction contract in order: multiplexer init
// (supplied already constructed by the caller), device-enumeration init
// (supplied already constructed by the caller), seat assignment to
// "seat0", permission check, accessibility check, then initializes
// window_start. Any step failing propagates an error; no partially
// initialized handler is returned to the caller (spec.md §4.4).
func New(cfg Config) (*EventHandler, error) {
	if err := cfg.Mux.AssignSeat("seat0"); err != nil {
		return nil, fmt.Errorf("eventhandler: assign seat: %w: %w", ErrSeatAssignment, err)
	}

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	checkPermission := cfg.CheckPermission
	if checkPermission == nil {
		checkPermission = permission.RequireInputGroup
	}
	if err := checkPermission(stderr); err != nil {
		cfg.Mux.Close()
		return nil, fmt.Errorf("eventhandler: permission check: %w", err)
	}

	if err := permission.RequireAccessibleDevices(cfg.Enum); err != nil {
		cfg.Mux.Close()
		return nil, fmt.Errorf("eventhandler: accessibility check: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	h := &EventHandler{
		mux:         cfg.Mux,
		enum:        cfg.Enum,
		buf:         buffer.New(cfg.BufferSize, cfg.BufferTimeout, buffer.Clock(now)),
		pollTimeout: cfg.PollTimeout,
		keyNameMax:  cfg.KeyNameMax,
		now:         now,
		log:         cfg.Logger,
	}

	if _, errs := cfg.Mux.OpenAll(); len(errs) > 0 {
		for _, e := range errs {
			h.log.Debugf("eventhandler: device open failed during construction: %v", e)
		}
	}

	return h, nil
}

// SetFlushCallback installs f, replacing any previous callback.
func (h *EventHandler) SetFlushCallback(f FlushFunc) {
	h.flush = f
}

// Tick runs one iteration of the input loop: wait for readability up to
// PollTimeout, dispatch and decode pending events, push PRESSED keyboard
// events into the buffer (flushing as soon as a push makes the predicate
// hold, so pending never grows past BufferSize), then flush once more if
// the predicate holds. It never blocks longer than PollTimeout.
func (h *EventHandler) Tick() error {
	events, err := h.mux.Dispatch(h.pollTimeout)
	if err != nil {
		h.log.Debugf("eventhandler: dispatch error: %v", err)
	}

	var flushErr error
	for _, ev := range events {
		switch ev.Kind {
		case inputdevice.KindKeyboardKey:
			if ev.State != inputdevice.KeyPressed && ev.State != inputdevice.KeyRepeat {
				continue // releases are dropped; repeats are accepted as fresh presses
			}
			h.pushKeystroke(ev)
			if h.buf.ShouldFlush() {
				if ferr := h.Flush(); ferr != nil && flushErr == nil {
					flushErr = ferr
				}
			}
		case inputdevice.KindDeviceAdded:
			h.log.Infof("eventhandler: device added: %s", ev.DevicePath)
		case inputdevice.KindDeviceRemoved:
			h.log.Infof("eventhandler: device removed: %s", ev.DevicePath)
		default:
			// discarded silently
		}
	}

	if h.buf.ShouldFlush() {
		if ferr := h.Flush(); ferr != nil {
			return ferr
		}
	}
	return flushErr
}

func (h *EventHandler) pushKeystroke(ev inputdevice.RawEvent) {
	name := inputdevice.LookupKeyName(ev.Code, h.keyNameMax)
	date := h.now().Local().Format("2006-01-02")
	h.buf.Push(buffer.Event{ScanCode: ev.Code, KeyName: name, LocalDate: date})
	h.log.Debugf("eventhandler: buffered scan_code=%d key=%s date=%s (pending=%d)",
		ev.Code, name, date, h.buf.Len())
}

// Flush invokes the installed flush callback with the pending batch, then
// clears the buffer and resets window_start regardless of whether the
// callback errored: the policy is forward progress over retry (spec.md
// §4.4, §7). The error is logged and also returned to the caller.
func (h *EventHandler) Flush() error {
	if h.buf.Len() == 0 {
		return nil
	}

	pending := h.buf.TakeAll()

	if h.flush == nil {
		return nil
	}

	start := h.now()
	err := h.flush(pending)
	h.log.Debugf("eventhandler: flushed %d events in %s", len(pending), h.now().Sub(start))
	if err != nil {
		h.log.Errorf("eventhandler: flush callback failed: %v", err)
		return err
	}
	return nil
}

// Close releases the multiplexer handle. Call once, after the final
// forced flush, in reverse of construction order.
func (h *EventHandler) Close() {
	h.mux.Close()
}
