//go:build linux

package inputdevice

import (
	"encoding/binary"
	"fmt"
	"syscall"
	"time"
)

// Multiplexer owns one open fd per keyboard-capable device and decodes
// their raw evdev byte streams into RawEvent. It is the concrete binding
// for the "seat-scoped input-device multiplexer" the specification names
// throughout; seat assignment here is nominal since the daemon only ever
// targets the single local seat ("seat0").
type Multiplexer struct {
	restricted *InputInterface
	enum       Enumerator
	seat       string
	devices    map[int]string // fd -> device path
}

// NewMultiplexer constructs a Multiplexer bound to the given restricted
// open/close callbacks and device enumerator. It does not open any device
// until OpenAll is called.
func NewMultiplexer(restricted *InputInterface, enum Enumerator) *Multiplexer {
	return &Multiplexer{
		restricted: restricted,
		enum:       enum,
		devices:    make(map[int]string),
	}
}

// AssignSeat binds the multiplexer to a logical seat. The daemon only
// supports "seat0"; any other value is rejected so a caller cannot
// silently cross into multi-seat territory the spec declares out of scope.
func (m *Multiplexer) AssignSeat(seat string) error {
	if seat != "seat0" {
		return fmt.Errorf("inputdevice: unsupported seat %q", seat)
	}
	m.seat = seat
	return nil
}

// OpenAll enumerates devices and opens every keyboard-capable one found.
// A device that fails to open is skipped rather than failing the whole
// call: hotplug and permission races are expected at this layer, and a
// single bad device must not block the others (mirrors the store's
// per-row failure tolerance in spec.md §4.6).
func (m *Multiplexer) OpenAll() ([]Device, []error) {
	devices, err := m.enum.Enumerate()
	if err != nil {
		return nil, []error{err}
	}

	var errs []error
	var opened []Device
	for _, d := range devices {
		if !d.IsKeyboard {
			continue
		}
		fd, oerr := m.restricted.OpenRestricted(d.Path, syscall.O_RDONLY|syscall.O_NONBLOCK)
		if oerr != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", d.Path, oerr))
			continue
		}
		m.devices[fd] = d.Path
		opened = append(opened, d)
	}
	return opened, errs
}

// Fds returns the currently open device descriptors.
func (m *Multiplexer) Fds() []int {
	fds := make([]int, 0, len(m.devices))
	for fd := range m.devices {
		fds = append(fds, fd)
	}
	return fds
}

// Dispatch waits up to timeout for readability on any open device, then
// performs one read of at most 16 input_event records per ready device
// and returns the keyboard events among them; records still queued beyond
// that are returned by a later call. It returns (nil, nil) on a plain
// timeout with nothing to report.
func (m *Multiplexer) Dispatch(timeout time.Duration) ([]RawEvent, error) {
	ready, err := waitReadable(m.Fds(), timeout)
	if err != nil {
		return nil, err
	}

	var events []RawEvent
	for _, fd := range ready {
		evs, err := m.readFd(fd)
		if err != nil {
			continue
		}
		events = append(events, evs...)
	}
	return events, nil
}

func (m *Multiplexer) readFd(fd int) ([]RawEvent, error) {
	buf := make([]byte, rawInputEventSize*16)
	n, err := syscall.Read(fd, buf)
	if err != nil {
		return nil, err
	}

	count := n / rawInputEventSize
	events := make([]RawEvent, 0, count)
	for i := 0; i < count; i++ {
		off := i * rawInputEventSize
		raw := decodeRawInputEvent(buf[off : off+rawInputEventSize])
		if raw.Type != evKey {
			continue // EV_SYN and other types discarded silently
		}
		events = append(events, RawEvent{
			Kind:       KindKeyboardKey,
			Code:       raw.Code,
			State:      KeyState(raw.Value),
			DevicePath: m.devices[fd],
		})
	}
	return events, nil
}

func decodeRawInputEvent(b []byte) rawInputEvent {
	return rawInputEvent{
		secs:  int64(binary.LittleEndian.Uint64(b[0:8])),
		usecs: int64(binary.LittleEndian.Uint64(b[8:16])),
		Type:  binary.LittleEndian.Uint16(b[16:18]),
		Code:  binary.LittleEndian.Uint16(b[18:20]),
		Value: int32(binary.LittleEndian.Uint32(b[20:24])),
	}
}

// Close releases every open device in reverse-of-no-particular-order
// (there is no dependency among sibling devices), matching the
// multiplexer's single-owner lifecycle.
func (m *Multiplexer) Close() {
	for fd := range m.devices {
		m.restricted.CloseRestricted(fd)
	}
	m.devices = make(map[int]string)
}
