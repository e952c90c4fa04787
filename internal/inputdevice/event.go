// Package inputdevice implements the seat-scoped input-device multiplexer:
// device enumeration, the restricted open/close primitives handed to it,
// and the raw evdev decode. It is the concrete Linux binding for the
// "multiplexer" referenced throughout the specification.
package inputdevice

// EV_KEY is the Linux kernel event type for keyboard/button state changes.
// EV_SYN separates event packets and carries no key information.
const (
	evSyn = 0x00
	evKey = 0x01
)

// KeyState mirrors the kernel's input_event.value for EV_KEY events.
type KeyState int32

const (
	// KeyReleased is delivered when a key is lifted.
	KeyReleased KeyState = 0
	// KeyPressed is delivered on the initial press.
	KeyPressed KeyState = 1
	// KeyRepeat is delivered for auto-repeat while a key is held.
	KeyRepeat KeyState = 2
)

// EventKind classifies a RawEvent for the EventHandler's dispatch switch.
type EventKind int

const (
	// KindKeyboardKey is a decoded EV_KEY packet.
	KindKeyboardKey EventKind = iota
	// KindDeviceAdded is a hotplug notification for a new device.
	KindDeviceAdded
	// KindDeviceRemoved is a hotplug notification for a departed device.
	KindDeviceRemoved
	// KindOther is any event the handler discards silently.
	KindOther
)

// RawEvent is the multiplexer's output: a keyboard key event, or a
// device-lifecycle notification observed only for logging.
type RawEvent struct {
	Kind       EventKind
	Code       uint16
	State      KeyState
	DevicePath string
}

// rawInputEvent matches struct input_event from linux/input.h on 64-bit
// kernels: two timeval fields (16 bytes total), then type, code (2 bytes
// each) and a 4-byte value. Layout, not semantics, so it is decoded
// positionally rather than through an imported C header.
type rawInputEvent struct {
	secs  int64
	usecs int64
	Type  uint16
	Code  uint16
	Value int32
}

const rawInputEventSize = 24
