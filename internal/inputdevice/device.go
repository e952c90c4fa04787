package inputdevice

// Device describes one entry under /dev/input as seen by the enumerator,
// before it is opened by the multiplexer.
type Device struct {
	// Path is the device node, e.g. "/dev/input/event3".
	Path string
	// Name is the kernel-reported device name ("AT Translated Set 2 keyboard").
	Name string
	// IsKeyboard reports whether the device advertises the keyboard
	// capability (EV_KEY with a broad code range), per spec.md §4.2.
	IsKeyboard bool
}

// Enumerator lists the input devices currently present under the bound
// seat. RequireAccessibleDevices (internal/permission) and the
// multiplexer's own startup both depend on this narrow interface so tests
// can substitute a fake device set without touching /dev/input.
type Enumerator interface {
	Enumerate() ([]Device, error)
}
