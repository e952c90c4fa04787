//go:build linux

package inputdevice

import (
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

// LinuxEnumerator lists /dev/input/event* device nodes and probes each
// one's EV_KEY capability bitmap to decide whether it is keyboard-capable,
// the way udev/libinput classify seats' devices.
type LinuxEnumerator struct {
	// Glob overrides the device glob for tests; defaults to
	// "/dev/input/event*" when empty.
	Glob string

	// Restricted supplies the open/close primitives so probing honors the
	// same restricted-open contract the multiplexer itself uses.
	Restricted *InputInterface
}

// NewLinuxEnumerator returns an enumerator bound to the real /dev/input
// tree and the given restricted-open callbacks.
func NewLinuxEnumerator(restricted *InputInterface) *LinuxEnumerator {
	return &LinuxEnumerator{Restricted: restricted}
}

func (e *LinuxEnumerator) glob() string {
	if e.Glob != "" {
		return e.Glob
	}
	return "/dev/input/event*"
}

// Enumerate implements Enumerator.
func (e *LinuxEnumerator) Enumerate() ([]Device, error) {
	paths, err := filepath.Glob(e.glob())
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	devices := make([]Device, 0, len(paths))
	for _, path := range paths {
		dev, ok := e.probe(path)
		if ok {
			devices = append(devices, dev)
		}
	}
	return devices, nil
}

func (e *LinuxEnumerator) probe(path string) (Device, bool) {
	fd, errno := e.Restricted.OpenRestricted(path, os.O_RDONLY|syscall.O_NONBLOCK)
	if errno != nil {
		return Device{}, false
	}
	defer e.Restricted.CloseRestricted(fd)

	name, err := readDeviceName(uintptr(fd))
	if err != nil {
		name = "UNKNOWN"
	}

	keyboard, err := isKeyboardCapable(uintptr(fd))
	if err != nil {
		keyboard = false
	}

	return Device{Path: path, Name: name, IsKeyboard: keyboard}, true
}
