//go:build linux

package inputdevice

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl request numbers from linux/input.h, computed the same way the
// kernel header does via the _IOC macro family (direction<<30 | type<<8 |
// nr | size<<16, with _IOC_READ = 2 and type 'E').
const (
	iocRead  = 2
	iocTypeE = 'E'

	maxKeyCode = 0x2ff // KEY_MAX in linux/input-event-codes.h
	evMax      = 0x1f  // EV_MAX
)

func iocR(nr, size uintptr) uintptr {
	return (iocRead << 30) | (iocTypeE << 8) | nr | (size << 16)
}

var (
	eviocgname = iocR(0x06, 256)
	eviocgbit0 = iocR(0x20, (evMax+1)/8)
)

func eviocgbit(ev int) uintptr {
	return iocR(uintptr(0x20+ev), (maxKeyCode+1)/8)
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// readDeviceName fetches the kernel-reported device name via EVIOCGNAME.
func readDeviceName(fd uintptr) (string, error) {
	buf := make([]byte, 256)
	if err := ioctl(fd, eviocgname, unsafe.Pointer(&buf[0])); err != nil {
		return "", err
	}
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n]), nil
}

// supportsEventType reports whether the device advertises events of evType
// (e.g. EV_KEY) via EVIOCGBIT(0, EV_MAX).
func supportsEventType(fd uintptr, evType int) (bool, error) {
	bits := make([]byte, (evMax+1)/8+1)
	if err := ioctl(fd, eviocgbit0, unsafe.Pointer(&bits[0])); err != nil {
		return false, err
	}
	return bits[evType/8]&(1<<uint(evType%8)) != 0, nil
}

// isKeyboardCapable reports whether the device's EV_KEY capability bitmap
// looks like a full keyboard (many distinct key codes) rather than a
// single-button device such as a power switch.
func isKeyboardCapable(fd uintptr) (bool, error) {
	hasKey, err := supportsEventType(fd, evKey)
	if err != nil || !hasKey {
		return false, err
	}

	bits := make([]byte, (maxKeyCode+1)/8+1)
	if err := ioctl(fd, eviocgbit(evKey), unsafe.Pointer(&bits[0])); err != nil {
		return false, err
	}

	set := 0
	for _, b := range bits {
		for b != 0 {
			set += int(b & 1)
			b >>= 1
		}
	}
	// A handful of multimedia keys doesn't make a keyboard; the kernel's
	// own heuristic (used by udev/libinput) is "dozens of letter/number
	// keys", which we approximate with a low bound well under a real
	// keyboard's ~100+ codes but above single-purpose input devices.
	return set > 20, nil
}
