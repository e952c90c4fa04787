package inputdevice

import (
	"syscall"
)

// InputInterface supplies the two restricted callbacks the multiplexer
// needs: a privileged open and an unconditional close. Routing both
// through one struct, rather than free functions, lets a future caller
// substitute a privileged helper process without touching the event
// handler (spec.md §4.3).
type InputInterface struct{}

// NewInputInterface returns the default InputInterface backed directly by
// the kernel's open(2)/close(2).
func NewInputInterface() *InputInterface {
	return &InputInterface{}
}

// OpenRestricted opens path with the given flags, returning the file
// descriptor on success or the negated errno on failure, matching the
// multiplexer convention of signed fd-or-negative-errno. It calls
// syscall.Open directly rather than os.OpenFile: an *os.File finalizer
// would close the fd out from under the multiplexer the moment it was
// garbage collected, since ownership here is tracked by raw fd, not by
// an *os.File.
func (*InputInterface) OpenRestricted(path string, flags int) (int, error) {
	fd, err := syscall.Open(path, flags, 0)
	if err != nil {
		var errno syscall.Errno
		if ok := asErrno(err, &errno); ok {
			return -int(errno), err
		}
		return -1, err
	}
	return fd, nil
}

func asErrno(err error, target *syscall.Errno) bool {
	errno, ok := err.(syscall.Errno)
	if ok {
		*target = errno
	}
	return ok
}

// CloseRestricted closes fd, ignoring any error per spec.md §4.3.
func (*InputInterface) CloseRestricted(fd int) {
	_ = syscall.Close(fd)
}
