//go:build linux

package inputdevice

import (
	"time"

	"golang.org/x/sys/unix"
)

// waitReadable blocks until any of fds is readable or timeout elapses.
// This is the multiplexer's single suspension point (spec.md §5): every
// other operation in the handler's tick runs synchronously between calls
// to this function.
func waitReadable(fds []int, timeout time.Duration) ([]int, error) {
	pfds := make([]unix.PollFd, len(fds))
	for i, fd := range fds {
		pfds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}

	ms := int(timeout / time.Millisecond)
	n, err := unix.Poll(pfds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	ready := make([]int, 0, n)
	for _, pfd := range pfds {
		if pfd.Revents&unix.POLLIN != 0 {
			ready = append(ready, int(pfd.Fd))
		}
	}
	return ready, nil
}
