// Package buffer implements the coalescing buffer: a size/time-triggered
// batch queue that decouples the realtime input path from store I/O
// (spec.md §3, §4.5). It is deliberately a narrow interface — push,
// flush-predicate, take-all-and-clear — so a future implementation could
// substitute a lock-free MPMC queue for a multi-threaded capture variant
// without the EventHandler noticing (spec.md §9).
package buffer

import "time"

// Event is the transient KeystrokeEvent record the buffer accumulates.
type Event struct {
	ScanCode  uint16
	KeyName   string
	LocalDate string
}

// Clock abstracts time.Now so tests can control the passage of time
// without sleeping for real BUFFER_TIMEOUT seconds.
type Clock func() time.Time

// CoalescingBuffer holds pending events up to Size, flushing on whichever
// of the two triggers fires first.
type CoalescingBuffer struct {
	size        int
	timeout     time.Duration
	now         Clock
	pending     []Event
	windowStart time.Time
}

// New returns a CoalescingBuffer with capacity size and timeout window.
// now defaults to time.Now when nil.
func New(size int, timeout time.Duration, now Clock) *CoalescingBuffer {
	if now == nil {
		now = time.Now
	}
	return &CoalescingBuffer{
		size:        size,
		timeout:     timeout,
		now:         now,
		pending:     make([]Event, 0, size),
		windowStart: now(),
	}
}

// Push appends ev to the pending sequence. Push itself never flushes: the
// caller is responsible for checking ShouldFlush after each push and once
// per tick.
func (b *CoalescingBuffer) Push(ev Event) {
	b.pending = append(b.pending, ev)
}

// Len returns the number of pending events.
func (b *CoalescingBuffer) Len() int {
	return len(b.pending)
}

// ShouldFlush reports whether the size trigger or the time trigger holds:
// |pending| >= size, or |pending| > 0 and now - windowStart >= timeout.
func (b *CoalescingBuffer) ShouldFlush() bool {
	if len(b.pending) >= b.size {
		return true
	}
	if len(b.pending) > 0 && b.now().Sub(b.windowStart) >= b.timeout {
		return true
	}
	return false
}

// TakeAll returns the pending events and clears the buffer, resetting
// windowStart. Called regardless of which trigger fired.
func (b *CoalescingBuffer) TakeAll() []Event {
	taken := b.pending
	b.pending = make([]Event, 0, b.size)
	b.windowStart = b.now()
	return taken
}
