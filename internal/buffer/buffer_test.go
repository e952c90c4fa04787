package buffer

import (
	"testing"
	"time"
)

func TestPushNeverExceedsSize(t *testing.T) {
	b := New(3, time.Hour, nil)
	for i := 0; i < 10; i++ {
		b.Push(Event{ScanCode: uint16(i)})
		if b.Len() > 3 {
			t.Fatalf("pending exceeded size: %d", b.Len())
		}
		if b.ShouldFlush() {
			b.TakeAll()
		}
	}
}

func TestSizeTriggerFiresExactlyOnce(t *testing.T) {
	b := New(5, time.Hour, nil)
	flushes := 0
	for i := 0; i < 5; i++ {
		b.Push(Event{ScanCode: uint16(i)})
		if b.ShouldFlush() {
			flushes++
			taken := b.TakeAll()
			if len(taken) != 5 {
				t.Errorf("got %d events in flush, want 5", len(taken))
			}
		}
	}
	if flushes != 1 {
		t.Errorf("got %d flushes, want 1", flushes)
	}
}

func TestTimeTriggerFiresAfterTimeout(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	b := New(50, 100*time.Second, clock)

	b.Push(Event{ScanCode: 30})
	for i := 0; i < 48; i++ {
		b.Push(Event{ScanCode: uint16(i)})
	}
	if b.ShouldFlush() {
		t.Fatalf("should not flush before timeout with %d pending", b.Len())
	}

	now = now.Add(101 * time.Second)
	if !b.ShouldFlush() {
		t.Fatalf("expected time trigger to fire")
	}
	taken := b.TakeAll()
	if len(taken) != 49 {
		t.Errorf("got %d events, want 49", len(taken))
	}
}

func TestEmptyBufferNeverFlushesOnTimeAlone(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	b := New(50, time.Second, clock)

	now = now.Add(time.Hour)
	if b.ShouldFlush() {
		t.Errorf("empty buffer must not flush on time trigger")
	}
}

func TestWindowStartResetsOnFlush(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	b := New(2, time.Second, clock)

	b.Push(Event{ScanCode: 1})
	b.Push(Event{ScanCode: 2})
	// Flush late in the first window, so the next push would already be
	// past the timeout if windowStart were not reset.
	now = now.Add(900 * time.Millisecond)
	if !b.ShouldFlush() {
		t.Fatalf("expected size trigger")
	}
	b.TakeAll()

	now = now.Add(500 * time.Millisecond)
	b.Push(Event{ScanCode: 3})
	if b.ShouldFlush() {
		t.Errorf("window should have reset on flush")
	}
}
