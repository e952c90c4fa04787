// Package config holds the explicit configuration record threaded through
// every constructor, replacing the debug flag and db path globals the
// original C/C++ source kept at file scope.
package config

import "time"

// Defaults mirror the normative values from the specification.
const (
	DefaultBufferSize    = 50
	DefaultBufferTimeout = 100 * time.Second
	DefaultPollTimeout   = 100 * time.Millisecond
	DefaultKeyNameMax    = 32
	DefaultMaxPath       = 4096
)

// Config is constructed once in main and passed by value or pointer to
// every leaf component. Nothing in this package reads the environment
// directly except StorePath's caller (internal/paths).
type Config struct {
	// Debug raises the logger to debug level when true.
	Debug bool

	// StorePath is the resolved absolute path to the SQLite database file.
	StorePath string

	// BufferSize is the coalescing buffer's size trigger (events).
	BufferSize int

	// BufferTimeout is the coalescing buffer's time trigger.
	BufferTimeout time.Duration

	// PollTimeout bounds the multiplexer's single suspension point.
	PollTimeout time.Duration

	// KeyNameMax truncates symbolic key names longer than this bound.
	KeyNameMax int
}

// New returns a Config populated with the normative defaults. Callers
// override StorePath and Debug after resolution/parsing.
func New() Config {
	return Config{
		BufferSize:    DefaultBufferSize,
		BufferTimeout: DefaultBufferTimeout,
		PollTimeout:   DefaultPollTimeout,
		KeyNameMax:    DefaultKeyNameMax,
	}
}
