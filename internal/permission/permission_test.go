package permission

import (
	"testing"

	"github.com/typetrace/backend/internal/inputdevice"
)

type fakeEnumerator struct {
	devices []inputdevice.Device
	err     error
}

func (f fakeEnumerator) Enumerate() ([]inputdevice.Device, error) {
	return f.devices, f.err
}

func TestRequireAccessibleDevicesNoDevices(t *testing.T) {
	err := RequireAccessibleDevices(fakeEnumerator{})
	if err != ErrNoDevices {
		t.Errorf("got %v, want ErrNoDevices", err)
	}
}

func TestRequireAccessibleDevicesNoKeyboards(t *testing.T) {
	enum := fakeEnumerator{devices: []inputdevice.Device{
		{Path: "/dev/input/event0", Name: "mouse", IsKeyboard: false},
	}}
	if err := RequireAccessibleDevices(enum); err != ErrNoDevices {
		t.Errorf("got %v, want ErrNoDevices", err)
	}
}

func TestRequireAccessibleDevicesWithKeyboard(t *testing.T) {
	enum := fakeEnumerator{devices: []inputdevice.Device{
		{Path: "/dev/input/event0", Name: "mouse", IsKeyboard: false},
		{Path: "/dev/input/event1", Name: "kbd", IsKeyboard: true},
	}}
	if err := RequireAccessibleDevices(enum); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
