// Package permission verifies the preconditions the daemon needs before it
// may open kernel input devices: membership in the "input" group and the
// presence of at least one accessible keyboard-capable device.
package permission

import (
	"errors"
	"fmt"
	"io"
	"os/user"

	"github.com/typetrace/backend/internal/inputdevice"
)

// ErrNoInputGroup is returned when the host has no "input" group at all.
var ErrNoInputGroup = errors.New("permission: system has no \"input\" group")

// ErrNotInGroup is returned when the current user is neither a member of
// the "input" group nor has it as their primary group.
var ErrNotInGroup = errors.New("permission: user is not a member of the \"input\" group")

// ErrNoDevices is returned when seat assignment succeeds but no
// keyboard-capable device is accessible.
var ErrNoDevices = errors.New("permission: no accessible keyboard devices")

// RequireInputGroup verifies the current process's effective user is a
// member of the "input" group, either directly or via their primary group.
// On failure it prints the two-paragraph remediation text to stderr before
// returning the error.
func RequireInputGroup(stderr io.Writer) error {
	current, err := user.Current()
	if err != nil {
		return fmt.Errorf("permission: resolve current user: %w", err)
	}

	group, err := user.LookupGroup("input")
	if err != nil {
		return ErrNoInputGroup
	}

	gids, err := current.GroupIds()
	if err != nil {
		return fmt.Errorf("permission: list group ids: %w", err)
	}

	for _, gid := range gids {
		if gid == group.Gid {
			return nil
		}
	}

	printRemediation(stderr, current.Username)
	return ErrNotInGroup
}

func printRemediation(w io.Writer, username string) {
	msg := fmt.Sprintf(
		"typetrace-backend: user %q is not a member of the \"input\" group and\n"+
			"cannot read keyboard devices under /dev/input. Add the user to the\n"+
			"group and re-login for the change to take effect:\n\n"+
			"    sudo usermod -a -G input %s\n\n"+
			"You must log out and log back in (or reboot) before the new group\n"+
			"membership takes effect; a fresh shell in the same login session is\n"+
			"not sufficient.\n",
		username, username,
	)
	_, _ = w.Write([]byte(msg))
}

// RequireAccessibleDevices drains the enumerator for at least one
// keyboard-capable device after seat assignment. It returns ErrNoDevices
// both when no devices appear and when devices appear but none advertise
// the keyboard capability.
func RequireAccessibleDevices(enum inputdevice.Enumerator) error {
	devices, err := enum.Enumerate()
	if err != nil {
		return fmt.Errorf("permission: enumerate devices: %w", err)
	}

	for _, d := range devices {
		if d.IsKeyboard {
			return nil
		}
	}

	return ErrNoDevices
}
