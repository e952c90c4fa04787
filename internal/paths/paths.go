// Package paths resolves the on-disk location of the aggregation store and
// ensures its ancestor directories exist, per the XDG base-directory
// convention described in spec.md §4.1.
package paths

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	appDirName = "typetrace"
	dbFileName = "TypeTrace.db"
)

// ErrNoHome is returned when neither XDG_DATA_HOME nor HOME is set.
var ErrNoHome = errors.New("paths: neither XDG_DATA_HOME nor HOME is set")

// ResolveStorePath returns ${XDG_DATA_HOME}/typetrace/TypeTrace.db when
// XDG_DATA_HOME is set and non-empty, otherwise
// ${HOME}/.local/share/typetrace/TypeTrace.db. It is pure in the
// environment: the same environment always yields the same path.
func ResolveStorePath() (string, error) {
	if root := os.Getenv("XDG_DATA_HOME"); root != "" {
		return filepath.Join(root, appDirName, dbFileName), nil
	}

	home := os.Getenv("HOME")
	if home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, ".local", "share", appDirName, dbFileName), nil
}

// EnsureParents creates every missing ancestor directory of path with
// owner-rwx permissions. Existing directories are tolerated.
func EnsureParents(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	return nil
}
