package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveStorePathPrefersXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdgdata")
	t.Setenv("HOME", "/tmp/home")

	got, err := ResolveStorePath()
	if err != nil {
		t.Fatalf("ResolveStorePath: %v", err)
	}
	want := filepath.Join("/tmp/xdgdata", "typetrace", "TypeTrace.db")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveStorePathFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/tmp/home")

	got, err := ResolveStorePath()
	if err != nil {
		t.Fatalf("ResolveStorePath: %v", err)
	}
	want := filepath.Join("/tmp/home", ".local", "share", "typetrace", "TypeTrace.db")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveStorePathNoHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "")

	if _, err := ResolveStorePath(); err != ErrNoHome {
		t.Errorf("got %v, want ErrNoHome", err)
	}
}

func TestResolveStorePathIsPure(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdgdata")
	t.Setenv("HOME", "/tmp/home")

	a, err := ResolveStorePath()
	if err != nil {
		t.Fatalf("ResolveStorePath: %v", err)
	}
	b, err := ResolveStorePath()
	if err != nil {
		t.Fatalf("ResolveStorePath: %v", err)
	}
	if a != b {
		t.Errorf("not pure: %q != %q", a, b)
	}
}

func TestEnsureParentsCreatesMissingDirs(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b", "c", "TypeTrace.db")

	if err := EnsureParents(target); err != nil {
		t.Fatalf("EnsureParents: %v", err)
	}

	info, err := os.Stat(filepath.Dir(target))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("expected directory")
	}
}

func TestEnsureParentsToleratesExisting(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "TypeTrace.db")

	if err := EnsureParents(target); err != nil {
		t.Fatalf("EnsureParents first call: %v", err)
	}
	if err := EnsureParents(target); err != nil {
		t.Fatalf("EnsureParents second call: %v", err)
	}
}
