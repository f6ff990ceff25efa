// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireCreatesFreshDirectory(t *testing.T) {
	m := &TempManager{BaseDir: t.TempDir()}

	ws, err := m.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	info, err := os.Stat(ws.Root)
	if err != nil {
		t.Fatalf("workspace root not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("workspace root is not a directory")
	}

	entries, err := os.ReadDir(ws.Root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("workspace not empty: %d entries", len(entries))
	}
}

func TestAcquireUniqueNames(t *testing.T) {
	m := &TempManager{BaseDir: t.TempDir()}

	a, err := m.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Acquire()
	if err != nil {
		t.Fatal(err)
	}

	if a.Root == b.Root {
		t.Errorf("two acquisitions share root %q", a.Root)
	}
	if a.ID == b.ID {
		t.Errorf("two acquisitions share ID %q", a.ID)
	}
}

func TestAcquireFailsOnMissingBase(t *testing.T) {
	m := &TempManager{BaseDir: filepath.Join(t.TempDir(), "does", "not", "exist")}

	if _, err := m.Acquire(); err == nil {
		t.Fatal("Acquire() = nil error with unusable base directory")
	}
}

func TestReleaseRemovesEverything(t *testing.T) {
	m := &TempManager{BaseDir: t.TempDir()}

	ws, err := m.Acquire()
	if err != nil {
		t.Fatal(err)
	}

	// Populate with nested content to verify recursive removal.
	sub := ws.Path("src", "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "mod.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Release(ws); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if _, err := os.Stat(ws.Root); !os.IsNotExist(err) {
		t.Errorf("workspace still exists after Release: %v", err)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	m := &TempManager{BaseDir: t.TempDir()}

	ws, err := m.Acquire()
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Release(ws); err != nil {
		t.Fatal(err)
	}
	if err := m.Release(ws); err != nil {
		t.Errorf("second Release() error: %v", err)
	}
	if err := m.Release(nil); err != nil {
		t.Errorf("Release(nil) error: %v", err)
	}
}

func TestWorkspacePath(t *testing.T) {
	ws := &Workspace{Root: "/work/abc"}
	got := ws.Path("src", "pkg", "mod.py")
	want := filepath.Join("/work/abc", "src", "pkg", "mod.py")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
