// SPDX-License-Identifier: MPL-2.0

// Package workspace manages the isolated temporary build directory that
// scopes one pipeline invocation. A workspace is acquired before the
// generation stage, owns every file the pipeline writes, and is removed
// recursively on every exit path so no partial state leaks into the
// caller's filesystem.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type (
	// Workspace is a uniquely-named, exclusively-owned temporary directory.
	Workspace struct {
		// ID uniquely identifies this workspace across concurrent invocations.
		ID string
		// Root is the absolute path of the workspace directory.
		Root string
	}

	// Manager allocates and tears down workspaces. The production
	// implementation is TempManager; pipeline tests substitute fakes to
	// observe acquisition ordering and failure injection.
	Manager interface {
		// Acquire returns a fresh, empty, uniquely-named directory.
		Acquire() (*Workspace, error)
		// Release recursively deletes the workspace and all contents.
		// It must be safe to call on every exit path.
		Release(ws *Workspace) error
	}

	// TempManager creates workspaces under the system temp directory.
	TempManager struct {
		// BaseDir overrides the parent directory (defaults to os.TempDir()).
		BaseDir string
	}
)

// NewTempManager creates a Manager backed by the system temp directory.
func NewTempManager() *TempManager {
	return &TempManager{}
}

// Path joins path elements onto the workspace root.
func (w *Workspace) Path(elems ...string) string {
	return filepath.Join(append([]string{w.Root}, elems...)...)
}

// Acquire creates a uniquely-named workspace directory. Collisions against
// concurrent invocations are structurally impossible: the name embeds a
// fresh UUID and creation fails if the directory somehow already exists.
func (m *TempManager) Acquire() (*Workspace, error) {
	base := m.BaseDir
	if base == "" {
		base = os.TempDir()
	}

	id := uuid.NewString()
	root := filepath.Join(base, "pypack-"+id)
	if err := os.Mkdir(root, 0o700); err != nil {
		return nil, fmt.Errorf("failed to allocate workspace: %w", err)
	}

	return &Workspace{ID: id, Root: root}, nil
}

// Release removes the workspace directory and everything under it.
// Releasing a nil or already-removed workspace is a no-op.
func (m *TempManager) Release(ws *Workspace) error {
	if ws == nil || ws.Root == "" {
		return nil
	}
	if err := os.RemoveAll(ws.Root); err != nil {
		return fmt.Errorf("failed to release workspace %s: %w", ws.ID, err)
	}
	return nil
}
