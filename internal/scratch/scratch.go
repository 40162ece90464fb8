// Package scratch manages per-invocation scratch directories.
//
// Each invocation owns a private directory under the configured base, so
// concurrent invocations fetching the same dated filename never race on a
// shared basename.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace is the scratch directory of a single invocation.
type Workspace struct {
	dir string
}

// New creates a fresh scratch directory under base.
func New(base string) (*Workspace, error) {
	dir, err := os.MkdirTemp(base, "ftplake-run-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the absolute path of the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// FilePath returns the path a file with the given basename takes inside the
// workspace. Path separators are stripped; only the final segment is used.
func (w *Workspace) FilePath(basename string) string {
	basename = filepath.Base(strings.ReplaceAll(basename, "\\", "/"))
	return filepath.Join(w.dir, basename)
}

// Cleanup removes the workspace and everything in it. Safe to call more
// than once.
func (w *Workspace) Cleanup() error {
	if w.dir == "" {
		return nil
	}
	err := os.RemoveAll(w.dir)
	w.dir = ""
	return err
}
