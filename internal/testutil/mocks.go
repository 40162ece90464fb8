// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase.
package testutil

import (
	"context"
	"os"
	"path/filepath"

	"ftplake/internal/domain"
)

// === Retriever Mock ===

// MockRetriever implements domain.Retriever for testing.
type MockRetriever struct {
	FetchFn func(ctx context.Context, cfg domain.FTPConfig, ref domain.RemoteFileRef, destDir string) (string, error)
	Calls   []domain.RemoteFileRef // collected refs for assertions
}

// Fetch records the call and delegates to FetchFn. When FetchFn is nil it
// writes a small file into destDir, like the real retriever would.
func (m *MockRetriever) Fetch(ctx context.Context, cfg domain.FTPConfig, ref domain.RemoteFileRef, destDir string) (string, error) {
	m.Calls = append(m.Calls, ref)
	if m.FetchFn != nil {
		return m.FetchFn(ctx, cfg, ref, destDir)
	}
	path := filepath.Join(destDir, ref.Basename())
	if err := os.WriteFile(path, []byte("stub"), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

var _ domain.Retriever = (*MockRetriever)(nil)

// === Loader Mock ===

// MockLoader implements domain.Loader for testing.
type MockLoader struct {
	LoadFileFn func(ctx context.Context, target domain.LoadTarget, path string) (int64, error)
	LoadRowsFn func(ctx context.Context, target domain.LoadTarget, rows []domain.OrderRow) (int64, error)

	FilePaths []string           // paths passed to LoadFile
	Rows      []domain.OrderRow  // rows passed to LoadRows
	Targets   []domain.LoadTarget
}

// LoadFile records the call and delegates to LoadFileFn (default: 1 row).
func (m *MockLoader) LoadFile(ctx context.Context, target domain.LoadTarget, path string) (int64, error) {
	m.FilePaths = append(m.FilePaths, path)
	m.Targets = append(m.Targets, target)
	if m.LoadFileFn != nil {
		return m.LoadFileFn(ctx, target, path)
	}
	return 1, nil
}

// LoadRows records the call and delegates to LoadRowsFn (default: row count).
func (m *MockLoader) LoadRows(ctx context.Context, target domain.LoadTarget, rows []domain.OrderRow) (int64, error) {
	m.Rows = append(m.Rows, rows...)
	m.Targets = append(m.Targets, target)
	if m.LoadRowsFn != nil {
		return m.LoadRowsFn(ctx, target, rows)
	}
	return int64(len(rows)), nil
}

var _ domain.Loader = (*MockLoader)(nil)

// === Archiver Mock ===

// MockArchiver implements domain.Archiver for testing.
type MockArchiver struct {
	StoreFn func(ctx context.Context, localPath, objectName string) error
	Objects []string // collected object names
}

// Store records the call and delegates to StoreFn (default: success).
func (m *MockArchiver) Store(ctx context.Context, localPath, objectName string) error {
	m.Objects = append(m.Objects, objectName)
	if m.StoreFn != nil {
		return m.StoreFn(ctx, localPath, objectName)
	}
	return nil
}

var _ domain.Archiver = (*MockArchiver)(nil)

// === Run Repository Mock ===

// MockRunRepo implements domain.RunRepository for testing.
type MockRunRepo struct {
	InsertFn func(ctx context.Context, r *domain.RunRecord) error
	Records  []*domain.RunRecord // collected records for assertions
}

// Insert collects the record and delegates to InsertFn if set.
func (m *MockRunRepo) Insert(ctx context.Context, r *domain.RunRecord) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, r); err != nil {
			return err
		}
	}
	m.Records = append(m.Records, r)
	return nil
}

// List returns the collected records, newest-first ordering not guaranteed.
func (m *MockRunRepo) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	out := make([]domain.RunRecord, 0, len(m.Records))
	for _, r := range m.Records {
		out = append(out, *r)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LastRecord returns the last collected record, or nil if none.
func (m *MockRunRepo) LastRecord() *domain.RunRecord {
	if len(m.Records) == 0 {
		return nil
	}
	return m.Records[len(m.Records)-1]
}

var _ domain.RunRepository = (*MockRunRepo)(nil)
