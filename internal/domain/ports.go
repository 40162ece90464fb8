package domain

import "context"

// Retriever copies one remote file into destDir and returns the absolute
// local path. Every failure surfaces as a *RetrievalError; the remote
// connection is closed before the call returns on all paths.
type Retriever interface {
	Fetch(ctx context.Context, ftp FTPConfig, ref RemoteFileRef, destDir string) (string, error)
}

// Loader submits one warehouse load job and blocks until completion.
// On success it returns the total row count of the target table.
type Loader interface {
	LoadFile(ctx context.Context, target LoadTarget, path string) (int64, error)
	LoadRows(ctx context.Context, target LoadTarget, rows []OrderRow) (int64, error)
}

// Archiver stores a copy of the scratch file after a successful load.
type Archiver interface {
	Store(ctx context.Context, localPath, objectName string) error
}

// RunRepository records one row per invocation. Observability only;
// the pipeline writes it and never reads it back.
type RunRepository interface {
	Insert(ctx context.Context, r *RunRecord) error
	List(ctx context.Context, limit int) ([]RunRecord, error)
}
