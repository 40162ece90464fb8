// Package archive copies the fetched export to a GCS bucket after a
// successful load, so the raw file outlives the scratch directory.
package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"

	"ftplake/internal/domain"
)

// prefix is the object-name prefix for archived exports.
const prefix = "archive/"

// GCSArchiver uploads scratch files to a fixed bucket. It implements
// domain.Archiver.
type GCSArchiver struct {
	client *storage.Client
	bucket string
	logger *slog.Logger
}

// NewGCSArchiver creates an archiver for the given bucket.
func NewGCSArchiver(client *storage.Client, bucket string, logger *slog.Logger) *GCSArchiver {
	return &GCSArchiver{client: client, bucket: bucket, logger: logger}
}

// Store uploads localPath to gs://{bucket}/archive/{objectName}.
func (a *GCSArchiver) Store(ctx context.Context, localPath, objectName string) error {
	f, err := os.Open(localPath) //nolint:gosec // path lives in the invocation scratch dir
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close() //nolint:errcheck

	obj := a.client.Bucket(a.bucket).Object(prefix + objectName)
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload gs://%s/%s%s: %w", a.bucket, prefix, objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gs://%s/%s%s: %w", a.bucket, prefix, objectName, err)
	}

	a.logger.Info("export archived", "bucket", a.bucket, "object", prefix+objectName)
	return nil
}

var _ domain.Archiver = (*GCSArchiver)(nil)
