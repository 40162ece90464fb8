// Package fetch retrieves the daily export file from the FTP endpoint.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"

	"ftplake/internal/domain"
)

const defaultPort = 21

// FTPRetriever downloads files over plain FTP. It implements domain.Retriever.
type FTPRetriever struct {
	dialTimeout time.Duration
	logger      *slog.Logger
}

// NewFTPRetriever creates a retriever with the given dial timeout
// (0 means 30s).
func NewFTPRetriever(dialTimeout time.Duration, logger *slog.Logger) *FTPRetriever {
	if dialTimeout == 0 {
		dialTimeout = 30 * time.Second
	}
	return &FTPRetriever{dialTimeout: dialTimeout, logger: logger}
}

// Fetch logs in, downloads ref as binary into destDir under its basename, and
// returns the absolute local path. The connection is closed on every exit
// path. All sub-causes (connect, auth, missing file, transport) collapse into
// a single *domain.RetrievalError; the caller does not get to distinguish.
func (r *FTPRetriever) Fetch(ctx context.Context, cfg domain.FTPConfig, ref domain.RemoteFileRef, destDir string) (string, error) {
	local, err := r.fetch(ctx, cfg, ref, destDir)
	if err != nil {
		return "", domain.ErrRetrieval(ref.URL(), err)
	}
	r.logger.Info("file received", "remote", ref.URL(), "local", local)
	return local, nil
}

func (r *FTPRetriever) fetch(ctx context.Context, cfg domain.FTPConfig, ref domain.RemoteFileRef, destDir string) (string, error) {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, port)

	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(r.dialTimeout))
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", addr, err)
	}
	defer func() {
		_ = conn.Quit()
	}()

	if err := conn.Login(cfg.User, cfg.Password); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		return "", fmt.Errorf("set binary mode: %w", err)
	}

	resp, err := conn.Retr(ref.Path)
	if err != nil {
		return "", fmt.Errorf("retr %s: %w", ref.Path, err)
	}
	defer resp.Close() //nolint:errcheck

	local := filepath.Join(destDir, ref.Basename())
	f, err := os.Create(local) //nolint:gosec // destDir is invocation-private
	if err != nil {
		return "", fmt.Errorf("create %s: %w", local, err)
	}

	if _, err := io.Copy(f, resp); err != nil {
		_ = f.Close()
		_ = os.Remove(local)
		return "", fmt.Errorf("download %s: %w", ref.Path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", local, err)
	}

	return local, nil
}

var _ domain.Retriever = (*FTPRetriever)(nil)
