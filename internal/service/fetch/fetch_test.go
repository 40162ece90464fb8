package fetch

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftplake/internal/domain"
)

func TestFetch_ConnectFailure(t *testing.T) {
	r := NewFTPRetriever(2*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Port 1 on loopback refuses immediately; no FTP server is needed.
	cfg := domain.FTPConfig{Host: "127.0.0.1", Port: 1, User: "u", Password: "p"}
	ref := domain.RemoteFileRef{Host: "127.0.0.1", Path: "01-01-2024.csv"}

	_, err := r.Fetch(context.Background(), cfg, ref, t.TempDir())

	var rerr *domain.RetrievalError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Remote, "01-01-2024.csv")
}

func TestNewFTPRetriever_DefaultTimeout(t *testing.T) {
	r := NewFTPRetriever(0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, 30*time.Second, r.dialTimeout)
}
