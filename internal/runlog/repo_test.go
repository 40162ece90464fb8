package runlog

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftplake/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db))
	return db
}

func record(id string, started time.Time) *domain.RunRecord {
	return &domain.RunRecord{
		ID:         id,
		Command:    domain.CommandGetFTPData,
		Status:     "ok",
		RemoteFile: "ftp://ftp.example.com/01-01-2024.csv",
		Table:      "acme-prod.sales.orders",
		RowsLoaded: 12,
		StartedAt:  started,
		DurationMs: 1500,
	}
}

func TestInsertAndList(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, record("r-old", base)))
	require.NoError(t, repo.Insert(ctx, record("r-new", base.Add(time.Hour))))

	got, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "r-new", got[0].ID)
	assert.Equal(t, "r-old", got[1].ID)
	assert.Equal(t, "acme-prod.sales.orders", got[0].Table)
	assert.Equal(t, int64(12), got[0].RowsLoaded)
	assert.Nil(t, got[0].Error)
}

func TestList_Limit(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, record("r-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))))
	}

	got, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Non-positive limit falls back to the default.
	got, err = repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestInsert_ErrorRoundTrip(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	msg := "retrieve ftp://ftp.example.com/01-01-2024.csv: 550 no such file"
	rec := record("r-failed", time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC))
	rec.Status = "failed"
	rec.Stage = "fetch"
	rec.Error = &msg
	require.NoError(t, repo.Insert(ctx, rec))

	got, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "failed", got[0].Status)
	assert.Equal(t, "fetch", got[0].Stage)
	require.NotNil(t, got[0].Error)
	assert.Equal(t, msg, *got[0].Error)
}

func TestList_Empty(t *testing.T) {
	repo := NewRepo(testDB(t))
	got, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
