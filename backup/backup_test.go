package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	loc := time.FixedZone("PHT", 8*3600)
	before := time.Date(2024, 3, 10, 1, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 10, 2, 0, 0, 0, loc), NextRun(before, 2, 0))

	exact := time.Date(2024, 3, 10, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 11, 2, 0, 0, 0, loc), NextRun(exact, 2, 0))

	endOfMonth := time.Date(2024, 3, 31, 23, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 4, 1, 2, 0, 0, 0, loc), NextRun(endOfMonth, 2, 0))
}

func TestSnapshotCopiesTree(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "products"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "logo.png"), []byte("logo"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "products", "burger.jpg"), []byte("burger"), 0o644))

	r := New(Config{SourceDir: src, BackupDir: t.TempDir()}, nil)
	r.now = func() time.Time { return time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC) }

	dest, err := r.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10_02-00-00", filepath.Base(dest))

	data, err := os.ReadFile(filepath.Join(dest, "products", "burger.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "burger", string(data))
}

func TestSnapshotMissingSource(t *testing.T) {
	r := New(Config{SourceDir: filepath.Join(t.TempDir(), "missing"), BackupDir: t.TempDir()}, nil)
	_, err := r.Snapshot()
	assert.Error(t, err)
}

func TestPruneRemovesExpired(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := filepath.Join(dir, "old")
	fresh := filepath.Join(dir, "fresh")
	require.NoError(t, os.MkdirAll(old, 0o755))
	require.NoError(t, os.MkdirAll(fresh, 0o755))
	require.NoError(t, os.Chtimes(old, now.Add(-5*24*time.Hour), now.Add(-5*24*time.Hour)))

	r := New(Config{BackupDir: dir, Retention: 4 * 24 * time.Hour}, nil)
	assert.Equal(t, 1, r.Prune())
	assert.NoDirExists(t, old)
	assert.DirExists(t, fresh)
}

func TestRunStopsOnCancel(t *testing.T) {
	r := New(Config{SourceDir: t.TempDir(), BackupDir: t.TempDir(), Hour: 2}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
