package db

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daybook/internal/models"
)

func TestConn_LazyOpen(t *testing.T) {
	cfg := testConfig(t)
	stores := New(cfg)
	t.Cleanup(func() { _ = stores.Close() })

	_, err := os.Stat(stores.Todos.Conn().Path())
	assert.True(t, os.IsNotExist(err), "nothing is written before first use")

	_, err = stores.Todos.All(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.Dir, TodoDBName+".sqlite"))
	assert.NoFileExists(t, filepath.Join(cfg.Dir, TaskHistoryDBName+".sqlite"))
}

func TestConn_ConcurrentFirstUse(t *testing.T) {
	store := setupTodoStore(t)
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Conn().DB(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	version, err := store.Conn().SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestConn_SchemaVersion(t *testing.T) {
	store := setupTaskStore(t)

	version, err := store.Conn().SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, TaskHistoryDBName, store.Conn().Name())
}

func TestConn_ReopenKeepsData(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first := NewTodoStore(cfg)
	_, err := first.Add(ctx, sampleTodo("keep", "Persisted", "2026-03-14"))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := NewTodoStore(cfg)
	t.Cleanup(func() { _ = second.Close() })
	got, err := second.Get(ctx, "keep")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Persisted", got.Title)
}

func TestConn_RefusesNewerSchema(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	store := NewTodoStore(cfg)
	db, err := store.Conn().DB(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA user_version = 7").Error)
	require.NoError(t, store.Close())

	reopened := NewTodoStore(cfg)
	t.Cleanup(func() { _ = reopened.Close() })
	_, err = reopened.All(ctx)
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestConn_UnavailableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewTodoStore(Config{Dir: filepath.Join(blocker, "nested")})
	_, err := store.Add(context.Background(), models.TodoItem{Title: "x", Date: "2026-03-14"})
	require.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = store.All(context.Background())
	require.ErrorIs(t, err, ErrStorageUnavailable, "a failed open is retried and fails again")
}
