package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, Run{
			ID:        uuid.New().String(),
			Kind:      RunGenerate,
			Bundle:    "sma",
			Layouts:   3,
			Duration:  1200 * time.Millisecond,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.Append(ctx, Run{
		ID:        uuid.New().String(),
		Kind:      RunLint,
		Bundle:    "docs",
		Errors:    1,
		Warnings:  2,
		Duration:  80 * time.Millisecond,
		StartedAt: base.Add(10 * time.Minute),
	}))

	t.Run("newest first", func(t *testing.T) {
		runs, err := store.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 4)
		require.Equal(t, RunLint, runs[0].Kind)
		require.Equal(t, 1, runs[0].Errors)
		require.Equal(t, 2, runs[0].Warnings)
		for i := 1; i < len(runs); i++ {
			require.False(t, runs[i].StartedAt.After(runs[i-1].StartedAt))
		}
	})

	t.Run("limit respected", func(t *testing.T) {
		runs, err := store.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
	})

	t.Run("fields round trip", func(t *testing.T) {
		runs, err := store.Recent(ctx, 1)
		require.NoError(t, err)
		run := runs[0]
		require.Equal(t, "docs", run.Bundle)
		require.Equal(t, 80*time.Millisecond, run.Duration)
		require.Equal(t, base.Add(10*time.Minute).Unix(), run.StartedAt.Unix())
	})

	t.Run("non-positive limit defaults", func(t *testing.T) {
		runs, err := store.Recent(ctx, 0)
		require.NoError(t, err)
		require.Len(t, runs, 4)
	})
}

func TestAppendDuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := Run{ID: uuid.New().String(), Kind: RunGenerate, Bundle: "sma", StartedAt: time.Now()}
	require.NoError(t, store.Append(ctx, run))
	require.Error(t, store.Append(ctx, run))
}

func TestPersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), Run{
		ID: uuid.New().String(), Kind: RunGenerate, Bundle: "sme", StartedAt: time.Now(),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	runs, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "sme", runs[0].Bundle)
}
