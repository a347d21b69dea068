package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := NewStorage(Config{Path: dir})
	require.NoError(t, s.Initialize(ctx))
	t.Cleanup(func() { _ = s.Close() })
	assert.Equal(t, filepath.Join(dir, DefaultFileName), s.Path())

	t.Run("Missing Key", func(t *testing.T) {
		_, ok, err := s.Load(ctx, "notes")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Round Trip", func(t *testing.T) {
		require.NoError(t, s.Store(ctx, "notes", []byte(`[]`)))
		data, ok, err := s.Load(ctx, "notes")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[]`, string(data))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, s.Store(ctx, "notes", []byte(`[{"id":"a"}]`)))
		data, _, err := s.Load(ctx, "notes")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"a"}]`, string(data))
	})

	t.Run("State", func(t *testing.T) {
		state := s.State().(StorageState)
		assert.True(t, state.Open)
		assert.Equal(t, 2, state.Writes)
	})
}

func TestStorage_NotInitialized(t *testing.T) {
	s := NewStorage(Config{Path: filepath.Join(t.TempDir(), "x.db")})
	_, _, err := s.Load(context.Background(), "notes")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.NoError(t, s.Close())
}

func TestStorage_WithService(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")

	s := NewStorage(Config{Path: path})
	require.NoError(t, s.Initialize(ctx))
	svc := core.NewService(s)
	n, err := svc.Create(ctx, core.Fields{Title: "bolted"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ro := NewStorage(Config{Path: path, ReadOnly: true})
	require.NoError(t, ro.Initialize(ctx))
	t.Cleanup(func() { _ = ro.Close() })

	got, ok, err := core.NewService(ro).Get(ctx, n.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bolted", got.Title)
	assert.ErrorIs(t, ro.Store(ctx, "notes", nil), core.ErrReadOnly)
}
