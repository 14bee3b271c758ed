package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_LoadMissing(t *testing.T) {
	s, _ := openTemp(t)
	_, found, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	require.NoError(t, s.Save(ctx, "p1", Prefs{Columns: []string{"name", "rarity"}, Hints: true}))
	p, found, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"name", "rarity"}, p.Columns)
	assert.True(t, p.Hints)

	require.NoError(t, s.Save(ctx, "p1", Prefs{Columns: nil, Hints: false}))
	p, found, err = s.Load(ctx, "p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, p.Columns)
	assert.False(t, p.Hints)
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	require.NoError(t, s.Save(ctx, "p1", Prefs{Columns: []string{"name"}}))
	require.NoError(t, s.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()

	p, found, err := again.Load(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"name"}, p.Columns)

	var n int
	require.NoError(t, again.db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}
