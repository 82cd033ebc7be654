package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"trailblog/internal/storage"
)

func TestJSONStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	token := gofakeit.UUID()

	s, err := storage.NewJSONStorage(path)
	require.NoError(t, err)

	loaded, err := s.LoadToken("trailblog")
	require.NoError(t, err)
	require.Empty(t, loaded)

	require.NoError(t, s.SaveToken("trailblog", token))

	loaded, err = s.LoadToken("trailblog")
	require.NoError(t, err)
	require.Equal(t, token, loaded)

	require.NoError(t, s.ClearToken("trailblog"))
	loaded, err = s.LoadToken("trailblog")
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestJSONStorageSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	token := gofakeit.UUID()

	s, err := storage.NewJSONStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveToken("trailblog", token))

	// A second instance over the same file sees the token.
	s2, err := storage.NewJSONStorage(path)
	require.NoError(t, err)
	loaded, err := s2.LoadToken("trailblog")
	require.NoError(t, err)
	require.Equal(t, token, loaded)
}

func TestJSONStorageCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")

	s, err := storage.NewJSONStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveToken("trailblog", "tok"))
}
