package credstore_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guarzo/hrmapi/modules/credstore"
)

func openers(t *testing.T) map[string]func(t *testing.T) credstore.Store {
	return map[string]func(t *testing.T) credstore.Store{
		"memory": func(t *testing.T) credstore.Store {
			return credstore.NewState()
		},
		"file": func(t *testing.T) credstore.Store {
			s, err := credstore.NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) credstore.Store {
			s, err := credstore.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "tokens.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_Contract(t *testing.T) {
	for name, open := range openers(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			_, ok := s.AccessToken()
			assert.False(t, ok)
			_, ok = s.RefreshToken()
			assert.False(t, ok)

			require.NoError(t, s.SetTokens("access-1", "refresh-1"))
			access, ok := s.AccessToken()
			assert.True(t, ok)
			assert.Equal(t, "access-1", access)
			refresh, ok := s.RefreshToken()
			assert.True(t, ok)
			assert.Equal(t, "refresh-1", refresh)

			require.NoError(t, s.SetTokens("access-2", "refresh-2"))
			access, _ = s.AccessToken()
			refresh, _ = s.RefreshToken()
			assert.Equal(t, "access-2", access)
			assert.Equal(t, "refresh-2", refresh)

			require.NoError(t, s.Clear())
			_, ok = s.AccessToken()
			assert.False(t, ok)
			_, ok = s.RefreshToken()
			assert.False(t, ok)

			// clearing twice is harmless
			require.NoError(t, s.Clear())
		})
	}
}

func TestFileStore_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")

	first, err := credstore.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.SetTokens("a", "r"))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	second, err := credstore.NewFileStore(path)
	require.NoError(t, err)
	access, _ := second.AccessToken()
	refresh, _ := second.RefreshToken()
	assert.Equal(t, "a", access)
	assert.Equal(t, "r", refresh)

	require.NoError(t, second.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := credstore.NewFileStore(path)
	assert.Error(t, err)
}

func TestSQLiteStore_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.db")

	first, err := credstore.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.SetTokens("a", "r"))
	require.NoError(t, first.Close())

	second, err := credstore.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	access, ok := second.AccessToken()
	assert.True(t, ok)
	assert.Equal(t, "a", access)
	refresh, ok := second.RefreshToken()
	assert.True(t, ok)
	assert.Equal(t, "r", refresh)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := credstore.Open(ctx, credstore.KindMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &credstore.State{}, s)

	s, err = credstore.Open(ctx, credstore.KindFile, filepath.Join(dir, "t.json"))
	require.NoError(t, err)
	assert.IsType(t, &credstore.FileStore{}, s)

	s, err = credstore.Open(ctx, credstore.KindSQLite, filepath.Join(dir, "t.db"))
	require.NoError(t, err)
	assert.IsType(t, &credstore.SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = credstore.Open(ctx, "keychain", "")
	assert.ErrorIs(t, err, credstore.ErrUnknownStore)
}
