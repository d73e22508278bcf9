package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_RoundTrip(t *testing.T) {
	t.Parallel()
	m := NewMemoryFileSystem()

	w, err := m.Create("out/./cloud.pb")
	require.NoError(t, err)
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)

	// Not visible until Close.
	got, err := m.ReadFile("out/cloud.pb")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, w.Close())
	got, err = m.ReadFile("out/cloud.pb")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	r, err := m.Open("out/cloud.pb")
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), b)
}

func TestMemoryFileSystem_Errors(t *testing.T) {
	t.Parallel()
	m := NewMemoryFileSystem()

	_, err := m.Open("missing.json")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	_, err = m.ReadFile("missing.json")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	w, err := m.Create("x")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, fs.ErrClosed)
	assert.ErrorIs(t, w.Close(), fs.ErrClosed)
}

func TestMemoryFileSystem_WriteFileCopies(t *testing.T) {
	t.Parallel()
	m := NewMemoryFileSystem()

	data := []byte("msg")
	m.WriteFile("in.json", data)
	data[0] = 'X'

	got, err := m.ReadFile("in.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("msg"), got)
}

func TestOSFileSystem(t *testing.T) {
	t.Parallel()
	var fsys FileSystem = OSFileSystem{}
	path := filepath.Join(t.TempDir(), "cloud.json")

	w, err := fsys.Create(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("{}"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := fsys.Open(path)
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))

	_, err = fsys.Open(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
