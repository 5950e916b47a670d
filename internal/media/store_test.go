package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func writeTemp(t *testing.T, data []byte) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "upload-*")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestStoreSaveAndRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save(writeTemp(t, pngHeader), "photo.png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, URLPrefix))
	require.True(t, strings.HasSuffix(ref, ".png"))

	name := strings.TrimPrefix(ref, URLPrefix)
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ref))
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	require.True(t, os.IsNotExist(err))
}

func TestStoreRejectsNonImage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(writeTemp(t, []byte("#!/bin/sh\nrm -rf /\n")), "evil.png")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestStoreRemoveIgnoresForeignRefs(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Remove("https://cdn.example.com/a.png"))
	require.NoError(t, store.Remove("/uploads/../store.go"))
}

func TestStoreSweep(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	kept, err := store.Save(writeTemp(t, pngHeader), "kept.png")
	require.NoError(t, err)
	orphan, err := store.Save(writeTemp(t, pngHeader), "orphan.png")
	require.NoError(t, err)

	removed, err := store.Sweep([]string{kept})
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(store.Dir(), strings.TrimPrefix(kept, URLPrefix)))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(store.Dir(), strings.TrimPrefix(orphan, URLPrefix)))
	require.True(t, os.IsNotExist(err))
}
