package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nitro-canvas-dx/internal/archive"
)

func TestDirMountExistsAndOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tune.xm"), []byte("module bytes"), 0o644))

	mount := NewDirMount(dir)
	require.True(t, mount.Exists("tune.xm"))
	require.False(t, mount.Exists("missing.xm"))

	tr, err := mount.Open("tune.xm")
	require.NoError(t, err)
	buf := make([]byte, 6)
	n, err := tr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "module", string(buf[:n]))
}

func TestDirMountExistsIsFalseForDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	mount := NewDirMount(dir)
	require.False(t, mount.Exists("sub"))
}

type bytesReaderAt struct{ data []byte }

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b.data)) {
		return 0, os.ErrClosed
	}
	n := copy(p, b.data[off:])
	return n, nil
}

func TestArchiveMountFindsEntries(t *testing.T) {
	w := archive.NewWriter(false, false)
	w.Add("icon.png", []byte{0x89, 'P', 'N', 'G'})

	var buf bytes.Buffer
	require.NoError(t, w.WriteTo(&buf))

	mount, err := NewArchiveMount(bytesReaderAt{buf.Bytes()}, false)
	require.NoError(t, err)
	require.True(t, mount.Exists("icon.png"))
	require.False(t, mount.Exists("missing.png"))

	tr, err := mount.Open("icon.png")
	require.NoError(t, err)
	out := make([]byte, 4)
	n, err := tr.Read(out)
	require.NoError(t, err)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, out[:n])
}

func TestMountOverrideAcrossDirAndArchive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shared.bin"), []byte("from-disk"), 0o644))

	w := archive.NewWriter(false, false)
	w.Add("shared.bin", []byte("from-archive"))
	var buf bytes.Buffer
	require.NoError(t, w.WriteTo(&buf))
	archiveMount, err := NewArchiveMount(bytesReaderAt{buf.Bytes()}, false)
	require.NoError(t, err)

	s := New(nil)
	s.Mount(NewDirMount(dir))
	s.Mount(archiveMount)

	data, err := s.Load("shared.bin")
	require.NoError(t, err)
	require.Equal(t, "from-archive", string(data))
}
