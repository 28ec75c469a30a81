package storage

import (
	"io"

	"nitro-canvas-dx/internal/archive"
	"nitro-canvas-dx/internal/transport"
)

// ArchiveMount is a MountPoint backed by a TOFUPAK archive, grounded on
// original_source/src/libs/fs/pak.c's archive-backed mount.
type ArchiveMount struct {
	reader *archive.Reader
	src    io.Closer
}

// NewArchiveMount opens an archive mount over src (kept open for the
// mount's lifetime) with dropKeystream matching how the archive was
// written.
func NewArchiveMount(src archiveSource, dropKeystream bool) (*ArchiveMount, error) {
	reader, err := archive.Open(src, dropKeystream)
	if err != nil {
		return nil, err
	}
	closer, _ := src.(io.Closer)
	return &ArchiveMount{reader: reader, src: closer}, nil
}

// archiveSource is the minimal io.ReaderAt an archive.Reader needs; mounts
// typically back it with an *os.File.
type archiveSource = io.ReaderAt

func (m *ArchiveMount) Exists(name string) bool {
	_, ok := m.reader.Find(name)
	return ok
}

func (m *ArchiveMount) Open(name string) (transport.ByteTransport, error) {
	entry, ok := m.reader.Find(name)
	if !ok {
		return nil, archiveNotFoundError{name: name}
	}
	payload, err := m.reader.ReadEntry(entry)
	if err != nil {
		return nil, err
	}
	return newMemoryTransport(payload), nil
}

func (m *ArchiveMount) Close() error {
	if m.src != nil {
		return m.src.Close()
	}
	return nil
}

type archiveNotFoundError struct{ name string }

func (e archiveNotFoundError) Error() string { return "storage: entry not found: " + e.name }
