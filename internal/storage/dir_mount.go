package storage

import (
	"os"
	"path/filepath"

	"nitro-canvas-dx/internal/transport"
)

// DirMount is a MountPoint backed by a plain OS directory tree, grounded on
// original_source/src/libs/fs/std.c's stdio-based mount.
type DirMount struct {
	base string
}

// NewDirMount creates a DirMount rooted at base.
func NewDirMount(base string) *DirMount {
	return &DirMount{base: base}
}

func (m *DirMount) resolve(name string) string {
	return filepath.Join(m.base, filepath.FromSlash(name))
}

func (m *DirMount) Exists(name string) bool {
	info, err := os.Stat(m.resolve(name))
	return err == nil && !info.IsDir()
}

func (m *DirMount) Open(name string) (transport.ByteTransport, error) {
	f, err := os.Open(m.resolve(name))
	if err != nil {
		return nil, err
	}
	return newFileTransport(f)
}

func (m *DirMount) Close() error { return nil }
