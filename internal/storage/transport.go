package storage

import (
	"errors"
	"io"
	"os"

	"nitro-canvas-dx/internal/transport"
)

// fileTransport adapts an *os.File to the shared ByteTransport contract.
type fileTransport struct {
	f    *os.File
	size int64
}

func newFileTransport(f *os.File) (*fileTransport, error) {
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileTransport{f: f, size: info.Size()}, nil
}

func (t *fileTransport) Read(buf []byte) (int, error) { return t.f.Read(buf) }

func (t *fileTransport) Seek(offset int64, whence transport.SeekWhence) (int64, error) {
	origin := io.SeekStart
	if whence == transport.SeekCur {
		origin = io.SeekCurrent
	}
	return t.f.Seek(offset, origin)
}

func (t *fileTransport) Tell() (int64, error) {
	return t.f.Seek(0, io.SeekCurrent)
}

func (t *fileTransport) EOF() bool {
	pos, err := t.Tell()
	if err != nil {
		return true
	}
	return pos >= t.size
}

func (t *fileTransport) Close() error { return t.f.Close() }

// memoryTransport adapts an in-memory byte slice (e.g. a decrypted archive
// entry payload) to the shared ByteTransport contract.
type memoryTransport struct {
	data []byte
	pos  int64
}

func newMemoryTransport(data []byte) *memoryTransport {
	return &memoryTransport{data: data}
}

func (t *memoryTransport) Read(buf []byte) (int, error) {
	if t.pos >= int64(len(t.data)) {
		return 0, io.EOF
	}
	n := copy(buf, t.data[t.pos:])
	t.pos += int64(n)
	return n, nil
}

func (t *memoryTransport) Seek(offset int64, whence transport.SeekWhence) (int64, error) {
	base := int64(0)
	if whence == transport.SeekCur {
		base = t.pos
	}
	newPos := base + offset
	if newPos < 0 || newPos > int64(len(t.data)) {
		return t.pos, errors.New("storage: seek out of range")
	}
	t.pos = newPos
	return t.pos, nil
}

func (t *memoryTransport) Tell() (int64, error) { return t.pos, nil }

func (t *memoryTransport) EOF() bool { return t.pos >= int64(len(t.data)) }
