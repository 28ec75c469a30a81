// Package transport defines the byte-stream contract shared by every
// decoder backing store: storage mounts, archive entries, and plain files
// all read through the same {read, seek, tell, eof} callback set, grounded
// on original_source/src/libs/fs/fs.h's Handle_t v-table (close/size/read/
// skip/eof) translated to a Go interface.
package transport

// SeekWhence mirrors the byte-transport seek origins the spec's decoder
// contract requires from its backing stream.
type SeekWhence int

const (
	SeekSet SeekWhence = iota
	SeekCur
)

// ByteTransport is the abstracted stream a pull decoder reads bytes from.
type ByteTransport interface {
	Read(buf []byte) (int, error)
	Seek(offset int64, whence SeekWhence) (int64, error)
	Tell() (int64, error)
	EOF() bool
}
