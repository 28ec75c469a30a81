// Package archive implements the TOFUPAK binary archive format: an 8-byte
// signature, a scalar header, and a sequence of length-prefixed entries
// written back to back with no separate offset table. Grounded on
// rom.builder's binary.LittleEndian header-writing convention and
// memory.Cartridge's matching magic/version-checked reader.
package archive

import (
	"bytes"
	"crypto/md5"
	"crypto/rc4"
	"encoding/binary"
	"fmt"
	"io"
)

// Signature identifies a TOFUPAK archive: the literal 8-byte string
// "TOFUPAK!" at the start of the file.
var Signature = [8]byte{'T', 'O', 'F', 'U', 'P', 'A', 'K', '!'}

// FormatVersion is the only archive layout this package writes.
const FormatVersion uint8 = 1

const headerSize = 8 + 1 + 1 + 2 + 4 // signature, version, flags, reserved, entry count
const entryPrefixSize = 2 + 2 + 4    // reserved, name_length, size

// FlagEncrypted marks every entry's payload as RC4-encrypted with a key
// derived from that entry's own logical name.
const FlagEncrypted uint8 = 1 << 0

// rc4DropBytes is the number of leading keystream bytes discarded before
// use when an archive opts into RC4-drop, per the spec's "optionally
// dropping the first 256 keystream bytes".
const rc4DropBytes = 256

// Entry describes one archive member as recovered while walking the file;
// Offset is the payload's absolute byte offset, computed during Open since
// the on-disk layout stores no offset table.
type Entry struct {
	Name   string
	Offset int64
	Size   uint32
}

// Header is the parsed TOFUPAK file header.
type Header struct {
	Version uint8
	Flags   uint8
	Entries []Entry
}

// Writer accumulates entries and serializes them into the TOFUPAK layout.
type Writer struct {
	encrypted bool
	dropKeystream bool
	entries   []namedPayload
}

type namedPayload struct {
	name    string
	payload []byte
}

// NewWriter creates a Writer. When encrypted is true, every entry's payload
// is RC4-encrypted at WriteTo time with a key derived from that entry's own
// name (stdlib crypto/rc4 and crypto/md5 are canonical here; no ecosystem
// library improves on them). dropKeystream selects the RC4-drop256 variant.
func NewWriter(encrypted, dropKeystream bool) *Writer {
	return &Writer{encrypted: encrypted, dropKeystream: dropKeystream}
}

// Add stages one entry for writing.
func (w *Writer) Add(name string, payload []byte) {
	w.entries = append(w.entries, namedPayload{name: name, payload: payload})
}

// WriteTo serializes the signature, header, and entries (each inline with
// its own name and payload) to dst.
func (w *Writer) WriteTo(dst io.Writer) error {
	flags := uint8(0)
	if w.encrypted {
		flags |= FlagEncrypted
	}

	if _, err := dst.Write(Signature[:]); err != nil {
		return err
	}
	if err := binary.Write(dst, binary.LittleEndian, FormatVersion); err != nil {
		return err
	}
	if err := binary.Write(dst, binary.LittleEndian, flags); err != nil {
		return err
	}
	if err := binary.Write(dst, binary.LittleEndian, uint16(0)); err != nil { // reserved
		return err
	}
	if err := binary.Write(dst, binary.LittleEndian, uint32(len(w.entries))); err != nil {
		return err
	}

	for _, e := range w.entries {
		payload := e.payload
		if w.encrypted {
			enc, err := rc4Transform(e.name, payload, w.dropKeystream)
			if err != nil {
				return err
			}
			payload = enc
		}

		nameBytes := []byte(e.name)
		if err := binary.Write(dst, binary.LittleEndian, uint16(0)); err != nil { // reserved
			return err
		}
		if err := binary.Write(dst, binary.LittleEndian, uint16(len(nameBytes))); err != nil {
			return err
		}
		if err := binary.Write(dst, binary.LittleEndian, uint32(len(payload))); err != nil {
			return err
		}
		if _, err := dst.Write(nameBytes); err != nil {
			return err
		}
		if _, err := dst.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

// rc4Transform XORs data against an RC4 keystream keyed by MD5(name). RC4 is
// symmetric: the same call encrypts and decrypts. When drop is true, the
// first rc4DropBytes keystream bytes are discarded before use.
func rc4Transform(name string, data []byte, drop bool) ([]byte, error) {
	sum := md5.Sum([]byte(name))
	c, err := rc4.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	if drop {
		discard := make([]byte, rc4DropBytes)
		c.XORKeyStream(discard, discard)
	}
	out := make([]byte, len(data))
	c.XORKeyStream(out, data)
	return out, nil
}

// Reader parses a TOFUPAK archive out of a ReaderAt, building an in-memory
// entry index (with absolute offsets) in one forward walk since the format
// itself stores entries back to back with no offset table.
type Reader struct {
	src           io.ReaderAt
	header        Header
	dropKeystream bool
}

// Open parses the signature, header, and entry index from src. dropKeystream
// must match the value the archive was written with when FlagEncrypted is
// set, since it is not recoverable from the file itself.
func Open(src io.ReaderAt, dropKeystream bool) (*Reader, error) {
	buf := make([]byte, headerSize)
	if _, err := src.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("archive: reading header: %w", err)
	}
	if !bytes.Equal(buf[0:8], Signature[:]) {
		return nil, fmt.Errorf("archive: invalid signature")
	}
	version := buf[8]
	if version > FormatVersion {
		return nil, fmt.Errorf("archive: unsupported version %d", version)
	}
	flags := buf[9]
	count := binary.LittleEndian.Uint32(buf[12:16])

	r := &Reader{src: src, dropKeystream: dropKeystream, header: Header{Version: version, Flags: flags}}

	pos := int64(headerSize)
	for i := uint32(0); i < count; i++ {
		var prefix [entryPrefixSize]byte
		if _, err := src.ReadAt(prefix[:], pos); err != nil {
			return nil, err
		}
		nameLen := binary.LittleEndian.Uint16(prefix[2:4])
		size := binary.LittleEndian.Uint32(prefix[4:8])
		pos += entryPrefixSize

		nameBuf := make([]byte, nameLen)
		if nameLen > 0 {
			if _, err := src.ReadAt(nameBuf, pos); err != nil {
				return nil, err
			}
		}
		pos += int64(nameLen)

		r.header.Entries = append(r.header.Entries, Entry{
			Name:   string(nameBuf),
			Offset: pos,
			Size:   size,
		})
		pos += int64(size)
	}
	return r, nil
}

// Header returns the parsed archive header.
func (r *Reader) Header() Header { return r.header }

// Find returns the entry with the given name, if present.
func (r *Reader) Find(name string) (Entry, bool) {
	for _, e := range r.header.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// ReadEntry reads and, if the archive is encrypted, decrypts one entry's
// payload.
func (r *Reader) ReadEntry(e Entry) ([]byte, error) {
	buf := make([]byte, e.Size)
	if e.Size > 0 {
		if _, err := r.src.ReadAt(buf, e.Offset); err != nil {
			return nil, fmt.Errorf("archive: reading entry %q: %w", e.Name, err)
		}
	}
	if r.header.Flags&FlagEncrypted != 0 {
		return rc4Transform(e.Name, buf, r.dropKeystream)
	}
	return buf, nil
}
