package archive

import (
	"bytes"
	"io"
	"testing"
)

type byteReaderAt struct{ data []byte }

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	w := NewWriter(false, false)
	w.Add("a.txt", []byte("hello"))
	w.Add("b.bin", []byte{1, 2, 3, 4})

	var buf bytes.Buffer
	if err := w.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	r, err := Open(byteReaderAt{buf.Bytes()}, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e, ok := r.Find("a.txt")
	if !ok {
		t.Fatalf("entry a.txt not found")
	}
	payload, err := r.ReadEntry(e)
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if string(payload) != "hello" {
		t.Errorf("payload = %q, want %q", payload, "hello")
	}

	e2, ok := r.Find("b.bin")
	if !ok {
		t.Fatalf("entry b.bin not found")
	}
	payload2, err := r.ReadEntry(e2)
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if !bytes.Equal(payload2, []byte{1, 2, 3, 4}) {
		t.Errorf("payload = %v, want %v", payload2, []byte{1, 2, 3, 4})
	}
}

func TestEncryptedRoundTrip(t *testing.T) {
	w := NewWriter(true, false)
	w.Add("a.txt", []byte("top secret payload"))

	var buf bytes.Buffer
	if err := w.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	r, err := Open(byteReaderAt{buf.Bytes()}, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e, _ := r.Find("a.txt")
	payload, err := r.ReadEntry(e)
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if string(payload) != "top secret payload" {
		t.Errorf("decrypted payload = %q, want original plaintext", payload)
	}
}

func TestEncryptedRoundTripWithKeystreamDrop(t *testing.T) {
	w := NewWriter(true, true)
	w.Add("sprites.bin", []byte{9, 8, 7, 6, 5})

	var buf bytes.Buffer
	if err := w.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	r, err := Open(byteReaderAt{buf.Bytes()}, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e, _ := r.Find("sprites.bin")
	payload, err := r.ReadEntry(e)
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if !bytes.Equal(payload, []byte{9, 8, 7, 6, 5}) {
		t.Errorf("payload = %v, want original plaintext", payload)
	}
}

func TestEncryptionKeyIsPerEntryName(t *testing.T) {
	w := NewWriter(true, false)
	w.Add("one.bin", []byte{1, 2, 3, 4})
	w.Add("two.bin", []byte{1, 2, 3, 4})

	var buf bytes.Buffer
	if err := w.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	r, err := Open(byteReaderAt{buf.Bytes()}, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e1, _ := r.Find("one.bin")
	e2, _ := r.Find("two.bin")
	if e1.Size != e2.Size {
		t.Fatalf("expected equal sizes, got %d and %d", e1.Size, e2.Size)
	}

	raw1 := make([]byte, e1.Size)
	raw2 := make([]byte, e2.Size)
	if _, err := r.src.ReadAt(raw1, e1.Offset); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if _, err := r.src.ReadAt(raw2, e2.Offset); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if bytes.Equal(raw1, raw2) {
		t.Errorf("identical plaintext under different entry names produced identical ciphertext")
	}
}

func TestOpenRejectsBadSignature(t *testing.T) {
	_, err := Open(byteReaderAt{make([]byte, 16)}, false)
	if err == nil {
		t.Errorf("expected an error for a buffer with no valid signature")
	}
}
