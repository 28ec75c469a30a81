package storage

import (
	"testing"

	"nitro-canvas-dx/internal/transport"
)

type fakeMount struct {
	name    string
	content map[string][]byte
}

func (m *fakeMount) Exists(name string) bool {
	_, ok := m.content[name]
	return ok
}

func (m *fakeMount) Open(name string) (transport.ByteTransport, error) {
	data, ok := m.content[name]
	if !ok {
		return nil, archiveNotFoundError{name: name}
	}
	return newMemoryTransport(data), nil
}

func (m *fakeMount) Close() error { return nil }

func TestLookupSearchesMountsInReverseOrder(t *testing.T) {
	s := New(nil)
	s.Mount(&fakeMount{name: "base", content: map[string][]byte{"sprite.png": []byte("base-version")}})
	s.Mount(&fakeMount{name: "override", content: map[string][]byte{"sprite.png": []byte("override-version")}})

	data, err := s.Load("sprite.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "override-version" {
		t.Errorf("Load = %q, want the later mount's override", data)
	}
}

func TestLoadFallsThroughToEarlierMountWhenLaterLacksEntry(t *testing.T) {
	s := New(nil)
	s.Mount(&fakeMount{name: "base", content: map[string][]byte{"music.xm": []byte("tracker data")}})
	s.Mount(&fakeMount{name: "override", content: map[string][]byte{}})

	data, err := s.Load("music.xm")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "tracker data" {
		t.Errorf("Load = %q, want fallback to the base mount", data)
	}
}

func TestExistsReturnsFalseWhenNoMountHasEntry(t *testing.T) {
	s := New(nil)
	s.Mount(&fakeMount{name: "base", content: map[string][]byte{}})
	if s.Exists("missing.bin") {
		t.Errorf("Exists should be false for an entry in no mount")
	}
}

func TestLoadCachesAndResetsAgeOnHit(t *testing.T) {
	s := New(nil)
	s.Mount(&fakeMount{name: "base", content: map[string][]byte{"a.txt": []byte("hello")}})

	if _, err := s.Load("a.txt"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.cache["a.txt"].age = 10

	if _, err := s.Load("a.txt"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.cache["a.txt"].age != 0 {
		t.Errorf("age = %v, want reset to 0 on cache hit", s.cache["a.txt"].age)
	}
}

func TestUpdateEvictsUnreferencedResourceAfterAgeLimit(t *testing.T) {
	s := New(nil)
	s.Mount(&fakeMount{name: "base", content: map[string][]byte{"a.txt": []byte("hello")}})
	if _, err := s.Load("a.txt"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Update(ResourceAgeLimit - 1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := s.cache["a.txt"]; !ok {
		t.Fatalf("resource evicted too early")
	}

	if err := s.Update(2); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := s.cache["a.txt"]; ok {
		t.Errorf("resource should have been evicted after crossing the age limit")
	}
}

func TestLockPreventsEvictionUntilUnlocked(t *testing.T) {
	s := New(nil)
	s.Mount(&fakeMount{name: "base", content: map[string][]byte{"a.txt": []byte("hello")}})
	if _, err := s.Load("a.txt"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Lock("a.txt")

	if err := s.Update(ResourceAgeLimit * 2); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := s.cache["a.txt"]; !ok {
		t.Fatalf("a locked resource must not be evicted")
	}

	s.Unlock("a.txt")
	if err := s.Update(ResourceAgeLimit * 2); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := s.cache["a.txt"]; ok {
		t.Errorf("resource should be evicted once unlocked and aged past the limit")
	}
}

func TestOpenReturnsUncachedTransportWithoutPopulatingCache(t *testing.T) {
	s := New(nil)
	s.Mount(&fakeMount{name: "base", content: map[string][]byte{"stream.xm": []byte("stream data")}})

	tr, err := s.Open("stream.xm")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	buf := make([]byte, 6)
	n, err := tr.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "stream" {
		t.Errorf("Read = %q, want %q", buf[:n], "stream")
	}
	if _, cached := s.cache["stream.xm"]; cached {
		t.Errorf("Open should not populate the Load cache")
	}
}
