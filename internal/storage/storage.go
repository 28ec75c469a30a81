package storage

import (
	"fmt"
	"io"
	"sync"

	"nitro-canvas-dx/internal/telemetry"
	"nitro-canvas-dx/internal/transport"
)

// ResourceAgeLimit is how many seconds an unreferenced cached resource
// survives before Update evicts it, matching
// original_source/src/core/io/storage.c's STORAGE_RESOURCE_AGE_LIMIT.
const ResourceAgeLimit = 30.0

type cacheEntry struct {
	data       []byte
	age        float64
	references int
}

// Storage is the layered, read-only mount-point filesystem with an
// in-memory decoded-resource cache. Mounts are searched in reverse mount
// order: the most recently mounted point wins ("mount override").
type Storage struct {
	mu     sync.Mutex
	mounts []MountPoint
	cache  map[string]*cacheEntry
	logger *telemetry.Logger
}

// New creates an empty Storage with no mounted points.
func New(logger *telemetry.Logger) *Storage {
	return &Storage{cache: make(map[string]*cacheEntry), logger: logger}
}

// Mount appends a mount point. Later mounts take priority in lookups.
func (s *Storage) Mount(mp MountPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounts = append(s.mounts, mp)
}

// Unmount closes and removes every mounted point, most-recent first.
func (s *Storage) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.mounts) - 1; i >= 0; i-- {
		s.mounts[i].Close()
	}
	s.mounts = nil
	s.cache = make(map[string]*cacheEntry)
}

// Exists reports whether name resolves in any mounted point, searched in
// reverse mount order.
func (s *Storage) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findMount(name) != nil
}

// findMount returns the highest-priority mount containing name, or nil.
// Callers must hold s.mu.
func (s *Storage) findMount(name string) MountPoint {
	for i := len(s.mounts) - 1; i >= 0; i-- {
		if s.mounts[i].Exists(name) {
			return s.mounts[i]
		}
	}
	return nil
}

// Open returns a raw, uncached byte transport for name, resolved against
// the highest-priority mount that has it. This is the path streaming
// sources (Music, Module) use: they pull incrementally rather than
// decoding the whole asset up front.
func (s *Storage) Open(name string) (transport.ByteTransport, error) {
	s.mu.Lock()
	mount := s.findMount(name)
	s.mu.Unlock()
	if mount == nil {
		return nil, fmt.Errorf("storage: %q not found in any mount", name)
	}
	return mount.Open(name)
}

// Load reads and fully decodes name into memory, matching
// Storage_load's cache-hit/cache-miss flow: a cache hit resets age and
// returns the cached bytes without touching any mount.
func (s *Storage) Load(name string) ([]byte, error) {
	s.mu.Lock()
	if entry, ok := s.cache[name]; ok {
		entry.age = 0
		data := entry.data
		s.mu.Unlock()
		s.debugf("cache-hit for resource %q", name)
		return data, nil
	}
	mount := s.findMount(name)
	s.mu.Unlock()
	if mount == nil {
		return nil, fmt.Errorf("storage: %q not found in any mount", name)
	}

	t, err := mount.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := readAll(t)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[name] = &cacheEntry{data: data}
	s.mu.Unlock()
	s.debugf("resource %q loaded and cached (%d bytes)", name, len(data))
	return data, nil
}

// Lock increments name's reference count, protecting it from Update's
// age-based eviction. No-op if name is not cached.
func (s *Storage) Lock(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.cache[name]; ok {
		entry.references++
	}
}

// Unlock decrements name's reference count. Dropping to zero resets age,
// granting the resource one more age-limit window of cache grace.
func (s *Storage) Unlock(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[name]
	if !ok || entry.references == 0 {
		return
	}
	entry.references--
	if entry.references == 0 {
		entry.age = 0
	}
}

// Update ages every unreferenced cached resource by dt seconds, evicting
// any that crosses ResourceAgeLimit, matching Storage_update's backward
// scan.
func (s *Storage) Update(dt float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, entry := range s.cache {
		if entry.references > 0 {
			continue
		}
		entry.age += dt
		if entry.age >= ResourceAgeLimit {
			delete(s.cache, name)
			s.debugf("resource %q evicted after exceeding age limit", name)
		}
	}
	return nil
}

func (s *Storage) debugf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debugf(telemetry.ComponentStorage, format, args...)
	}
}

func readAll(r interface{ Read([]byte) (int, error) }) ([]byte, error) {
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}
		if n == 0 {
			return out, nil
		}
	}
}
