// Package storage implements the layered, read-only mount-point filesystem
// the spec's external interface describes: query by logical name returns a
// byte stream conforming to the decoder transport contract, searched across
// mount points in reverse mount order so a later mount overrides an
// earlier one. Grounded on original_source/src/libs/fs/fs.c's FS_exists/
// FS_open backward-scan-over-mounts loop, and on
// original_source/src/core/io/storage.c's reference-counted, age-limited
// resource cache for Storage.Load/Lock/Unlock/Update.
package storage

import (
	"nitro-canvas-dx/internal/transport"
)

// MountPoint is one layer of the filesystem: a directory tree or an
// archive, queried by logical name. Grounded on fs.h's Mount_t v-table
// (unmount/exists/open).
type MountPoint interface {
	Exists(name string) bool
	Open(name string) (transport.ByteTransport, error)
	Close() error
}
