// Package storage provides the blob store behind document files and
// certificates. The core only needs create/fetch/delete-by-reference
// semantics; references are opaque strings.
package storage

import (
	"errors"
	"io"
)

// ErrBlobNotFound is returned when a reference does not resolve to a stored blob.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore stores opaque binary blobs and hands back references to them.
type BlobStore interface {
	// Save fully consumes r and returns a reference to the stored blob.
	// The prefix groups related blobs (e.g. "audit_documents", "certificates");
	// name only contributes its extension to the stored reference.
	Save(prefix, name string, r io.Reader) (string, error)
	// Open returns the blob's contents for streaming.
	Open(ref string) (io.ReadCloser, error)
	// Delete removes the blob. Deleting an unknown reference is not an error.
	Delete(ref string) error
}
