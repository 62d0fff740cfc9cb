package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FilesystemStore keeps blobs under a media root on local disk, one
// subdirectory per prefix. References are root-relative paths with
// forward slashes, e.g. "audit_documents/3f1c...d2.pdf".
type FilesystemStore struct {
	root string
}

// NewFilesystemStore creates the media root if needed.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("ensure media directory: %w", err)
	}
	return &FilesystemStore{root: root}, nil
}

// Save writes the blob under a random name that keeps the original extension.
func (s *FilesystemStore) Save(prefix, name string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, prefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure blob directory: %w", err)
	}

	ref := prefix + "/" + uuid.NewString() + sanitizeExt(name)
	f, err := os.Create(filepath.Join(s.root, filepath.FromSlash(ref)))
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}
	return ref, nil
}

// Open streams a stored blob by reference.
func (s *FilesystemStore) Open(ref string) (io.ReadCloser, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

// Delete removes a stored blob. Unknown references are ignored so a retried
// delete stays idempotent.
func (s *FilesystemStore) Delete(ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// resolve maps a reference to an absolute path, refusing anything that would
// escape the media root.
func (s *FilesystemStore) resolve(ref string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", ErrBlobNotFound
	}
	return filepath.Join(s.root, clean), nil
}

// sanitizeExt keeps only a plain extension from the uploaded filename.
func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if ext == "" || len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
