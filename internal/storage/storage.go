// Package storage keeps uploaded clinical photos for the postgres driver.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned for object paths that escape the storage root.
var ErrInvalidPath = errors.New("invalid object path")

// ObjectStore uploads a file and returns the URL it is publicly served from.
// Remove deletes an object; removing one that does not exist is not an error.
type ObjectStore interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

// DiskStore writes objects under a root directory. The router serves the same
// directory, so PublicURL must point at that mount.
type DiskStore struct {
	root      string
	publicURL string
}

func NewDiskStore(root, publicURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", root, err)
	}
	return &DiskStore{root: root, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Root is the directory objects are written to.
func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) Upload(ctx context.Context, path, _ string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	target := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	// O_EXCL: an existing object is never overwritten.
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create object %s: %w", path, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("write object %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close object %s: %w", path, err)
	}
	return s.publicURL + "/" + EscapePath(filepath.ToSlash(clean)), nil
}

func (s *DiskStore) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := cleanPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, clean)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove object %s: %w", path, err)
	}
	return nil
}

// cleanPath turns a slash-separated object path into a relative OS path under the root.
func cleanPath(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return clean, nil
}

// EscapePath percent-escapes every segment of a slash-separated object path
// and keeps the separators.
func EscapePath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
