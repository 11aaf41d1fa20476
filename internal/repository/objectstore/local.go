package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects on local disk under rootPath.
type LocalStore struct {
	rootPath      string
	publicBaseURL string
}

func NewLocalStore(rootPath, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create directory %s: %w", rootPath, err)
	}

	return &LocalStore{
		rootPath:      rootPath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("storage: failed to create directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: failed to create file: %w", err)
	}
	defer f.Close()
	tempPath := f.Name()

	if err := f.Chmod(0o644); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("storage: failed to set file mode: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("storage: failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("storage: failed to close file: %w", err)
	}

	if err := os.Rename(tempPath, target); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("storage: failed to rename file: %w", err)
	}

	return nil
}

// Delete removes the object. A missing object is not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return s.publicBaseURL + "/" + key
}

// path resolves key below rootPath and rejects keys escaping it.
func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(s.rootPath, clean), nil
}
