package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"multiMart/pkg/apperror"
	"multiMart/pkg/logger"
	"multiMart/pkg/metrics"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultFolder = "products"
	sniffLength   = 512
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

var (
	ErrEmptyFile       = apperror.Validation("file is empty")
	ErrFileTooLarge    = apperror.Validation("file exceeds the upload size limit")
	ErrUnsupportedType = apperror.Validation("unsupported file type, allowed: jpeg, png, gif, webp, pdf")
)

// ObjectStore is the bucket the gateway writes to.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// File is one upload. Size is the declared length in bytes.
type File struct {
	Name   string
	Size   int64
	Reader io.Reader
}

type StorageService struct {
	store    ObjectStore
	maxBytes int64
	now      func() time.Time
	newID    func() string
}

func NewStorageService(store ObjectStore, maxBytes int64) *StorageService {
	return &StorageService{
		store:    store,
		maxBytes: maxBytes,
		now:      time.Now,
		newID:    shortID,
	}
}

func shortID() string {
	return uuid.NewString()[:8]
}

// UploadFile streams f to the store under {folder}/{unixMillis}-{id}-{name}
// and returns its public URL. The id keeps same-named uploads apart.
func (s *StorageService) UploadFile(ctx context.Context, f File, folder string) (string, error) {
	if f.Size == 0 {
		metrics.StorageUploads.WithLabelValues(metrics.ResultRejected).Inc()
		return "", ErrEmptyFile
	}
	if s.maxBytes > 0 && f.Size > s.maxBytes {
		metrics.StorageUploads.WithLabelValues(metrics.ResultRejected).Inc()
		return "", ErrFileTooLarge
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(f.Reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		metrics.StorageUploads.WithLabelValues(metrics.ResultError).Inc()
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown || !allowedMimeTypes[kind.MIME.Value] {
		metrics.StorageUploads.WithLabelValues(metrics.ResultRejected).Inc()
		return "", ErrUnsupportedType
	}

	key := s.objectKey(folder, f.Name)
	body := io.MultiReader(bytes.NewReader(head), f.Reader)

	if err := s.store.Put(ctx, key, body, f.Size, kind.MIME.Value); err != nil {
		metrics.StorageUploads.WithLabelValues(metrics.ResultError).Inc()
		logger.Error("Failed to upload file", "error", err, "key", key)
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	metrics.StorageUploads.WithLabelValues(metrics.ResultOK).Inc()
	logger.Info("File uploaded", "key", key, "content_type", kind.MIME.Value, "size", f.Size)

	return s.store.URL(key), nil
}

// UploadMultipleFiles uploads every file concurrently. The first failure
// cancels the rest and is returned; URLs keep the input order.
func (s *StorageService) UploadMultipleFiles(ctx context.Context, files []File, folder string) ([]string, error) {
	if len(files) == 0 {
		return nil, apperror.Validation("no files provided")
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)

	for i, f := range files {
		g.Go(func() error {
			url, err := s.UploadFile(gctx, f, folder)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}

// DeleteFile removes key from the store. Failures are logged, not returned.
func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return apperror.Validation("key is required")
	}

	if err := s.store.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete file", "error", err, "key", key)
	}
	return nil
}

func (s *StorageService) objectKey(folder, name string) string {
	folder = sanitize(strings.Trim(folder, "/"))
	if folder == "" {
		folder = DefaultFolder
	}

	name = sanitize(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." {
		name = "file"
	}

	return fmt.Sprintf("%s/%d-%s-%s", folder, s.now().UnixMilli(), s.newID(), name)
}

// sanitize keeps letters, digits, dot, dash and underscore; runs of anything
// else collapse to one dash.
func sanitize(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
