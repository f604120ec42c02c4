// Package uploads stores payment-proof documents and product images on
// disk and hands out opaque references to them.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

// MaxUploadSize bounds a single upload.
const MaxUploadSize = 10 << 20 // 10 MiB

// allowedTypes maps accepted content types to the extension stored on
// disk. Anything else is rejected.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Store writes uploaded files under a single directory. File names are
// freshly generated UUIDs so a stored reference never reveals the
// original name and can be handed to clients safely.
type Store struct {
	dir string
}

// NewStore ensures the upload directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save persists one multipart file and returns its reference.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (*StoredFile, error) {
	if header.Size > MaxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", httpx.ErrValidation, MaxUploadSize)
	}

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", httpx.ErrValidation, contentType)
	}

	ref := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, ref), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("uploads: create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(file, MaxUploadSize))
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("uploads: write file: %w", err)
	}

	return &StoredFile{
		Ref:          ref,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    written,
	}, nil
}

// Path resolves a stored reference to its on-disk path. References that
// escape the upload directory or do not exist are rejected.
func (s *Store) Path(ref string) (string, error) {
	if ref == "" || strings.Contains(ref, "/") || strings.Contains(ref, "\\") || strings.Contains(ref, "..") {
		return "", fmt.Errorf("%w: invalid file reference", httpx.ErrValidation)
	}
	path := filepath.Join(s.dir, ref)
	if _, err := os.Stat(path); err != nil {
		return "", httpx.ErrNotFound
	}
	return path, nil
}

// StoredFile describes one persisted upload.
type StoredFile struct {
	Ref          string `json:"ref"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
}
