// Package upload stores incoming files: images are resized and keyed by month
// and a random id, everything else is kept under a sanitized name.
package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/and161185/wzs-web/internal/errs"
)

// Storage persists bytes under a relative key and returns a
// storage-specific location for the written artifact.
type Storage interface {
	Save(ctx context.Context, relPath string, data []byte) (string, error)
}

// LocalStorage writes files below a root directory.
type LocalStorage struct {
	root string
}

var _ Storage = (*LocalStorage)(nil)

// NewLocalStorage resolves root to an absolute path. The directory is
// created lazily on first write.
func NewLocalStorage(root string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve root %q: %v", errs.ErrStorage, root, err)
	}
	return &LocalStorage{root: abs}, nil
}

// Root returns the absolute storage root.
func (s *LocalStorage) Root() string { return s.root }

// SanitizePath strips one leading "/" and replaces every ".." with "_".
func SanitizePath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	return strings.ReplaceAll(rel, "..", "_")
}

// Save writes data atomically: bytes land in a temp file next to the target
// and are renamed into place. It returns the absolute path written.
func (s *LocalStorage) Save(_ context.Context, relPath string, data []byte) (string, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: mkdir %s: %v", errs.ErrStorage, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: temp file: %v", errs.ErrStorage, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("%w: write %s: %v", errs.ErrStorage, full, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %v", errs.ErrStorage, full, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("%w: chmod %s: %v", errs.ErrStorage, full, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		return "", fmt.Errorf("%w: rename %s: %v", errs.ErrStorage, full, err)
	}
	tmpName = ""
	return full, nil
}

// resolve sanitizes relPath and checks that the cleaned result stays strictly
// below the root.
func (s *LocalStorage) resolve(relPath string) (string, error) {
	safe := SanitizePath(relPath)
	full := filepath.Join(s.root, filepath.FromSlash(safe))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %q escapes storage root", errs.ErrStorage, relPath)
	}
	return full, nil
}
