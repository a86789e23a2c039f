package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/wzs-web/internal/clock"
	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/image"
)

// Result describes a stored upload.
type Result struct {
	// Key is the relative storage path and the stable identifier.
	Key string
	// Location is the storage-specific handle, an absolute path for LocalStorage.
	Location string
	// Bytes is the stored size: resized size for images, original size otherwise.
	Bytes int
	// ContentType is normalized for images and passed through otherwise.
	ContentType string
}

// Service routes uploads to the image or generic branch.
type Service struct {
	storage Storage
	images  image.Processor
	clock   clock.Clock
	dirs    config.Upload
	limits  image.ResizeOpts
	newID   func() (uuid.UUID, error)
}

// NewService composes a storage sink and an image processor. A nil clock
// means the UTC wall clock.
func NewService(storage Storage, images image.Processor, clk clock.Clock, dirs config.Upload, limits config.Image) *Service {
	if clk == nil {
		clk = clock.UTC()
	}
	return &Service{
		storage: storage,
		images:  images,
		clock:   clk,
		dirs:    dirs,
		limits:  image.ResizeOpts{MaxWidth: limits.MaxWidth, MaxHeight: limits.MaxHeight},
		newID:   uuid.NewV4,
	}
}

// Upload stores data. Images are resized and keyed <YYYYMM>/<uuid>.<ext>;
// other files are keyed <file_dir>/<sanitized filename>.
func (s *Service) Upload(ctx context.Context, filename, contentType string, data []byte) (Result, error) {
	id, err := s.newID()
	if err != nil {
		return Result{}, fmt.Errorf("upload: id: %w", err)
	}
	if s.images.Supports(contentType) {
		return s.uploadImage(ctx, id, contentType, data)
	}
	return s.uploadFile(ctx, id, filename, contentType, data)
}

func (s *Service) uploadImage(ctx context.Context, id uuid.UUID, contentType string, data []byte) (Result, error) {
	ext, norm := normalizeImageType(contentType)
	resized, err := s.images.Resize(data, norm, s.limits)
	if err != nil {
		return Result{}, fmt.Errorf("upload: resize: %w", err)
	}
	key := s.clock.Now().UTC().Format("200601") + "/" + id.String() + "." + ext
	loc, err := s.storage.Save(ctx, key, resized)
	if err != nil {
		return Result{}, fmt.Errorf("upload: save image: %w", err)
	}
	return Result{Key: key, Location: loc, Bytes: len(resized), ContentType: norm}, nil
}

func (s *Service) uploadFile(ctx context.Context, id uuid.UUID, filename, contentType string, data []byte) (Result, error) {
	name := strings.ReplaceAll(strings.TrimSpace(filename), "/", "_")
	if name == "" {
		name = id.String() + ".bin"
	}
	key := s.dirs.FileDir + "/" + name
	loc, err := s.storage.Save(ctx, key, data)
	if err != nil {
		return Result{}, fmt.Errorf("upload: save file: %w", err)
	}
	return Result{Key: key, Location: loc, Bytes: len(data), ContentType: contentType}, nil
}

func normalizeImageType(contentType string) (ext, norm string) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg":
		return "jpg", "image/jpeg"
	case "image/png":
		return "png", "image/png"
	case "image/gif":
		return "gif", "image/gif"
	}
	return "bin", contentType
}
