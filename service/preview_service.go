package service

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const (
	previewCacheDir = "cache/previews"
	// Quality settings
	qualityPreview = 60
	// Size settings (max dimension)
	maxSizePreview = 300
)

// PreviewService materializes downscaled JPEG previews of selected
// images in a process-local cache directory.
// Implements PreviewServiceInterface
type PreviewService struct {
	dir string
}

// NewPreviewService creates a new PreviewService, ensuring the cache
// directory exists.
func NewPreviewService() (*PreviewService, error) {
	if err := os.MkdirAll(previewCacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preview cache directory: %w", err)
	}
	return &PreviewService{dir: previewCacheDir}, nil
}

// Ensure PreviewService implements PreviewServiceInterface
var _ PreviewServiceInterface = (*PreviewService)(nil)

// Materialize decodes the selected image, fits it into a bounded
// thumbnail and writes it to the cache. Returns the preview path.
func (ps *PreviewService) Materialize(itemID string, content []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(img, maxSizePreview, maxSizePreview, imaging.Lanczos)

	path := filepath.Join(ps.dir, fmt.Sprintf("item_%s.jpg", itemID))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create preview file: %w", err)
	}
	defer out.Close()

	if err := imaging.Encode(out, thumb, imaging.JPEG, imaging.JPEGQuality(qualityPreview)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}

	return path, nil
}

// Read returns the preview bytes for serving.
func (ps *PreviewService) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preview: %w", err)
	}
	return data, nil
}

// Release removes a preview file. Safe to call with an empty path or a
// path that was already removed.
func (ps *PreviewService) Release(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Warning: failed to remove preview %s: %v", path, err)
	}
}
