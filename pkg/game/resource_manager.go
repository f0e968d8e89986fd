package game

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/tilemaker/pkg/tilemap"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ResourceManager is responsible for loading tileset atlas images.
// Decoded images are cached by path so reopening the same tileset
// does not decode it again.
//
// Supported formats: PNG, JPEG, GIF (standard library) and BMP, TIFF,
// WebP (golang.org/x/image).
//
// Thread Safety Note:
// This implementation is NOT thread-safe. The editor runs entirely on the
// Ebitengine update goroutine, so no synchronization is needed.
//
// Usage:
//
//	rm := NewResourceManager()
//	atlas, err := rm.LoadImage("tiles/dungeon.png")
//	if errors.Is(err, tilemap.ErrDecodeFailure) {
//	    log.Printf("Failed to load tileset: %v", err)
//	}
type ResourceManager struct {
	imageCache map[string]image.Image // Cache for decoded images: absolute path -> Image
}

// NewResourceManager creates a ResourceManager with an empty cache.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		imageCache: make(map[string]image.Image),
	}
}

// cacheKey normalizes a path so "a/../b.png" and "b.png" share one entry.
func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// LoadImage loads and decodes an image file, returning the cached copy
// if the same path was loaded before.
//
// Parameters:
//   - path: The file path to the atlas image.
//
// Returns:
//   - The decoded image.
//   - An error wrapping tilemap.ErrDecodeFailure if the file cannot be
//     opened or decoded. Never panics.
func (rm *ResourceManager) LoadImage(path string) (image.Image, error) {
	key := cacheKey(path)
	if cached, exists := rm.imageCache[key]; exists {
		return cached, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image file %s: %v", tilemap.ErrDecodeFailure, path, err)
	}
	defer file.Close()

	img, format, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rm.imageCache[key] = img
	log.Printf("[ResourceManager] Loaded %s image %s (%dx%d)", format, path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// GetImage returns a previously loaded image, or nil if it is not cached.
func (rm *ResourceManager) GetImage(path string) image.Image {
	return rm.imageCache[cacheKey(path)]
}

// ReleaseImage drops a cached image so it can be garbage collected.
// Called when a tileset is replaced by another one.
func (rm *ResourceManager) ReleaseImage(path string) {
	delete(rm.imageCache, cacheKey(path))
}

// ReleaseAllExcept drops every cached image except the given path.
func (rm *ResourceManager) ReleaseAllExcept(path string) {
	keep := cacheKey(path)
	for key := range rm.imageCache {
		if key != keep {
			delete(rm.imageCache, key)
		}
	}
}

// CachedCount returns the number of cached images.
func (rm *ResourceManager) CachedCount() int {
	return len(rm.imageCache)
}

// DecodeImage decodes an image from r using every registered format.
//
// Returns:
//   - The decoded image and the format name ("png", "bmp", ...).
//   - An error wrapping tilemap.ErrDecodeFailure if the data is not a
//     supported image.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", tilemap.ErrDecodeFailure, err)
	}
	return img, format, nil
}
