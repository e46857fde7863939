package imaging

import (
	"fmt"
	"os"
	"sync"

	"github.com/ironsheep/pnm-tools/pkg/pnm"
)

// ImageCache provides thread-safe caching of decoded PNM images to avoid
// redundant disk reads.
//
// The cache stores decoded *pnm.Image values keyed by their file path. Load
// always hands out a deep copy, so callers may mutate and close the result
// without affecting the cached entry or other callers.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Invalidation
//
// Entries are not checked against the file on disk. Any code that writes a
// PNM file through Save must go through the same cache (or call Evict) so the
// next Load sees the new contents.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/image.ppm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer img.Close()
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*pnm.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*pnm.Image),
	}
}

// Load retrieves a copy of the image at path, decoding it from disk if it is
// not cached yet.
//
// The image is cached using the exact path string provided. Different paths to
// the same file (e.g., relative vs absolute) result in separate cache entries.
//
// # Errors
//
// Errors from pkg/pnm are wrapped and keep their kind: a missing file is a
// pnm.ReadFailure, a file that is not PNM is a pnm.WrongHeader.
func (c *ImageCache) Load(path string) (*pnm.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img.Clone(), nil
	}
	c.mu.RUnlock()

	img, err := pnm.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img.Clone(), nil
}

// Save writes img to path and replaces the cached entry for path with a copy
// of img.
func (c *ImageCache) Save(img *pnm.Image, path string) (*WriteResult, error) {
	if err := pnm.Save(img, path); err != nil {
		c.Evict(path)
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img.Clone()
	c.mu.Unlock()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return &WriteResult{
		Path:          path,
		Magic:         img.Variant().Magic(),
		Width:         img.Width(),
		Height:        img.Height(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*pnm.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// WriteResult describes a PNM file that was just written.
type WriteResult struct {
	Path          string `json:"path"`
	Magic         string `json:"magic"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// ImageInfo contains metadata about a PNM file.
type ImageInfo struct {
	// Magic is the two-character magic number, "P1" through "P6".
	Magic string `json:"magic"`

	// Variant is the variant name, e.g. "BinaryRgb".
	Variant string `json:"variant"`

	// Encoding is "ascii" for P1-P3 and "binary" for P4-P6.
	Encoding string `json:"encoding"`

	// Depth is "bitmap", "greymap" or "pixmap".
	Depth string `json:"depth"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Maxval is the declared maximum sample value.
	Maxval int `json:"maxval"`

	// Comments lists the header comments in file order.
	Comments []string `json:"comments"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through cache and returns its header metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return newImageInfo(img.Header(), stat.Size()), nil
}

func newImageInfo(h pnm.Header, size int64) *ImageInfo {
	comments := h.Comments
	if comments == nil {
		comments = []string{}
	}
	return &ImageInfo{
		Magic:         h.Variant.Magic(),
		Variant:       h.Variant.String(),
		Encoding:      h.Variant.Encoding(),
		Depth:         h.Variant.Depth().String(),
		Width:         h.Width,
		Height:        h.Height,
		Maxval:        h.Maxval,
		Comments:      comments,
		FileSizeBytes: size,
	}
}

// ReadImageInfo reads only the header of the file at path. The pixel payload
// is neither decoded nor cached.
func ReadImageInfo(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	h, err := pnm.ReadHeader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return newImageInfo(h, stat.Size()), nil
}
