package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/golang/groupcache/lru"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrDecode is returned when bytes cannot be decoded as a supported image.
var ErrDecode = errors.New("could not decode image")

// DecodeBytes decodes an encoded image (PNG, JPEG, GIF, BMP, TIFF or WebP).
//
// EXIF orientation is applied, so a rotated phone photograph comes back
// upright. The returned format is the registered decoder name ("png",
// "jpeg", ...). Empty or undecodable input yields an error wrapping
// ErrDecode.
func DecodeBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrDecode)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return img, format, nil
}

// ToNRGBA returns an origin-based NRGBA copy of img.
//
// Every pixel operation in this module indexes from (0,0); sub-images and
// decoder-specific types are normalized through this function first.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// ToGray converts img to an origin-based 8-bit grayscale image using
// BT.601 luma weights.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}

	// imaging.Grayscale keeps R=G=B, so any channel carries the luma.
	luma := imaging.Grayscale(img)
	gray := image.NewGray(luma.Rect)
	for i := 0; i < len(gray.Pix); i++ {
		gray.Pix[i] = luma.Pix[i*4]
	}
	return gray
}

// ToRGBA returns an origin-based RGBA copy of img, suitable for drawing on.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// entry is one decoded image together with the facts learned while decoding it.
type entry struct {
	img    image.Image
	format string
	size   int64
}

// DefaultCacheSize is the number of decoded images kept when no size is
// configured.
const DefaultCacheSize = 16

// ImageCache provides thread-safe caching of decoded images keyed by path.
//
// Once an image is loaded, subsequent Load() calls for the same path return
// the cached copy without disk I/O. At most maxEntries images are held; the
// least recently used one is dropped to make room.
//
//	cache := imaging.NewImageCache(8)
//	img, err := cache.Load("/path/to/pitch.jpg")
type ImageCache struct {
	mu     sync.Mutex
	images *lru.Cache
}

// NewImageCache creates an empty cache holding up to maxEntries images.
// A non-positive maxEntries selects DefaultCacheSize.
func NewImageCache(maxEntries int) *ImageCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &ImageCache{
		images: lru.New(maxEntries),
	}
}

// Load retrieves an image from the cache or reads and decodes it from disk.
//
// Different paths to the same file (relative vs absolute) result in
// separate cache entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (c *ImageCache) load(path string) (entry, error) {
	c.mu.Lock()
	v, ok := c.images.Get(path)
	c.mu.Unlock()
	if ok {
		return v.(entry), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entry{}, fmt.Errorf("failed to open image: %w", err)
	}

	img, format, err := DecodeBytes(data)
	if err != nil {
		return entry{}, err
	}

	e := entry{img: img, format: format, size: int64(len(data))}
	c.mu.Lock()
	c.images.Add(path, e)
	c.mu.Unlock()

	return e, nil
}

// Len reports how many images are cached.
func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.images.Len()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that recognised the file contents, e.g. "png" or "jpeg".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and describes it.
//
// Color depth is derived from the decoded Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	e, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch e.img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := e.img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        e.format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: e.size,
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image, loading it if needed.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
