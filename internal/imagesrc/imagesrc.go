// Package imagesrc opens image files and reports their decoded dimensions.
package imagesrc

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage indicates the file could not be decoded as an image.
var ErrNotImage = errors.New("not a decodable image")

// Handle references a successfully decoded image.
type Handle struct {
	Path   string
	Format string
	Width  int
	Height int
	Bytes  int64
}

// Key returns the identifier used to persist adjustments for the image.
func (h Handle) Key() string {
	return h.Path
}

// Name returns the base file name.
func (h Handle) Name() string {
	return filepath.Base(h.Path)
}

// Describe returns a one-line summary such as "cat.png 3000×2000 png 1.2 MB".
func (h Handle) Describe() string {
	return fmt.Sprintf("%s %d×%d %s %s", h.Name(), h.Width, h.Height, h.Format, humanize.Bytes(uint64(h.Bytes)))
}

// Open decodes the image header at path.
func Open(path string) (Handle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Handle{}, fmt.Errorf("resolve image path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Handle{}, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return Handle{}, fmt.Errorf("%s is a directory: %w", path, ErrNotImage)
	}

	f, err := os.Open(abs)
	if err != nil {
		return Handle{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Handle{}, fmt.Errorf("%s: %w: %v", path, ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Handle{}, fmt.Errorf("%s: %w: empty image", path, ErrNotImage)
	}

	return Handle{
		Path:   abs,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Bytes:  info.Size(),
	}, nil
}
