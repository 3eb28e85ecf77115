package imagesrc

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	path := filepath.Join(dir, "sample.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestOpenPNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), 30, 20)

	h, err := Open(path)

	require.NoError(t, err)
	assert.Equal(t, "png", h.Format)
	assert.Equal(t, 30, h.Width)
	assert.Equal(t, 20, h.Height)
	assert.Positive(t, h.Bytes)
	assert.True(t, filepath.IsAbs(h.Path))
	assert.Equal(t, h.Path, h.Key())
	assert.Equal(t, "sample.png", h.Name())
}

func TestOpenJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, image.NewGray(image.Rect(0, 0, 16, 8)), nil))
	require.NoError(t, f.Close())

	h, err := Open(path)

	require.NoError(t, err)
	assert.Equal(t, "jpeg", h.Format)
	assert.Equal(t, 16, h.Width)
	assert.Equal(t, 8, h.Height)
}

func TestOpenRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := Open(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestOpenRejectsDirectory(t *testing.T) {
	_, err := Open(t.TempDir())

	assert.ErrorIs(t, err, ErrNotImage)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.png"))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotImage)
}

func TestDescribe(t *testing.T) {
	h := Handle{Path: "/tmp/cat.png", Format: "png", Width: 3000, Height: 2000, Bytes: 1_200_000}

	got := h.Describe()

	assert.True(t, strings.HasPrefix(got, "cat.png 3000×2000 png "), got)
	assert.Contains(t, got, "MB")
}
