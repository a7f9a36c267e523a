// Package image provides the float RGB image representation used by the color
// transfer engine, plus loading, saving, and preview compositing.
package image

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Channels is the number of color channels per pixel (R, G, B).
const Channels = 3

// sampleScale maps 8-bit samples into [0,1) and back.
const sampleScale = 256.0

// Image is a dense height x width grid of RGB pixels stored as float64.
// Pix holds interleaved R, G, B values in row-major order.
type Image struct {
	Width  int
	Height int
	Pix    []float64
}

// New creates a black image with the given dimensions.
func New(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height*Channels),
	}
}

// Uniform creates an image filled with a single color.
func Uniform(width, height int, r, g, b float64) *Image {
	img := New(width, height)
	for i := 0; i < len(img.Pix); i += Channels {
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
	}
	return img
}

// Len returns the number of pixels.
func (m *Image) Len() int {
	if m == nil {
		return 0
	}
	return m.Width * m.Height
}

// Offset returns the index into Pix of the first channel of pixel (x, y).
func (m *Image) Offset(x, y int) int {
	return (y*m.Width + x) * Channels
}

// At returns the RGB values of pixel (x, y).
func (m *Image) At(x, y int) (r, g, b float64) {
	i := m.Offset(x, y)
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// Set stores the RGB values of pixel (x, y).
func (m *Image) Set(x, y int, r, g, b float64) {
	i := m.Offset(x, y)
	m.Pix[i] = r
	m.Pix[i+1] = g
	m.Pix[i+2] = b
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	out := &Image{Width: m.Width, Height: m.Height, Pix: make([]float64, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// FromImage converts a decoded image into normalized float RGB.
// Each 8-bit sample is divided by 256; alpha is discarded.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	out := New(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.Set(x-b.Min.X, y-b.Min.Y,
				float64(c.R)/sampleScale,
				float64(c.G)/sampleScale,
				float64(c.B)/sampleScale)
		}
	}
	return out
}

// ToNRGBA converts the image to an opaque 8-bit image. Values are clamped to
// [0,1], scaled by 256 and rounded, saturating at 255, so that images loaded
// with FromImage round-trip exactly.
func (m *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, b := m.At(x, y)
			out.SetNRGBA(x, y, color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: 255})
		}
	}
	return out
}

func to8(v float64) uint8 {
	return uint8(min(math.Round(clamp(v, 0, 1)*sampleScale), 255))
}

// Load reads and decodes an image file and normalizes it to [0,1].
func Load(path string) (*Image, error) {
	img, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// LoadRaw reads and decodes an image file without normalization. Mask images
// are loaded this way so their 8-bit values can be compared exactly.
func LoadRaw(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		fallback, ferr := decodeFallback(path)
		if ferr != nil {
			return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
		}
		return fallback, nil
	}
	return img, nil
}

// SupportedFormats returns the list of file extensions Save can encode.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp"}
}

// IsSupportedFormat checks if the given path has an encodable image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
