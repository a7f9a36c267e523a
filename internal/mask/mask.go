// Package mask extracts boolean region masks from color-coded mask images.
package mask

import (
	"image"
	"image/color"
	"log"

	"color-transfer/pkg/colorutil"
)

// Mask is a per-pixel boolean grid with the extent of its mask image.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// New creates an empty mask of the given size.
func New(width, height int) Mask {
	return Mask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

// At reports whether pixel (x, y) is set.
func (m Mask) At(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

// Set sets pixel (x, y).
func (m Mask) Set(x, y int, v bool) {
	m.Bits[y*m.Width+x] = v
}

// Count returns the number of set pixels.
func (m Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Names returns the recognized color names in canonical order.
func Names() []string {
	named := colorutil.Named()
	names := make([]string, len(named))
	for i, nc := range named {
		names[i] = nc.Name
	}
	return names
}

// Extract marks every pixel of img whose 8-bit RGB value exactly equals the
// reference color for colorName. Alpha is ignored. If the name is not
// recognized a warning is logged and ok is false.
func Extract(img image.Image, colorName string) (m Mask, ok bool) {
	ref, ok := colorutil.Lookup(colorName)
	if !ok {
		log.Printf("Mask: color %q not recognized", colorName)
		return Mask{}, false
	}

	b := img.Bounds()
	m = New(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R == ref.R && c.G == ref.G && c.B == ref.B {
				m.Set(x-b.Min.X, y-b.Min.Y, true)
			}
		}
	}
	return m, true
}
