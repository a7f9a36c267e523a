package image

// PreviewGap is the number of background pixels between panels in a
// side-by-side preview.
const PreviewGap = 8

// previewBackground is the dark gray used behind preview panels.
var previewBackground = [Channels]float64{40.0 / 255, 40.0 / 255, 40.0 / 255}

// SideBySide lays the given images out left to right on a dark background,
// top aligned. Nil images are skipped.
func SideBySide(imgs ...*Image) *Image {
	width, height := 0, 0
	n := 0
	for _, img := range imgs {
		if img == nil {
			continue
		}
		if n > 0 {
			width += PreviewGap
		}
		width += img.Width
		height = max(height, img.Height)
		n++
	}

	out := New(width, height)
	for i := 0; i < len(out.Pix); i += Channels {
		copy(out.Pix[i:i+Channels], previewBackground[:])
	}

	offsetX := 0
	for _, img := range imgs {
		if img == nil {
			continue
		}
		for y := 0; y < img.Height; y++ {
			src := img.Pix[img.Offset(0, y):img.Offset(img.Width, y)]
			copy(out.Pix[out.Offset(offsetX, y):], src)
		}
		offsetX += img.Width + PreviewGap
	}
	return out
}
