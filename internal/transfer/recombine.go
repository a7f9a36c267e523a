package transfer

import (
	"color-transfer/internal/image"
)

// Recombine applies the mapping to every mean-centered target pixel, adds the
// source mean and clamps each channel to [0,1]:
//
//	out = clamp(A·(p - targetMean) + sourceMean)
func Recombine(target *image.Image, targetMean Vec3, m Mapping, sourceMean Vec3) *image.Image {
	out := image.New(target.Width, target.Height)
	src := target.Pix
	dst := out.Pix

	forEachChunk(splitPixels(target.Len()), func(_ int, c chunk) {
		for p := c.lo * image.Channels; p < c.hi*image.Channels; p += image.Channels {
			v := m.Apply(Vec3{
				src[p] - targetMean[0],
				src[p+1] - targetMean[1],
				src[p+2] - targetMean[2],
			})
			dst[p] = clamp01(v[0] + sourceMean[0])
			dst[p+1] = clamp01(v[1] + sourceMean[1])
			dst[p+2] = clamp01(v[2] + sourceMean[2])
		}
	})
	return out
}

// clamp01 limits v to [0,1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v >= 0 {
		return v
	}
	return 0
}
