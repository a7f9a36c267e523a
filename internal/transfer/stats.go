package transfer

import (
	"fmt"
	"math"

	"color-transfer/internal/image"

	"gonum.org/v1/gonum/mat"
)

// DefaultEpsilon is the default covariance regularization term.
const DefaultEpsilon = 1e-5

// Vec3 is a per-channel RGB vector.
type Vec3 [3]float64

// Stats holds the first- and second-order color statistics of an image.
type Stats struct {
	Mean Vec3
	Cov  *mat.SymDense // 3x3, regularized by eps·I
	N    int           // pixel count
}

// Estimate computes the per-channel mean and the regularized covariance
//
//	C = Xc·Xcᵗ/N + eps·I
//
// where Xc is the 3xN matrix of mean-centered pixels.
func Estimate(img *image.Image, eps float64) (Stats, error) {
	if err := checkEpsilon(eps); err != nil {
		return Stats{}, err
	}
	n := img.Len()
	if n == 0 {
		return Stats{}, fmt.Errorf("estimate: %w", ErrDegenerateInput)
	}

	pix := img.Pix
	chunks := splitPixels(n)

	sums := make([]Vec3, len(chunks))
	forEachChunk(chunks, func(i int, c chunk) {
		var s Vec3
		for p := c.lo * image.Channels; p < c.hi*image.Channels; p += image.Channels {
			s[0] += pix[p]
			s[1] += pix[p+1]
			s[2] += pix[p+2]
		}
		sums[i] = s
	})

	var mean Vec3
	for _, s := range sums {
		mean[0] += s[0]
		mean[1] += s[1]
		mean[2] += s[2]
	}
	for k := range mean {
		mean[k] /= float64(n)
	}

	// Upper triangle: rr, rg, rb, gg, gb, bb.
	outer := make([][6]float64, len(chunks))
	forEachChunk(chunks, func(i int, c chunk) {
		var o [6]float64
		for p := c.lo * image.Channels; p < c.hi*image.Channels; p += image.Channels {
			r := pix[p] - mean[0]
			g := pix[p+1] - mean[1]
			b := pix[p+2] - mean[2]
			o[0] += r * r
			o[1] += r * g
			o[2] += r * b
			o[3] += g * g
			o[4] += g * b
			o[5] += b * b
		}
		outer[i] = o
	})

	var acc [6]float64
	for _, o := range outer {
		for k := range acc {
			acc[k] += o[k]
		}
	}
	for k := range acc {
		acc[k] /= float64(n)
	}

	cov := mat.NewSymDense(3, []float64{
		acc[0] + eps, acc[1], acc[2],
		acc[1], acc[3] + eps, acc[4],
		acc[2], acc[4], acc[5] + eps,
	})

	return Stats{Mean: mean, Cov: cov, N: n}, nil
}

func checkEpsilon(eps float64) error {
	if !(eps > 0) || math.IsInf(eps, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidEpsilon, eps)
	}
	return nil
}
