package transfer

import (
	"math/rand"
	"testing"

	"color-transfer/internal/image"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/mat"
)

// randomImage fills an image with independent uniform channels in [lo, hi).
func randomImage(rng *rand.Rand, w, h int, lo, hi float64) *image.Image {
	img := image.New(w, h)
	for i := range img.Pix {
		img.Pix[i] = lo + rng.Float64()*(hi-lo)
	}
	return img
}

// correlatedImage produces pixels around 0.5 with strongly correlated
// channels and a small independent component.
func correlatedImage(rng *rand.Rand, w, h int) *image.Image {
	img := image.New(w, h)
	for p := 0; p < img.Len(); p++ {
		shared := 0.1 * (rng.Float64() - 0.5)
		for k := 0; k < image.Channels; k++ {
			img.Pix[p*image.Channels+k] = 0.5 + shared + 0.05*(rng.Float64()-0.5) + 0.02*float64(k)
		}
	}
	return img
}

func denseRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}

// assertMatrixNear fails if got and want differ by more than tol in any entry.
func assertMatrixNear(t *testing.T, got, want mat.Matrix, tol float64) {
	t.Helper()
	if diff := cmp.Diff(denseRows(want), denseRows(got), cmpopts.EquateApprox(0, tol)); diff != "" {
		t.Errorf("matrix mismatch (-want +got):\n%s", diff)
	}
}

// transported returns A·C·Aᵗ.
func transported(m Mapping, c mat.Matrix) *mat.Dense {
	a := m.Dense()
	var ac, aca mat.Dense
	ac.Mul(a, c)
	aca.Mul(&ac, a.T())
	return &aca
}
