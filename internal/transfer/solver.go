package transfer

import (
	"errors"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
)

// negativeEigenTolerance is the most negative eigenvalue accepted as rounding
// noise. Anything in [negativeEigenTolerance, 0) is treated as zero.
const negativeEigenTolerance = -1e-8

// Mapping is the 3x3 linear map applied to mean-centered target pixels.
type Mapping struct {
	Mode Mode
	M    [3][3]float64
}

// Identity returns the identity mapping.
func Identity() Mapping {
	return Mapping{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Dense returns the mapping as a gonum matrix.
func (m Mapping) Dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		m.M[0][0], m.M[0][1], m.M[0][2],
		m.M[1][0], m.M[1][1], m.M[1][2],
		m.M[2][0], m.M[2][1], m.M[2][2],
	})
}

// Apply returns M·v.
func (m Mapping) Apply(v Vec3) Vec3 {
	return Vec3{
		m.M[0][0]*v[0] + m.M[0][1]*v[1] + m.M[0][2]*v[2],
		m.M[1][0]*v[0] + m.M[1][1]*v[1] + m.M[1][2]*v[2],
		m.M[2][0]*v[0] + m.M[2][1]*v[1] + m.M[2][2]*v[2],
	}
}

// Solve builds the mapping A that carries the target covariance ct onto the
// source covariance cs, so that A·ct·Aᵗ ≈ cs.
func Solve(ct, cs *mat.SymDense, mode Mode) (Mapping, error) {
	if !mode.Valid() {
		return Mapping{}, fmt.Errorf("solve: %w: %v", ErrInvalidMode, mode)
	}
	if ct.SymmetricDim() != 3 || cs.SymmetricDim() != 3 {
		return Mapping{}, fmt.Errorf("solve: covariance must be 3x3, got %d and %d",
			ct.SymmetricDim(), cs.SymmetricDim())
	}

	var a *mat.Dense
	var err error
	switch mode {
	case ModeCholesky:
		a, err = solveCholesky(ct, cs)
	case ModePCA:
		a, err = solvePCA(ct, cs)
	case ModeSym:
		a, err = solveSym(ct, cs)
	default:
		return Mapping{}, fmt.Errorf("solve: %w: %v", ErrInvalidMode, mode)
	}
	if err != nil {
		return Mapping{}, fmt.Errorf("solve %v: %w", mode, err)
	}

	m := Mapping{Mode: mode}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.M[i][j] = a.At(i, j)
		}
	}
	return m, nil
}

// solveCholesky returns A = Ls·Lt⁻¹ for Cholesky factors L·Lᵗ = C.
func solveCholesky(ct, cs *mat.SymDense) (*mat.Dense, error) {
	var cholT, cholS mat.Cholesky
	if ok := cholT.Factorize(ct); !ok {
		return nil, fmt.Errorf("target covariance: %w", ErrNonPositiveDefinite)
	}
	if ok := cholS.Factorize(cs); !ok {
		return nil, fmt.Errorf("source covariance: %w", ErrNonPositiveDefinite)
	}

	var lt, ls mat.TriDense
	cholT.LTo(&lt)
	cholS.LTo(&ls)

	return rightDivide(&ls, &lt)
}

// solvePCA returns A = Qs·Qt⁻¹ with Q(C) the symmetric square root of C.
func solvePCA(ct, cs *mat.SymDense) (*mat.Dense, error) {
	qt, err := sqrtSym(ct)
	if err != nil {
		return nil, fmt.Errorf("target covariance: %w", err)
	}
	qs, err := sqrtSym(cs)
	if err != nil {
		return nil, fmt.Errorf("source covariance: %w", err)
	}
	return rightDivide(qs, qt)
}

// solveSym returns A = Qt⁻¹·Q(Qt·Cs·Qt)·Qt⁻¹, the symmetric solution of
// A·Ct·A = Cs.
func solveSym(ct, cs *mat.SymDense) (*mat.Dense, error) {
	qt, err := sqrtSym(ct)
	if err != nil {
		return nil, fmt.Errorf("target covariance: %w", err)
	}

	var qtcs, middle mat.Dense
	qtcs.Mul(qt, cs)
	middle.Mul(&qtcs, qt)

	qm, err := sqrtSym(symmetrize(&middle))
	if err != nil {
		return nil, fmt.Errorf("whitened source covariance: %w", err)
	}

	// Qt⁻¹·Qm, then (Qt⁻¹·Qm)·Qt⁻¹.
	var left mat.Dense
	if err := solveChecked(&left, qt, qm); err != nil {
		return nil, err
	}
	a, err := rightDivide(&left, qt)
	if err != nil {
		return nil, err
	}

	// The exact result is symmetric; drop rounding asymmetry.
	sym := symmetrize(a)
	out := mat.NewDense(3, 3, nil)
	out.Copy(sym)
	return out, nil
}

// sqrtSym returns V·diag(√λ)·Vᵗ for the eigendecomposition C = V·diag(λ)·Vᵗ.
func sqrtSym(c mat.Symmetric) (*mat.SymDense, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(c, true); !ok {
		return nil, fmt.Errorf("eigendecomposition did not converge: %w", ErrDecomposition)
	}

	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	for i, v := range vals {
		if v < negativeEigenTolerance || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: eigenvalue %g", ErrDecomposition, v)
		}
		vals[i] = math.Sqrt(max(v, 0))
	}

	n := c.SymmetricDim()
	q := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var s float64
			for k := 0; k < n; k++ {
				s += vecs.At(i, k) * vals[k] * vecs.At(j, k)
			}
			q.SetSym(i, j, s)
		}
	}
	return q, nil
}

// rightDivide returns B·A⁻¹ by solving Aᵗ·Xᵗ = Bᵗ.
func rightDivide(b, a mat.Matrix) (*mat.Dense, error) {
	var xt mat.Dense
	if err := solveChecked(&xt, a.T(), b.T()); err != nil {
		return nil, err
	}
	x := mat.DenseCopyOf(xt.T())
	return x, nil
}

// solveChecked solves a·x = b into dst. An ill-conditioned system is logged
// but accepted since eps regularization keeps it solvable.
func solveChecked(dst *mat.Dense, a, b mat.Matrix) error {
	err := dst.Solve(a, b)
	if err == nil {
		return nil
	}
	var cond mat.Condition
	if errors.As(err, &cond) {
		log.Printf("Transfer: ill-conditioned solve (condition %.3g)", float64(cond))
		return nil
	}
	return fmt.Errorf("%w: %v", ErrDecomposition, err)
}

// symmetrize returns (M + Mᵗ)/2.
func symmetrize(m mat.Matrix) *mat.SymDense {
	r, _ := m.Dims()
	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			s.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}
	return s
}
