// Package transfer re-maps the color distribution of a target image so its
// per-channel mean and channel covariance match those of a source image.
//
// The pipeline is Estimate (both images) → Solve → Recombine. MatchColor runs
// all three; Analyze stops before Recombine for diagnostics.
package transfer

import (
	"fmt"

	"color-transfer/internal/image"

	"gonum.org/v1/gonum/mat"
)

// Solution holds the statistics and mapping computed for an image pair.
type Solution struct {
	Target  Stats
	Source  Stats
	Mapping Mapping
}

// Residual returns the Frobenius norm of A·Ct·Aᵗ - Cs, which is close to zero
// for a correct mapping.
func (s Solution) Residual() float64 {
	a := s.Mapping.Dense()
	var act, acta, diff mat.Dense
	act.Mul(a, s.Target.Cov)
	acta.Mul(&act, a.T())
	diff.Sub(&acta, s.Source.Cov)
	return mat.Norm(&diff, 2)
}

// Analyze estimates the statistics of both images and solves for the mapping.
// The mode is validated before any statistics are computed.
func Analyze(target, source *image.Image, mode Mode, eps float64) (Solution, error) {
	if !mode.Valid() {
		return Solution{}, fmt.Errorf("match color: %w: %v", ErrInvalidMode, mode)
	}
	if err := checkEpsilon(eps); err != nil {
		return Solution{}, fmt.Errorf("match color: %w", err)
	}

	ts, err := Estimate(target, eps)
	if err != nil {
		return Solution{}, fmt.Errorf("target image: %w", err)
	}
	ss, err := Estimate(source, eps)
	if err != nil {
		return Solution{}, fmt.Errorf("source image: %w", err)
	}

	m, err := Solve(ts.Cov, ss.Cov, mode)
	if err != nil {
		return Solution{}, err
	}
	return Solution{Target: ts, Source: ss, Mapping: m}, nil
}

// MatchColor returns a copy of target whose color mean and covariance match
// those of source. Output values are clamped to [0,1].
func MatchColor(target, source *image.Image, mode Mode, eps float64) (*image.Image, error) {
	sol, err := Analyze(target, source, mode, eps)
	if err != nil {
		return nil, err
	}
	return Recombine(target, sol.Target.Mean, sol.Mapping, sol.Source.Mean), nil
}
