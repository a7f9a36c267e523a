package transfer

import (
	"fmt"
	"strings"
)

// Mode selects the basis used to whiten and re-color the target pixels.
type Mode int

const (
	// ModeCholesky maps through lower-triangular Cholesky factors.
	ModeCholesky Mode = iota + 1
	// ModePCA maps through eigendecomposition-based symmetric square roots.
	ModePCA
	// ModeSym uses the unique symmetric solution of A·Ct·A = Cs.
	ModeSym
)

// Modes lists every valid mode.
var Modes = []Mode{ModeCholesky, ModePCA, ModeSym}

func (m Mode) String() string {
	switch m {
	case ModeCholesky:
		return "chol"
	case ModePCA:
		return "pca"
	case ModeSym:
		return "sym"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m == ModeCholesky || m == ModePCA || m == ModeSym
}

// ParseMode converts a mode name to a Mode. "chol" and "cholesky" are
// synonyms. Matching ignores case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chol", "cholesky":
		return ModeCholesky, nil
	case "pca":
		return ModePCA, nil
	case "sym":
		return ModeSym, nil
	}
	return 0, fmt.Errorf("%w: %q (want chol, pca or sym)", ErrInvalidMode, s)
}

// Set implements flag.Value.
func (m *Mode) Set(s string) error {
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
