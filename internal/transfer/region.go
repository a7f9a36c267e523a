package transfer

import (
	"fmt"
	"log"

	"color-transfer/internal/image"
	"color-transfer/internal/mask"
)

// Region pairs corresponding target and source masks for per-region transfer.
type Region struct {
	Name   string
	Target mask.Mask
	Source mask.Mask
}

// MatchRegions runs the color transfer independently for each region: the
// target pixels under region.Target are matched to the statistics of the
// source pixels under region.Source. Regions are applied in order, so later
// regions overwrite earlier ones where target masks overlap. Pixels outside
// every target mask keep their original values.
//
// A region with no target pixels is skipped. A region with target pixels but
// no source pixels is skipped with a warning.
func MatchRegions(target, source *image.Image, regions []Region, mode Mode, eps float64) (*image.Image, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("match regions: %w: %v", ErrInvalidMode, mode)
	}
	if err := checkEpsilon(eps); err != nil {
		return nil, fmt.Errorf("match regions: %w", err)
	}
	if target.Len() == 0 {
		return nil, fmt.Errorf("target image: %w", ErrDegenerateInput)
	}
	if source.Len() == 0 {
		return nil, fmt.Errorf("source image: %w", ErrDegenerateInput)
	}
	for _, r := range regions {
		if err := checkMaskSize(r.Target, target); err != nil {
			return nil, fmt.Errorf("region %q target: %w", r.Name, err)
		}
		if err := checkMaskSize(r.Source, source); err != nil {
			return nil, fmt.Errorf("region %q source: %w", r.Name, err)
		}
	}

	out := target.Clone()
	for _, r := range regions {
		tp := gather(target, r.Target)
		if tp.Len() == 0 {
			continue
		}
		sp := gather(source, r.Source)
		if sp.Len() == 0 {
			log.Printf("Transfer: region %q has %d target pixels but no source pixels, leaving unchanged", r.Name, tp.Len())
			continue
		}

		matched, err := MatchColor(tp, sp, mode, eps)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", r.Name, err)
		}
		scatter(out, matched, r.Target)
	}
	return out, nil
}

func checkMaskSize(m mask.Mask, img *image.Image) error {
	if m.Width != img.Width || m.Height != img.Height || len(m.Bits) != img.Len() {
		return fmt.Errorf("%w: mask %dx%d, image %dx%d", ErrMaskSize, m.Width, m.Height, img.Width, img.Height)
	}
	return nil
}

// gather copies the pixels selected by m into a 1-row image, in raster order.
func gather(img *image.Image, m mask.Mask) *image.Image {
	out := image.New(m.Count(), 1)
	j := 0
	for i, set := range m.Bits {
		if !set {
			continue
		}
		copy(out.Pix[j:j+image.Channels], img.Pix[i*image.Channels:(i+1)*image.Channels])
		j += image.Channels
	}
	return out
}

// scatter writes the pixels of a gathered image back under m.
func scatter(dst, gathered *image.Image, m mask.Mask) {
	j := 0
	for i, set := range m.Bits {
		if !set {
			continue
		}
		copy(dst.Pix[i*image.Channels:(i+1)*image.Channels], gathered.Pix[j:j+image.Channels])
		j += image.Channels
	}
}
