//go:build opencv

package image

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// decodeFallback reads formats the pure Go decoders reject (e.g. JPEG 2000,
// OpenEXR) through OpenCV. ToImage converts the BGR Mat to RGBA itself.
func decodeFallback(path string) (image.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("opencv could not read %s", path)
	}

	return mat.ToImage()
}
