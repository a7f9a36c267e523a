//go:build !opencv

package image

import (
	"errors"
	"image"
)

// decodeFallback is only available in builds tagged opencv.
func decodeFallback(path string) (image.Image, error) {
	return nil, errors.New("no fallback decoder")
}
