package image

import (
	"bufio"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// JPEGQuality is the quality used when saving .jpg output.
const JPEGQuality = 95

// Save encodes the image to path, choosing the format from the extension.
func Save(path string, img *Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedFormat(path) {
		return fmt.Errorf("unsupported output format %q", ext)
	}

	file, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	// A failed save never leaves a partial file behind.
	w := bufio.NewWriter(file)
	if err := Encode(w, ext, img); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// createOutput opens the destination file for Save. Tests replace it to
// inject write failures.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// Encode writes img to w in the format named by ext (".png", ".jpg", ...).
func Encode(w io.Writer, ext string, img *Image) error {
	out := img.ToNRGBA()

	var err error
	switch strings.ToLower(ext) {
	case ".png":
		err = png.Encode(w, out)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(w, out, &jpeg.Options{Quality: JPEGQuality})
	case ".tif", ".tiff":
		err = tiff.Encode(w, out, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case ".bmp":
		err = bmp.Encode(w, out)
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ext, err)
	}
	return nil
}
