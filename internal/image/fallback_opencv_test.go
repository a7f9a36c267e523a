//go:build opencv

package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// TestDecodeFallbackChannelOrder checks that OpenCV's BGR layout comes back
// as RGB.
func TestDecodeFallbackChannelOrder(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	src.SetNRGBA(2, 0, color.NRGBA{B: 255, A: 255})

	path := filepath.Join(t.TempDir(), "rgb.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		f.Close()
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	img, err := decodeFallback(path)
	if err != nil {
		t.Fatalf("decodeFallback() error = %v", err)
	}

	want := []color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
	}
	for x, w := range want {
		got := color.NRGBAModel.Convert(img.At(x, 0)).(color.NRGBA)
		if got != w {
			t.Errorf("pixel %d = %v; want %v", x, got, w)
		}
	}
}

func TestDecodeFallbackMissingFile(t *testing.T) {
	if _, err := decodeFallback(filepath.Join(t.TempDir(), "missing.jp2")); err == nil {
		t.Error("decodeFallback() error = nil; want error for missing file")
	}
}
