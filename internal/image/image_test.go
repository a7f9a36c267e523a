package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// TestFromImageNormalization verifies 8-bit samples are divided by 256 and
// alpha is dropped.
func TestFromImageNormalization(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 128, B: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 64, G: 32, B: 16, A: 10})

	got := FromImage(src)
	want := []float64{
		0, 0.5, 255.0 / 256,
		0.25, 0.125, 0.0625,
	}
	if diff := cmp.Diff(want, got.Pix); diff != "" {
		t.Errorf("FromImage() mismatch (-want +got):\n%s", diff)
	}
}

func TestToNRGBA(t *testing.T) {
	img := New(4, 1)
	img.Set(0, 0, 0, 1, 0.5)
	img.Set(1, 0, -0.2, 1.7, 0.2)
	img.Set(2, 0, 1.0/256, 254.4/256, 254.6/256)

	out := img.ToNRGBA()
	tests := []struct {
		x    int
		want color.NRGBA
	}{
		{0, color.NRGBA{0, 255, 128, 255}},
		{1, color.NRGBA{0, 255, 51, 255}},
		{2, color.NRGBA{1, 254, 255, 255}},
		{3, color.NRGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		if got := out.NRGBAAt(tt.x, 0); got != tt.want {
			t.Errorf("pixel %d = %v; want %v", tt.x, got, tt.want)
		}
	}
}

func TestEncodeFormats(t *testing.T) {
	img := New(3, 2)
	for i := range img.Pix {
		img.Pix[i] = float64(i) / float64(len(img.Pix))
	}

	for _, ext := range []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp"} {
		t.Run(ext, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, ext, img); err != nil {
				t.Fatalf("Encode(%s) error = %v", ext, err)
			}
			decoded, _, err := image.Decode(&buf)
			if err != nil {
				t.Fatalf("decode %s: %v", ext, err)
			}
			if b := decoded.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
				t.Errorf("decoded %s size = %dx%d; want 3x2", ext, b.Dx(), b.Dy())
			}
		})
	}

	if err := Encode(&bytes.Buffer{}, ".gif", img); err == nil {
		t.Error("Encode(.gif) should fail")
	}
}

// TestSaveLoadRoundTrip checks lossless formats preserve 8-bit values through
// the divide-by-256 normalization.
func TestSaveLoadRoundTrip(t *testing.T) {
	img := New(2, 2)
	levels := []uint8{0, 1, 127, 128, 200, 255, 3, 4, 5, 250, 251, 252}
	for i, l := range levels {
		img.Pix[i] = float64(l) / 256
	}

	for _, name := range []string{"out.png", "out.tiff", "out.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(path, img); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			raw, err := LoadRaw(path)
			if err != nil {
				t.Fatalf("LoadRaw() error = %v", err)
			}
			var got []uint8
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					c := color.NRGBAModel.Convert(raw.At(x, y)).(color.NRGBA)
					got = append(got, c.R, c.G, c.B)
				}
			}
			if diff := cmp.Diff(levels, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			want := make([]float64, len(levels))
			for i, l := range levels {
				want[i] = float64(l) / 256
			}
			if diff := cmp.Diff(want, loaded.Pix, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveErrors(t *testing.T) {
	dir := t.TempDir()
	img := Uniform(1, 1, 0.5, 0.5, 0.5)

	if err := Save(filepath.Join(dir, "out.xyz"), img); err == nil {
		t.Error("Save() with unknown extension should fail")
	}
	if err := Save(filepath.Join(dir, "missing", "out.png"), img); err == nil {
		t.Error("Save() into a missing directory should fail")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestSideBySide(t *testing.T) {
	a := Uniform(2, 3, 1, 0, 0)
	b := Uniform(1, 1, 0, 1, 0)

	out := SideBySide(a, nil, b)
	if out.Width != 2+PreviewGap+1 || out.Height != 3 {
		t.Fatalf("SideBySide() size = %dx%d; want %dx3", out.Width, out.Height, 3+PreviewGap)
	}

	tests := []struct {
		x, y    int
		r, g, b float64
	}{
		{0, 0, 1, 0, 0},
		{1, 2, 1, 0, 0},
		{2, 0, previewBackground[0], previewBackground[1], previewBackground[2]},
		{2 + PreviewGap, 0, 0, 1, 0},
		{2 + PreviewGap, 1, previewBackground[0], previewBackground[1], previewBackground[2]},
	}
	for _, tt := range tests {
		r, g, b := out.At(tt.x, tt.y)
		if math.Abs(r-tt.r) > 1e-12 || math.Abs(g-tt.g) > 1e-12 || math.Abs(b-tt.b) > 1e-12 {
			t.Errorf("At(%d,%d) = (%v,%v,%v); want (%v,%v,%v)", tt.x, tt.y, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestNewNegativeSize(t *testing.T) {
	img := New(-3, 4)
	if img.Len() != 0 || len(img.Pix) != 0 {
		t.Errorf("New(-3, 4) = %dx%d with %d samples; want empty", img.Width, img.Height, len(img.Pix))
	}
}

// failingWriter passes Close through to the real file but rejects writes.
type failingWriter struct {
	f *os.File
}

func (w failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }
func (w failingWriter) Close() error                { return w.f.Close() }

// TestSaveRemovesPartialFile checks a failed flush leaves nothing on disk.
func TestSaveRemovesPartialFile(t *testing.T) {
	orig := createOutput
	defer func() { createOutput = orig }()
	createOutput = func(path string) (io.WriteCloser, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return failingWriter{f: f}, nil
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := Save(path, Uniform(1, 1, 0.5, 0.5, 0.5)); err == nil {
		t.Fatal("Save() error = nil; want write error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Save() left %s behind (stat err = %v)", path, err)
	}
}
