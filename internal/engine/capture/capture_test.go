package capture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(2, 1, color.RGBA{B: 255, A: 255})
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"png", FormatPNG, false},
		{".PNG", FormatPNG, false},
		{" bmp ", FormatBMP, false},
		{"jpeg", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("err = %v, want ErrUnknownFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	decoders := map[string]func(*bytes.Buffer) (image.Image, error){
		FormatPNG: func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		FormatBMP: func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) },
	}
	src := testImage()
	for format, decode := range decoders {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := decode(&buf)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v, want %v", got.Bounds(), src.Bounds())
			}
			r, _, _, _ := got.At(0, 0).RGBA()
			_, _, b, _ := got.At(2, 1).RGBA()
			if r>>8 != 255 || b>>8 != 255 {
				t.Error("pixel colors not preserved")
			}
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, testImage(), "tga"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestFromPixelsFlipsRows(t *testing.T) {
	// two rows, bottom row first as GL returns them
	pixels := []byte{
		1, 1, 1, 255, 2, 2, 2, 255,
		9, 9, 9, 255, 8, 8, 8, 255,
	}
	img, err := FromPixels(pixels, 2, 2)
	if err != nil {
		t.Fatalf("FromPixels failed: %v", err)
	}
	if got := img.RGBAAt(0, 0).R; got != 9 {
		t.Errorf("top-left = %d, want 9", got)
	}
	if got := img.RGBAAt(1, 1).R; got != 2 {
		t.Errorf("bottom-right = %d, want 2", got)
	}
}

func TestFromPixelsSizeMismatch(t *testing.T) {
	if _, err := FromPixels(make([]byte, 10), 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestSaveWritesTimestampedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	c := New(dir, "frame", FormatBMP)
	c.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

	if want := filepath.Join(dir, "frame_2024-03-09_14-05-07.bmp"); c.Filename() != want {
		t.Errorf("Filename() = %q, want %q", c.Filename(), want)
	}

	path, err := c.Save(testImage())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != c.Filename() {
		t.Errorf("saved to %q, want %q", path, c.Filename())
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if _, err := bmp.Decode(f); err != nil {
		t.Errorf("saved file is not a BMP: %v", err)
	}
}

func TestSaveFrameNamesDoNotCollide(t *testing.T) {
	c := New(t.TempDir(), "", "")
	c.now = func() time.Time { return time.Unix(0, 0).UTC() }

	a, err := c.SaveFrame(testImage(), 0)
	if err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}
	b, err := c.SaveFrame(testImage(), 1)
	if err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}
	if a == b {
		t.Errorf("frames share a name: %s", a)
	}
	if filepath.Ext(a) != ".png" {
		t.Errorf("default format ext = %s, want .png", filepath.Ext(a))
	}
}

func TestSavePixels(t *testing.T) {
	c := New(t.TempDir(), "gl", FormatPNG)
	if _, err := c.SavePixels(make([]byte, 2*2*4), 2, 2); err != nil {
		t.Fatalf("SavePixels failed: %v", err)
	}
	if _, err := c.SavePixels(make([]byte, 3), 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestSaveRejectsUnknownFormat(t *testing.T) {
	c := New(t.TempDir(), "x", "gif")
	if _, err := c.Save(testImage()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}
