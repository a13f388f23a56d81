// Package capture writes rendered frames to image files.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// Supported output formats.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// ErrUnknownFormat is returned for formats other than png and bmp.
var ErrUnknownFormat = errors.New("unknown image format")

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatPNG, FormatBMP}
}

// ParseFormat normalizes a format name. An empty name means png.
func ParseFormat(name string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	switch f {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatBMP:
		return FormatBMP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	switch f {
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f, err)
	}
	return nil
}

// FromPixels builds an image from bottom-up RGBA rows as returned by
// glReadPixels.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// Capture saves images under OutputDir with timestamped names.
type Capture struct {
	OutputDir string
	Prefix    string
	Format    string

	now func() time.Time
}

// New creates a capture handler.
func New(outputDir, prefix, format string) *Capture {
	return &Capture{
		OutputDir: outputDir,
		Prefix:    prefix,
		Format:    format,
	}
}

// Filename returns the path the next Save would write, without touching disk.
func (c *Capture) Filename() string {
	return c.filename("")
}

// Save writes img and returns the file path.
func (c *Capture) Save(img image.Image) (string, error) {
	return c.save(img, "")
}

// SaveFrame writes img with a frame index in the name, so a sequence taken
// within the same second does not collide.
func (c *Capture) SaveFrame(img image.Image, frame int) (string, error) {
	return c.save(img, fmt.Sprintf("_%04d", frame))
}

// SavePixels writes bottom-up GL pixels.
func (c *Capture) SavePixels(pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return c.Save(img)
}

func (c *Capture) save(img image.Image, suffix string) (string, error) {
	format, err := ParseFormat(c.Format)
	if err != nil {
		return "", err
	}

	if c.OutputDir != "" {
		if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.filename(suffix)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, img, format); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}
	return filename, nil
}

func (c *Capture) filename(suffix string) string {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	format, err := ParseFormat(c.Format)
	if err != nil {
		format = FormatPNG
	}

	prefix := c.Prefix
	if prefix == "" {
		prefix = "horizon"
	}
	name := fmt.Sprintf("%s_%s%s.%s", prefix, now().Format("2006-01-02_15-04-05"), suffix, format)
	if c.OutputDir != "" {
		name = filepath.Join(c.OutputDir, name)
	}
	return name
}
