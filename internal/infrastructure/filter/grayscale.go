package filter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

const (
	defaultJPEGQuality = 90
	defaultMaxPixels   = 40_000_000
)

// ErrTooManyPixels is returned by Decode when the declared dimensions exceed
// the configured pixel budget.
var ErrTooManyPixels = errors.New("image dimensions exceed pixel limit")

// Config tunes encoding and bounds decoding.
type Config struct {
	JPEGQuality int
	// MaxPixels caps width*height as declared in the image header.
	MaxPixels int64
}

// Grayscale decodes any format registered by the imaging package, converts
// it to grayscale and encodes it back in the same format.
type Grayscale struct {
	jpegQuality int
	maxPixels   int64
}

// NewGrayscale returns a filter. Quality outside 1..100 and a non-positive
// pixel limit select the defaults.
func NewGrayscale(cfg Config) *Grayscale {
	q := cfg.JPEGQuality
	if q < 1 || q > 100 {
		q = defaultJPEGQuality
	}
	maxPixels := cfg.MaxPixels
	if maxPixels <= 0 {
		maxPixels = defaultMaxPixels
	}
	return &Grayscale{jpegQuality: q, maxPixels: maxPixels}
}

// Decode reads the header first and refuses oversized images before any
// pixel buffer is allocated.
func (g *Grayscale) Decode(r io.Reader) (image.Image, string, error) {
	var header bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, "", err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, format, fmt.Errorf("%s: invalid dimensions %dx%d", format, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > g.maxPixels {
		return nil, format, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	return image.Decode(io.MultiReader(&header, r))
}

func (g *Grayscale) Apply(img image.Image) image.Image {
	return imaging.Grayscale(img)
}

func (g *Grayscale) Encode(w io.Writer, img image.Image, format string) error {
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return imaging.Encode(w, img, f, imaging.JPEGQuality(g.jpegQuality))
}
