// Package swatch renders a color as a square PNG tile with a light
// watercolor grain and its hex, RGB and HSL notations printed in a corner.
package swatch

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
)

const (
	// grainAmplitude is the largest channel shift at Grain == 1.
	grainAmplitude = 48.0
	labelPadding   = 6
	lineHeight     = 14
)

// Options controls swatch rendering.
type Options struct {
	Size  int
	Grain float64 // 0 (flat) .. 1 (strong texture)
	Blur  float32
	Seed  int64
	Label bool

	// Wash paints the color as a ragged watercolor blob on paper instead
	// of filling the whole tile.
	Wash bool
	Edge float64 // 0..1 darkening toward the blob outline, wash only
}

// DefaultOptions returns the settings used by the CLI and server.
func DefaultOptions() Options {
	return Options{
		Size:  256,
		Grain: 0.35,
		Blur:  1.5,
		Seed:  1337,
		Label: true,
		Edge:  0.5,
	}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if o.Size <= 0 {
		return fmt.Errorf("size must be positive")
	}
	if o.Grain < 0 || o.Grain > 1 {
		return fmt.Errorf("grain must be within [0,1]")
	}
	if o.Blur < 0 {
		return fmt.Errorf("blur must not be negative")
	}
	if o.Edge < 0 || o.Edge > 1 {
		return fmt.Errorf("edge must be within [0,1]")
	}
	return nil
}

// Render draws the swatch for c.
func Render(c colorspace.RGB, opts Options) (*image.NRGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	size := opts.Size
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	base := c.NRGBA()

	var grain *image.Gray
	if opts.Grain > 0 {
		scale := float64(size) / 4
		grain = softenGrain(generateGrain(size, size, scale, opts.Seed), opts.Blur)
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px := base
			if grain != nil {
				delta := (float64(grain.GrayAt(x, y).Y) - 128) / 128 * opts.Grain * grainAmplitude
				px.R = shift(base.R, delta)
				px.G = shift(base.G, delta)
				px.B = shift(base.B, delta)
			}
			img.SetNRGBA(x, y, px)
		}
	}

	lines := labelLines(c)
	label := opts.Label && labelFits(img.Bounds(), lines)

	if opts.Wash {
		img = applyWash(img, washArea(img.Bounds(), label, len(lines)), opts)
		if label {
			drawLabel(img, lines, LabelColor(colorspace.RGB{R: int(paper.R), G: int(paper.G), B: int(paper.B)}))
		}
		return img, nil
	}

	if label {
		drawLabel(img, lines, LabelColor(c))
	}
	return img, nil
}

func shift(v uint8, delta float64) uint8 {
	f := float64(v) + delta
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}

func labelLines(c colorspace.RGB) []string {
	text := colorspace.Describe(c)
	return []string{text.Hex, text.RGB, text.HSL}
}

// labelFits reports whether lines can be printed inside b.
func labelFits(b image.Rectangle, lines []string) bool {
	for _, l := range lines {
		if font.MeasureString(basicfont.Face7x13, l).Ceil()+2*labelPadding > b.Dx() {
			return false
		}
	}
	return len(lines)*lineHeight+labelPadding <= b.Dy()
}

// washArea is the region the blob covers: a margin on every side, plus
// the label band at the bottom when a label is printed.
func washArea(b image.Rectangle, label bool, lines int) image.Rectangle {
	margin := b.Dx() / 8
	area := b.Inset(margin)
	if label {
		area.Max.Y = min(area.Max.Y, b.Max.Y-lines*lineHeight-2*labelPadding)
	}
	if area.Dy() < margin {
		area = b.Inset(margin)
	}
	return area
}

// drawLabel prints lines bottom-left.
func drawLabel(img *image.NRGBA, lines []string, c color.NRGBA) {
	b := img.Bounds()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	y := b.Max.Y - labelPadding - (len(lines)-1)*lineHeight
	for _, l := range lines {
		d.Dot = fixed.P(b.Min.X+labelPadding, y)
		d.DrawString(l)
		y += lineHeight
	}
}

// LabelColor picks near-black or white text for legibility on c, based on
// CIE L* lightness.
func LabelColor(c colorspace.RGB) color.NRGBA {
	cf := colorful.Color{
		R: float64(c.R) / colorspace.ChannelMax,
		G: float64(c.G) / colorspace.ChannelMax,
		B: float64(c.B) / colorspace.ChannelMax,
	}
	l, _, _ := cf.Lab()
	if l > 0.6 {
		return color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	}
	return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// WritePNG writes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// Filename returns the canonical file name for a swatch of c, e.g.
// "ff8800.png".
func Filename(c colorspace.RGB) string {
	return colorspace.RGBToHex(c)[1:] + ".png"
}
