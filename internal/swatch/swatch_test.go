package swatch

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
)

func TestRender_FlatWithoutLabel(t *testing.T) {
	c := colorspace.RGB{R: 51, G: 102, B: 153}
	img, err := Render(c, Options{Size: 32})
	require.NoError(t, err)
	require.Equal(t, 32, img.Bounds().Dx())

	want := color.NRGBA{R: 51, G: 102, B: 153, A: 255}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			require.Equal(t, want, img.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestRender_GrainIsDeterministic(t *testing.T) {
	c := colorspace.RGB{R: 200, G: 100, B: 50}
	opts := Options{Size: 48, Grain: 0.8, Blur: 1, Seed: 42}

	a, err := Render(c, opts)
	require.NoError(t, err)
	b, err := Render(c, opts)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)

	// Grain varies the fill but stays close to the base color on average.
	var sum, lo, hi int
	lo = 255
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			r := int(a.NRGBAAt(x, y).R)
			sum += r
			if r < lo {
				lo = r
			}
			if r > hi {
				hi = r
			}
		}
	}
	mean := sum / (48 * 48)
	assert.InDelta(t, 200, mean, grainAmplitude)
	assert.LessOrEqual(t, hi-lo, int(2*grainAmplitude)+1)
}

func TestRender_Label(t *testing.T) {
	c := colorspace.RGB{R: 0, G: 0, B: 0}
	img, err := Render(c, Options{Size: 128, Label: true})
	require.NoError(t, err)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	found := false
	for y := 0; y < 128 && !found; y++ {
		for x := 0; x < 128; x++ {
			if img.NRGBAAt(x, y) == white {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected label pixels on a black swatch")
}

func TestRender_LabelSkippedWhenTooSmall(t *testing.T) {
	c := colorspace.RGB{R: 0, G: 0, B: 0}
	img, err := Render(c, Options{Size: 16, Label: true})
	require.NoError(t, err)
	for _, v := range img.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("unexpected pixel value %d", v)
		}
	}
	assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(8, 8))
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"zero size", Options{Size: 0}, true},
		{"grain too high", Options{Size: 8, Grain: 1.5}, true},
		{"negative grain", Options{Size: 8, Grain: -0.1}, true},
		{"negative blur", Options{Size: 8, Blur: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLabelColor(t *testing.T) {
	dark := color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	light := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	assert.Equal(t, dark, LabelColor(colorspace.RGB{R: 255, G: 255, B: 255}))
	assert.Equal(t, dark, LabelColor(colorspace.RGB{R: 255, G: 255, B: 0}))
	assert.Equal(t, light, LabelColor(colorspace.RGB{R: 0, G: 0, B: 0}))
	assert.Equal(t, light, LabelColor(colorspace.RGB{R: 0, G: 0, B: 255}))
}

func TestWritePNG(t *testing.T) {
	c := colorspace.RGB{R: 255, G: 136, B: 0}
	img, err := Render(c, Options{Size: 16})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", Filename(c))
	require.NoError(t, WritePNG(path, img))
	assert.Equal(t, "ff8800.png", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}
