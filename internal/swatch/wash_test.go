package swatch

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
)

func TestEdgeDistance_Square(t *testing.T) {
	blob := image.NewGray(image.Rect(0, 0, 9, 9))
	for y := 2; y <= 6; y++ {
		for x := 2; x <= 6; x++ {
			blob.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	dist := edgeDistance(blob, 4)
	at := func(x, y int) float64 { return dist[y*9+x] }

	assert.Equal(t, 0.0, at(0, 0), "outside")
	assert.Equal(t, 0.0, at(2, 2), "outline corner")
	assert.Equal(t, 0.0, at(6, 4), "outline side")
	assert.InDelta(t, 0.25, at(3, 3), 1e-9)
	assert.InDelta(t, 0.25, at(4, 3), 1e-9)
	assert.InDelta(t, 0.5, at(4, 4), 1e-9)
}

func TestEdgeDistance_CapsAtRadius(t *testing.T) {
	blob := image.NewGray(image.Rect(0, 0, 21, 21))
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			blob.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	// Image borders count as outline.
	dist := edgeDistance(blob, 3)
	assert.Equal(t, 0.0, dist[0])
	assert.InDelta(t, 2.0/3, dist[2*21+10], 1e-9)
	assert.Equal(t, 1.0, dist[10*21+10])
}

func TestEnvelope_Transform(t *testing.T) {
	const far = 100.0
	in := []float64{far, far, 0, far, far, far, 0}
	out := make([]float64, len(in))
	newEnvelope(len(in)).transform(in, out)
	assert.Equal(t, []float64{4, 1, 0, 1, 4, 1, 0}, out)
}

func TestRender_Wash(t *testing.T) {
	c := colorspace.RGB{R: 200, G: 100, B: 50}
	opts := Options{Size: 128, Seed: 7, Wash: true, Edge: 1}

	img, err := Render(c, opts)
	require.NoError(t, err)

	assert.Equal(t, paper, img.NRGBAAt(0, 0), "corner shows paper")
	assert.Equal(t, paper, img.NRGBAAt(127, 127), "corner shows paper")
	assert.Equal(t, c.NRGBA(), img.NRGBAAt(64, 64), "centre keeps the flat color")

	darker := 0
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			px := img.NRGBAAt(x, y)
			if int(px.R) < c.R && int(px.G) < c.G && int(px.B) < c.B {
				darker++
			}
		}
	}
	assert.Positive(t, darker, "pigment pools along the outline")

	again, err := Render(c, opts)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, again.Pix)
}

func TestRender_WashNoEdge(t *testing.T) {
	c := colorspace.RGB{R: 200, G: 100, B: 50}
	img, err := Render(c, Options{Size: 96, Seed: 7, Wash: true})
	require.NoError(t, err)

	for y := 0; y < 96; y++ {
		for x := 0; x < 96; x++ {
			px := img.NRGBAAt(x, y)
			assert.GreaterOrEqual(t, int(px.G), c.G, "pixel %d,%d darker than base", x, y)
		}
	}
}

func TestRender_WashLabelOnPaper(t *testing.T) {
	c := colorspace.RGB{R: 0, G: 0, B: 0}
	img, err := Render(c, Options{Size: 160, Seed: 3, Wash: true, Label: true})
	require.NoError(t, err)

	ink := LabelColor(colorspace.RGB{R: int(paper.R), G: int(paper.G), B: int(paper.B)})
	found := false
	for y := 120; y < 160 && !found; y++ {
		for x := 0; x < 160; x++ {
			if img.NRGBAAt(x, y) == ink {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected dark label text in the paper band")
}

func TestWashArea(t *testing.T) {
	b := image.Rect(0, 0, 128, 128)
	assert.Equal(t, image.Rect(16, 16, 112, 112), washArea(b, false, 3))
	assert.Equal(t, image.Rect(16, 16, 112, 74), washArea(b, true, 3))
}

func TestOptions_ValidateEdge(t *testing.T) {
	assert.Error(t, Options{Size: 8, Edge: 1.2}.Validate())
	assert.Error(t, Options{Size: 8, Edge: -0.2}.Validate())
	assert.NoError(t, Options{Size: 8, Wash: true, Edge: 1}.Validate())
}
