package swatch

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// paper is the background a wash is painted on.
var paper = color.NRGBA{R: 0xfa, G: 0xf7, B: 0xf0, A: 0xff}

const (
	washRoughness = 0.6 // noise strength applied to the blob outline
	edgeGamma     = 2.0 // >1 concentrates pigment close to the outline
)

// applyWash repaints fill as a watercolor blob on paper. The blob covers
// area, gets a ragged outline from Perlin noise, and darkens toward its
// outline the way pigment pools at the edge of a wash.
func applyWash(fill *image.NRGBA, area image.Rectangle, opts Options) *image.NRGBA {
	b := fill.Bounds()
	size := b.Dx()

	blob := washBlob(b, area, opts.Seed)
	alpha := softenGrain(blob, 0.8)
	radius := math.Max(2, float64(area.Dx())/6)
	dist := edgeDistance(blob, radius)

	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := float64(alpha.GrayAt(x, y).Y) / 255
			if a == 0 {
				dst.SetNRGBA(x, y, paper)
				continue
			}

			px := fill.NRGBAAt(x, y)
			d := dist[(y-b.Min.Y)*size+(x-b.Min.X)]
			effect := math.Pow(1-d, edgeGamma) * opts.Edge
			if effect > 0 {
				px = darken(px, effect*0.5)
			}
			dst.SetNRGBA(x, y, blend(paper, px, a))
		}
	}
	return dst
}

// washBlob returns a binary mask of area with a noisy outline.
func washBlob(bounds, area image.Rectangle, seed int64) *image.Gray {
	rect := image.NewGray(bounds)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			rect.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	soft := softenGrain(rect, float32(area.Dx())/24)
	noise := generateGrain(bounds.Dx(), bounds.Dy(), float64(area.Dx())/5, seed+1)

	blob := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := float64(soft.GrayAt(x, y).Y) + (float64(noise.GrayAt(x, y).Y)-128)*washRoughness
			if v >= 128 {
				blob.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return blob
}

// edgeDistance returns, per pixel in row order, the distance from inside
// pixels to the blob outline divided by radius and capped at 1. Outside
// pixels are 0.
//
// It is the separable squared distance transform of Felzenszwalb and
// Huttenlocher: one 1D pass over rows, then one over columns.
func edgeDistance(blob *image.Gray, radius float64) []float64 {
	b := blob.Bounds()
	w, h := b.Dx(), b.Dy()
	inf := radius * radius * 2

	inside := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return blob.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 0
	}

	sq := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sq[y*w+x] = inf
			// Outline pixels are inside pixels with an outside 4-neighbour.
			if inside(x, y) && (!inside(x-1, y) || !inside(x+1, y) || !inside(x, y-1) || !inside(x, y+1)) {
				sq[y*w+x] = 0
			}
		}
	}

	n := max(w, h)
	in := make([]float64, n)
	out := make([]float64, n)
	env := newEnvelope(n)

	for y := 0; y < h; y++ {
		copy(in[:w], sq[y*w:(y+1)*w])
		env.transform(in[:w], out[:w])
		copy(sq[y*w:(y+1)*w], out[:w])
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			in[y] = sq[y*w+x]
		}
		env.transform(in[:h], out[:h])
		for y := 0; y < h; y++ {
			sq[y*w+x] = out[y]
		}
	}

	dist := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !inside(x, y) {
				continue
			}
			dist[y*w+x] = math.Min(1, math.Sqrt(sq[y*w+x])/radius)
		}
	}
	return dist
}

// envelope holds the scratch buffers of the 1D transform.
type envelope struct {
	v []int
	z []float64
}

func newEnvelope(n int) *envelope {
	return &envelope{v: make([]int, n), z: make([]float64, n+1)}
}

// transform writes to out the lower envelope of the parabolas
// (q-i)^2 + in[i], sampled at every q.
func (e *envelope) transform(in, out []float64) {
	n := len(in)
	if n == 0 {
		return
	}
	v, z := e.v, e.z

	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < n; q++ {
		var s float64
		for {
			p := v[k]
			s = ((in[q] + float64(q*q)) - (in[p] + float64(p*p))) / float64(2*(q-p))
			if s > z[k] || k == 0 {
				break
			}
			k--
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		d := float64(q - v[k])
		out[q] = d*d + in[v[k]]
	}
}

// darken lowers the HSL lightness of c by amount (0..1).
func darken(c color.NRGBA, amount float64) color.NRGBA {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := cf.Hsl()
	r, g, b := colorful.Hsl(h, s, l*(1-amount)).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}

// blend mixes fg over bg with coverage a.
func blend(bg, fg color.NRGBA, a float64) color.NRGBA {
	mix := func(b, f uint8) uint8 {
		return uint8(math.Round(float64(b)*(1-a) + float64(f)*a))
	}
	return color.NRGBA{R: mix(bg.R, fg.R), G: mix(bg.G, fg.G), B: mix(bg.B, fg.B), A: 0xff}
}
