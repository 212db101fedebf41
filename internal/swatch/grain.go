package swatch

import (
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/disintegration/gift"
)

// generateGrain returns a grayscale Perlin noise field centred on 128.
// scale controls the feature size in pixels.
func generateGrain(width, height int, scale float64, seed int64) *image.Gray {
	// alpha: persistence, beta: lacunarity, n: octaves
	p := perlin.NewPerlin(2.0, 2.0, 3, seed)

	noise := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := p.Noise2D(float64(x)/scale, float64(y)/scale)

			normalized := (val + 1.0) / 2.0
			gray := uint8(math.Max(0, math.Min(255, normalized*255)))
			noise.SetGray(x, y, color.Gray{Y: gray})
		}
	}
	return noise
}

// softenGrain blurs the noise so it reads as paper texture rather than
// per-pixel speckle.
func softenGrain(noise *image.Gray, sigma float32) *image.Gray {
	if sigma <= 0 {
		return noise
	}
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewGray(g.Bounds(noise.Bounds()))
	g.Draw(dst, noise)
	return dst
}
