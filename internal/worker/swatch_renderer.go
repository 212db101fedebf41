package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
	"github.com/MeKo-Tech/colorconverter/internal/swatch"
)

// FileRenderer writes swatch PNGs into OutDir. Existing files are kept unless
// the task sets Force.
type FileRenderer struct {
	OutDir  string
	Options swatch.Options
}

// Path returns the output path for c.
func (r *FileRenderer) Path(c colorspace.RGB) string {
	return filepath.Join(r.OutDir, swatch.Filename(c))
}

// Render implements Renderer.
func (r *FileRenderer) Render(ctx context.Context, task Task) (Output, error) {
	out := Output{Path: r.Path(task.Color)}

	if !task.Force {
		if _, err := os.Stat(out.Path); err == nil {
			out.Cached = true
			return out, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	img, err := swatch.Render(task.Color, r.Options)
	if err != nil {
		return Output{}, fmt.Errorf("failed to render %s: %w", task.Label(), err)
	}
	if err := swatch.WritePNG(out.Path, img); err != nil {
		return Output{}, err
	}
	return out, nil
}
