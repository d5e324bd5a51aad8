package render

import (
	"fmt"
	"image"

	"github.com/fractalview/mandel"
)

// CountTile evaluates the escape-time counts for every pixel of the job's
// tile, row-major. The returned slice is owned by the caller; the batch
// buffer used underneath is released before returning.
func CountTile(job mandel.Job) ([]uint32, error) {
	if job.ImgW <= 0 || job.ImgH <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", job.ImgW, job.ImgH)
	}
	if job.Tile.Empty() {
		return []uint32{}, nil
	}

	re, im := job.Coords()

	buf := mandel.EvaluateBatch(re, im, job.MaxIterations, job.EscapeRadius)
	defer buf.Release()

	counts := make([]uint32, buf.Len())
	copy(counts, buf.Counts())
	return counts, nil
}

// RenderTile computes the job's counts and colors them through pal.
// The image uses global coordinates (tile.Min .. tile.Max), so it can be
// composed into the full image with draw.Draw directly.
func RenderTile(job mandel.Job, pal Palette) (*image.RGBA, error) {
	counts, err := CountTile(job)
	if err != nil {
		return nil, err
	}
	return ColorCounts(job, counts, pal), nil
}

// ColorCounts maps already-computed counts for job's tile (row-major, as
// produced by CountTile or received over the wire) through pal into an RGBA
// tile in global coordinates.
func ColorCounts(job mandel.Job, counts []uint32, pal Palette) *image.RGBA {
	img := image.NewRGBA(job.Tile)

	i := 0
	for py := job.Tile.Min.Y; py < job.Tile.Max.Y; py++ {
		for px := job.Tile.Min.X; px < job.Tile.Max.X; px++ {
			img.SetRGBA(px, py, pal.At(counts[i], job.MaxIterations))
			i++
		}
	}

	return img
}

// Local is the in-process renderer.
type Local struct{}

func (Local) CountTile(job mandel.Job) ([]uint32, error) {
	return CountTile(job)
}

var _ mandel.Renderer = Local{}
