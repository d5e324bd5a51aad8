package mandel

import "image"

// Job is one tile's worth of escape-time work: the plane region being
// rendered, the tile's pixel rectangle in global image coordinates, the
// full image dimensions the region is projected onto, and the per-frame
// evaluation parameters.
type Job struct {
	Region        Region
	Tile          image.Rectangle
	ImgW, ImgH    int
	MaxIterations uint32
	EscapeRadius  float64
}

// Coords projects every pixel of the job's tile onto the plane, row-major,
// returning parallel real and imaginary coordinate slices ready for
// EvaluateBatch.
func (j Job) Coords() (re, im []float64) {
	n := j.Tile.Dx() * j.Tile.Dy()
	re = make([]float64, 0, n)
	im = make([]float64, 0, n)

	for py := j.Tile.Min.Y; py < j.Tile.Max.Y; py++ {
		for px := j.Tile.Min.X; px < j.Tile.Max.X; px++ {
			cre, cim := j.Region.Project(px, py, j.ImgW, j.ImgH)
			re = append(re, cre)
			im = append(im, cim)
		}
	}

	return re, im
}

// SplitTiles splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func SplitTiles(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := tileH
		if oy+th > h {
			th = h - oy
		}

		for ox := 0; ox < w; ox += tileW {
			tw := tileW
			if ox+tw > w {
				tw = w - ox
			}

			tile := image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			)
			tiles = append(tiles, tile)
		}
	}

	return tiles
}
