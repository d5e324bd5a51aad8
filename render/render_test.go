package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractalview/mandel"
)

func testJob(tile image.Rectangle) mandel.Job {
	return mandel.Job{
		Region:        mandel.FullSet,
		Tile:          tile,
		ImgW:          64,
		ImgH:          64,
		MaxIterations: 100,
		EscapeRadius:  2.0,
	}
}

// TestCountTile_MatchesEvaluate tests that every pixel's count equals a
// direct single-point evaluation of the projected coordinate.
func TestCountTile_MatchesEvaluate(t *testing.T) {
	job := testJob(image.Rect(8, 16, 24, 32))

	counts, err := CountTile(job)
	require.NoError(t, err)
	require.Len(t, counts, 16*16)

	i := 0
	for py := job.Tile.Min.Y; py < job.Tile.Max.Y; py++ {
		for px := job.Tile.Min.X; px < job.Tile.Max.X; px++ {
			re, im := job.Region.Project(px, py, job.ImgW, job.ImgH)
			want := mandel.Evaluate(re, im, job.MaxIterations, job.EscapeRadius)
			assert.Equal(t, want, counts[i], "pixel (%d,%d)", px, py)
			i++
		}
	}
}

// TestCountTile_EmptyTile tests that an empty tile yields an empty count
// slice, not an error.
func TestCountTile_EmptyTile(t *testing.T) {
	counts, err := CountTile(testJob(image.Rectangle{}))
	require.NoError(t, err)
	assert.Empty(t, counts)
}

// TestCountTile_InvalidDimensions tests that nonsensical image dimensions
// are rejected.
func TestCountTile_InvalidDimensions(t *testing.T) {
	job := testJob(image.Rect(0, 0, 4, 4))
	job.ImgW = 0

	_, err := CountTile(job)
	assert.Error(t, err)
}

// TestCountTile_Deterministic tests repeated computation of the same tile.
func TestCountTile_Deterministic(t *testing.T) {
	job := testJob(image.Rect(0, 0, 8, 8))

	first, err := CountTile(job)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := CountTile(job)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// TestRenderTile_GlobalCoordinates tests that the rendered tile carries its
// global position and colors interior points black.
func TestRenderTile_GlobalCoordinates(t *testing.T) {
	// A tile over the center of the full view, which contains in-set points.
	job := testJob(image.Rect(24, 24, 40, 40))

	img, err := RenderTile(job, Palette{})
	require.NoError(t, err)
	assert.Equal(t, job.Tile, img.Bounds())

	// Pixel (36, 32) projects to c ≈ -0.53 on the real axis, inside the
	// main cardioid, so it must be colored as interior.
	c := img.RGBAAt(36, 32)
	assert.Equal(t, color.RGBA{A: 255}, c)
}

// TestColorCounts_MatchesPaletteAt tests the count-to-pixel mapping used by
// the coordinator when compositing wire results.
func TestColorCounts_MatchesPaletteAt(t *testing.T) {
	job := testJob(image.Rect(4, 4, 8, 6))
	counts := []uint32{0, 1, 2, 3, 50, 99, 100, 7}

	pal := Palette{}
	img := ColorCounts(job, counts, pal)

	i := 0
	for py := job.Tile.Min.Y; py < job.Tile.Max.Y; py++ {
		for px := job.Tile.Min.X; px < job.Tile.Max.X; px++ {
			assert.Equal(t, pal.At(counts[i], job.MaxIterations), img.RGBAAt(px, py))
			i++
		}
	}
}

// TestPalette_Interior tests that budget-exhausting counts are black for
// any hue step.
func TestPalette_Interior(t *testing.T) {
	for _, pal := range []Palette{{}, {HueStep: 0.1}, {HueStep: 0.5}} {
		assert.Equal(t, color.RGBA{A: 255}, pal.At(100, 100))
		assert.Equal(t, color.RGBA{A: 255}, pal.At(101, 100))
	}
}

// TestPalette_EscapedOpaque tests that escaped counts get a fully opaque,
// non-black color.
func TestPalette_EscapedOpaque(t *testing.T) {
	pal := Palette{}
	for _, count := range []uint32{0, 1, 5, 42, 99} {
		c := pal.At(count, 100)
		assert.EqualValues(t, 255, c.A, "count %d", count)
		assert.False(t, c.R == 0 && c.G == 0 && c.B == 0, "count %d should not be black", count)
	}
}

// TestLocal_ImplementsRenderer tests the in-process renderer end to end.
func TestLocal_ImplementsRenderer(t *testing.T) {
	var r mandel.Renderer = Local{}

	counts, err := r.CountTile(testJob(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)
	assert.Len(t, counts, 16)
}
