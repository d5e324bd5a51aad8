// Package render turns the core's iteration counts into pixels. It provides
// the in-process Renderer used by workers and the local CLI, and the palette
// the coordinator uses when compositing counts received over the wire.
package render

import (
	"image/color"
	"math"
)

// Palette maps an iteration count to a color. Points that exhausted the
// budget (count == maxIterations) are treated as inside the set and drawn
// black; escaped points cycle through an HSV hue ramp keyed on the count.
type Palette struct {
	// HueStep is how far around the hue circle each iteration moves the
	// color. Zero means DefaultHueStep.
	HueStep float64
}

const DefaultHueStep = 0.02

// At returns the color for a single iteration count.
func (p Palette) At(count, maxIterations uint32) color.RGBA {
	if count >= maxIterations {
		return color.RGBA{A: 255}
	}

	step := p.HueStep
	if step == 0 {
		step = DefaultHueStep
	}

	hue := math.Mod(float64(count)*step, 1.0)
	return hsv(hue, 1, 1)
}

// Simple HSV → RGB
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}
