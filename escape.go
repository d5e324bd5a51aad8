package mandel

// Evaluate returns the number of completed iterations of z' = z^2 + c,
// starting from z = 0 with c = re + im·i, before |z| exceeds escapeRadius.
// Escape is checked before each update, so the returned count is the 0-based
// index of the iteration at which the orbit was first found outside the
// radius. If the orbit stays within the radius for the whole budget, the
// result is exactly maxIterations; a maxIterations of 0 returns 0 without
// iterating.
//
// Only squared magnitudes are compared (the radius is squared once, no
// square roots), and a point sitting exactly on the radius counts as not
// yet escaped. escapeRadius must be positive and re/im finite; passing
// anything else is the caller's problem, not detected here.
func Evaluate(re, im float64, maxIterations uint32, escapeRadius float64) uint32 {
	return escapeCount(re, im, maxIterations, escapeRadius*escapeRadius)
}

// escapeCount is the shared kernel for the single-point and batch paths.
// radiusSq is the squared escape radius, precomputed by the caller.
func escapeCount(re, im float64, maxIterations uint32, radiusSq float64) uint32 {
	var zre, zim float64

	for i := uint32(0); i < maxIterations; i++ {
		if zre*zre+zim*zim > radiusSq {
			return i
		}

		// z = z^2 + c, componentwise: (a+bi)^2 = a^2 - b^2 + 2abi
		t := zre*zre - zim*zim + re
		zim = 2*zre*zim + im
		zre = t
	}

	return maxIterations
}
