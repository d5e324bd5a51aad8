package mandel

import "sync"

// CountBuffer holds the iteration counts produced by EvaluateBatch. The
// storage is drawn from an internal pool; the caller owns the buffer from
// the moment EvaluateBatch returns until it calls Release, after which the
// counts must not be touched. Releasing a buffer twice, or a buffer not
// produced by EvaluateBatch, is caller error and is not detected.
type CountBuffer struct {
	counts []uint32
}

var countBufPool = sync.Pool{
	New: func() any { return new(CountBuffer) },
}

// Counts returns the iteration counts, one per input coordinate pair, in
// input order. The slice aliases the buffer's storage and is only valid
// until Release.
func (b *CountBuffer) Counts() []uint32 {
	return b.counts
}

// Len returns the number of counts in the buffer.
func (b *CountBuffer) Len() int {
	return len(b.counts)
}

// Release returns the buffer's storage to the pool. Calling Release on a
// nil buffer (the "no results" return of EvaluateBatch) is a no-op.
func (b *CountBuffer) Release() {
	if b == nil {
		return
	}
	b.counts = b.counts[:0]
	countBufPool.Put(b)
}

// EvaluateBatch evaluates Evaluate for every coordinate pair
// (re[i], im[i]), sharing maxIterations and escapeRadius across the batch,
// and returns the counts in a pooled CountBuffer. Coordinates are paired up
// to the shorter of the two slices; a zero-length batch yields a valid
// empty buffer. Only when both slices are nil is there nothing to evaluate
// at all, and the result is a nil buffer, which Release accepts safely.
//
// The points are independent of each other and evaluated in index order;
// the result is bit-identical to calling Evaluate per pair.
func EvaluateBatch(re, im []float64, maxIterations uint32, escapeRadius float64) *CountBuffer {
	if re == nil && im == nil {
		return nil
	}

	n := len(re)
	if len(im) < n {
		n = len(im)
	}

	b := countBufPool.Get().(*CountBuffer)
	if cap(b.counts) < n {
		b.counts = make([]uint32, n)
	} else {
		b.counts = b.counts[:n]
	}

	radiusSq := escapeRadius * escapeRadius
	for i := 0; i < n; i++ {
		b.counts[i] = escapeCount(re[i], im[i], maxIterations, radiusSq)
	}

	return b
}
