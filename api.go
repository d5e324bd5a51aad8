package mandel

// Renderer computes the iteration counts for one tile job. Implementations
// include the in-process renderer in the render package and, on the
// coordinator side, proxies for workers connected over the wire protocol.
type Renderer interface {
	CountTile(job Job) ([]uint32, error)
}
