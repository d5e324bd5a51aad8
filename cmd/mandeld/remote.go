package main

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fractalview/mandel"
	"github.com/fractalview/mandel/wire"
)

// remoteRenderer adapts a worker connection into a mandel.Renderer. The
// scheduler drives one of these per connection from a single goroutine, so
// requests on a connection are strictly sequential.
type remoteRenderer struct {
	codec *wire.Codec
}

func (r *remoteRenderer) CountTile(job mandel.Job) ([]uint32, error) {
	id := uuid.NewString()

	err := r.codec.Send(&wire.Frame{
		Type: wire.TypeJob,
		Job:  &wire.JobFrame{ID: id, Job: job},
	})
	if err != nil {
		return nil, fmt.Errorf("send job: %w", err)
	}

	for {
		f, err := r.codec.Recv()
		if err != nil {
			return nil, fmt.Errorf("recv result: %w", err)
		}
		if f.Type != wire.TypeJobResult {
			return nil, fmt.Errorf("expected result frame, got %q", f.Type)
		}
		if f.Result.ID != id {
			// Stale answer for a tile this worker already lost to a
			// re-issue; skip it and keep waiting for ours.
			continue
		}
		if f.Result.Err != "" {
			return nil, fmt.Errorf("worker error: %s", f.Result.Err)
		}
		return f.Result.Counts, nil
	}
}

var _ mandel.Renderer = (*remoteRenderer)(nil)
