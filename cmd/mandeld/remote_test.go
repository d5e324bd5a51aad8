package main

import (
	"image"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractalview/mandel"
	"github.com/fractalview/mandel/render"
	"github.com/fractalview/mandel/wire"
)

func testRemoteJob() mandel.Job {
	return mandel.Job{
		Region:        mandel.FullSet,
		Tile:          image.Rect(0, 0, 8, 8),
		ImgW:          32,
		ImgH:          32,
		MaxIterations: 50,
		EscapeRadius:  2.0,
	}
}

// TestRemoteRenderer_RoundTrip tests the job/result exchange against a
// worker that computes with the local renderer, and that the counts match
// an in-process computation.
func TestRemoteRenderer_RoundTrip(t *testing.T) {
	serverConn, workerConn := net.Pipe()
	r := &remoteRenderer{codec: wire.NewCodec(serverConn)}
	workerCodec := wire.NewCodec(workerConn)

	go func() {
		f, err := workerCodec.Recv()
		if !assert.NoError(t, err) {
			return
		}
		counts, err := render.CountTile(f.Job.Job)
		if !assert.NoError(t, err) {
			return
		}
		assert.NoError(t, workerCodec.Send(&wire.Frame{
			Type:   wire.TypeJobResult,
			Result: &wire.JobResult{ID: f.Job.ID, Counts: counts},
		}))
	}()

	job := testRemoteJob()
	got, err := r.CountTile(job)
	require.NoError(t, err)

	want, err := render.CountTile(job)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestRemoteRenderer_SkipsStaleResults tests that a result for an older
// job ID is ignored and the matching one returned.
func TestRemoteRenderer_SkipsStaleResults(t *testing.T) {
	serverConn, workerConn := net.Pipe()
	r := &remoteRenderer{codec: wire.NewCodec(serverConn)}
	workerCodec := wire.NewCodec(workerConn)

	go func() {
		f, err := workerCodec.Recv()
		if !assert.NoError(t, err) {
			return
		}
		// Stale answer from a previous tile first.
		assert.NoError(t, workerCodec.Send(&wire.Frame{
			Type:   wire.TypeJobResult,
			Result: &wire.JobResult{ID: "stale", Counts: []uint32{9}},
		}))
		assert.NoError(t, workerCodec.Send(&wire.Frame{
			Type:   wire.TypeJobResult,
			Result: &wire.JobResult{ID: f.Job.ID, Counts: make([]uint32, 64)},
		}))
	}()

	got, err := r.CountTile(testRemoteJob())
	require.NoError(t, err)
	assert.Len(t, got, 64)
}

// TestRemoteRenderer_WorkerError tests that a worker-side error string
// surfaces as an error.
func TestRemoteRenderer_WorkerError(t *testing.T) {
	serverConn, workerConn := net.Pipe()
	r := &remoteRenderer{codec: wire.NewCodec(serverConn)}
	workerCodec := wire.NewCodec(workerConn)

	go func() {
		f, err := workerCodec.Recv()
		if !assert.NoError(t, err) {
			return
		}
		assert.NoError(t, workerCodec.Send(&wire.Frame{
			Type:   wire.TypeJobResult,
			Result: &wire.JobResult{ID: f.Job.ID, Err: "out of memory"},
		}))
	}()

	_, err := r.CountTile(testRemoteJob())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
}

// TestRemoteRenderer_Disconnect tests that a dropped connection is an
// error, not a hang.
func TestRemoteRenderer_Disconnect(t *testing.T) {
	serverConn, workerConn := net.Pipe()
	r := &remoteRenderer{codec: wire.NewCodec(serverConn)}
	workerCodec := wire.NewCodec(workerConn)

	go func() {
		if _, err := workerCodec.Recv(); err != nil {
			return
		}
		workerCodec.Close()
	}()

	_, err := r.CountTile(testRemoteJob())
	assert.Error(t, err)
}
