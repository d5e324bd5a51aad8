// Package wire is the framing between the coordinator and its workers:
// JSON values streamed over any net.Conn. TCP workers use the conn
// directly; browser workers are adapted with websocket.NetConn on the
// server side, so both speak the exact same frames.
package wire

import (
	"fmt"

	"github.com/fractalview/mandel"
)

// Frame types.
const (
	TypeHello     = "hello"
	TypeJob       = "job"
	TypeJobResult = "result"
)

// Frame is the envelope for every message on a worker connection. Type
// selects which payload field is set.
type Frame struct {
	Type string `json:"type"`

	Hello  *Hello     `json:"hello,omitempty"`
	Job    *JobFrame  `json:"job,omitempty"`
	Result *JobResult `json:"result,omitempty"`
}

// Hello is the first frame a worker sends after connecting.
type Hello struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// JobFrame asks a worker to compute the iteration counts for one tile.
type JobFrame struct {
	ID  string     `json:"id"`
	Job mandel.Job `json:"job"`
}

// JobResult carries a tile's counts back, row-major over the tile's pixels,
// or an error string if the worker refused the job.
type JobResult struct {
	ID     string   `json:"id"`
	Counts []uint32 `json:"counts,omitempty"`
	Err    string   `json:"err,omitempty"`
}

// Status is the coordinator's progress snapshot, served as JSON on the
// /status HTTP endpoint and polled by the web client's HUD.
type Status struct {
	Workers    int     `json:"workers"`
	TilesTotal int     `json:"tilesTotal"`
	TilesLeft  int     `json:"tilesLeft"`
	Finished   float32 `json:"finished"`
}

// Validate checks that the frame's type and payload line up.
func (f *Frame) Validate() error {
	switch f.Type {
	case TypeHello:
		if f.Hello == nil {
			return fmt.Errorf("hello frame without hello payload")
		}
	case TypeJob:
		if f.Job == nil {
			return fmt.Errorf("job frame without job payload")
		}
	case TypeJobResult:
		if f.Result == nil {
			return fmt.Errorf("result frame without result payload")
		}
	default:
		return fmt.Errorf("unknown frame type %q", f.Type)
	}
	return nil
}
