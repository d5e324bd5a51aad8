package wire

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Codec reads and writes Frames over a buffered stream. Sends are
// serialized with a mutex so multiple goroutines may share one codec;
// reads must come from a single goroutine.
type Codec struct {
	rwc io.ReadWriteCloser
	dec *json.Decoder

	wmu sync.Mutex
	bw  *bufio.Writer
	enc *json.Encoder
}

func NewCodec(rwc io.ReadWriteCloser) *Codec {
	bw := bufio.NewWriter(rwc)
	return &Codec{
		rwc: rwc,
		dec: json.NewDecoder(bufio.NewReader(rwc)),
		bw:  bw,
		enc: json.NewEncoder(bw),
	}
}

// Send writes one frame to the stream, flushed whole.
func (c *Codec) Send(f *Frame) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.enc.Encode(f); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := c.bw.Flush(); err != nil {
		return fmt.Errorf("flush frame: %w", err)
	}
	return nil
}

// Recv reads the next frame from the stream. io.EOF is returned unwrapped
// when the peer closes cleanly.
func (c *Codec) Recv() (*Frame, error) {
	var f Frame
	if err := c.dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("recv: %w", err)
	}
	return &f, nil
}

func (c *Codec) Close() error {
	return c.rwc.Close()
}
