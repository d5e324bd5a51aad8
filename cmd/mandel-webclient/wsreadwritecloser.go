//go:build js && wasm

package main

import (
	"io"
	"sync"
	"syscall/js"
)

// WebsocketReadWriteCloser adapts a browser WebSocket into the
// io.ReadWriteCloser the wire codec expects. Incoming messages queue up in
// a channel; Read hands them out byte by byte, carrying the remainder of a
// partially consumed message across calls. Writes wait for the socket to
// finish opening first.
type WebsocketReadWriteCloser struct {
	ws js.Value

	// mu guards closed and err; the JS onclose/onerror callbacks can fire
	// between any two Go statements.
	mu     sync.Mutex
	closed bool
	err    error

	inbox  chan []byte
	opened chan struct{} // closed once the socket is connected or failed

	// remainder of the message a previous Read only partially consumed
	leftover []byte
}

func NewWebsocketReadWriteCloser(ws js.Value) *WebsocketReadWriteCloser {
	c := &WebsocketReadWriteCloser{
		ws:     ws,
		inbox:  make(chan []byte, 8),
		opened: make(chan struct{}),
	}

	ws.Set("binaryType", "arraybuffer")

	ws.Set("onopen", js.FuncOf(func(js.Value, []js.Value) any {
		close(c.opened)
		return nil
	}))

	ws.Set("onerror", js.FuncOf(func(js.Value, []js.Value) any {
		c.mu.Lock()
		c.err = io.ErrUnexpectedEOF
		c.mu.Unlock()
		close(c.opened)
		return nil
	}))

	ws.Set("onmessage", js.FuncOf(func(this js.Value, args []js.Value) any {
		decodeJSData(args[0].Get("data"), func(b []byte) {
			c.inbox <- b
		})
		return nil
	}))

	ws.Set("onclose", js.FuncOf(func(js.Value, []js.Value) any {
		logScreenf("ws onClose received")
		c.mu.Lock()
		c.closed = true
		close(c.inbox)
		c.mu.Unlock()
		return nil
	}))

	return c
}

func (c *WebsocketReadWriteCloser) Read(p []byte) (int, error) {
	if len(c.leftover) == 0 {
		msg, ok := <-c.inbox
		if !ok {
			return 0, io.EOF
		}
		c.leftover = msg
	}

	n := copy(p, c.leftover)
	c.leftover = c.leftover[n:]
	return n, nil
}

func (c *WebsocketReadWriteCloser) Write(p []byte) (int, error) {
	if err := c.waitOpen(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, io.ErrClosedPipe
	}

	u8 := js.Global().Get("Uint8Array").New(len(p))
	js.CopyBytesToJS(u8, p)
	c.ws.Call("send", u8)
	return len(p), nil
}

func (c *WebsocketReadWriteCloser) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	// Unblock any Write stuck in waitOpen on a socket that never opened.
	select {
	case <-c.opened:
	default:
		close(c.opened)
	}

	close(c.inbox)
	c.mu.Unlock()

	c.ws.Call("close")
	return nil
}

func (c *WebsocketReadWriteCloser) waitOpen() error {
	<-c.opened

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	if c.closed {
		return io.ErrClosedPipe
	}
	return nil
}

// decodeJSData copies whichever binary shape the browser delivered into a
// Go byte slice and hands it to deliver. Blobs resolve asynchronously, so
// deliver may run later from the promise callback.
func decodeJSData(data js.Value, deliver func([]byte)) {
	copyTyped := func(v js.Value) {
		b := make([]byte, v.Get("byteLength").Int())
		js.CopyBytesToGo(b, v)
		deliver(b)
	}

	switch {
	case data.InstanceOf(js.Global().Get("Uint8Array")),
		data.InstanceOf(js.Global().Get("Uint8ClampedArray")):
		copyTyped(data)

	case data.InstanceOf(js.Global().Get("ArrayBuffer")):
		copyTyped(js.Global().Get("Uint8Array").New(data))

	case data.InstanceOf(js.Global().Get("Blob")):
		data.Call("arrayBuffer").Call("then", js.FuncOf(func(this js.Value, args []js.Value) any {
			copyTyped(js.Global().Get("Uint8Array").New(args[0]))
			return nil
		}))

	default:
		panic("unsupported JS binary type")
	}
}
