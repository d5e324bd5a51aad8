package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// webServer serves the static web client, the /ws worker endpoint, a
// /status JSON snapshot for the HUD and /image.png with the finished
// render. The returned net.Listener yields the accepted websocket
// connections so workers from the browser go through the same accept loop
// as TCP ones.
func webServer(ctx context.Context, cfg Config, sched *scheduler) (net.Listener, *http.Server) {
	l := newWebsocketListener(ctx, fmt.Sprintf(":%d/ws", cfg.HTTPPort))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(l))
	mux.HandleFunc("/status", statusHandler(sched))
	mux.HandleFunc("/image.png", imageHandler(sched))
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost:%d", cfg.HTTPPort)
	return l, srv
}

// websocketHandler handles the http ws endpoint
// succesfully initialized websockets are passed to the listener so the
// worker accept loop can pick them up
func websocketHandler(l *websocketListener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: tighten in prod
		})
		if err != nil {
			log.Println(err)
			return
		}

		l.ch <- c
	}
}

func statusHandler(sched *scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sched.status()); err != nil {
			log.Printf("status encode: %v", err)
		}
	}
}

// imageHandler blocks until the render is complete, then serves it as PNG.
func imageHandler(sched *scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := sched.fullImage(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			log.Printf("png encode: %v", err)
		}
	}
}

// websocketListener implements net.Listener over accepted websocket
// connections.
type websocketListener struct {
	ch     chan *websocket.Conn
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	addr   wsAddr
}

func newWebsocketListener(ctx context.Context, addr string) *websocketListener {
	ctx, cancel := context.WithCancel(ctx)
	return &websocketListener{
		ch:     make(chan *websocket.Conn),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		addr:   wsAddr{addr: addr},
	}
}

func (l *websocketListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		return websocket.NetConn(l.ctx, c, websocket.MessageBinary), nil
	case <-l.ctx.Done():
		return nil, context.Cause(l.ctx)
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *websocketListener) Addr() net.Addr {
	return l.addr
}

func (l *websocketListener) Close() error {
	l.cancel()
	return nil
}

// wsAddr implements net.Addr
type wsAddr struct {
	addr string
}

func (a wsAddr) Network() string {
	return "ws"
}

func (a wsAddr) String() string {
	return a.addr
}
