// mandeld is the render coordinator. It splits the configured region into
// tiles and distributes them to whichever workers connect, over plain TCP
// or over the websocket endpoint used by the browser client. Workers send
// back iteration counts; the coordinator applies the palette and composites
// the full image, which it serves at /image.png once complete.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"

	"github.com/google/uuid"

	"github.com/fractalview/mandel/wire"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	overrides := newFlagOverrides(flag.CommandLine)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	cfg, err = overrides.apply(cfg)
	if err != nil {
		return err
	}

	region, err := cfg.region()
	if err != nil {
		return err
	}

	sched := newScheduler(cfg, region)
	log.Printf("rendering %dx%d, region %+v, %d iterations", cfg.ImageWidth, cfg.ImageHeight, region, cfg.MaxIterations)

	// TCP
	log.Printf("tcp listening on %s", cfg.TCPAddr)
	tcpListener, err := net.Listen("tcp", cfg.TCPAddr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	// WEBSOCKET
	websocketListener, httpServer := webServer(context.Background(), cfg, sched)

	// httpServer provides index.html, main.wasm along with the websocket,
	// status and image endpoints
	go func() {
		if err := httpServer.ListenAndServe(); err != nil {
			log.Fatalf("httpServer: %v", err)
		}
	}()

	go acceptWorkers(sched, tcpListener)
	go acceptWorkers(sched, websocketListener)

	log.Printf("coordinator waiting for tcp and websocket workers")
	select {}
}

// acceptWorkers plugs every accepted connection into the scheduler as a
// worker.
func acceptWorkers(sched *scheduler, l net.Listener) {
	for {
		conn, err := l.Accept()
		if err != nil {
			log.Fatalf("accept on %s: %v", l.Addr(), err)
		}

		go func() {
			defer conn.Close()
			if err := serveWorker(sched, conn); err != nil {
				log.Printf("worker %s: %v", conn.RemoteAddr(), err)
			}
		}()
	}
}

// serveWorker performs the hello exchange and then drives the scheduler
// over the connection until the render finishes or the worker drops.
func serveWorker(sched *scheduler, conn net.Conn) error {
	codec := wire.NewCodec(conn)

	f, err := codec.Recv()
	if err != nil {
		return fmt.Errorf("hello: %w", err)
	}
	if f.Type != wire.TypeHello {
		return fmt.Errorf("expected hello frame, got %q", f.Type)
	}

	id := uuid.NewString()
	log.Printf("worker %q (%s) connected from %s, session %s", f.Hello.Name, f.Hello.Version, conn.RemoteAddr(), id)

	return sched.drive(id, &remoteRenderer{codec: codec})
}
