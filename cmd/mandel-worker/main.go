// mandel-worker connects to the coordinator over TCP and computes the tile
// jobs it is handed, sending back raw iteration counts.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"

	"github.com/fractalview/mandel/render"
	"github.com/fractalview/mandel/wire"
)

const version = "0.2.0"

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	addr := flag.String("addr", ":8081", "coordinator TCP address")
	name := flag.String("name", defaultName(), "worker name reported to the coordinator")
	flag.Parse()

	log.Printf("connecting to %s", *addr)
	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", *addr, err)
	}
	defer conn.Close()

	codec := wire.NewCodec(conn)
	err = codec.Send(&wire.Frame{
		Type:  wire.TypeHello,
		Hello: &wire.Hello{Name: *name, Version: version},
	})
	if err != nil {
		return fmt.Errorf("hello: %w", err)
	}

	log.Printf("connected, waiting for tiles")
	return serve(codec)
}

// serve computes jobs from the coordinator until it closes the connection,
// which it does once the full image is rendered.
func serve(codec *wire.Codec) error {
	for {
		f, err := codec.Recv()
		if err != nil {
			if err == io.EOF {
				log.Printf("coordinator closed the connection, done")
				return nil
			}
			return err
		}
		if f.Type != wire.TypeJob {
			return fmt.Errorf("expected job frame, got %q", f.Type)
		}

		job := f.Job.Job
		log.Printf("rendering tile: %s", job.Tile)

		result := wire.JobResult{ID: f.Job.ID}
		counts, err := render.CountTile(job)
		if err != nil {
			result.Err = err.Error()
		} else {
			result.Counts = counts
		}

		if err := codec.Send(&wire.Frame{Type: wire.TypeJobResult, Result: &result}); err != nil {
			return fmt.Errorf("send result: %w", err)
		}
	}
}

func defaultName() string {
	host, err := os.Hostname()
	if err != nil {
		return "worker"
	}
	return host
}
