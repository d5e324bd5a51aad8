//go:build js && wasm

// mandel-webclient is the browser worker and viewer. It joins the
// coordinator over the /ws endpoint, computes the tile jobs it is handed
// with the same escape-time core as the native worker, paints each finished
// tile onto the page canvas and reports progress in the HUD.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"syscall/js"
	"time"

	"github.com/fractalview/mandel/render"
	"github.com/fractalview/mandel/wire"
)

const version = "0.2.0"

func main() {
	logScreenf("Starting WASM web client...")

	// Determine the coordinator address from the page location
	loc := js.Global().Get("window").Get("location")
	host := loc.Get("host").String()
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketUrl := proto + "://" + host + "/ws"
	statusUrl := loc.Get("protocol").String() + "//" + host + "/status"

	logScreenf("Connecting to coordinator at %s...", websocketUrl)
	websocket := js.Global().Get("WebSocket").New(websocketUrl)
	websocketRWC := NewWebsocketReadWriteCloser(websocket)

	go statusLoop(statusUrl)

	codec := wire.NewCodec(websocketRWC)
	err := codec.Send(&wire.Frame{
		Type:  wire.TypeHello,
		Hello: &wire.Hello{Name: "webclient", Version: version},
	})
	if err != nil {
		logFatalf("hello: %v", err)
	}
	logScreenf("Connected, waiting for tiles...")

	if err := serve(codec); err != nil {
		logFatalf("serve: %v", err)
	}
	logScreenf("Render complete.")

	// Keep WASM running so the canvas stays alive
	select {}
}

// serve computes jobs until the coordinator closes the connection, drawing
// each finished tile to the canvas as a progressive preview of this
// worker's share of the image.
func serve(codec *wire.Codec) error {
	var pal render.Palette
	canvasReady := false
	tilesDone := 0

	for {
		f, err := codec.Recv()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if f.Type != wire.TypeJob {
			return fmt.Errorf("expected job frame, got %q", f.Type)
		}

		job := f.Job.Job
		if !canvasReady {
			initCanvas(job.ImgW, job.ImgH, "#3a3a6e")
			logScreenf("Canvas initialized to %dx%d", job.ImgW, job.ImgH)
			canvasReady = true
		}
		logScreenf("Rendering tile: %s", job.Tile)

		result := wire.JobResult{ID: f.Job.ID}
		counts, err := render.CountTile(job)
		if err != nil {
			result.Err = err.Error()
		} else {
			result.Counts = counts
			drawTileToCanvas(render.ColorCounts(job, counts, pal))
		}

		if err := codec.Send(&wire.Frame{Type: wire.TypeJobResult, Result: &result}); err != nil {
			return fmt.Errorf("send result: %w", err)
		}

		tilesDone++
		hudSetTilesDone(tilesDone)
	}
}

// logScreenf appends a formatted message to the log element in the DOM.
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}

// hudSetTilesDone updates the HUD with the number of tiles this worker has
// finished.
func hudSetTilesDone(done int) {
	js.Global().Get("document").Call("getElementById", "tilesMine").Set("textContent", done)
}

// statusLoop polls the coordinator's /status endpoint and mirrors the
// cluster-wide progress into the HUD. net/http in wasm goes through the
// browser's fetch, so this must run off the main goroutine.
func statusLoop(url string) {
	for {
		st, err := fetchStatus(url)
		if err != nil {
			logScreenf("status poll: %v", err)
		} else {
			hudSetClusterStatus(st)
			if st.TilesLeft == 0 && st.TilesTotal > 0 {
				return
			}
		}

		// Polling instead of server push, for brevity
		time.Sleep(250 * time.Millisecond)
	}
}

func fetchStatus(url string) (wire.Status, error) {
	resp, err := http.Get(url)
	if err != nil {
		return wire.Status{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return wire.Status{}, fmt.Errorf("status endpoint: %s", resp.Status)
	}

	var st wire.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return wire.Status{}, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}

// hudSetClusterStatus updates the HUD elements fed by the coordinator.
func hudSetClusterStatus(st wire.Status) {
	doc := js.Global().Get("document")
	doc.Call("getElementById", "workersRunning").Set("textContent", st.Workers)
	doc.Call("getElementById", "tilesDone").Set("textContent", st.TilesTotal-st.TilesLeft)
	doc.Call("getElementById", "tilesTotal").Set("textContent", st.TilesTotal)
}
