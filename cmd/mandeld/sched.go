package main

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"

	"github.com/fractalview/mandel"
	"github.com/fractalview/mandel/render"
	"github.com/fractalview/mandel/wire"
)

// scheduler owns the global image and hands out tile jobs to connected
// workers. Workers return raw iteration counts; the scheduler applies the
// palette when compositing, so wire traffic stays counts-only.
type scheduler struct {
	region  mandel.Region
	imgW    int
	imgH    int
	maxIter uint32
	radius  float64
	palette render.Palette

	img *image.RGBA

	ctx       context.Context
	ctxCancel context.CancelFunc

	totalPixels    int
	finishedPixels int
	totalTiles     int
	workers        int

	unstarted map[image.Rectangle]struct{}
	inProcess map[image.Rectangle]struct{}
	m         sync.Mutex
}

func newScheduler(cfg Config, region mandel.Region) *scheduler {
	img := image.NewRGBA(image.Rect(0, 0, cfg.ImageWidth, cfg.ImageHeight))
	allTilesSlice := mandel.SplitTiles(img.Bounds(), cfg.TileWidth, cfg.TileHeight)
	allTiles := make(map[image.Rectangle]struct{}, len(allTilesSlice))
	for _, t := range allTilesSlice {
		allTiles[t] = struct{}{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &scheduler{
		region:      region,
		imgW:        cfg.ImageWidth,
		imgH:        cfg.ImageHeight,
		maxIter:     cfg.MaxIterations,
		radius:      cfg.EscapeRadius,
		img:         img,
		unstarted:   allTiles,
		inProcess:   make(map[image.Rectangle]struct{}),
		totalPixels: cfg.ImageWidth * cfg.ImageHeight,
		totalTiles:  len(allTilesSlice),
		ctx:         ctx,
		ctxCancel:   cancel,
	}
}

func (s *scheduler) job(tile image.Rectangle) mandel.Job {
	return mandel.Job{
		Region:        s.region,
		Tile:          tile,
		ImgW:          s.imgW,
		ImgH:          s.imgH,
		MaxIterations: s.maxIter,
		EscapeRadius:  s.radius,
	}
}

func (s *scheduler) popTile() (tile image.Rectangle, found bool) {
	s.m.Lock()
	defer s.m.Unlock()

	// Get unstarted tile
	if len(s.unstarted) > 0 {
		for tile = range s.unstarted {
			break
		}
		delete(s.unstarted, tile)

		// Move popped tile to currently processed tiles
		s.inProcess[tile] = struct{}{}
		return tile, true
	}

	// If there is no unstarted tile, we work again on a started one, in
	// case the worker holding it stalled or disconnected.
	if len(s.inProcess) > 0 {
		for tile = range s.inProcess {
			break
		}

		return tile, true
	}

	return image.Rectangle{}, false
}

// tileFinished paints the tile's counts into the global image and updates
// progress. Duplicate results for re-issued tiles repaint the same pixels,
// which is harmless: counts are deterministic.
func (s *scheduler) tileFinished(tile image.Rectangle, counts []uint32) error {
	if want := tile.Dx() * tile.Dy(); len(counts) != want {
		return fmt.Errorf("tile %v: got %d counts, want %d", tile, len(counts), want)
	}

	tileImg := render.ColorCounts(s.job(tile), counts, s.palette)

	s.m.Lock()
	defer s.m.Unlock()

	draw.Draw(
		s.img,
		tileImg.Bounds(),     // destination rectangle (global coords)
		tileImg,              // source image
		tileImg.Bounds().Min, // source start
		draw.Src,
	)

	if _, found := s.inProcess[tile]; found {
		s.finishedPixels += tile.Dx() * tile.Dy()
	}
	delete(s.inProcess, tile)

	if len(s.unstarted) == 0 && len(s.inProcess) == 0 {
		s.ctxCancel()
	}
	return nil
}

func (s *scheduler) finished() float32 {
	s.m.Lock()
	defer s.m.Unlock()
	return float32(s.finishedPixels) / float32(s.totalPixels)
}

func (s *scheduler) status() wire.Status {
	s.m.Lock()
	defer s.m.Unlock()
	return wire.Status{
		Workers:    s.workers,
		TilesTotal: s.totalTiles,
		TilesLeft:  len(s.unstarted) + len(s.inProcess),
		Finished:   float32(s.finishedPixels) / float32(s.totalPixels),
	}
}

// fullImage blocks until the full image is rendered or ctx is cancelled.
// It returns a snapshot taken under the lock: a worker returning a late
// duplicate of a re-issued tile may still repaint s.img after completion.
func (s *scheduler) fullImage(ctx context.Context) (*image.RGBA, error) {
	select {
	case <-s.ctx.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.m.Lock()
	defer s.m.Unlock()

	out := image.NewRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out, nil
}

func (s *scheduler) incActiveWorkers() {
	s.m.Lock()
	s.workers++
	w := s.workers
	s.m.Unlock()

	log.Printf("workers: %d", w)
}

func (s *scheduler) decActiveWorkers() {
	s.m.Lock()
	s.workers--
	w := s.workers
	s.m.Unlock()

	log.Printf("workers: %d", w)
}

// drive feeds unfinished tiles to the given renderer until none remain.
// Safe to call from one goroutine per connected worker.
func (s *scheduler) drive(workerID string, r mandel.Renderer) error {
	s.incActiveWorkers()
	defer s.decActiveWorkers()

	for {
		tile, found := s.popTile()
		if !found {
			break
		}

		counts, err := r.CountTile(s.job(tile))
		if err != nil {
			log.Printf("worker %s: tile %s failed: %v", workerID, tile, err)
			return nil
		}

		if err := s.tileFinished(tile, counts); err != nil {
			log.Printf("worker %s: %v", workerID, err)
			return nil
		}
		log.Printf("finished: %f", s.finished())
	}
	return nil
}
