// mandel-render renders a region of the Mandelbrot set to a PNG file on
// the local machine, fanning tiles out across all CPUs. It is the
// single-process counterpart of the mandeld/mandel-worker pair.
package main

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"github.com/fractalview/mandel"
	"github.com/fractalview/mandel/render"
)

type options struct {
	out      string
	width    int
	height   int
	tileSize int
	landmark string
	region   []float64
	maxIter  uint32
	radius   float64
	hueStep  float64
}

func mainCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "mandel-render",
		Short: "Render a region of the Mandelbrot set to a PNG file",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			// At this point usage information has already been printed if obviously incorrect.
			cmd.SilenceUsage = true
			return runCmd(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "mandel.png", "output PNG path")
	cmd.Flags().IntVar(&opts.width, "width", 1920, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 1080, "image height in pixels")
	cmd.Flags().IntVar(&opts.tileSize, "tile", 64, "tile edge length in pixels")
	cmd.Flags().StringVar(&opts.landmark, "landmark", "seahorse", "named region to render")
	cmd.Flags().Float64SliceVar(&opts.region, "region", nil, "explicit region bounds xmin,xmax,ymin,ymax (overrides --landmark)")
	cmd.Flags().Uint32Var(&opts.maxIter, "iterations", 1000, "iteration budget per point")
	cmd.Flags().Float64Var(&opts.radius, "radius", 2.0, "escape radius")
	cmd.Flags().Float64Var(&opts.hueStep, "hue-step", render.DefaultHueStep, "hue advance per iteration in the palette")

	return cmd
}

func (o *options) resolveRegion() (mandel.Region, error) {
	if len(o.region) > 0 {
		if len(o.region) != 4 {
			return mandel.Region{}, fmt.Errorf("--region needs 4 values, got %d", len(o.region))
		}
		r := mandel.Region{Xmin: o.region[0], Xmax: o.region[1], Ymin: o.region[2], Ymax: o.region[3]}
		if r.Xmin >= r.Xmax || r.Ymin >= r.Ymax {
			return mandel.Region{}, fmt.Errorf("region bounds are empty: %+v", r)
		}
		return r, nil
	}

	r, ok := mandel.Landmarks[o.landmark]
	if !ok {
		return mandel.Region{}, fmt.Errorf("unknown landmark %q", o.landmark)
	}
	return r, nil
}

func runCmd(opts *options) error {
	region, err := opts.resolveRegion()
	if err != nil {
		return err
	}
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("image dimensions must be positive, got %dx%d", opts.width, opts.height)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.width, opts.height))
	tiles := mandel.SplitTiles(img.Bounds(), opts.tileSize, opts.tileSize)
	pal := render.Palette{HueStep: opts.hueStep}

	tileCh := make(chan image.Rectangle)
	go func() {
		for _, t := range tiles {
			tileCh <- t
		}
		close(tileCh)
	}()

	parallel := runtime.NumCPU()
	log.Printf("rendering %d tiles on %d CPUs", len(tiles), parallel)

	var firstErr error
	var errOnce sync.Once

	var imgMu sync.Mutex
	wg := sync.WaitGroup{}
	wg.Add(parallel)
	for i := 0; i < parallel; i++ {
		go func() {
			defer wg.Done()
			for tile := range tileCh {
				tileImg, err := render.RenderTile(mandel.Job{
					Region:        region,
					Tile:          tile,
					ImgW:          opts.width,
					ImgH:          opts.height,
					MaxIterations: opts.maxIter,
					EscapeRadius:  opts.radius,
				}, pal)
				if err != nil {
					errOnce.Do(func() { firstErr = fmt.Errorf("tile %s: %w", tile, err) })
					continue
				}

				imgMu.Lock()
				draw.Draw(img, tileImg.Bounds(), tileImg, tileImg.Bounds().Min, draw.Src)
				imgMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create %q: %w", opts.out, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}

	log.Printf("rendered image saved to %q", opts.out)
	return nil
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
