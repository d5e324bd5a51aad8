package mandel

// Region within the Mandelbrot set
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Project maps pixel (px, py) of an imgW×imgH image onto the complex plane,
// returning the real and imaginary parts of c for that pixel. Pixel (0,0)
// maps to (Xmin, Ymin); the region is sampled at the pixel's top-left
// corner.
func (r Region) Project(px, py, imgW, imgH int) (re, im float64) {
	re = r.Xmin + (float64(px)/float64(imgW))*(r.Xmax-r.Xmin)
	im = r.Ymin + (float64(py)/float64(imgH))*(r.Ymax-r.Ymin)
	return re, im
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Full view – the whole set with some margin around the main cardioid
	FullSet = Region{
		Xmin: -2.5,
		Xmax: 1.0,
		Ymin: -1.0,
		Ymax: 1.0,
	}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

// Landmarks maps config/CLI names to the predefined regions above.
var Landmarks = map[string]Region{
	"full":           FullSet,
	"seahorse":       SeahorseValley,
	"elephant":       ElephantValley,
	"spiral":         SpiralMinibrot,
	"triple-spiral":  TripleSpiral,
	"dragon":         ValleyOfTheDragon,
	"mini-spiral":    MinibrotInMiniSpiral,
}
