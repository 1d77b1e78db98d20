// Package masks rasterizes facade layout masks: a ground band, alternating
// floor bands, and a window opening grid, all sized to the wall strip.
package masks

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/cityforge/meshgen/internal/geometry"
)

// Config holds facade layout dimensions, all in meters.
type Config struct {
	PlinthHeight     float64
	DoorHeight       float64
	WindowWidth      float64
	WindowHeight     float64
	HorizontalMargin float64
	VerticalMargin   float64
}

// DefaultConfig returns the standard facade layout.
func DefaultConfig() Config {
	return Config{
		PlinthHeight:     0.6,
		DoorHeight:       2.2,
		WindowWidth:      1.2,
		WindowHeight:     1.4,
		HorizontalMargin: 0.8,
		VerticalMargin:   0.5,
	}
}

// Bundle holds the paths of the three rendered masks.
type Bundle struct {
	Plinth   string
	Floors   string
	Openings string
}

// Generator rasterizes facade masks at a fixed texel density.
type Generator struct {
	texelDensity float64
	config       Config
}

// NewGenerator returns a mask generator for the given texel density.
func NewGenerator(texelDensity float64, config Config) *Generator {
	return &Generator{texelDensity: texelDensity, config: config}
}

var white = image.NewUniform(color.Gray{Y: 255})

// Generate renders the three masks at the given wall-strip pixel size and
// writes them as PNGs under outputDir. Pixel row 0 is the top of the wall;
// bands are laid out from the bottom up.
func (g *Generator) Generate(width, height int, props geometry.BuildingProperties, outputDir string) (Bundle, error) {
	if width <= 0 || height <= 0 {
		return Bundle{}, fmt.Errorf("invalid mask size %dx%d", width, height)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return Bundle{}, err
	}

	bounds := image.Rect(0, 0, width, height)
	plinth := image.NewGray(bounds)
	floors := image.NewGray(bounds)
	openings := image.NewGray(bounds)

	// Ground band along the bottom.
	plinthPx := int(g.config.PlinthHeight * g.texelDensity)
	fillRect(plinth, 0, height-plinthPx, width, height)

	// Alternating floor bands, bottom floor first.
	floorPx := int(props.FloorHeight * g.texelDensity)
	for i := 0; i < props.FloorsCount; i++ {
		if i%2 != 0 {
			continue
		}
		yTop := clamp(height-(i+1)*floorPx, 0, height)
		yBottom := clamp(height-i*floorPx, 0, height)
		fillRect(floors, 0, yTop, width, yBottom)
	}

	// Opening grid: one row of windows per floor, spaced by the margins.
	windowW := int(g.config.WindowWidth * g.texelDensity)
	windowH := int(g.config.WindowHeight * g.texelDensity)
	marginX := int(g.config.HorizontalMargin * g.texelDensity)
	marginY := int(g.config.VerticalMargin * g.texelDensity)

	y := height - floorPx + marginY
	for floor := 0; floor < props.FloorsCount; floor++ {
		x := marginX
		for windowW > 0 && x+windowW < width-marginX {
			fillRect(openings, x, y-windowH, x+windowW, y)
			x += windowW + marginX
		}
		y -= floorPx
	}

	bundle := Bundle{
		Plinth:   filepath.Join(outputDir, "plinth.png"),
		Floors:   filepath.Join(outputDir, "floors.png"),
		Openings: filepath.Join(outputDir, "openings.png"),
	}

	if err := writePNG(bundle.Plinth, plinth); err != nil {
		return Bundle{}, err
	}
	if err := writePNG(bundle.Floors, floors); err != nil {
		return Bundle{}, err
	}
	if err := writePNG(bundle.Openings, openings); err != nil {
		return Bundle{}, err
	}
	return bundle, nil
}

// fillRect paints the clipped rectangle white.
func fillRect(img *image.Gray, x0, y0, x1, y1 int) {
	r := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, white, image.Point{}, draw.Src)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	return f.Close()
}
