package imaging

import (
	"fmt"
	"image"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"github.com/esimov/colorquant"

	"github.com/ironsheep/color-tools-mcp/internal/classify"
	"github.com/ironsheep/color-tools-mcp/internal/colorspace"
)

// ColorResult describes one pixel.
//
// Lab is unbinned, so it is the exact image of RGB under the sRGB to
// L*a*b* conversion.
type ColorResult struct {
	Hex   string         `json:"hex"`   // "#rrggbb", alpha excluded
	RGB   colorspace.RGB `json:"rgb"`   // 8-bit channels
	Alpha uint8          `json:"alpha"` // 0 = transparent, 255 = opaque
	Lab   colorspace.Lab `json:"lab"`
}

// SampleColor extracts the color at a pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0 = leftmost pixel).
//   - y: Y coordinate (0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The pixel as hex, RGB and L*a*b*.
//   - error: Non-nil if the coordinates are outside the image bounds.
//
// 16-bit channels are scaled down by right-shifting 8 bits. Semi-transparent
// pixels are reported premultiplied, as image.Image returns them.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c, a := pixelAt(img, x, y)
	return &ColorResult{
		Hex:   c.Hex(),
		RGB:   c,
		Alpha: a,
		Lab:   c.Lab(0, colorspace.BinFloor),
	}, nil
}

func pixelAt(img image.Image, x, y int) (colorspace.RGB, uint8) {
	r, g, b, a := img.At(x, y).RGBA()
	return colorspace.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}, uint8(a >> 8)
}

// LabeledPoint is a pixel coordinate with an optional label such as
// "jacket" or "logo".
type LabeledPoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// ID returns the label, or "x,y" when the point has none.
func (p LabeledPoint) ID() string {
	if p.Label != "" {
		return p.Label
	}
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// SampleSamples reads every point and turns it into a classifier sample
// whose ID is the point's ID. Samples are returned in input order. If any
// point is out of bounds, no samples are returned.
func SampleSamples(img image.Image, points []LabeledPoint) ([]classify.Sample, error) {
	samples := make([]classify.Sample, 0, len(points))
	for _, p := range points {
		c, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		samples = append(samples, classify.Sample{ID: p.ID(), Color: c.RGB})
	}
	return samples, nil
}

// DominantOptions controls how DominantColors groups pixels.
type DominantOptions struct {
	// BinSize is the L*a*b* grid step; <= 0 counts every distinct color.
	BinSize   float64
	BinMethod colorspace.BinMethod
	// BlurSigma is the radius of an optional Gaussian pre-blur that
	// suppresses noise and dithering. 0 disables it.
	BlurSigma float64
	// Quantize reduces the image to this many colors with median cut
	// before binning. 0 disables it.
	Quantize int
}

// DefaultDominantOptions returns a 10-unit rounded grid with no blur.
func DefaultDominantOptions() DominantOptions {
	return DominantOptions{
		BinSize:   10,
		BinMethod: colorspace.BinRound,
	}
}

// ColorFrequency is one L*a*b* bin and its share of the analyzed pixels.
type ColorFrequency struct {
	Hex        string         `json:"hex"` // bin centre, clamped into sRGB
	Lab        colorspace.Lab `json:"lab"` // bin centre
	Pixels     int            `json:"pixels"`
	Percentage float64        `json:"percentage"` // 0-100
	InGamut    bool           `json:"in_gamut"`
}

// DominantColorsResult contains the most populated bins, most common first.
type DominantColorsResult struct {
	Colors      []ColorFrequency `json:"colors"`
	TotalPixels int              `json:"total_pixels"`
	Bins        int              `json:"bins"` // distinct bins before truncation to count
}

// DominantColors extracts the count most populated L*a*b* bins of an image
// or region.
//
// Parameters:
//   - img: The source image to analyze.
//   - count: Maximum number of bins to return (must be positive).
//   - region: Optional region to analyze; nil means the whole image.
//   - opts: Bin grid, blur and quantization settings.
//
// Returns:
//   - *DominantColorsResult: Bins sorted by pixel count, ties broken by
//     Lab.Key so the order is stable.
//   - error: Non-nil for a non-positive count, a negative Quantize or an
//     invalid region.
//
// # Binning
//
// The optional blur runs first, then the optional median-cut quantization.
// Each pixel is converted to L*a*b* and snapped to the grid with
// Lab.Bin(opts.BinSize, opts.BinMethod). Because the grid is perceptual,
// colors that look alike land in the same bin regardless of which RGB
// channel differs. A bin centre can fall outside sRGB, which InGamut
// reports; its Hex is then the clamped approximation.
func DominantColors(img image.Image, count int, region *Region, opts DominantOptions) (*DominantColorsResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	if opts.Quantize < 0 {
		return nil, fmt.Errorf("quantize must not be negative, got %d", opts.Quantize)
	}

	src, err := CropRegion(img, region)
	if err != nil {
		return nil, err
	}
	if opts.BlurSigma > 0 {
		src = blur.Gaussian(src, opts.BlurSigma)
	}
	if opts.Quantize > 0 {
		dst := image.NewNRGBA(src.Bounds())
		colorquant.NoDither.Quantize(src, dst, opts.Quantize, false, true)
		src = dst
	}

	bounds := src.Bounds()
	labs := make(map[colorspace.RGB]colorspace.Lab)
	counts := make(map[colorspace.Lab]int)
	total := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, _ := pixelAt(src, x, y)
			lab, ok := labs[c]
			if !ok {
				lab = c.Lab(opts.BinSize, opts.BinMethod)
				labs[c] = lab
			}
			counts[lab]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for lab, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        lab.Hex(),
			Lab:        lab,
			Pixels:     n,
			Percentage: float64(n) / float64(total) * 100,
			InGamut:    lab.InGamut(),
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Pixels != colors[j].Pixels {
			return colors[i].Pixels > colors[j].Pixels
		}
		a, b := colors[i].Lab, colors[j].Lab
		if ka, kb := a.Key(), b.Key(); ka != kb {
			return ka < kb
		}
		// unbinned colors can share a key
		if a.L != b.L {
			return a.L < b.L
		}
		if a.A != b.A {
			return a.A < b.A
		}
		return a.B < b.B
	})

	bins := len(colors)
	if len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors, TotalPixels: total, Bins: bins}, nil
}
