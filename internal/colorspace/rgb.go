package colorspace

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxPacked is the largest valid packed 0xRRGGBB value.
const MaxPacked = 0xFFFFFF

// RGB represents an sRGB color with 8-bit components.
//
// The zero value is black. RGB implements image/color.Color so it can be
// drawn into or compared against standard library images directly.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// NewRGB creates an RGB color from three channel values.
//
// Every channel is validated: a value below 0 or above 255 is rejected with
// a *RangeError rather than clamped, so that bad input never turns silently
// into a different color.
func NewRGB(r, g, b int) (RGB, error) {
	for _, ch := range []struct {
		name string
		v    int
	}{{"r", r}, {"g", g}, {"b", b}} {
		if ch.v < 0 || ch.v > 255 {
			return RGB{}, &RangeError{Component: ch.name, Value: ch.v, Max: 255}
		}
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// MustRGB is like NewRGB but panics on invalid channels. It is intended for
// package-level constants and tests.
func MustRGB(r, g, b int) RGB {
	c, err := NewRGB(r, g, b)
	if err != nil {
		panic(err)
	}
	return c
}

// RGBFromPacked unpacks a 24-bit 0xRRGGBB value.
//
// Bits 16-23 hold red, 8-15 green and 0-7 blue. Values outside
// [0, 0xFFFFFF] are rejected instead of having their high bits masked away.
func RGBFromPacked(v int) (RGB, error) {
	if v < 0 || v > MaxPacked {
		return RGB{}, &RangeError{Component: "packed", Value: v, Max: MaxPacked}
	}
	return RGB{
		R: uint8((v & 0xFF0000) >> 16),
		G: uint8((v & 0x00FF00) >> 8),
		B: uint8(v & 0xFF),
	}, nil
}

// ParseHex parses "#rrggbb", "rrggbb", "#rgb" or "rgb" (case-insensitive).
// Any other number of digits is an error.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 3 && len(digits) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q: want 3 or 6 hex digits", s)
	}
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return RGB{}, fmt.Errorf("invalid hex color %q: bad digit %q", s, r)
		}
	}
	s = "#" + digits
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Packed returns the color as a 24-bit 0xRRGGBB integer.
func (c RGB) Packed() int {
	return int(c.R)<<16 | int(c.G)<<8 | int(c.B)
}

// Hex returns the lowercase "#rrggbb" form of the color.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string { return c.Hex() }

// RGBA implements image/color.Color. The color is always fully opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Colorful converts the color to a go-colorful value for callers that need
// color spaces outside this package.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// XYZ converts the color to D65-normalized XYZ.
//
// binSize is not applied to XYZ itself; it is carried along and used when
// the result is converted to Lab.
func (c RGB) XYZ(binSize float64) XYZ {
	r := linearize(float64(c.R) / 255.0)
	g := linearize(float64(c.G) / 255.0)
	b := linearize(float64(c.B) / 255.0)

	return XYZ{
		X:       (srgbToXYZ[0][0]*r + srgbToXYZ[0][1]*g + srgbToXYZ[0][2]*b) / whiteD65[0],
		Y:       (srgbToXYZ[1][0]*r + srgbToXYZ[1][1]*g + srgbToXYZ[1][2]*b) / whiteD65[1],
		Z:       (srgbToXYZ[2][0]*r + srgbToXYZ[2][1]*g + srgbToXYZ[2][2]*b) / whiteD65[2],
		BinSize: binSize,
	}
}

// Lab converts the color to (optionally binned) Lab.
func (c RGB) Lab(binSize float64, method BinMethod) Lab {
	return c.XYZ(binSize).Lab(method)
}

// linearize applies the inverse sRGB gamma to a channel in [0,1].
func linearize(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// delinearize applies the forward sRGB gamma to a linear channel value.
func delinearize(v float64) float64 {
	if v <= 0.00304 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}
