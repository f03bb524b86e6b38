package colorspace

import "math"

// D65 reference white.
var whiteD65 = [3]float64{0.950470, 1.0, 1.088830}

var (
	srgbToXYZ = [3][3]float64{
		{0.4124564, 0.3575761, 0.1804375},
		{0.2126729, 0.7151522, 0.0721750},
		{0.0193339, 0.1191920, 0.9503041},
	}
	xyzToSRGB = [3][3]float64{
		{3.2404542, -1.5371385, -0.4985314},
		{-0.9692660, 1.8760108, 0.0415560},
		{0.0556434, -0.2040259, 1.0572252},
	}
)

// Lab nonlinearity constants.
const (
	labEpsilon    = 0.008856    // forward threshold, (6/29)^3
	labInvEpsilon = 0.206893034 // inverse threshold, 6/29
	labKappa      = 7.787037    // slope of the linear segment
	labOffset     = 4.0 / 29
)

// XYZ is a CIE XYZ tristimulus value normalized by the D65 white point, so
// that white is (1,1,1).
type XYZ struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	// BinSize is forwarded to Lab when this value is converted. The XYZ
	// components themselves are never binned.
	BinSize float64 `json:"bin_size,omitempty"`
}

// Lab converts to Lab, binning the result with BinSize and method.
func (c XYZ) Lab(method BinMethod) Lab {
	fx := labF(c.X)
	fy := labF(c.Y)
	fz := labF(c.Z)

	lab := Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
	return lab.Bin(c.BinSize, method)
}

// RGB converts back to 8-bit sRGB. Channels outside [0,255] are clamped.
func (c XYZ) RGB() RGB {
	r, g, b := c.gammaEncoded()
	return RGB{R: to8bit(r), G: to8bit(g), B: to8bit(b)}
}

// gammaEncoded returns the gamma-encoded sRGB channels in nominal [0,1],
// before quantization and clamping.
func (c XYZ) gammaEncoded() (r, g, b float64) {
	x := c.X * whiteD65[0]
	y := c.Y * whiteD65[1]
	z := c.Z * whiteD65[2]

	r = xyzToSRGB[0][0]*x + xyzToSRGB[0][1]*y + xyzToSRGB[0][2]*z
	g = xyzToSRGB[1][0]*x + xyzToSRGB[1][1]*y + xyzToSRGB[1][2]*z
	b = xyzToSRGB[2][0]*x + xyzToSRGB[2][1]*y + xyzToSRGB[2][2]*z

	return delinearize(r), delinearize(g), delinearize(b)
}

func to8bit(v float64) uint8 {
	n := math.Floor(255*v + 0.5)
	if n < 0 || math.IsNaN(n) {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return labKappa*t + labOffset
}

func labFInv(t float64) float64 {
	if t > labInvEpsilon {
		return t * t * t
	}
	return (t - labOffset) / labKappa
}
