package colorspace

import (
	"fmt"
	"math"
)

// Lab is a CIE L*a*b* color (D65).
//
// L is nominally in [0,100]; A and B are unbounded in principle. Two Lab
// values are equal only when all three coordinates are bit-for-bit equal,
// which is what binning makes useful: near-identical colors snapped to the
// same bin compare equal with ==.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// XYZ converts to D65-normalized XYZ.
func (c Lab) XYZ() XYZ {
	y := (c.L + 16) / 116
	x := y + c.A/500
	z := y - c.B/200

	return XYZ{
		X: labFInv(x),
		Y: labFInv(y),
		Z: labFInv(z),
	}
}

// RGB converts to 8-bit sRGB, clamping channels that fall outside the gamut.
func (c Lab) RGB() RGB {
	return c.XYZ().RGB()
}

// Hex returns the "#rrggbb" form of the (clamped) sRGB equivalent.
func (c Lab) Hex() string {
	return c.RGB().Hex()
}

// String renders the coordinates truncated to integers, e.g. "74,23,78".
func (c Lab) String() string {
	return fmt.Sprintf("%d,%d,%d", int(c.L), int(c.A), int(c.B))
}

// Bin snaps every coordinate to a grid of the given size. A size <= 0
// returns c unchanged.
func (c Lab) Bin(size float64, method BinMethod) Lab {
	if size <= 0 {
		return c
	}
	return Lab{
		L: method.Apply(c.L, size),
		A: method.Apply(c.A, size),
		B: method.Apply(c.B, size),
	}
}

// Distance returns the CIE76 (Euclidean) distance to o.
func (c Lab) Distance(o Lab) float64 {
	dL := c.L - o.L
	da := c.A - o.A
	db := c.B - o.B
	return math.Sqrt(dL*dL + da*da + db*db)
}

// Key packs the truncated coordinates into a 24-bit integer,
// L<<16 | (a+110)<<8 | (b+110). It is unique for binned colors inside the
// grid enumerated by GamutBins and gives them a stable total order.
func (c Lab) Key() int {
	return int(c.L)<<16 | int(c.A+110)<<8 | int(c.B+110)
}
