package colorspace

import "math"

// CIE76 returns the CIE 1976 color difference, the Euclidean distance
// between x and y in Lab.
func CIE76(x, y Lab) float64 {
	return x.Distance(y)
}

// CIE94 graphic-arts constants.
const (
	cie94K1 = 0.045
	cie94K2 = 0.015
)

// CIE94 returns the CIE 1994 color difference with graphic-arts weighting
// (kL = kC = kH = 1).
//
// CIE94 is not symmetric: the chroma weights are taken from x, which is
// treated as the reference color.
func CIE94(x, y Lab) float64 {
	c1 := math.Sqrt(x.A*x.A + x.B*x.B)
	c2 := math.Sqrt(y.A*y.A + y.B*y.B)

	dL := x.L - y.L
	dC := c1 - c2
	da := x.A - y.A
	db := x.B - y.B

	// dH^2 can come out slightly negative from rounding.
	dH2 := da*da + db*db - dC*dC
	if dH2 < 0 {
		dH2 = 0
	}

	sc := 1 + cie94K1*c1
	sh := 1 + cie94K2*c1

	dC /= sc
	return math.Sqrt(dL*dL + dC*dC + dH2/(sh*sh))
}
