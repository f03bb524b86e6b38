package colorspace

// gamutTolerance absorbs the rounding error of the forward and inverse
// matrices (about 7e-7 at the sRGB primaries) so that every Lab derived
// from an 8-bit color tests as in gamut.
const gamutTolerance = 1e-5

// MinGridSize is the smallest grid spacing GamutBins enumerates. At 1 or
// more, Key is unique over the enumerated bins.
const MinGridSize = 1.0

// Lab grid extents used when enumerating bins.
const (
	gridMinL  = 0.0
	gridMaxL  = 100.0
	gridMinAB = -110.0
	gridMaxAB = 110.0
)

// InGamut reports whether the Lab coordinate (l, a, b) has an sRGB
// representation, that is whether all three gamma-encoded channels fall in
// [0,1]. No 8-bit quantization is applied.
func InGamut(l, a, b float64) bool {
	return Lab{L: l, A: a, B: b}.InGamut()
}

// InGamut reports whether c is representable in sRGB. See InGamut.
func (c Lab) InGamut() bool {
	r, g, b := c.XYZ().gammaEncoded()
	return inUnit(r) && inUnit(g) && inUnit(b)
}

func inUnit(v float64) bool {
	return v >= -gamutTolerance && v <= 1+gamutTolerance
}

// GamutBins enumerates the Lab grid of the given bin size, over L in
// [0,100] and a, b in [-110,110], and returns the grid points that are in
// the sRGB gamut. Not every bin has a real-color representative, so callers
// walking the grid must not assume it is fully populated.
//
// A size below MinGridSize returns nil.
func GamutBins(size float64) []Lab {
	if !(size >= MinGridSize) {
		return nil
	}

	var bins []Lab
	for i := 0; ; i++ {
		l := gridMinL + float64(i)*size
		if l > gridMaxL {
			break
		}
		for j := 0; ; j++ {
			a := gridMinAB + float64(j)*size
			if a > gridMaxAB {
				break
			}
			for k := 0; ; k++ {
				b := gridMinAB + float64(k)*size
				if b > gridMaxAB {
					break
				}
				c := Lab{L: l, A: a, B: b}
				if c.InGamut() {
					bins = append(bins, c)
				}
			}
		}
	}
	return bins
}
