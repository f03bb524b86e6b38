// Package colorspace implements the D65/sRGB color pipeline used to compare
// colors perceptually.
//
// Conversions flow strictly in one direction or the other:
//
//	RGB -> XYZ -> Lab   (forward)
//	Lab -> XYZ -> RGB   (inverse)
//
// All types are immutable values. Every conversion returns a new value and
// none of them share state, so every function in this package is safe for
// concurrent use.
//
// # Binning
//
// Lab coordinates can be snapped to a grid ("binned") so that perceptually
// near-identical colors compare equal with ==. The bin size is passed
// explicitly at every conversion call; a size <= 0 disables binning. Two
// strategies are available, BinFloor and BinRound.
//
// # Color Difference
//
// CIEDE2000 is the primary metric. CIE76 (plain Euclidean distance) and CIE94
// are provided for reporting alongside it.
//
// # Gamut
//
// Lab to RGB conversion clamps each channel to [0,255] and is silently lossy
// for colors outside the sRGB gamut. Use InGamut to test a coordinate first.
package colorspace
