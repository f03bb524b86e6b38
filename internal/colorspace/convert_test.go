package colorspace

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func TestRoundTrip_AllChannelsWithinOne(t *testing.T) {
	// Every third level plus the ends of the range.
	levels := []int{1, 2, 254, 255}
	for v := 0; v < 256; v += 3 {
		levels = append(levels, v)
	}

	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				in := MustRGB(r, g, b)
				out := in.XYZ(0).Lab(BinFloor).RGB()
				if absDiff(in.R, out.R) > 1 || absDiff(in.G, out.G) > 1 || absDiff(in.B, out.B) > 1 {
					t.Fatalf("round trip %s -> %s exceeds 1 per channel", in, out)
				}
			}
		}
	}
}

func TestRoundTrip_Orange(t *testing.T) {
	orange := MustRGB(255, 165, 0)
	lab := orange.Lab(0, BinFloor)

	assert.InDelta(t, 74.9357, lab.L, 1e-3)
	assert.InDelta(t, 23.9332, lab.A, 1e-3)
	assert.InDelta(t, 78.9498, lab.B, 1e-3)

	back := lab.RGB()
	assert.LessOrEqual(t, absDiff(orange.R, back.R), 1)
	assert.LessOrEqual(t, absDiff(orange.G, back.G), 1)
	assert.LessOrEqual(t, absDiff(orange.B, back.B), 1)
	assert.Equal(t, "#ffa500", lab.Hex())
}

func TestXYZ_WhiteAndBlack(t *testing.T) {
	white := MustRGB(255, 255, 255).XYZ(0)
	assert.InDelta(t, 1.0, white.X, 1e-6)
	assert.InDelta(t, 1.0, white.Y, 1e-6)
	assert.InDelta(t, 1.0, white.Z, 1e-6)

	black := MustRGB(0, 0, 0).XYZ(0)
	assert.Equal(t, XYZ{}, black)

	lab := black.Lab(BinFloor)
	assert.InDelta(t, 0, lab.L, 1e-9)
	assert.Equal(t, 0.0, lab.A)
	assert.Equal(t, 0.0, lab.B)
}

func TestXYZ_CarriesBinSize(t *testing.T) {
	xyz := MustRGB(255, 165, 0).XYZ(5)
	assert.Equal(t, 5.0, xyz.BinSize)

	unbinned := MustRGB(255, 165, 0).XYZ(0)
	assert.Equal(t, unbinned.X, xyz.X, "XYZ components must not be binned")

	lab := xyz.Lab(BinFloor)
	assert.Equal(t, Lab{L: 70, A: 20, B: 75}, lab)
}

func TestLab_RGBClampsOutOfGamut(t *testing.T) {
	c := Lab{L: 50, A: 200, B: 200}.RGB()
	// Red saturates while blue is pushed below zero.
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.B)

	assert.Equal(t, RGB{255, 255, 255}, Lab{L: 150}.RGB())
	assert.Equal(t, RGB{0, 0, 0}, Lab{L: -50}.RGB())
}

func TestLab_String(t *testing.T) {
	assert.Equal(t, "74,23,78", MustRGB(255, 165, 0).Lab(0, BinFloor).String())
}

func TestLab_MatchesGoColorful(t *testing.T) {
	// go-colorful uses slightly different matrix coefficients, so agreement
	// is approximate.
	colors := []RGB{
		{255, 165, 0}, {0, 0, 255}, {255, 0, 0}, {0, 255, 0},
		{128, 128, 128}, {12, 200, 77}, {240, 240, 250},
	}
	for _, c := range colors {
		t.Run(c.Hex(), func(t *testing.T) {
			want := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
			l, a, b := want.Lab()
			got := c.Lab(0, BinFloor)
			assert.InDelta(t, l*100, got.L, 0.05)
			assert.InDelta(t, a*100, got.A, 0.1)
			assert.InDelta(t, b*100, got.B, 0.1)
		})
	}
}

func TestLabXYZ_InverseIsExactEnough(t *testing.T) {
	for _, c := range []RGB{{255, 165, 0}, {3, 3, 3}, {10, 240, 130}} {
		xyz := c.XYZ(0)
		back := xyz.Lab(BinFloor).XYZ()
		require.InDelta(t, xyz.X, back.X, 1e-9)
		require.InDelta(t, xyz.Y, back.Y, 1e-9)
		require.InDelta(t, xyz.Z, back.Z, 1e-9)
	}
}

func TestTo8bit(t *testing.T) {
	assert.Equal(t, uint8(0), to8bit(-0.5))
	assert.Equal(t, uint8(0), to8bit(math.NaN()))
	assert.Equal(t, uint8(255), to8bit(1.5))
	assert.Equal(t, uint8(128), to8bit(0.5))
}
