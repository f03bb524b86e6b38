package colorspace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInGamut_RGBDerivedColors(t *testing.T) {
	levels := []int{0, 1, 17, 64, 128, 200, 254, 255}
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				c := MustRGB(r, g, b).Lab(0, BinFloor)
				if !c.InGamut() {
					t.Errorf("Lab %v derived from %s reported out of gamut", c, MustRGB(r, g, b))
				}
			}
		}
	}
}

func TestInGamut_Primaries(t *testing.T) {
	for _, c := range []RGB{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0}, {255, 255, 255}, {0, 0, 0}} {
		lab := c.Lab(0, BinFloor)
		assert.True(t, InGamut(lab.L, lab.A, lab.B), "primary %s", c)
	}
}

func TestInGamut_FarOutside(t *testing.T) {
	tests := []struct {
		name string
		lab  Lab
	}{
		{"extreme a and b", Lab{L: 50, A: 200, B: 200}},
		{"too light", Lab{L: 120}},
		{"negative lightness", Lab{L: -10}},
		{"saturated green at high L", Lab{L: 95, A: -120, B: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.lab.InGamut())
			assert.False(t, InGamut(tt.lab.L, tt.lab.A, tt.lab.B))
		})
	}
}

func TestGamutBins(t *testing.T) {
	bins := GamutBins(10)
	require.NotEmpty(t, bins)

	// 11 L levels x 23 a levels x 23 b levels
	assert.Less(t, len(bins), 11*23*23, "not every bin can be populated")

	seenBlack := false
	for _, b := range bins {
		require.True(t, b.InGamut(), "bin %v", b)
		if b == (Lab{}) {
			seenBlack = true
		}
	}
	assert.True(t, seenBlack, "L=0 a=0 b=0 should be in gamut")

	assert.Nil(t, GamutBins(0))
	assert.Nil(t, GamutBins(-1))
	assert.Nil(t, GamutBins(0.001))
	assert.Nil(t, GamutBins(math.NaN()))
	assert.NotEmpty(t, GamutBins(MinGridSize))
}

func TestGamutBins_BinnedColorsMayFallOutside(t *testing.T) {
	// Snapping a saturated color to a coarse grid can move it outside the
	// gamut, which is why bin centres need checking.
	blue := MustRGB(0, 0, 255).Lab(10, BinRound)
	assert.Equal(t, Lab{L: 30, A: 80, B: -110}, blue)
	assert.False(t, blue.InGamut())
}

func TestLab_KeyUniqueOverGamutBins(t *testing.T) {
	seen := make(map[int]Lab)
	for _, c := range GamutBins(5) {
		k := c.Key()
		if prev, ok := seen[k]; ok {
			t.Fatalf("key %d shared by %v and %v", k, prev, c)
		}
		seen[k] = c
	}

	assert.Equal(t, 50<<16|110<<8|110, Lab{L: 50}.Key())
	assert.Equal(t, 0, Lab{L: 0, A: -110, B: -110}.Key())
	// offset before truncating
	assert.Equal(t, 50<<16|109<<8|110, Lab{L: 50, A: -0.5, B: 0}.Key())
}
