package gamutplot

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/color-tools-mcp/internal/colorspace"
)

func TestSlice(t *testing.T) {
	bins := []colorspace.Lab{
		{L: 40, A: 0, B: 0},
		{L: 50, A: 10, B: -10},
		{L: 50, A: 0, B: 0},
	}

	got := Slice(bins, 50)
	assert.Equal(t, []colorspace.Lab{{L: 50, A: 10, B: -10}, {L: 50}}, got)
	assert.Empty(t, Slice(bins, 60))
}

func TestWriteSlice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSlice(&buf, 10, 50))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 100)
	assert.Equal(t, img.Bounds().Dx(), img.Bounds().Dy())
}

func TestWriteSlice_OffGrid(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteSlice(&buf, 10, 55))
	assert.Error(t, WriteSlice(&buf, 0, 50))
	assert.Zero(t, buf.Len())
}
