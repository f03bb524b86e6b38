package colorspace

import (
	"fmt"
	"math"
	"strings"
)

// BinMethod selects how Lab coordinates are snapped to a bin grid.
type BinMethod int

const (
	// BinFloor snaps a value down: size * floor(v / size).
	BinFloor BinMethod = iota
	// BinRound snaps a value to the nearest grid point, halves rounding up:
	// size * round(v / size).
	BinRound
)

func (m BinMethod) String() string {
	switch m {
	case BinFloor:
		return "floor"
	case BinRound:
		return "round"
	default:
		return fmt.Sprintf("BinMethod(%d)", int(m))
	}
}

// ParseBinMethod parses "floor" or "round" (case-insensitive). An empty
// string selects BinFloor.
func ParseBinMethod(s string) (BinMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "floor":
		return BinFloor, nil
	case "round":
		return BinRound, nil
	default:
		return BinFloor, fmt.Errorf("unknown bin method %q (want floor or round)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m BinMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BinMethod) UnmarshalText(text []byte) error {
	v, err := ParseBinMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Apply bins a single value. A size <= 0 returns v unchanged.
//
// A value already on the grid (v == size*k for an integer k) is returned as
// is, even when v/size lands just below k in floating point. Every other
// value follows size*floor(v/size) or size*floor(v/size+0.5) exactly.
func (m BinMethod) Apply(v, size float64) float64 {
	if size <= 0 {
		return v
	}
	q := v / size
	if k := math.Round(q); size*k == v {
		return v
	}
	switch m {
	case BinRound:
		return size * math.Floor(q+0.5)
	default:
		return size * math.Floor(q)
	}
}
