package classify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/color-tools-mcp/internal/colorspace"
)

// ParseColorList parses a comma-separated list of packed 0xRRGGBB decimal
// integers, e.g. "16750848,255,,16711680". Empty segments are skipped and the
// remaining colors are returned in input order.
//
// A segment that is not an integer fails with a *ParseError. An integer
// outside [0, 0xFFFFFF] fails with a *colorspace.RangeError.
func ParseColorList(s string) ([]colorspace.RGB, error) {
	segments := strings.Split(s, ",")
	colors := make([]colorspace.RGB, 0, len(segments))

	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		v, err := strconv.Atoi(seg)
		if err != nil {
			return nil, &ParseError{Segment: seg, Index: i, Err: err}
		}

		c, err := colorspace.RGBFromPacked(v)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		colors = append(colors, c)
	}

	return colors, nil
}

// SamplesFromRecords expands records into samples, each color tagged with
// its record's ID. Order is preserved: all colors of the first record, then
// all colors of the second, and so on.
func SamplesFromRecords(recs []Record) ([]Sample, error) {
	var samples []Sample
	for _, r := range recs {
		colors, err := ParseColorList(r.Colors)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.ID, err)
		}
		for _, c := range colors {
			samples = append(samples, Sample{ID: r.ID, Color: c})
		}
	}
	return samples, nil
}
