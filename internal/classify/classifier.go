package classify

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/color-tools-mcp/internal/colorspace"
)

// Defaults used by DefaultOptions.
const (
	DefaultThreshold = 20.0
	DefaultBinSize   = 1.0
)

// DefaultReference is the reference color used when none is configured.
var DefaultReference = colorspace.RGB{R: 255, G: 165, B: 0} // orange

// Sample is a color to classify, tagged with an opaque caller-supplied ID.
type Sample struct {
	ID    string
	Color colorspace.RGB
}

// Record is one row from the data layer: an ID and a comma-separated list of
// packed decimal colors.
type Record struct {
	ID     string `json:"id"`
	Colors string `json:"colors"`
}

// Result is the classification of a single sample.
type Result struct {
	ID        string `json:"id" yaml:"id"`
	RGB       string `json:"rgb" yaml:"rgb"`             // "#rrggbb"
	Match     bool   `json:"match" yaml:"match"`         // Delta2000 within the threshold
	Delta1976 int    `json:"delta1976" yaml:"delta1976"` // CIE76, truncated
	Delta1994 int    `json:"delta1994" yaml:"delta1994"` // CIE94, truncated
	Delta2000 int    `json:"delta2000" yaml:"delta2000"` // CIEDE2000, truncated
}

// Options configures a Classifier.
type Options struct {
	// Reference is the color samples are compared against.
	Reference colorspace.RGB

	// Threshold is the largest CIEDE2000 distance that still counts as a
	// match. Must be finite and non-negative.
	Threshold float64

	// BinSize and BinMethod control Lab binning for both the reference and
	// the samples. A BinSize <= 0 disables binning.
	BinSize   float64
	BinMethod colorspace.BinMethod

	// Workers bounds the number of goroutines used by Classify. 1 runs
	// sequentially; 0 uses GOMAXPROCS.
	Workers int
}

// DefaultOptions returns orange, a threshold of 20, floor binning at size 1
// and zero workers, which New resolves to GOMAXPROCS.
func DefaultOptions() Options {
	return Options{
		Reference: DefaultReference,
		Threshold: DefaultThreshold,
		BinSize:   DefaultBinSize,
		BinMethod: colorspace.BinFloor,
		Workers:   0,
	}
}

// Validate checks the options for values New cannot use.
func (o Options) Validate() error {
	if math.IsNaN(o.Threshold) || math.IsInf(o.Threshold, 0) || o.Threshold < 0 {
		return fmt.Errorf("%w: threshold %v must be a non-negative number", ErrInvalidOptions, o.Threshold)
	}
	if math.IsNaN(o.BinSize) || math.IsInf(o.BinSize, 0) {
		return fmt.Errorf("%w: bin size %v must be finite", ErrInvalidOptions, o.BinSize)
	}
	if o.BinMethod != colorspace.BinFloor && o.BinMethod != colorspace.BinRound {
		return fmt.Errorf("%w: unknown bin method %v", ErrInvalidOptions, o.BinMethod)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers %d must not be negative", ErrInvalidOptions, o.Workers)
	}
	return nil
}

// Classifier classifies samples against a fixed reference color. It holds
// no mutable state and is safe for concurrent use.
type Classifier struct {
	opts      Options
	reference colorspace.Lab
}

// New creates a Classifier. The reference color is converted to Lab once,
// with the same binning as the samples.
func New(opts Options) (*Classifier, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Classifier{
		opts:      opts,
		reference: opts.Reference.Lab(opts.BinSize, opts.BinMethod),
	}, nil
}

// Options returns the options the classifier was built with.
func (c *Classifier) Options() Options { return c.opts }

// Reference returns the reference color in (binned) Lab.
func (c *Classifier) Reference() colorspace.Lab { return c.reference }

// ClassifyOne classifies a single sample.
func (c *Classifier) ClassifyOne(s Sample) Result {
	lab := s.Color.Lab(c.opts.BinSize, c.opts.BinMethod)
	d2000 := colorspace.CIEDE2000(c.reference, lab)

	return Result{
		ID:        s.ID,
		RGB:       s.Color.Hex(),
		Match:     d2000 <= c.opts.Threshold,
		Delta1976: int(colorspace.CIE76(c.reference, lab)),
		Delta1994: int(colorspace.CIE94(c.reference, lab)),
		Delta2000: int(d2000),
	}
}

// Classify classifies samples and returns one result per sample in input
// order. Work is split into contiguous chunks, one per worker.
//
// The only error is ctx being done before all samples were classified.
func (c *Classifier) Classify(ctx context.Context, samples []Sample) ([]Result, error) {
	results := make([]Result, len(samples))

	workers := c.opts.Workers
	if workers > len(samples) {
		workers = len(samples)
	}
	if workers <= 1 {
		for i, s := range samples {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = c.ClassifyOne(s)
		}
		return results, nil
	}

	chunk := (len(samples) + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(samples); start += chunk {
		start, end := start, start+chunk
		if end > len(samples) {
			end = len(samples)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = c.ClassifyOne(samples[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ClassifyRecords parses every record's color list and classifies all
// colors, in record order then list order. A malformed list fails the whole
// call; the error wraps a *ParseError or *colorspace.RangeError and names
// the record.
func (c *Classifier) ClassifyRecords(ctx context.Context, recs []Record) ([]Result, error) {
	samples, err := SamplesFromRecords(recs)
	if err != nil {
		return nil, err
	}
	return c.Classify(ctx, samples)
}

// Summary aggregates a set of results.
type Summary struct {
	Total    int `json:"total" yaml:"total"`
	Matches  int `json:"matches" yaml:"matches"`
	MinDelta int `json:"min_delta2000" yaml:"min_delta2000"`
	MaxDelta int `json:"max_delta2000" yaml:"max_delta2000"`
}

// Summarize counts matches and the Delta2000 range of results. The deltas
// are zero for an empty slice.
func Summarize(results []Result) Summary {
	var s Summary
	for i, r := range results {
		s.Total++
		if r.Match {
			s.Matches++
		}
		if i == 0 || r.Delta2000 < s.MinDelta {
			s.MinDelta = r.Delta2000
		}
		if i == 0 || r.Delta2000 > s.MaxDelta {
			s.MaxDelta = r.Delta2000
		}
	}
	return s
}
