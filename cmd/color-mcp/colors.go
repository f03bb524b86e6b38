package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/color-tools-mcp/internal/colorspace"
	"github.com/ironsheep/color-tools-mcp/internal/config"
	"github.com/ironsheep/color-tools-mcp/internal/gamutplot"
)

type conversion struct {
	Input     string         `json:"input" yaml:"input"`
	Hex       string         `json:"hex" yaml:"hex"`
	Packed    int            `json:"packed" yaml:"packed"`
	RGB       colorspace.RGB `json:"rgb" yaml:"rgb"`
	XYZ       [3]float64     `json:"xyz" yaml:"xyz"`
	Lab       colorspace.Lab `json:"lab" yaml:"lab"`
	LabBinned colorspace.Lab `json:"lab_binned" yaml:"lab_binned"`
	BinKey    int            `json:"bin_key" yaml:"bin_key"`
	InGamut   bool           `json:"in_gamut" yaml:"in_gamut"`
}

func newConvertCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert color...",
		Short: "Show the XYZ and L*a*b* forms of colors",
		Long: `Convert each color (#rrggbb, packed decimal or r,g,b) to XYZ and L*a*b*.
The binned L*a*b* uses --bin-size and --bin-method.`,
		Example: `  color-mcp convert '#ffa500' 255 0,128,255`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.classifier.Options()

			out := make([]conversion, 0, len(args))
			for _, arg := range args {
				c, err := config.ParseReference(arg)
				if err != nil {
					return err
				}
				xyz := c.XYZ(0)
				binned := c.Lab(opts.BinSize, opts.BinMethod)
				out = append(out, conversion{
					Input:     arg,
					Hex:       c.Hex(),
					Packed:    c.Packed(),
					RGB:       c,
					XYZ:       [3]float64{xyz.X, xyz.Y, xyz.Z},
					Lab:       c.Lab(0, opts.BinMethod),
					LabBinned: binned,
					BinKey:    binned.Key(),
					InGamut:   binned.InGamut(),
				})
			}

			return render(cmd.OutOrStdout(), output, out, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "INPUT\tHEX\tLAB\tBINNED\tIN GAMUT\t")
				for _, c := range out {
					fmt.Fprintf(tw, "%s\t%s\t%.4f,%.4f,%.4f\t%s\t%t\t%s\n",
						c.Input, c.Hex, c.Lab.L, c.Lab.A, c.Lab.B, c.LabBinned, c.InGamut, swatch(w, c.Hex))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}

type distances struct {
	From      string  `json:"from" yaml:"from"`
	To        string  `json:"to" yaml:"to"`
	Delta1976 float64 `json:"delta1976" yaml:"delta1976"`
	Delta1994 float64 `json:"delta1994" yaml:"delta1994"`
	Delta2000 float64 `json:"delta2000" yaml:"delta2000"`
	Match     bool    `json:"match" yaml:"match"`
}

func newDistanceCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "distance color color",
		Short: "Compare two colors with CIE76, CIE94 and CIEDE2000",
		Long: `Compare two colors after converting both to binned L*a*b*. CIE94 is not
symmetric; the first color is the reference. match reports whether the
CIEDE2000 distance is within --threshold.`,
		Example: `  color-mcp distance '#ffa500' '#0000ff'
  color-mcp distance --bin-size 0 16753920 16753921`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.classifier.Options()

			x, err := config.ParseReference(args[0])
			if err != nil {
				return err
			}
			y, err := config.ParseReference(args[1])
			if err != nil {
				return err
			}
			lx := x.Lab(opts.BinSize, opts.BinMethod)
			ly := y.Lab(opts.BinSize, opts.BinMethod)

			d := distances{
				From:      x.Hex(),
				To:        y.Hex(),
				Delta1976: colorspace.CIE76(lx, ly),
				Delta1994: colorspace.CIE94(lx, ly),
				Delta2000: colorspace.CIEDE2000(lx, ly),
			}
			d.Match = d.Delta2000 <= opts.Threshold

			return render(cmd.OutOrStdout(), output, d, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s -> %s\n  CIE76      %.4f\n  CIE94      %.4f\n  CIEDE2000  %.4f\n  match      %t\n",
					d.From, d.To, d.Delta1976, d.Delta1994, d.Delta2000, d.Match)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}

func newBinsCmd(a *app) *cobra.Command {
	var (
		size     float64
		list     bool
		plotPath string
		plotL    float64
	)

	cmd := &cobra.Command{
		Use:   "bins",
		Short: "Enumerate the in-gamut L*a*b* bins of a grid",
		Long: `Walk the L*a*b* grid of the given size over L in [0,100] and a, b in
[-110,110], and report the grid points that have an sRGB representation.

--plot writes the bins at lightness --l as a PNG scatter on the a*b* plane.`,
		Example: `  color-mcp bins --size 10
  color-mcp bins --size 10 --list
  color-mcp bins --size 5 --plot slice.png --l 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(size >= colorspace.MinGridSize) {
				return fmt.Errorf("bin size must be at least %g, got %g", colorspace.MinGridSize, size)
			}
			w := cmd.OutOrStdout()

			if plotPath != "" {
				f, err := os.Create(plotPath)
				if err != nil {
					return fmt.Errorf("failed to create plot: %w", err)
				}
				if err := gamutplot.WriteSlice(f, size, plotL); err != nil {
					f.Close()
					os.Remove(plotPath)
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write plot: %w", err)
				}
				a.logger.Info("wrote gamut slice", "path", plotPath, "l", plotL, "size", size)
				return nil
			}

			bins := colorspace.GamutBins(size)
			if !list {
				_, err := fmt.Fprintf(w, "%d in-gamut bins at size %g\n", len(bins), size)
				return err
			}
			for _, b := range bins {
				if _, err := fmt.Fprintf(w, "%s\t%s\t%d\n", b, b.Hex(), b.Key()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&size, "size", 10, "grid spacing")
	cmd.Flags().BoolVar(&list, "list", false, "print every bin as L,a,b, hex and key")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a PNG of one lightness slice to this file")
	cmd.Flags().Float64Var(&plotL, "l", 50, "lightness of the plotted slice")
	return cmd
}
