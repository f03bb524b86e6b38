package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/flosch/pongo2"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ironsheep/color-tools-mcp/internal/classify"
)

// report is the classify command's output document.
type report struct {
	Reference string            `json:"reference" yaml:"reference"`
	Threshold float64           `json:"threshold" yaml:"threshold"`
	Results   []classify.Result `json:"results" yaml:"results"`
	Summary   classify.Summary  `json:"summary" yaml:"summary"`
}

func newClassifyCmd(a *app) *cobra.Command {
	var (
		output    string
		tmpl      string
		keepGoing bool
	)

	cmd := &cobra.Command{
		Use:   "classify [record...]",
		Short: "Classify records of packed colors against the reference",
		Long: `Classify every color of every record against the reference color.

A record is "id<TAB>colors" or "id,colors", where colors is a comma-separated
list of packed 0xRRGGBB decimal integers. Records are taken from the
arguments or, when there are none, one per line from stdin. Blank lines and
lines starting with '#' are ignored.

--template renders a pongo2 template instead of --output. Its context holds
reference, threshold, results and summary. Prefix the value with '@' to read
the template from a file.`,
		Example: `  color-mcp classify '7,16753920,255,,16711680'
  printf '1\t16753920,255\n' | color-mcp classify --output json
  color-mcp classify --template '{% for r in results %}{{ r.ID }} {{ r.Match }}
{% endfor %}' 7,255`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var tpl *pongo2.Template
			if tmpl != "" {
				var err error
				if tpl, err = loadTemplate(tmpl); err != nil {
					return err
				}
			}

			var recs []classify.Record
			var lineErrs error
			var err error
			if len(args) > 0 {
				recs, lineErrs, err = parseRecords(strings.NewReader(strings.Join(args, "\n")), keepGoing)
			} else {
				in := cmd.InOrStdin()
				if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
					return errors.New("no records given: pass them as arguments or pipe them on stdin")
				}
				recs, lineErrs, err = parseRecords(in, keepGoing)
			}
			if err != nil {
				return err
			}

			samples, sampleErrs, err := expandRecords(recs, keepGoing)
			if err != nil {
				return err
			}

			results, err := a.classifier.Classify(cmd.Context(), samples)
			if err != nil {
				return err
			}
			if results == nil {
				results = []classify.Result{}
			}
			opts := a.classifier.Options()
			rep := report{
				Reference: opts.Reference.Hex(),
				Threshold: opts.Threshold,
				Results:   results,
				Summary:   classify.Summarize(results),
			}
			a.logger.Debug("classified", "records", len(recs), "samples", len(samples), "matches", rep.Summary.Matches)

			w := cmd.OutOrStdout()
			if tpl != nil {
				err = tpl.ExecuteWriter(pongo2.Context{
					"reference": rep.Reference,
					"threshold": rep.Threshold,
					"results":   rep.Results,
					"summary":   rep.Summary,
				}, w)
			} else {
				err = render(w, output, rep, func(w io.Writer) error { return writeReportTable(w, rep) })
			}
			if err != nil {
				return err
			}

			// Skipped records are reported after the output so the exit
			// status still reflects them.
			return multierror.Append(lineErrs, sampleErrs).ErrorOrNil()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, json or yaml")
	cmd.Flags().StringVar(&tmpl, "template", "", "pongo2 template, or @file")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "skip malformed records and report them at the end")
	return cmd
}

// parseRecords reads one record per line. With keepGoing, malformed lines
// are collected into lineErrs instead of failing the read.
func parseRecords(r io.Reader, keepGoing bool) (recs []classify.Record, lineErrs error, err error) {
	var merr *multierror.Error

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		rec, ok, perr := parseRecordLine(scanner.Text())
		if perr != nil {
			perr = fmt.Errorf("line %d: %w", n, perr)
			if !keepGoing {
				return nil, nil, perr
			}
			merr = multierror.Append(merr, perr)
			continue
		}
		if ok {
			recs = append(recs, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read records: %w", err)
	}
	return recs, merr.ErrorOrNil(), nil
}

// parseRecordLine splits "id<TAB>colors" or "id,colors". ok is false for
// blank and comment lines.
func parseRecordLine(line string) (rec classify.Record, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return classify.Record{}, false, nil
	}

	sep := strings.IndexByte(line, '\t')
	if sep < 0 {
		sep = strings.IndexByte(line, ',')
	}
	if sep < 0 {
		return classify.Record{}, false, fmt.Errorf("record %q: missing id separator", line)
	}

	id := strings.TrimSpace(line[:sep])
	if id == "" {
		return classify.Record{}, false, fmt.Errorf("record %q: empty id", line)
	}
	return classify.Record{ID: id, Colors: line[sep+1:]}, true, nil
}

// expandRecords turns records into samples. With keepGoing, a record whose
// color list does not parse is dropped and its error collected.
func expandRecords(recs []classify.Record, keepGoing bool) (samples []classify.Sample, skipped error, err error) {
	if !keepGoing {
		samples, err = classify.SamplesFromRecords(recs)
		return samples, nil, err
	}

	var merr *multierror.Error
	for _, rec := range recs {
		s, err := classify.SamplesFromRecords([]classify.Record{rec})
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		samples = append(samples, s...)
	}
	return samples, merr.ErrorOrNil(), nil
}

func writeReportTable(w io.Writer, rep report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRGB\tMATCH\tDE76\tDE94\tDE2000\t")
	for _, r := range rep.Results {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%d\t%d\t%s\n",
			r.ID, r.RGB, r.Match, r.Delta1976, r.Delta1994, r.Delta2000, swatch(w, r.RGB))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := rep.Summary
	_, err := fmt.Fprintf(w, "\n%d of %d samples match %s within %g (DE2000 %d..%d)\n",
		s.Matches, s.Total, rep.Reference, rep.Threshold, s.MinDelta, s.MaxDelta)
	return err
}
