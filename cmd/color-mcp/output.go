package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/flosch/pongo2"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// render writes v in the requested format. table renders the human form.
func render(w io.Writer, format string, v any, table func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case "", formatTable:
		return table(w)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// loadTemplate compiles a pongo2 template given inline, or read from a file
// when prefixed with '@'.
func loadTemplate(src string) (*pongo2.Template, error) {
	if path, ok := strings.CutPrefix(src, "@"); ok {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("template: %w", err)
		}
		tpl, err := pongo2.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", path, err)
		}
		return tpl, nil
	}
	tpl, err := pongo2.FromString(src)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	return tpl, nil
}

// swatch returns a two-cell block painted in hex, or plain spaces when w is
// not a color terminal.
func swatch(w io.Writer, hex string) string {
	out := termenv.NewOutput(w)
	return out.String("  ").Background(out.Color(hex)).String()
}
