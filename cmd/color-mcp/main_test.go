package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/color-tools-mcp/internal/classify"
	"github.com/ironsheep/color-tools-mcp/internal/colorspace"
	"github.com/ironsheep/color-tools-mcp/internal/config"
)

// execute runs the root command with a private home directory so no user
// config is picked up.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	homedir.Reset()
	t.Cleanup(homedir.Reset)

	cmd := newRootCmd(&app{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestClassify_ArgsJSON(t *testing.T) {
	out, err := execute(t, "", "classify", "-o", "json", "7,16753920,255,,16711680")
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "#ffa500", rep.Reference)
	assert.Equal(t, classify.DefaultThreshold, rep.Threshold)
	require.Len(t, rep.Results, 3)
	for _, r := range rep.Results {
		assert.Equal(t, "7", r.ID)
	}
	assert.True(t, rep.Results[0].Match)
	assert.Zero(t, rep.Results[0].Delta2000)
	assert.False(t, rep.Results[1].Match)
	assert.Equal(t, "#0000ff", rep.Results[1].RGB)
	assert.Equal(t, 3, rep.Summary.Total)
}

func TestClassify_Stdin(t *testing.T) {
	in := "# id\tcolors\n1\t16753920,255\n\n2,16711680\n"
	out, err := execute(t, in, "classify", "-o", "json")
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Results, 3)
	assert.Equal(t, []string{"1", "1", "2"},
		[]string{rep.Results[0].ID, rep.Results[1].ID, rep.Results[2].ID})
}

func TestClassify_Table(t *testing.T) {
	out, err := execute(t, "", "classify", "1,16753920,255")
	require.NoError(t, err)

	assert.Contains(t, out, "DE2000")
	assert.Contains(t, out, "#ffa500")
	assert.Contains(t, out, "1 of 2 samples match #ffa500 within 20")
}

func TestClassify_YAML(t *testing.T) {
	out, err := execute(t, "", "classify", "-o", "yaml", "1,16753920")
	require.NoError(t, err)

	var rep report
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Results, 1)
	assert.True(t, rep.Results[0].Match)
	assert.Contains(t, out, "min_delta2000: 0")
}

func TestClassify_Template(t *testing.T) {
	out, err := execute(t, "", "classify",
		"--template", "{{ summary.Matches }}/{{ summary.Total }} {% for r in results %}{{ r.RGB }} {% endfor %}",
		"1,16753920,255")
	require.NoError(t, err)
	assert.Equal(t, "1/2 #ffa500 #0000ff ", out)
}

func TestClassify_TemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.tpl")
	require.NoError(t, os.WriteFile(path, []byte("{{ reference }} {{ summary.Total }}"), 0o644))

	out, err := execute(t, "", "classify", "--template", "@"+path, "1,255")
	require.NoError(t, err)
	assert.Equal(t, "#ffa500 1", out)

	_, err = execute(t, "", "classify", "--template", "@"+path+".missing", "1,255")
	assert.Error(t, err)
}

func TestClassify_Malformed(t *testing.T) {
	in := "1,255\nbad\n2,xyz\n3,16753920\n"

	out, err := execute(t, in, "classify", "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Empty(t, out)

	out, err = execute(t, in, "classify", "-o", "json", "--keep-going")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "record 2")

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Results, 2)
	assert.Equal(t, "1", rep.Results[0].ID)
	assert.Equal(t, "3", rep.Results[1].ID)
}

func TestClassify_ThresholdSources(t *testing.T) {
	// orange vs blue is about 78 at the default binning
	out, err := execute(t, "", "--threshold", "100", "classify", "-o", "json", "1,255")
	require.NoError(t, err)
	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.Results[0].Match)

	t.Setenv("COLOR_MCP_THRESHOLD", "100")
	out, err = execute(t, "", "classify", "-o", "json", "1,255")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 100.0, rep.Threshold)

	// flags beat the environment
	out, err = execute(t, "", "--threshold", "5", "classify", "-o", "json", "1,255")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 5.0, rep.Threshold)
}

func TestInvalidSettings(t *testing.T) {
	_, err := execute(t, "", "--bin-method", "sideways", "convert", "1")
	assert.Error(t, err)

	_, err = execute(t, "", "--reference", "#12345", "convert", "1")
	assert.Error(t, err)

	_, err = execute(t, "", "--threshold", "-1", "convert", "1")
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	out, err := execute(t, "", "convert", "-o", "json", "#ffa500", "0,0,255")
	require.NoError(t, err)

	var got []conversion
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	assert.Equal(t, 16753920, got[0].Packed)
	assert.Equal(t, colorspace.Lab{L: 74, A: 23, B: 78}, got[0].LabBinned)
	assert.InDelta(t, 74.9357, got[0].Lab.L, 1e-3)
	assert.True(t, got[0].InGamut)
	assert.Equal(t, "#0000ff", got[1].Hex)

	_, err = execute(t, "", "convert", "teal")
	assert.Error(t, err)
}

func TestConvert_RoundedOutOfGamut(t *testing.T) {
	out, err := execute(t, "", "--bin-size", "10", "--bin-method", "round", "convert", "-o", "json", "#0000ff")
	require.NoError(t, err)

	var got []conversion
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, colorspace.Lab{L: 30, A: 80, B: -110}, got[0].LabBinned)
	assert.False(t, got[0].InGamut)
}

func TestDistance(t *testing.T) {
	out, err := execute(t, "", "distance", "-o", "json", "#ffa500", "#0000ff")
	require.NoError(t, err)

	var d distances
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.InDelta(t, 77.998, d.Delta2000, 0.01)
	assert.False(t, d.Match)

	out, err = execute(t, "", "distance", "16753920", "255,165,0")
	require.NoError(t, err)
	assert.Contains(t, out, "CIEDE2000  0.0000")

	_, err = execute(t, "", "distance", "16753920")
	assert.Error(t, err)
}

func TestBins(t *testing.T) {
	out, err := execute(t, "", "bins", "--size", "10")
	require.NoError(t, err)
	n := len(colorspace.GamutBins(10))
	assert.Equal(t, fmt.Sprintf("%d in-gamut bins at size 10\n", n), out)

	out, err = execute(t, "", "bins", "--size", "10", "--list")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), n)
	assert.Contains(t, out, "100,0,0\t")

	_, err = execute(t, "", "bins", "--size", "0")
	assert.Error(t, err)

	_, err = execute(t, "", "bins", "--size", "0.001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1")
}

func TestBins_Plot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slice.png")
	_, err := execute(t, "", "bins", "--size", "10", "--plot", path, "--l", "50")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)

	bad := filepath.Join(t.TempDir(), "none.png")
	_, err = execute(t, "", "bins", "--size", "10", "--plot", bad, "--l", "55")
	assert.Error(t, err)
	assert.NoFileExists(t, bad)
}

func TestConfigInitShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	out, err := execute(t, "", "--threshold", "12.5", "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = execute(t, "", "config", "init", path)
	assert.Error(t, err, "existing file needs --force")

	out, err = execute(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "threshold = 12.5")
	assert.Contains(t, out, "# loaded from "+path)
}

func TestVersion(t *testing.T) {
	// An unreadable config must not stop version from printing.
	out, err := execute(t, "", "--config", "/nonexistent/config.toml", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "color-mcp dev")
}

func TestServe_Stdio(t *testing.T) {
	in := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"color_classify","arguments":{"records":[{"id":"1","colors":"16753920"}]}}}` + "\n"
	out, err := execute(t, in, "serve")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "color-tools-mcp")
	assert.Contains(t, lines[1], `"id":2`)
	assert.NotContains(t, lines[1], `"error"`)
}

func TestParseRecordLine(t *testing.T) {
	tests := []struct {
		line    string
		want    classify.Record
		ok      bool
		wantErr bool
	}{
		{"7\t1,2,3", classify.Record{ID: "7", Colors: "1,2,3"}, true, false},
		{"7,1,2,3", classify.Record{ID: "7", Colors: "1,2,3"}, true, false},
		{"  a b\t255  ", classify.Record{ID: "a b", Colors: "255"}, true, false},
		{"7,", classify.Record{ID: "7", Colors: ""}, true, false},
		{"", classify.Record{}, false, false},
		{"# comment", classify.Record{}, false, false},
		{"lonely", classify.Record{}, false, true},
		{",255", classify.Record{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok, err := parseRecordLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReloadClassifier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("reference = \"#0000ff\"\nthreshold = 7.0\n"), 0o644))

	v := viper.New()
	_, err := config.Load(v, path)
	require.NoError(t, err)

	c, err := reloadClassifier(v)
	require.NoError(t, err)
	assert.Equal(t, colorspace.RGB{B: 255}, c.Options().Reference)
	assert.Equal(t, 7.0, c.Options().Threshold)

	require.NoError(t, os.WriteFile(path, []byte("bin_method = \"sideways\"\n"), 0o644))
	require.NoError(t, v.ReadInConfig())
	_, err = reloadClassifier(v)
	assert.Error(t, err)
}
