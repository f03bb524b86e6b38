package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/color-tools-mcp/internal/classify"
	"github.com/ironsheep/color-tools-mcp/internal/colorspace"
	"github.com/ironsheep/color-tools-mcp/internal/config"
	"github.com/ironsheep/color-tools-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "color_convert", "color_classify").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the colorspace, classify or imaging function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Color Operations
	case "color_convert":
		return s.handleColorConvert(args)
	case "color_distance":
		return s.handleColorDistance(args)
	case "color_gamut":
		return s.handleColorGamut(args)
	case "color_classify":
		return s.handleColorClassify(ctx, args)

	// Image Operations
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_classify_points":
		return s.handleImageClassifyPoints(ctx, args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments. Missing arguments decode as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// binArgs are the optional binning parameters shared by several tools.
type binArgs struct {
	BinSize   *float64 `json:"bin_size"`
	BinMethod string   `json:"bin_method"`
}

// resolve returns the bin size and method, falling back to the given
// defaults for absent fields.
func (b binArgs) resolve(size float64, method colorspace.BinMethod) (float64, colorspace.BinMethod, error) {
	if b.BinSize != nil {
		size = *b.BinSize
	}
	if b.BinMethod != "" {
		m, err := colorspace.ParseBinMethod(b.BinMethod)
		if err != nil {
			return 0, 0, err
		}
		method = m
	}
	return size, method, nil
}

// === Color Handlers ===

type colorConvertArgs struct {
	Color string `json:"color"`
	binArgs
}

type colorConvertResult struct {
	Hex       string         `json:"hex"`
	Packed    int            `json:"packed"`
	RGB       colorspace.RGB `json:"rgb"`
	XYZ       colorspace.XYZ `json:"xyz"`
	Lab       colorspace.Lab `json:"lab"`
	LabBinned colorspace.Lab `json:"lab_binned"`
	RoundTrip string         `json:"round_trip"` // hex of the binned Lab converted back
	InGamut   bool           `json:"in_gamut"`   // of the binned Lab
}

func (s *Server) handleColorConvert(args json.RawMessage) (interface{}, error) {
	var a colorConvertArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := config.ParseReference(a.Color)
	if err != nil {
		return nil, err
	}
	size, method, err := a.resolve(0, colorspace.BinFloor)
	if err != nil {
		return nil, err
	}
	return convertColor(c, size, method), nil
}

func convertColor(c colorspace.RGB, size float64, method colorspace.BinMethod) colorConvertResult {
	xyz := c.XYZ(size)
	binned := xyz.Lab(method)
	return colorConvertResult{
		Hex:       c.Hex(),
		Packed:    c.Packed(),
		RGB:       c,
		XYZ:       xyz,
		Lab:       c.Lab(0, method),
		LabBinned: binned,
		RoundTrip: binned.Hex(),
		InGamut:   binned.InGamut(),
	}
}

type colorDistanceArgs struct {
	A string `json:"a"`
	B string `json:"b"`
	binArgs
	KL float64 `json:"kl"`
	KC float64 `json:"kc"`
	KH float64 `json:"kh"`
}

type colorDistanceResult struct {
	LabA      colorspace.Lab `json:"lab_a"`
	LabB      colorspace.Lab `json:"lab_b"`
	CIE76     float64        `json:"cie76"`
	CIE94     float64        `json:"cie94"`
	CIEDE2000 float64        `json:"ciede2000"`
}

func (s *Server) handleColorDistance(args json.RawMessage) (interface{}, error) {
	var a colorDistanceArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	ca, err := config.ParseReference(a.A)
	if err != nil {
		return nil, fmt.Errorf("color a: %w", err)
	}
	cb, err := config.ParseReference(a.B)
	if err != nil {
		return nil, fmt.Errorf("color b: %w", err)
	}

	opts := s.Classifier().Options()
	size, method, err := a.resolve(opts.BinSize, opts.BinMethod)
	if err != nil {
		return nil, err
	}

	w := colorspace.DefaultWeights
	if a.KL > 0 {
		w.KL = a.KL
	}
	if a.KC > 0 {
		w.KC = a.KC
	}
	if a.KH > 0 {
		w.KH = a.KH
	}

	la, lb := ca.Lab(size, method), cb.Lab(size, method)
	return colorDistanceResult{
		LabA:      la,
		LabB:      lb,
		CIE76:     colorspace.CIE76(la, lb),
		CIE94:     colorspace.CIE94(la, lb),
		CIEDE2000: colorspace.CIEDE2000Weighted(la, lb, w),
	}, nil
}

type colorGamutArgs struct {
	L *float64 `json:"l"`
	A *float64 `json:"a"`
	B *float64 `json:"b"`
}

type colorGamutResult struct {
	Lab     colorspace.Lab `json:"lab"`
	InGamut bool           `json:"in_gamut"`
	Hex     string         `json:"hex"` // clamped when out of gamut
}

func (s *Server) handleColorGamut(args json.RawMessage) (interface{}, error) {
	var a colorGamutArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.L == nil || a.A == nil || a.B == nil {
		return nil, errors.New("l, a and b are required")
	}
	lab := colorspace.Lab{L: *a.L, A: *a.A, B: *a.B}
	return colorGamutResult{
		Lab:     lab,
		InGamut: lab.InGamut(),
		Hex:     lab.Hex(),
	}, nil
}

// classifyOverrides are the optional per-call classifier settings.
type classifyOverrides struct {
	Reference string   `json:"reference"`
	Threshold *float64 `json:"threshold"`
	binArgs
}

// classifierFor returns the server's classifier, or a new one when o
// overrides any of its options.
func (s *Server) classifierFor(o classifyOverrides) (*classify.Classifier, error) {
	c := s.Classifier()
	if o.Reference == "" && o.Threshold == nil && o.BinSize == nil && o.BinMethod == "" {
		return c, nil
	}

	opts := c.Options()
	if o.Reference != "" {
		ref, err := config.ParseReference(o.Reference)
		if err != nil {
			return nil, err
		}
		opts.Reference = ref
	}
	if o.Threshold != nil {
		opts.Threshold = *o.Threshold
	}
	size, method, err := o.resolve(opts.BinSize, opts.BinMethod)
	if err != nil {
		return nil, err
	}
	opts.BinSize, opts.BinMethod = size, method
	return classify.New(opts)
}

type colorClassifyArgs struct {
	Records []classify.Record `json:"records"`
	classifyOverrides
}

type classifyResult struct {
	Reference string            `json:"reference"`
	Threshold float64           `json:"threshold"`
	Results   []classify.Result `json:"results"`
	Summary   classify.Summary  `json:"summary"`
}

func (s *Server) handleColorClassify(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a colorClassifyArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := s.classifierFor(a.classifyOverrides)
	if err != nil {
		return nil, err
	}

	results, err := c.ClassifyRecords(ctx, a.Records)
	if err != nil {
		return nil, err
	}
	return newClassifyResult(c, results), nil
}

func newClassifyResult(c *classify.Classifier, results []classify.Result) classifyResult {
	opts := c.Options()
	if results == nil {
		results = []classify.Result{}
	}
	return classifyResult{
		Reference: opts.Reference.Hex(),
		Threshold: opts.Threshold,
		Results:   results,
		Summary:   classify.Summarize(results),
	}
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageClassifyPointsArgs struct {
	Path   string                 `json:"path"`
	Points []imaging.LabeledPoint `json:"points"`
	classifyOverrides
}

func (s *Server) handleImageClassifyPoints(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageClassifyPointsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := s.classifierFor(a.classifyOverrides)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	samples, err := imaging.SampleSamples(img, a.Points)
	if err != nil {
		return nil, err
	}
	results, err := c.Classify(ctx, samples)
	if err != nil {
		return nil, err
	}
	return newClassifyResult(c, results), nil
}

type imageDominantColorsArgs struct {
	Path       string          `json:"path"`
	Count      int             `json:"count"`
	Region     *imaging.Region `json:"region"`
	RegionName string          `json:"region_name"`
	BlurSigma  float64         `json:"blur_sigma"`
	Quantize   int             `json:"quantize"`
	binArgs
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	if a.Region != nil && a.RegionName != "" {
		return nil, errors.New("region and region_name are mutually exclusive")
	}

	opts := imaging.DefaultDominantOptions()
	size, method, err := a.resolve(opts.BinSize, opts.BinMethod)
	if err != nil {
		return nil, err
	}
	opts.BinSize, opts.BinMethod = size, method
	opts.BlurSigma, opts.Quantize = a.BlurSigma, a.Quantize

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	region := a.Region
	if a.RegionName != "" {
		r, err := imaging.NamedRegion(img.Bounds(), a.RegionName)
		if err != nil {
			return nil, err
		}
		region = &r
	}
	return imaging.DominantColors(img, a.Count, region, opts)
}
