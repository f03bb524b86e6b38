package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// schema property helpers

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func propDefault(typ, description string, def interface{}) map[string]interface{} {
	p := prop(typ, description)
	p["default"] = def
	return p
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

const colorFormats = `"#rrggbb", a packed decimal such as 16753920, or "r,g,b"`

func binSizeProp(def float64) map[string]interface{} {
	return propDefault("number", "L*a*b* bin size; 0 or less disables binning", def)
}

// binMethodProp describes bin_method; an empty def means the server's
// configured method applies.
func binMethodProp(def string) map[string]interface{} {
	var p map[string]interface{}
	if def == "" {
		p = prop("string", "How coordinates snap to the bin grid. Defaults to the server's configured method")
	} else {
		p = propDefault("string", "How coordinates snap to the bin grid", def)
	}
	p["enum"] = []string{"floor", "round"}
	return p
}

func classifyOverrideProps(props map[string]interface{}) map[string]interface{} {
	props["reference"] = prop("string", "Reference color, "+colorFormats+". Defaults to the server's configured reference")
	props["threshold"] = prop("number", "Maximum CIEDE2000 distance counted as a match (inclusive)")
	props["bin_size"] = prop("number", "L*a*b* bin size; 0 or less disables binning")
	props["bin_method"] = binMethodProp("")
	return props
}

func regionSchema() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"x1": prop("integer", "Left edge X coordinate (0-based)"),
		"y1": prop("integer", "Top edge Y coordinate (0-based)"),
		"x2": prop("integer", "Right edge X coordinate (exclusive)"),
		"y2": prop("integer", "Bottom edge Y coordinate (exclusive)"),
	}, "x1", "y1", "x2", "y2")
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Color Operations
		{
			Name:        "color_convert",
			Description: "Convert one sRGB color to packed, XYZ and L*a*b* forms, optionally binned, and report whether the binned L*a*b* is inside the sRGB gamut.",
			InputSchema: objectSchema(map[string]interface{}{
				"color":      prop("string", "Color as "+colorFormats),
				"bin_size":   binSizeProp(0),
				"bin_method": binMethodProp("floor"),
			}, "color"),
		},
		{
			Name:        "color_distance",
			Description: "Compute CIE76, CIE94 and CIEDE2000 distances between two colors after converting both to (binned) L*a*b*.",
			InputSchema: objectSchema(map[string]interface{}{
				"a":          prop("string", "First color (reference for CIE94), "+colorFormats),
				"b":          prop("string", "Second color, "+colorFormats),
				"bin_size":   prop("number", "L*a*b* bin size. Defaults to the server's configured bin size"),
				"bin_method": binMethodProp(""),
				"kl":         propDefault("number", "CIEDE2000 lightness weight", 1.0),
				"kc":         propDefault("number", "CIEDE2000 chroma weight", 1.0),
				"kh":         propDefault("number", "CIEDE2000 hue weight", 1.0),
			}, "a", "b"),
		},
		{
			Name:        "color_gamut",
			Description: "Check whether an L*a*b* coordinate has an sRGB representation and return its nearest (clamped) hex color.",
			InputSchema: objectSchema(map[string]interface{}{
				"l": prop("number", "Lightness, nominally 0-100"),
				"a": prop("number", "Green (-) to red (+) axis"),
				"b": prop("number", "Blue (-) to yellow (+) axis"),
			}, "l", "a", "b"),
		},
		{
			Name:        "color_classify",
			Description: "Classify records of packed colors against a reference color with CIEDE2000. Each record is an id and a comma-separated list of packed 0xRRGGBB integers; empty list segments are skipped.",
			InputSchema: objectSchema(classifyOverrideProps(map[string]interface{}{
				"records": map[string]interface{}{
					"type":        "array",
					"description": "Records to classify, in order",
					"items": objectSchema(map[string]interface{}{
						"id":     prop("string", "Record identifier, repeated on every result"),
						"colors": prop("string", `Comma-separated packed colors, e.g. "16750848,255,,16711680"`),
					}, "id", "colors"),
				},
			}), "records"),
		},

		// Image Operations
		{
			Name:        "image_load",
			Description: "Load an image file (PNG, JPEG, GIF or WebP) into the cache and return its dimensions and format.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": prop("string", "Absolute path to the image file"),
			}, "path"),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color of a single pixel as hex, RGB and L*a*b*.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": prop("string", "Absolute path to the image file"),
				"x":    prop("integer", "X coordinate (0-based)"),
				"y":    prop("integer", "Y coordinate (0-based)"),
			}, "path", "x", "y"),
		},
		{
			Name:        "image_classify_points",
			Description: "Sample labelled pixels and classify each against the reference color. Results keep the input order and use the label (or \"x,y\") as id.",
			InputSchema: objectSchema(classifyOverrideProps(map[string]interface{}{
				"path": prop("string", "Absolute path to the image file"),
				"points": map[string]interface{}{
					"type":        "array",
					"description": "Points to sample",
					"items": objectSchema(map[string]interface{}{
						"x":     prop("integer", "X coordinate (0-based)"),
						"y":     prop("integer", "Y coordinate (0-based)"),
						"label": prop("string", "Optional label used as the result id"),
					}, "x", "y"),
				},
			}), "path", "points"),
		},
		{
			Name:        "image_dominant_colors",
			Description: "Histogram the pixels of an image or region on an L*a*b* grid and return the most populated bins with their share of pixels and gamut status.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":  prop("string", "Absolute path to the image file"),
				"count": propDefault("integer", "Maximum number of bins to return", 5),
				"region": func() map[string]interface{} {
					r := regionSchema()
					r["description"] = "Optional rectangular region to analyze"
					return r
				}(),
				"region_name": func() map[string]interface{} {
					p := prop("string", "Optional named region, exclusive with region")
					p["enum"] = []string{"full", "top-left", "top-right", "bottom-left", "bottom-right",
						"top-half", "bottom-half", "left-half", "right-half", "center"}
					return p
				}(),
				"bin_size":   binSizeProp(10),
				"bin_method": binMethodProp("round"),
				"blur_sigma": propDefault("number", "Gaussian pre-blur radius; 0 disables it", 0),
				"quantize":   propDefault("integer", "Reduce the image to this many colors (median cut) before binning; 0 disables it", 0),
			}, "path"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
