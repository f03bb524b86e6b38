// Package server implements the MCP (Model Context Protocol) server for the
// color tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// HTTPHandler serves the same tools over HTTP for clients that cannot spawn
// a subprocess.
//
// # Available Tools
//
// Color Operations:
//   - color_convert: sRGB to packed, XYZ and L*a*b*, with binning
//   - color_distance: CIE76, CIE94 and CIEDE2000 between two colors
//   - color_gamut: sRGB gamut test for an L*a*b* coordinate
//   - color_classify: Classify packed color lists against the reference
//
// Image Operations:
//   - image_load: Load image and get metadata
//   - image_sample_color: Get color at pixel
//   - image_classify_points: Classify labelled pixels against the reference
//   - image_dominant_colors: L*a*b* histogram of an image or region
//
// # Classification Settings
//
// The classifier passed to New supplies the default reference, threshold and
// binning. color_classify and image_classify_points accept per-call
// overrides; an override builds a fresh classifier for that call only.
// SetClassifier replaces the default while the server runs.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (malformed params) or
//     -32601 (unknown method)
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	c, _ := classify.New(classify.DefaultOptions())
//	srv := server.New(c, server.WithLogger(logger))
//	if err := srv.Run(ctx); err != nil {
//	    logger.Error("server stopped", "err", err)
//	}
//
// Logs go to the configured logger, never to stdout.
package server
