// Package server implements the MCP (Model Context Protocol) server for
// vanishing point estimation.
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
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Vanishing Point Estimation:
//   - vp_exact: Intersection of two user lines
//   - vp_averaged: Mean intersection of many user lines
//   - vp_from_image: Automated estimate from a field photograph
//
// Diagnostics:
//   - image_field_mask: Field region as a PNG mask
//   - image_edge_detect: Field-restricted Canny edges
//   - image_detect_segments: Detected line segments
//   - vp_overlay: Lines and estimate drawn on the masked image
//
// # Error Handling
//
// Errors caused by the request, such as malformed arguments, missing or
// undecodable images and degenerate line sets, are returned with code
// -32602 and the error text as the message. Any other failure is logged
// and returned as -32000 "Tool execution failed" without details.
//
// # Usage
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
