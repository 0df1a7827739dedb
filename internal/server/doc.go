// Package server implements the MCP (Model Context Protocol) server for icon
// location.
//
// This package provides a JSON-RPC 2.0 server that exposes the icon locator
// through the MCP protocol, so that MCP clients can find where an icon sits
// in a screenshot and inspect how the match was reached.
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
// Icon Location:
//   - icon_locate: Find an icon in a target image; returns a run_id
//
// Run Inspection (by run_id):
//   - icon_match_at: Matched target pixel and distance of one icon pixel
//   - icon_flow_render: Displacement field or match scores as PNG
//   - icon_overlay: Target image with the match box drawn
//
// Features:
//   - hog_describe: Orientation histogram of one pixel
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The last 32 locate runs are kept in memory for the inspection tools.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client through `iconfit serve`:
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
