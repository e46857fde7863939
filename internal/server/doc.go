// Package server implements the MCP (Model Context Protocol) server for PNM image tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the pnm codec and
// its helpers through the MCP protocol, so that MCP clients can read, edit and
// convert PBM, PGM and PPM files with exact pixel values.
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
// The server provides 16 tools organized into categories:
//
// File Information:
//   - pnm_load: Decode a file and report its header
//   - pnm_header: Read only the header, without the pixel data
//
// Pixel Operations:
//   - pnm_sample_pixel: Get the pixel at a coordinate
//   - pnm_sample_pixels_multi: Sample multiple points
//   - pnm_dominant_colors: Extract a color palette
//   - pnm_color: Convert a color between RGB and HSL
//   - pnm_set_pixel: Write one pixel
//
// Whole-Image Operations:
//   - pnm_create: Create a filled image
//   - pnm_convert: Change the variant, optionally flattening pixels
//   - pnm_negative: Invert every channel
//   - pnm_comment: Add, replace or delete a header comment
//
// Region Operations:
//   - pnm_crop: Extract a rectangular region as PNG
//   - pnm_crop_quadrant: Extract a named region as PNG
//   - pnm_compare: Compare the pixels of two files
//
// Format Interchange:
//   - pnm_export: Write PNG, JPEG, GIF, TIFF or BMP
//   - pnm_import: Read PNG, JPEG, GIF, TIFF or BMP into a PNM file
//
// # Image Caching
//
// The server keeps decoded images in memory, keyed by path. Tools that write a
// file store the written image under its new path, so a following call sees
// the edit without decoding again. The cache lives as long as the server.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for bad arguments, -32000 for tool execution failure
//   - message: Human-readable error description
//   - data: For -32000, an object with "error" (the Go error string) and,
//     when the codec failed, "kind" (e.g. "wrong header")
//
// # Usage
//
// The server is typically started by an MCP client through the serve command:
//
//	srv := server.New(logger, version)
//	if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
