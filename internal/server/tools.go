package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var variantEnum = []string{"P1", "P2", "P3", "P4", "P5", "P6"}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the PNM file",
	}
}

func stringProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
	}
}

func intProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": desc,
	}
}

func regionProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": desc,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// File Information
		{
			Name:        "pnm_load",
			Description: "Load a PNM file (P1-P6) and return its magic number, encoding, depth, dimensions, maxval and header comments.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pnm_header",
			Description: "Read only the header of a PNM file without decoding the pixel data. Works on truncated files.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Pixel Operations
		{
			Name:        "pnm_sample_pixel",
			Description: "Get the exact pixel value at a coordinate as hex, RGB, HSL and its negative.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x":    intProperty("X coordinate (0-based, from left)"),
					"y":    intProperty("Y coordinate (0-based, from top)"),
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "pnm_sample_pixels_multi",
			Description: "Get pixel values at multiple coordinates in a single call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Points to sample, each with optional label",
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "pnm_dominant_colors",
			Description: "Extract the most common colors of an image or region (channels quantized to multiples of 16).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"region": regionProperty("Optional region to analyze"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pnm_color",
			Description: "Convert a single color between RGB and HSL. Pass either color (\"#RRGGBB\" or \"r,g,b\") or h, s and l in [0,1] (h = -1 for gray).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "RGB color as #RRGGBB or r,g,b",
					},
					"h": map[string]interface{}{"type": "number", "description": "Hue in [0,1), or -1 when undefined"},
					"s": map[string]interface{}{"type": "number", "description": "Saturation in [0,1]"},
					"l": map[string]interface{}{"type": "number", "description": "Lightness in [0,1]"},
				},
			},
		},
		{
			Name:        "pnm_set_pixel",
			Description: "Set one pixel and write the image back (to output, or in place).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"x":      intProperty("X coordinate (0-based, from left)"),
					"y":      intProperty("Y coordinate (0-based, from top)"),
					"color":  stringProperty("New color as #RRGGBB or r,g,b"),
					"output": stringProperty("Optional destination path. Defaults to path"),
				},
				"required": []string{"path", "x", "y", "color"},
			},
		},

		// Whole-Image Operations
		{
			Name:        "pnm_create",
			Description: "Create a new PNM file of the given variant and size filled with one color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"output": stringProperty("Absolute path of the file to create"),
					"variant": map[string]interface{}{
						"type":        "string",
						"enum":        variantEnum,
						"description": "Magic number of the new file",
					},
					"width":  intProperty("Width in pixels (1-65535)"),
					"height": intProperty("Height in pixels (1-65535)"),
					"maxval": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum sample value (1-65535). Default 255",
						"default":     255,
					},
					"fill": stringProperty("Fill color as #RRGGBB or r,g,b. Default black"),
					"comments": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Header comments",
					},
				},
				"required": []string{"output", "variant", "width", "height"},
			},
		},
		{
			Name:        "pnm_convert",
			Description: "Rewrite a PNM file as another variant. With flatten, pixels are reduced to gray (P2/P5) or black and white (P1/P4).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"output": stringProperty("Absolute path of the converted file"),
					"variant": map[string]interface{}{
						"type":        "string",
						"enum":        variantEnum,
						"description": "Target magic number",
					},
					"flatten": map[string]interface{}{
						"type":        "boolean",
						"description": "Reduce pixels to the depth of the target variant. Default false",
						"default":     false,
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Luminance cut for bitmap flattening (0-255). Default 128",
						"default":     128,
					},
				},
				"required": []string{"path", "output", "variant"},
			},
		},
		{
			Name:        "pnm_negative",
			Description: "Write the negative of an image (every channel XOR 255).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"output": stringProperty("Absolute path of the negated file"),
				},
				"required": []string{"path", "output"},
			},
		},
		{
			Name:        "pnm_comment",
			Description: "Add, replace or delete a header comment and write the image back (to output, or in place).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"action": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"add", "replace", "delete"},
						"description": "Comment operation",
					},
					"index":  intProperty("0-based comment index for replace and delete"),
					"text":   stringProperty("Comment text for add and replace. Newlines split an added comment into several"),
					"output": stringProperty("Optional destination path. Defaults to path"),
				},
				"required": []string{"path", "action"},
			},
		},

		// Region Operations
		{
			Name:        "pnm_crop",
			Description: "Crop a rectangular region and return it as base64-encoded PNG. Scaling uses nearest-neighbor so pixels stay sharp.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1":   intProperty("Left edge X coordinate (0-based)"),
					"y1":   intProperty("Top edge Y coordinate (0-based)"),
					"x2":   intProperty("Right edge X coordinate (exclusive)"),
					"y2":   intProperty("Bottom edge Y coordinate (exclusive)"),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 8.0 to inspect single pixels). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "pnm_crop_quadrant",
			Description: "Crop a named region of the image (full, top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center) as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"full", "top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Named region to extract",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "region"},
			},
		},
		{
			Name:        "pnm_compare",
			Description: "Compare the pixels of two PNM files of equal size. Headers are ignored.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"other": stringProperty("Absolute path of the second PNM file"),
					"tolerance": map[string]interface{}{
						"type":        "integer",
						"description": "Mean channel difference a pixel may have and still count as equal. Default 0",
						"default":     0,
					},
				},
				"required": []string{"path", "other"},
			},
		},

		// Format Interchange
		{
			Name:        "pnm_export",
			Description: "Write a PNM image as PNG, JPEG, GIF, TIFF or BMP (chosen by the output extension).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"output": stringProperty("Absolute output path; the extension selects the format"),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "output"},
			},
		},
		{
			Name:        "pnm_import",
			Description: "Convert a PNG, JPEG, GIF, TIFF or BMP file into a PNM file. Alpha is discarded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
					},
					"output": stringProperty("Absolute path of the PNM file to write"),
					"variant": map[string]interface{}{
						"type":        "string",
						"enum":        variantEnum,
						"description": "Magic number of the output. Default P6",
						"default":     "P6",
					},
				},
				"required": []string{"path", "output"},
			},
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
