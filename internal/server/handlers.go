package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/pnm-tools/internal/imaging"
	"github.com/ironsheep/pnm-tools/pkg/pnm"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "pnm_load", "pnm_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// argsError marks a failure to decode or validate tool arguments.
type argsError struct {
	err error
}

func (e *argsError) Error() string { return "invalid arguments: " + e.err.Error() }
func (e *argsError) Unwrap() error { return e.err }

func invalidArgs(format string, args ...interface{}) error {
	return &argsError{err: fmt.Errorf(format, args...)}
}

// decodeArgs unmarshals tool arguments; a missing argument object is treated
// as empty.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &argsError{err: err}
	}
	return nil
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return code -32602. Tool execution errors return code
// -32000 with the error text in data, plus the pnm error kind when the
// failure came from the codec.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		var ae *argsError
		if errors.As(err, &ae) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", toolErrorData(err))
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

func toolErrorData(err error) interface{} {
	data := map[string]string{"error": err.Error()}
	if k := pnm.KindOf(err); k != 0 {
		data["kind"] = k.String()
	}
	return data
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from the cache as needed
//  4. Calls the appropriate imaging function
//  5. Writes results back through the cache so later loads see them
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// File Information
	case "pnm_load":
		return s.handleLoad(args)
	case "pnm_header":
		return s.handleHeader(args)

	// Pixel Operations
	case "pnm_sample_pixel":
		return s.handleSamplePixel(args)
	case "pnm_sample_pixels_multi":
		return s.handleSamplePixelsMulti(args)
	case "pnm_dominant_colors":
		return s.handleDominantColors(args)
	case "pnm_color":
		return s.handleColor(args)
	case "pnm_set_pixel":
		return s.handleSetPixel(args)

	// Whole-Image Operations
	case "pnm_create":
		return s.handleCreate(args)
	case "pnm_convert":
		return s.handleConvert(args)
	case "pnm_negative":
		return s.handleNegative(args)
	case "pnm_comment":
		return s.handleComment(args)

	// Region Operations
	case "pnm_crop":
		return s.handleCrop(args)
	case "pnm_crop_quadrant":
		return s.handleCropQuadrant(args)
	case "pnm_compare":
		return s.handleCompare(args)

	// Format Interchange
	case "pnm_export":
		return s.handleExport(args)
	case "pnm_import":
		return s.handleImport(args)

	default:
		return nil, invalidArgs("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func parseVariant(s, def string) (pnm.Variant, error) {
	if s == "" {
		s = def
	}
	v, err := pnm.ParseVariant(s)
	if err != nil {
		return 0, invalidArgs("variant %q must be one of P1..P6", s)
	}
	return v, nil
}

// === File Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleHeader(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.ReadImageInfo(a.Path)
}

// === Pixel Operation Handlers ===

type samplePixelArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleSamplePixel(args json.RawMessage) (interface{}, error) {
	var a samplePixelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return imaging.SamplePixel(img, a.X, a.Y)
}

type samplePixelsMultiArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleSamplePixelsMulti(args json.RawMessage) (interface{}, error) {
	var a samplePixelsMultiArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SamplePixelsMulti(img, points)
}

type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type dominantColorsArgs struct {
	Path   string      `json:"path"`
	Count  int         `json:"count"`
	Region *regionArgs `json:"region,omitempty"`
}

func (s *Server) handleDominantColors(args json.RawMessage) (interface{}, error) {
	var a dominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	var region *imaging.Region
	if a.Region != nil {
		region = &imaging.Region{X1: a.Region.X1, Y1: a.Region.Y1, X2: a.Region.X2, Y2: a.Region.Y2}
	}
	return imaging.DominantColors(img, a.Count, region)
}

type colorArgs struct {
	Color string   `json:"color"`
	H     *float64 `json:"h"`
	S     *float64 `json:"s"`
	L     *float64 `json:"l"`
}

func (s *Server) handleColor(args json.RawMessage) (interface{}, error) {
	var a colorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	switch {
	case a.Color != "":
		p, err := imaging.ParseColor(a.Color)
		if err != nil {
			return nil, &argsError{err: err}
		}
		return imaging.NewColorResult(p), nil
	case a.H != nil && a.S != nil && a.L != nil:
		p := pnm.HSLToRGB(pnm.HSLPixel{H: *a.H, S: *a.S, L: *a.L})
		return imaging.NewColorResult(p), nil
	}
	return nil, invalidArgs("pass either color or all of h, s and l")
}

type setPixelArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Color  string `json:"color"`
	Output string `json:"output"`
}

func (s *Server) handleSetPixel(args json.RawMessage) (interface{}, error) {
	var a setPixelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p, err := imaging.ParseColor(a.Color)
	if err != nil {
		return nil, &argsError{err: err}
	}
	if a.Output == "" {
		a.Output = a.Path
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	if err := img.Set(a.X, a.Y, p); err != nil {
		return nil, err
	}
	return s.cache.Save(img, a.Output)
}

// === Whole-Image Operation Handlers ===

type createArgs struct {
	Output   string   `json:"output"`
	Variant  string   `json:"variant"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Maxval   int      `json:"maxval"`
	Fill     string   `json:"fill"`
	Comments []string `json:"comments"`
}

func (s *Server) handleCreate(args json.RawMessage) (interface{}, error) {
	var a createArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := parseVariant(a.Variant, "")
	if err != nil {
		return nil, err
	}
	var fill pnm.Pixel
	if a.Fill != "" {
		if fill, err = imaging.ParseColor(a.Fill); err != nil {
			return nil, &argsError{err: err}
		}
	}

	img, err := imaging.Create(imaging.CreateOptions{
		Variant:  v,
		Width:    a.Width,
		Height:   a.Height,
		Maxval:   a.Maxval,
		Fill:     fill,
		Comments: a.Comments,
	})
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return s.cache.Save(img, a.Output)
}

type convertArgs struct {
	Path      string `json:"path"`
	Output    string `json:"output"`
	Variant   string `json:"variant"`
	Flatten   bool   `json:"flatten"`
	Threshold *int   `json:"threshold"`
}

func (s *Server) handleConvert(args json.RawMessage) (interface{}, error) {
	var a convertArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := parseVariant(a.Variant, "")
	if err != nil {
		return nil, err
	}
	threshold := imaging.DefaultThreshold
	if a.Threshold != nil {
		if *a.Threshold < 0 || *a.Threshold > 255 {
			return nil, invalidArgs("threshold %d must be between 0 and 255", *a.Threshold)
		}
		threshold = *a.Threshold
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	out, err := imaging.Convert(img, v, imaging.ConvertOptions{Flatten: a.Flatten, Threshold: uint8(threshold)})
	if err != nil {
		return nil, err
	}
	defer out.Close()
	return s.cache.Save(out, a.Output)
}

type outputArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
}

func (s *Server) handleNegative(args json.RawMessage) (interface{}, error) {
	var a outputArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	out, err := imaging.Negate(img)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	return s.cache.Save(out, a.Output)
}

type commentArgs struct {
	Path   string `json:"path"`
	Action string `json:"action"`
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Output string `json:"output"`
}

// CommentResult reports the comment list after an edit.
type CommentResult struct {
	Path     string   `json:"path"`
	Comments []string `json:"comments"`
}

func (s *Server) handleComment(args json.RawMessage) (interface{}, error) {
	var a commentArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	switch a.Action {
	case "add", "replace", "delete":
	default:
		return nil, invalidArgs("action %q must be add, replace or delete", a.Action)
	}
	if a.Output == "" {
		a.Output = a.Path
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	if err := imaging.EditComments(img, a.Action, a.Index, a.Text); err != nil {
		return nil, err
	}
	if _, err := s.cache.Save(img, a.Output); err != nil {
		return nil, err
	}
	comments := img.Comments()
	if comments == nil {
		comments = []string{}
	}
	return &CommentResult{Path: a.Output, Comments: comments}, nil
}

// === Region Operation Handlers ===

type cropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

type cropQuadrantArgs struct {
	Path   string  `json:"path"`
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a cropQuadrantArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return imaging.CropQuadrant(img, a.Region, a.Scale)
}

type compareArgs struct {
	Path      string `json:"path"`
	Other     string `json:"other"`
	Tolerance int    `json:"tolerance"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	first, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer first.Close()
	second, err := s.cache.Load(a.Other)
	if err != nil {
		return nil, err
	}
	defer second.Close()
	return imaging.Compare(first, second, a.Tolerance)
}

// === Format Interchange Handlers ===

type exportArgs struct {
	Path   string  `json:"path"`
	Output string  `json:"output"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleExport(args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	// a PNM image cached under the output path is now stale
	defer s.cache.Evict(a.Output)
	return imaging.Export(img, a.Output, a.Scale)
}

type importArgs struct {
	Path    string `json:"path"`
	Output  string `json:"output"`
	Variant string `json:"variant"`
}

func (s *Server) handleImport(args json.RawMessage) (interface{}, error) {
	var a importArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := parseVariant(a.Variant, "P6")
	if err != nil {
		return nil, err
	}
	img, err := imaging.Import(a.Path, v)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return s.cache.Save(img, a.Output)
}
