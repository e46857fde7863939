package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ironsheep/pnm-tools/internal/imaging"
	"github.com/ironsheep/pnm-tools/pkg/pnm"
)

// createTestImageFile writes a filled PNM file and returns its path.
func createTestImageFile(t *testing.T, v pnm.Variant, width, height int, c pnm.Pixel, comments ...string) string {
	t.Helper()

	img, err := pnm.New(v, width, height, 255)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	defer img.Close()
	if err := img.Fill(c); err != nil {
		t.Fatalf("failed to fill image: %v", err)
	}
	for _, s := range comments {
		if err := img.AddComment(s); err != nil {
			t.Fatalf("failed to add comment: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "test"+v.Magic()+".pnm")
	if err := pnm.Save(img, path); err != nil {
		t.Fatalf("failed to save image: %v", err)
	}
	return path
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeResult unpacks the JSON text content of a successful tool call into v.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

// wantToolError checks for a -32000 response carrying the given pnm kind.
func wantToolError(t *testing.T, resp *MCPResponse, kind string) {
	t.Helper()

	if resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != -32000 {
		t.Fatalf("Error code: got %d, want -32000 (%v)", resp.Error.Code, resp.Error.Data)
	}
	data, ok := resp.Error.Data.(map[string]string)
	if !ok {
		t.Fatalf("Error data: got %T, want map[string]string", resp.Error.Data)
	}
	if data["error"] == "" {
		t.Error("Error data should carry the error text")
	}
	if data["kind"] != kind {
		t.Errorf("kind: got %q, want %q", data["kind"], kind)
	}
}

func wantArgsError(t *testing.T, resp *MCPResponse) {
	t.Helper()

	if resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602 (%v)", resp.Error.Code, resp.Error.Data)
	}
}

func TestHandleToolsCall_Load(t *testing.T) {
	s := New(nil, "test")
	path := createTestImageFile(t, pnm.BinaryRgb, 3, 2, pnm.Pixel{R: 255}, "made by test")

	var info imaging.ImageInfo
	decodeResult(t, callTool(t, s, "pnm_load", map[string]interface{}{"path": path}), &info)

	want := imaging.ImageInfo{
		Magic:    "P6",
		Variant:  "BinaryRgb",
		Encoding: "binary",
		Depth:    "pixmap",
		Width:    3,
		Height:   2,
		Maxval:   255,
		Comments: []string{"made by test"},
	}
	info.FileSizeBytes = 0
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("pnm_load mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleToolsCall_Header(t *testing.T) {
	s := New(nil, "test")
	path := filepath.Join(t.TempDir(), "truncated.pgm")
	if err := os.WriteFile(path, []byte("P5\n# cut short\n4 4\n255\n\x01\x02"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	var info imaging.ImageInfo
	decodeResult(t, callTool(t, s, "pnm_header", map[string]interface{}{"path": path}), &info)
	if info.Magic != "P5" || info.Width != 4 || info.Height != 4 {
		t.Errorf("header: got %+v", info)
	}
	if len(info.Comments) != 1 || info.Comments[0] != " cut short" {
		t.Errorf("comments: got %q", info.Comments)
	}

	// the full decode of the same file fails
	wantToolError(t, callTool(t, s, "pnm_load", map[string]interface{}{"path": path}), "read failure")
}

func TestHandleToolsCall_LoadErrors(t *testing.T) {
	s := New(nil, "test")
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.pnm")
	os.WriteFile(bad, []byte("P7\n1 1\n255\n"), 0o644)

	tests := []struct {
		name string
		path string
		kind string
	}{
		{"missing file", filepath.Join(dir, "missing.ppm"), "read failure"},
		{"unknown magic", bad, "wrong header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantToolError(t, callTool(t, s, "pnm_load", map[string]interface{}{"path": tt.path}), tt.kind)
		})
	}
}

func TestHandleToolsCall_SamplePixel(t *testing.T) {
	s := New(nil, "test")
	path := createTestImageFile(t, pnm.BinaryRgb, 4, 4, pnm.Pixel{R: 255, G: 128, B: 64})

	var res imaging.ColorResult
	decodeResult(t, callTool(t, s, "pnm_sample_pixel", map[string]interface{}{"path": path, "x": 2, "y": 3}), &res)
	if res.Hex != "#FF8040" {
		t.Errorf("hex: got %s, want #FF8040", res.Hex)
	}
	if res.Negative != "#007FBF" {
		t.Errorf("negative: got %s, want #007FBF", res.Negative)
	}

	wantToolError(t, callTool(t, s, "pnm_sample_pixel", map[string]interface{}{"path": path, "x": 4, "y": 0}), "value out of range")
}

func TestHandleToolsCall_SamplePixelsMulti(t *testing.T) {
	s := New(nil, "test")
	path := createTestImageFile(t, pnm.AsciiGreymap, 4, 4, pnm.Pixel{R: 10, G: 10, B: 10})

	var res imaging.MultiColorResult
	decodeResult(t, callTool(t, s, "pnm_sample_pixels_multi", map[string]interface{}{
		"path": path,
		"points": []map[string]interface{}{
			{"x": 0, "y": 0, "label": "origin"},
			{"x": 3, "y": 3},
		},
	}), &res)

	if len(res.Samples) != 2 {
		t.Fatalf("samples: got %d, want 2", len(res.Samples))
	}
	if res.Samples[0].Label != "origin" || res.Samples[0].Color.Hex != "#0A0A0A" {
		t.Errorf("first sample: got %+v", res.Samples[0])
	}
}

func TestHandleToolsCall_DominantColors(t *testing.T) {
	s := New(nil, "test")
	path := createTestImageFile(t, pnm.BinaryRgb, 4, 4, pnm.Pixel{B: 255})

	var res imaging.DominantColorsResult
	decodeResult(t, callTool(t, s, "pnm_dominant_colors", map[string]interface{}{"path": path}), &res)
	if len(res.Colors) != 1 || res.Colors[0].Percentage != 100 {
		t.Errorf("colors: got %+v", res.Colors)
	}

	wantToolError(t, callTool(t, s, "pnm_dominant_colors", map[string]interface{}{
		"path":   path,
		"region": map[string]interface{}{"x1": 0, "y1": 0, "x2": 10, "y2": 10},
	}), "")
}

func TestHandleToolsCall_Color(t *testing.T) {
	s := New(nil, "test")

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantHex string
	}{
		{"hex", map[string]interface{}{"color": "#00FF00"}, "#00FF00"},
		{"triplet", map[string]interface{}{"color": "255,0,0"}, "#FF0000"},
		{"hsl", map[string]interface{}{"h": 2.0 / 3.0, "s": 1.0, "l": 0.5}, "#0000FF"},
		{"gray", map[string]interface{}{"h": -1.0, "s": 0.0, "l": 0.0}, "#000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res imaging.ColorResult
			decodeResult(t, callTool(t, s, "pnm_color", tt.args), &res)
			if res.Hex != tt.wantHex {
				t.Errorf("hex: got %s, want %s", res.Hex, tt.wantHex)
			}
		})
	}

	t.Run("missing", func(t *testing.T) {
		wantArgsError(t, callTool(t, s, "pnm_color", map[string]interface{}{"h": 0.5}))
	})
	t.Run("unparsable", func(t *testing.T) {
		wantArgsError(t, callTool(t, s, "pnm_color", map[string]interface{}{"color": "chartreuse"}))
	})
}

func TestHandleToolsCall_SetPixel(t *testing.T) {
	s := New(nil, "test")
	path := createTestImageFile(t, pnm.BinaryRgb, 2, 2, pnm.Pixel{})

	var wr imaging.WriteResult
	decodeResult(t, callTool(t, s, "pnm_set_pixel", map[string]interface{}{
		"path": path, "x": 1, "y": 0, "color": "#102030",
	}), &wr)
	if wr.Path != path || wr.Magic != "P6" {
		t.Errorf("write result: got %+v", wr)
	}

	// in-place write is visible to the next call and on disk
	var res imaging.ColorResult
	decodeResult(t, callTool(t, s, "pnm_sample_pixel", map[string]interface{}{"path": path, "x": 1, "y": 0}), &res)
	if res.Hex != "#102030" {
		t.Errorf("cached pixel: got %s, want #102030", res.Hex)
	}

	img, err := pnm.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer img.Close()
	if p, _ := img.At(1, 0); p != (pnm.Pixel{R: 0x10, G: 0x20, B: 0x30}) {
		t.Errorf("disk pixel: got %v", p)
	}

	wantToolError(t, callTool(t, s, "pnm_set_pixel", map[string]interface{}{
		"path": path, "x": 0, "y": 2, "color": "#FFFFFF",
	}), "value out of range")
}

func TestHandleToolsCall_Create(t *testing.T) {
	s := New(nil, "test")
	out := filepath.Join(t.TempDir(), "new.pgm")

	var wr imaging.WriteResult
	decodeResult(t, callTool(t, s, "pnm_create", map[string]interface{}{
		"output":   out,
		"variant":  "P2",
		"width":    3,
		"height":   2,
		"fill":     "50,50,50",
		"comments": []string{"created"},
	}), &wr)
	if wr.Magic != "P2" || wr.Width != 3 || wr.Height != 2 {
		t.Errorf("write result: got %+v", wr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "P2\n#created\n3 2\n255\n") {
		t.Errorf("file header: got %q", data)
	}

	t.Run("bad variant", func(t *testing.T) {
		wantArgsError(t, callTool(t, s, "pnm_create", map[string]interface{}{
			"output": out, "variant": "P9", "width": 1, "height": 1,
		}))
	})
	t.Run("zero width", func(t *testing.T) {
		wantToolError(t, callTool(t, s, "pnm_create", map[string]interface{}{
			"output": out, "variant": "P6", "width": 0, "height": 1,
		}), "limit overflow")
	})
}

func TestHandleToolsCall_Convert(t *testing.T) {
	s := New(nil, "test")
	path := createTestImageFile(t, pnm.BinaryRgb, 2, 1, pnm.Pixel{R: 255, G: 255, B: 255})
	out := filepath.Join(t.TempDir(), "flat.pbm")

	var wr imaging.WriteResult
	decodeResult(t, callTool(t, s, "pnm_convert", map[string]interface{}{
		"path": path, "output": out, "variant": "P4", "flatten": true,
	}), &wr)
	if wr.Magic != "P4" {
		t.Errorf("magic: got %s, want P4", wr.Magic)
	}

	var info imaging.ImageInfo
	decodeResult(t, callTool(t, s, "pnm_load", map[string]interface{}{"path": out}), &info)
	if info.Depth != "bitmap" || info.Encoding != "binary" {
		t.Errorf("converted header: got %+v", info)
	}

	wantArgsError(t, callTool(t, s, "pnm_convert", map[string]interface{}{
		"path": path, "output": out, "variant": "P1", "flatten": true, "threshold": 300,
	}))
}

func TestHandleToolsCall_Negative(t *testing.T) {
	s := New(nil, "test")
	path := createTestImageFile(t, pnm.AsciiRgb, 2, 2, pnm.Pixel{R: 0, G: 100, B: 255})
	out := filepath.Join(t.TempDir(), "neg.ppm")

	var wr imaging.WriteResult
	decodeResult(t, callTool(t, s, "pnm_negative", map[string]interface{}{"path": path, "output": out}), &wr)

	var res imaging.ColorResult
	decodeResult(t, callTool(t, s, "pnm_sample_pixel", map[string]interface{}{"path": out, "x": 0, "y": 0}), &res)
	if res.Hex != "#FF9B00" {
		t.Errorf("negated pixel: got %s, want #FF9B00", res.Hex)
	}
}

func TestHandleToolsCall_Comment(t *testing.T) {
	s := New(nil, "test")
	path := createTestImageFile(t, pnm.BinaryGreymap, 1, 1, pnm.Pixel{}, "first")

	steps := []struct {
		args map[string]interface{}
		want []string
	}{
		{map[string]interface{}{"action": "add", "text": "second"}, []string{"first", "second"}},
		{map[string]interface{}{"action": "replace", "index": 0, "text": "one"}, []string{"one", "second"}},
		{map[string]interface{}{"action": "delete", "index": 1}, []string{"one"}},
		{map[string]interface{}{"action": "delete", "index": 0}, []string{}},
	}

	for _, step := range steps {
		step.args["path"] = path
		var res CommentResult
		decodeResult(t, callTool(t, s, "pnm_comment", step.args), &res)
		if diff := cmp.Diff(step.want, res.Comments); diff != "" {
			t.Errorf("%v: comments mismatch (-want +got):\n%s", step.args["action"], diff)
		}
	}

	wantToolError(t, callTool(t, s, "pnm_comment", map[string]interface{}{
		"path": path, "action": "delete", "index": 0,
	}), "value out of range")
	wantArgsError(t, callTool(t, s, "pnm_comment", map[string]interface{}{
		"path": path, "action": "append",
	}))
}

func TestHandleToolsCall_Crop(t *testing.T) {
	s := New(nil, "test")
	path := createTestImageFile(t, pnm.BinaryRgb, 8, 8, pnm.Pixel{G: 255})

	var res imaging.CropResult
	decodeResult(t, callTool(t, s, "pnm_crop", map[string]interface{}{
		"path": path, "x1": 0, "y1": 0, "x2": 4, "y2": 2, "scale": 2.0,
	}), &res)
	if res.Width != 8 || res.Height != 4 || res.MimeType != "image/png" || res.ImageBase64 == "" {
		t.Errorf("crop: got %dx%d %s", res.Width, res.Height, res.MimeType)
	}

	decodeResult(t, callTool(t, s, "pnm_crop_quadrant", map[string]interface{}{
		"path": path, "region": "full",
	}), &res)
	if res.Width != 8 || res.Height != 8 {
		t.Errorf("full region: got %dx%d, want 8x8", res.Width, res.Height)
	}
}

func TestHandleToolsCall_Compare(t *testing.T) {
	s := New(nil, "test")
	a := createTestImageFile(t, pnm.BinaryRgb, 3, 3, pnm.Pixel{R: 1, G: 2, B: 3})
	b := createTestImageFile(t, pnm.AsciiRgb, 3, 3, pnm.Pixel{R: 1, G: 2, B: 3})
	c := createTestImageFile(t, pnm.BinaryRgb, 2, 3, pnm.Pixel{})

	var res imaging.CompareResult
	decodeResult(t, callTool(t, s, "pnm_compare", map[string]interface{}{"path": a, "other": b}), &res)
	if !res.Identical || res.TotalPixels != 9 {
		t.Errorf("compare: got %+v", res)
	}

	wantToolError(t, callTool(t, s, "pnm_compare", map[string]interface{}{"path": a, "other": c}), "")
}

func TestHandleToolsCall_ExportImport(t *testing.T) {
	s := New(nil, "test")
	path := createTestImageFile(t, pnm.BinaryRgb, 4, 2, pnm.Pixel{R: 200, G: 100, B: 50})
	dir := t.TempDir()
	png := filepath.Join(dir, "out.png")
	back := filepath.Join(dir, "back.pgm")

	var er imaging.ExportResult
	decodeResult(t, callTool(t, s, "pnm_export", map[string]interface{}{"path": path, "output": png}), &er)
	if er.Format != "PNG" || er.Width != 4 || er.Height != 2 {
		t.Errorf("export: got %+v", er)
	}

	var wr imaging.WriteResult
	decodeResult(t, callTool(t, s, "pnm_import", map[string]interface{}{"path": png, "output": back, "variant": "P5"}), &wr)
	if wr.Magic != "P5" || wr.Width != 4 || wr.Height != 2 {
		t.Errorf("import: got %+v", wr)
	}

	// default variant is P6
	decodeResult(t, callTool(t, s, "pnm_import", map[string]interface{}{"path": png, "output": filepath.Join(dir, "back.ppm")}), &wr)
	if wr.Magic != "P6" {
		t.Errorf("default import magic: got %s, want P6", wr.Magic)
	}
}

func TestHandleToolsCall_ExportOverCachedFile(t *testing.T) {
	s := New(nil, "test")
	src := createTestImageFile(t, pnm.BinaryRgb, 2, 2, pnm.Pixel{G: 255})

	// a PNM file that happens to carry a .png name
	target := filepath.Join(t.TempDir(), "shared.png")
	img, err := pnm.New(pnm.AsciiGreymap, 3, 3, 255)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	defer img.Close()
	if err := pnm.Save(img, target); err != nil {
		t.Fatalf("failed to save image: %v", err)
	}

	var info imaging.ImageInfo
	decodeResult(t, callTool(t, s, "pnm_load", map[string]interface{}{"path": target}), &info)
	if info.Magic != "P2" {
		t.Fatalf("magic: got %s, want P2", info.Magic)
	}

	var er imaging.ExportResult
	decodeResult(t, callTool(t, s, "pnm_export", map[string]interface{}{"path": src, "output": target}), &er)

	// the cached P2 image must not answer for the PNG now on disk
	wantToolError(t, callTool(t, s, "pnm_load", map[string]interface{}{"path": target}), "wrong header")
}

func TestHandleToolsCall_InvalidRequests(t *testing.T) {
	s := New(nil, "test")

	t.Run("unknown tool", func(t *testing.T) {
		wantArgsError(t, callTool(t, s, "nonexistent_tool", map[string]interface{}{}))
	})

	t.Run("wrong argument type", func(t *testing.T) {
		wantArgsError(t, callTool(t, s, "pnm_sample_pixel", map[string]interface{}{"path": "x.ppm", "x": "left"}))
	})

	t.Run("malformed params", func(t *testing.T) {
		resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`[1,2]`)})
		wantArgsError(t, resp)
	})

	t.Run("missing arguments", func(t *testing.T) {
		resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`{"name":"pnm_load"}`)})
		wantToolError(t, resp, "read failure")
	})
}
