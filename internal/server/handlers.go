package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/iconfit/internal/hog"
	"github.com/ironsheep/iconfit/internal/imaging"
	"github.com/ironsheep/iconfit/internal/locate"
	"github.com/ironsheep/iconfit/internal/patchmatch"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "icon_locate").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
//  3. Loads images from cache, or a stored run, as needed
//  4. Calls the appropriate imaging/locate function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Icon Location
	case "icon_locate":
		return s.handleIconLocate(args)

	// Run Inspection
	case "icon_match_at":
		return s.handleIconMatchAt(args)
	case "icon_flow_render":
		return s.handleIconFlowRender(args)
	case "icon_overlay":
		return s.handleIconOverlay(args)

	// Features
	case "hog_describe":
		return s.handleHOGDescribe(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Icon Location Handlers ===

type iconLocateArgs struct {
	IconPath    string  `json:"icon_path"`
	TargetPath  string  `json:"target_path"`
	Seed        *uint64 `json:"seed"`
	Iterations  *int    `json:"iterations"`
	Metric      string  `json:"metric"`
	IncludeCrop bool    `json:"include_crop"`
}

// iconLocateResult is the icon_locate response.
type iconLocateResult struct {
	*locate.Result

	// Match is the matched scene region, present when include_crop is set.
	Match *imaging.EncodedImage `json:"match,omitempty"`
}

func (s *Server) handleIconLocate(args json.RawMessage) (interface{}, error) {
	var a iconLocateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.IconPath == "" || a.TargetPath == "" {
		return nil, fmt.Errorf("icon_path and target_path are required")
	}

	cfg := *s.cfg
	if a.Seed != nil {
		cfg.Solver.Seed = *a.Seed
	}
	if a.Iterations != nil {
		cfg.Solver.Iterations = *a.Iterations
	}
	if a.Metric != "" {
		cfg.Solver.Metric = a.Metric
	}
	locator, err := cfg.Locator(s.logger)
	if err != nil {
		return nil, err
	}

	icon, err := s.cache.Load(a.IconPath)
	if err != nil {
		return nil, fmt.Errorf("icon: %w", err)
	}
	target, err := s.cache.Load(a.TargetPath)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	res, err := locator.Locate(context.Background(), icon, target)
	if err != nil {
		return nil, err
	}
	s.runs.put(&storedRun{result: res, iconPath: a.IconPath, targetPath: a.TargetPath})

	out := &iconLocateResult{Result: res}
	if a.IncludeCrop {
		// Translate into the target's own coordinate space before cropping.
		box := res.Placement.Box().Add(target.Bounds().Min)
		crop, err := imaging.CropMatch(target, box, 1.0)
		if err != nil {
			return nil, err
		}
		if out.Match, err = imaging.EncodePNG(crop); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// === Run Inspection Handlers ===

type iconMatchAtArgs struct {
	RunID string `json:"run_id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// matchAtResult describes the match of one icon pixel.
type matchAtResult struct {
	X            int                     `json:"x"`
	Y            int                     `json:"y"`
	SourceX      int                     `json:"source_x"`
	SourceY      int                     `json:"source_y"`
	Displacement patchmatch.Displacement `json:"displacement"`
	Score        float64                 `json:"score"`

	// Inlier reports whether the implied icon origin lies within the inlier
	// radius of the run's placement.
	Inlier bool `json:"inlier"`
}

func (s *Server) handleIconMatchAt(args json.RawMessage) (interface{}, error) {
	var a iconMatchAtArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	run, err := s.runs.get(a.RunID)
	if err != nil {
		return nil, err
	}

	field := run.result.Field
	if !field.InBounds(a.Y, a.X) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside icon %dx%d", a.X, a.Y, field.Width, field.Height)
	}

	d := field.At(a.Y, a.X)
	sy, sx := field.Source(a.Y, a.X)
	p := run.result.Placement
	dist := float64((d.DX-p.X)*(d.DX-p.X) + (d.DY-p.Y)*(d.DY-p.Y))
	radius := s.cfg.Locate.InlierRadius
	return &matchAtResult{
		X:            a.X,
		Y:            a.Y,
		SourceX:      sx,
		SourceY:      sy,
		Displacement: d,
		Score:        field.Score(a.Y, a.X),
		Inlier:       dist <= radius*radius,
	}, nil
}

type iconFlowRenderArgs struct {
	RunID        string  `json:"run_id"`
	Mode         string  `json:"mode"`
	MaxMagnitude float64 `json:"max_magnitude"`
	Scale        float64 `json:"scale"`
}

func (s *Server) handleIconFlowRender(args json.RawMessage) (interface{}, error) {
	var a iconFlowRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Mode == "" {
		a.Mode = "flow"
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	run, err := s.runs.get(a.RunID)
	if err != nil {
		return nil, err
	}

	field := run.result.Field
	switch a.Mode {
	case "flow":
		return imaging.EncodeScaledPNG(imaging.RenderFlow(field, a.MaxMagnitude), a.Scale)
	case "scores":
		return imaging.EncodeScaledPNG(imaging.RenderScores(field), a.Scale)
	default:
		return nil, fmt.Errorf("unknown render mode %q (want flow or scores)", a.Mode)
	}
}

type iconOverlayArgs struct {
	RunID string `json:"run_id"`
	Color string `json:"color"`
	Label string `json:"label"`
}

func (s *Server) handleIconOverlay(args json.RawMessage) (interface{}, error) {
	var a iconOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#00FF00"
	}
	run, err := s.runs.get(a.RunID)
	if err != nil {
		return nil, err
	}
	target, err := s.cache.Load(run.targetPath)
	if err != nil {
		return nil, err
	}

	box := run.result.Placement.Box().Add(target.Bounds().Min)
	return imaging.EncodePNG(imaging.DrawMatchBox(target, box, a.Color, a.Label))
}

// === Feature Handlers ===

type hogDescribeArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// hogDescribeResult is the descriptor of one pixel.
type hogDescribeResult struct {
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Bins   int       `json:"bins"`
	Vector []float32 `json:"vector"`
}

func (s *Server) handleHOGDescribe(args json.RawMessage) (interface{}, error) {
	var a hogDescribeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	locator, err := s.cfg.Locator(nil)
	if err != nil {
		return nil, err
	}
	features, err := locator.Features(context.Background(), img)
	if err != nil {
		return nil, err
	}
	vec, err := hog.Describe(features, a.Y, a.X)
	if err != nil {
		return nil, err
	}
	return &hogDescribeResult{X: a.X, Y: a.Y, Bins: features.Depth, Vector: vec}, nil
}
