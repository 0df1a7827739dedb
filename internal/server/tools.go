package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. Loaded images are cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Icon Location
		{
			Name:        "icon_locate",
			Description: "Find where an icon appears inside a larger target image. Returns the top-left position and size of the match, a support score (share of icon pixels agreeing with the placement) and a run_id for the inspection tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"icon_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the icon image",
					},
					"target_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image to search",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Optional random seed for a reproducible run. Default from configuration (0 picks one from the clock)",
					},
					"iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Optional maximum number of refinement rounds. Default 10",
					},
					"metric": map[string]interface{}{
						"type":        "string",
						"description": "Optional patch distance: ssd (squared L2) or sad (L1). Default ssd",
						"enum":        []string{"ssd", "sad"},
					},
					"include_crop": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the matched target region as base64-encoded PNG. Default false",
						"default":     false,
					},
				},
				"required": []string{"icon_path", "target_path"},
			},
		},

		// Run Inspection
		{
			Name:        "icon_match_at",
			Description: "Show where one icon pixel was matched in the target for a previous icon_locate run, with its patch distance.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"run_id": map[string]interface{}{
						"type":        "string",
						"description": "Run id returned by icon_locate",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Icon X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Icon Y coordinate (0-based)",
					},
				},
				"required": []string{"run_id", "x", "y"},
			},
		},
		{
			Name:        "icon_flow_render",
			Description: "Render the displacement field of a previous icon_locate run as a PNG. Mode flow colours each icon pixel by match direction (hue) and distance (brightness); mode scores shows match quality, bright is better.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"run_id": map[string]interface{}{
						"type":        "string",
						"description": "Run id returned by icon_locate",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "Rendering mode: flow or scores. Default flow",
						"enum":        []string{"flow", "scores"},
						"default":     "flow",
					},
					"max_magnitude": map[string]interface{}{
						"type":        "number",
						"description": "Displacement length mapped to full brightness in flow mode. Default: longest displacement",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional upscale factor (e.g., 8.0 to enlarge small icons). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"run_id"},
			},
		},
		{
			Name:        "icon_overlay",
			Description: "Draw the match box of a previous icon_locate run on the target image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"run_id": map[string]interface{}{
						"type":        "string",
						"description": "Run id returned by icon_locate",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Box color as hex (e.g., #FF0000). Default #00FF00",
						"default":     "#00FF00",
					},
					"label": map[string]interface{}{
						"type":        "string",
						"description": "Optional label drawn inside the top-left corner of the box (digits, comma and minus; other characters are left blank)",
					},
				},
				"required": []string{"run_id"},
			},
		},

		// Features
		{
			Name:        "hog_describe",
			Description: "Return the normalised gradient-orientation histogram computed for one pixel of an image, as used for matching.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
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
