package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// lineItemSchema describes one user-drawn line. The optional slope is
// accepted but ignored.
var lineItemSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"x1":    map[string]interface{}{"type": "number"},
		"y1":    map[string]interface{}{"type": "number"},
		"x2":    map[string]interface{}{"type": "number"},
		"y2":    map[string]interface{}{"type": "number"},
		"slope": map[string]interface{}{"type": "number", "description": "Ignored; recomputed from the endpoints"},
	},
	"required": []string{"x1", "y1", "x2", "y2"},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent operations on the same path.",
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

		// Vanishing Point Estimation
		{
			Name:        "vp_exact",
			Description: "Intersect the first two lines and return the point as {x_van, y_van}. Lines beyond the second are ignored. Fails if fewer than two lines are given or the first two are parallel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"lines": map[string]interface{}{
						"type":        "array",
						"description": "Lines through two image points, in pixel coordinates",
						"items":       lineItemSchema,
						"minItems":    2,
					},
				},
				"required": []string{"lines"},
			},
		},
		{
			Name:        "vp_averaged",
			Description: "Intersect every pair of lines and return the mean intersection as {x_van, y_van}. Parallel pairs are skipped. Fails if fewer than two lines are given or no pair intersects.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"lines": map[string]interface{}{
						"type":        "array",
						"description": "Lines through two image points, in pixel coordinates",
						"items":       lineItemSchema,
						"minItems":    2,
					},
				},
				"required": []string{"lines"},
			},
		},
		{
			Name:        "vp_from_image",
			Description: "Estimate the vanishing point of a sports field photograph. Extracts the field by dominant hue, finds the white pitch lines, intersects them and returns the centroid of the densest cluster of plausible intersections. Returns found=false when no estimate is possible.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"plausibility": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"above_horizon", "any"},
						"description": "Which intersections may vote: above_horizon keeps points with y < 0 (default from server config)",
					},
				},
				"required": []string{"path"},
			},
		},

		// Diagnostics
		{
			Name:        "image_field_mask",
			Description: "Extract the playing field region and return it as a base64-encoded PNG mask (white inside the field) with the dominant hue and the field polygon.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"hue_range": map[string]interface{}{
						"type":        "integer",
						"description": "Half-width of the hue band around the dominant hue, 0-179 scale",
						"default":     10,
						"minimum":     0,
						"maximum":     179,
					},
					"morph_size": map[string]interface{}{
						"type":        "integer",
						"description": "Side of the square opening/closing kernel in pixels",
						"default":     15,
						"minimum":     1,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Run Canny edge detection on the white markings inside the field and return the edge map as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"threshold_low": map[string]interface{}{
						"type":        "number",
						"description": "Lower hysteresis threshold",
						"default":     1.0,
					},
					"threshold_high": map[string]interface{}{
						"type":        "number",
						"description": "Upper hysteresis threshold",
						"default":     150.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_detect_segments",
			Description: "Detect straight line segments on the field markings. Returns every segment and the non-vertical candidates used for intersection, with slope and length.",
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
			Name:        "vp_overlay",
			Description: "Draw the candidate lines and the estimated vanishing point on the field-masked image and return it as a base64-encoded PNG with the run summary.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"plausibility": map[string]interface{}{
						"type": "string",
						"enum": []string{"above_horizon", "any"},
					},
				},
				"required": []string{"path"},
			},
		},
	}
}
