package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"

	"github.com/ironsheep/vanishing-point-mcp/internal/config"
	"github.com/ironsheep/vanishing-point-mcp/internal/field"
	"github.com/ironsheep/vanishing-point-mcp/internal/geometry"
	"github.com/ironsheep/vanishing-point-mcp/internal/imaging"
	"github.com/ironsheep/vanishing-point-mcp/internal/vanishing"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "vp_exact").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errInternal is the only detail clients see for failures that are not
// their fault. The cause goes to the log.
const errInternal = "internal error, see server log"

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Errors caused by the request (bad arguments, unreadable images,
// degenerate lines) return code -32602 with the message. Anything else
// returns -32000 with a generic message.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if vanishing.IsInputError(err) {
			return s.errorResponse(req.ID, -32602, err.Error(), params.Name)
		}
		log.Printf("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", errInternal)
	}

	return s.toolResponse(req.ID, params.Name, result)
}

// toolResponse wraps a tool result as MCP text content. A result that
// cannot be encoded is an internal failure.
func (s *Server) toolResponse(id interface{}, name string, result interface{}) *MCPResponse {
	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Printf("tool %s: failed to encode result: %v", name, err)
		return s.errorResponse(id, -32000, "Tool execution failed", errInternal)
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": string(text),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for optional parameters
//  3. Loads images from cache as needed
//  4. Calls into the field, vanishing or imaging packages
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Vanishing Point Estimation
	case "vp_exact":
		return s.handleVPExact(args)
	case "vp_averaged":
		return s.handleVPAveraged(args)
	case "vp_from_image":
		return s.handleVPFromImage(args)

	// Diagnostics
	case "image_field_mask":
		return s.handleImageFieldMask(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "image_detect_segments":
		return s.handleImageDetectSegments(args)
	case "vp_overlay":
		return s.handleVPOverlay(args)

	default:
		return nil, &vanishing.InputError{Err: fmt.Errorf("unknown tool: %s", name)}
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

// decodeArgs unmarshals tool arguments, reporting malformed JSON as the
// caller's fault.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &vanishing.InputError{Err: fmt.Errorf("invalid arguments: %w", err)}
	}
	return nil
}

// loadImage fetches path through the cache. Missing files and bytes that
// are not an image are input errors.
func (s *Server) loadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, &vanishing.InputError{Err: errors.New("path is required")}
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, asInputError(err)
	}
	return img, nil
}

func asInputError(err error) error {
	if errors.Is(err, imaging.ErrDecode) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return &vanishing.InputError{Err: err}
	}
	return err
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if _, err := s.loadImage(a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if _, err := s.loadImage(a.Path); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Vanishing Point Handlers ===

type vpLinesArgs struct {
	Lines []vanishing.InputLine `json:"lines"`
}

func (s *Server) handleVPExact(args json.RawMessage) (interface{}, error) {
	var a vpLinesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return vanishing.Exact(a.Lines)
}

func (s *Server) handleVPAveraged(args json.RawMessage) (interface{}, error) {
	var a vpLinesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return vanishing.Averaged(a.Lines)
}

type vpImageArgs struct {
	Path         string `json:"path"`
	Plausibility string `json:"plausibility"`
}

// pipelineFor returns the server pipeline, or a one-off copy when the
// call overrides the plausibility predicate.
func (s *Server) pipelineFor(plausibility string) (*vanishing.Pipeline, error) {
	if plausibility == "" || plausibility == s.cfg.Pipeline.Plausibility {
		return s.pipeline, nil
	}
	switch plausibility {
	case config.PlausibleAboveHorizon, config.PlausibleAny:
	default:
		return nil, &vanishing.InputError{Err: fmt.Errorf("plausibility must be %q or %q, got %q",
			config.PlausibleAboveHorizon, config.PlausibleAny, plausibility)}
	}
	cfg := s.cfg.Pipeline
	cfg.Plausibility = plausibility
	return vanishing.New(cfg, s.opts...), nil
}

func (s *Server) runPipeline(a vpImageArgs) (image.Image, *vanishing.Pipeline, *vanishing.Report, error) {
	p, err := s.pipelineFor(a.Plausibility)
	if err != nil {
		return nil, nil, nil, err
	}
	img, err := s.loadImage(a.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	report, err := p.Run(img)
	if err != nil {
		return nil, nil, nil, err
	}
	return img, p, report, nil
}

func (s *Server) handleVPFromImage(args json.RawMessage) (interface{}, error) {
	var a vpImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	_, _, report, err := s.runPipeline(a)
	if err != nil {
		return nil, err
	}
	return report.Summary(), nil
}

// OverlayResult is the annotated image together with the run summary.
type OverlayResult struct {
	*imaging.EncodedImage
	Summary vanishing.Summary `json:"summary"`
}

func (s *Server) handleVPOverlay(args json.RawMessage) (interface{}, error) {
	var a vpImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, p, report, err := s.runPipeline(a)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(p.Overlay(img, report))
	if err != nil {
		return nil, err
	}
	return &OverlayResult{EncodedImage: enc, Summary: report.Summary()}, nil
}

// === Diagnostic Handlers ===

type imageFieldMaskArgs struct {
	Path      string `json:"path"`
	HueRange  *int   `json:"hue_range"`
	MorphSize *int   `json:"morph_size"`
}

// FieldMaskResult describes the extracted field region.
type FieldMaskResult struct {
	*imaging.EncodedImage

	// PeakHue is the dominant 8-bit hue (0-179).
	PeakHue int `json:"peak_hue"`

	// Coverage is the fraction of the frame inside the mask.
	Coverage float64 `json:"coverage"`

	// Hull lists the filled polygon vertices, empty when the cleaned
	// threshold mask was used as is.
	Hull []image.Point `json:"hull"`
}

func (s *Server) handleImageFieldMask(args json.RawMessage) (interface{}, error) {
	var a imageFieldMaskArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	hueRange, morphSize := s.cfg.Pipeline.HueRange, s.cfg.Pipeline.MorphSize
	if a.HueRange != nil {
		hueRange = *a.HueRange
	}
	if a.MorphSize != nil {
		morphSize = *a.MorphSize
	}
	if hueRange < 0 || hueRange >= imaging.HueBins {
		return nil, &vanishing.InputError{Err: fmt.Errorf("hue_range must be in [0, %d), got %d", imaging.HueBins, hueRange)}
	}
	if morphSize < 1 {
		return nil, &vanishing.InputError{Err: fmt.Errorf("morph_size must be positive, got %d", morphSize)}
	}

	img, err := s.loadImage(a.Path)
	if err != nil {
		return nil, err
	}

	region := field.Extract(img, hueRange, morphSize)
	enc, err := imaging.EncodePNG(region.Mask)
	if err != nil {
		return nil, err
	}

	b := region.Mask.Bounds()
	coverage := 0.0
	if n := b.Dx() * b.Dy(); n > 0 {
		coverage = float64(imaging.CountNonZero(region.Mask)) / float64(n)
	}
	hull := region.Hull
	if hull == nil {
		hull = []image.Point{}
	}

	return &FieldMaskResult{
		EncodedImage: enc,
		PeakHue:      region.PeakHue,
		Coverage:     coverage,
		Hull:         hull,
	}, nil
}

type imageEdgeDetectArgs struct {
	Path          string   `json:"path"`
	ThresholdLow  *float64 `json:"threshold_low"`
	ThresholdHigh *float64 `json:"threshold_high"`
}

// EdgeResult is the field-restricted edge map.
type EdgeResult struct {
	*imaging.EncodedImage

	// EdgePixels counts the pixels marked as edges.
	EdgePixels int `json:"edge_pixels"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	params := vanishing.EdgeParams(s.cfg.Pipeline)
	if a.ThresholdLow != nil {
		params.Low = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		params.High = *a.ThresholdHigh
	}
	if params.Low < 0 || params.High < params.Low {
		return nil, &vanishing.InputError{Err: fmt.Errorf("thresholds must satisfy 0 <= low <= high, got %g and %g", params.Low, params.High)}
	}

	img, err := s.loadImage(a.Path)
	if err != nil {
		return nil, err
	}

	region := field.Extract(img, s.cfg.Pipeline.HueRange, s.cfg.Pipeline.MorphSize)
	pre := field.Prefilter(img, region.Mask, params)
	enc, err := imaging.EncodePNG(pre.Edges)
	if err != nil {
		return nil, err
	}
	return &EdgeResult{EncodedImage: enc, EdgePixels: imaging.CountNonZero(pre.Edges)}, nil
}

// SegmentsResult lists detector output and the candidates kept from it.
type SegmentsResult struct {
	Segments   []geometry.Segment   `json:"segments"`
	Candidates []geometry.Candidate `json:"candidates"`
	Count      int                  `json:"count"`
}

func (s *Server) handleImageDetectSegments(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	_, _, report, err := s.runPipeline(vpImageArgs{Path: a.Path})
	if err != nil {
		return nil, err
	}
	segments := report.Segments
	if segments == nil {
		segments = []geometry.Segment{}
	}
	candidates := report.Candidates
	if candidates == nil {
		candidates = []geometry.Candidate{}
	}
	return &SegmentsResult{Segments: segments, Candidates: candidates, Count: len(segments)}, nil
}
