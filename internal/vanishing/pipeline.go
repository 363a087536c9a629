package vanishing

import (
	"image"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/vanishing-point-mcp/internal/cluster"
	"github.com/ironsheep/vanishing-point-mcp/internal/config"
	"github.com/ironsheep/vanishing-point-mcp/internal/detection"
	"github.com/ironsheep/vanishing-point-mcp/internal/field"
	"github.com/ironsheep/vanishing-point-mcp/internal/geometry"
	"github.com/ironsheep/vanishing-point-mcp/internal/imaging"
)

// Pipeline estimates vanishing points from raw images.
//
// A Pipeline holds only read-only configuration and collaborators, so a
// single instance may serve concurrent requests.
type Pipeline struct {
	cfg      config.Pipeline
	detector detection.SegmentDetector
	agg      Aggregator
	debugf   func(format string, args ...any)
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithDetector replaces the segment detector.
func WithDetector(d detection.SegmentDetector) Option {
	return func(p *Pipeline) { p.detector = d }
}

// WithClusterer replaces the density clusterer.
func WithClusterer(c cluster.Clusterer) Option {
	return func(p *Pipeline) { p.agg.Clusterer = c }
}

// WithPredicate replaces the plausibility predicate.
func WithPredicate(pred Predicate) Option {
	return func(p *Pipeline) { p.agg.Plausible = pred }
}

// WithDebugf installs a debug logging hook, typically log.Printf.
func WithDebugf(f func(format string, args ...any)) Option {
	return func(p *Pipeline) { p.debugf = f }
}

// New creates a pipeline from configuration.
func New(cfg config.Pipeline, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		detector: detection.NewDetector(HoughParams(cfg)),
		agg: Aggregator{
			Clusterer: cluster.DBSCAN{},
			Plausible: PredicateFor(cfg.Plausibility),
			Eps:       cfg.DBSCAN.Eps,
			MinPts:    cfg.DBSCAN.MinPts,
		},
		debugf: func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HoughParams converts pipeline configuration into detector parameters.
func HoughParams(cfg config.Pipeline) detection.HoughParams {
	return detection.HoughParams{
		Rho:           cfg.Hough.Rho,
		Theta:         cfg.Hough.ThetaRadians(),
		Threshold:     cfg.Hough.Threshold,
		MinLineLength: cfg.Hough.MinLineLength,
		MaxLineGap:    cfg.Hough.MaxLineGap,
	}
}

// EdgeParams converts pipeline configuration into pre-filter parameters.
func EdgeParams(cfg config.Pipeline) field.EdgeParams {
	return field.EdgeParams{Low: cfg.CannyLow, High: cfg.CannyHigh}
}

// PredicateFor maps a configured predicate name to its function.
// Unknown names fall back to AboveHorizon.
func PredicateFor(name string) Predicate {
	if name == config.PlausibleAny {
		return Anywhere
	}
	return AboveHorizon
}

// Report carries every intermediate artifact of one pipeline run.
type Report struct {
	Width, Height int

	Field         *field.Region
	Prefilter     *field.PrefilterResult
	Segments      []geometry.Segment
	Candidates    []geometry.Candidate
	Intersections []r2.Vec
	Aggregation   *Aggregation

	// Estimate is nil when no vanishing point was found.
	Estimate *Point
}

// Summary is a compact, serializable view of a Report.
type Summary struct {
	Found          bool   `json:"found"`
	VanishingPoint *Point `json:"vanishing_point,omitempty"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	PeakHue        int    `json:"peak_hue"`
	Segments       int    `json:"segments"`
	Candidates     int    `json:"candidates"`
	Intersections  int    `json:"intersections"`
	Plausible      int    `json:"plausible"`
	ClusterSize    int    `json:"cluster_size"`
}

// Summary condenses the report.
func (r *Report) Summary() Summary {
	s := Summary{
		Found:          r.Estimate != nil,
		VanishingPoint: r.Estimate,
		Width:          r.Width,
		Height:         r.Height,
		Segments:       len(r.Segments),
		Candidates:     len(r.Candidates),
		Intersections:  len(r.Intersections),
	}
	if r.Field != nil {
		s.PeakHue = r.Field.PeakHue
	}
	if r.Aggregation != nil {
		s.Plausible = len(r.Aggregation.Plausible)
		s.ClusterSize = r.Aggregation.Size
	}
	return s
}

// Run executes every stage on img. The only error is an *InputError for
// a nil or empty image; not finding a vanishing point is reported through
// Report.Estimate.
func (p *Pipeline) Run(img image.Image) (*Report, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, &InputError{Err: ErrEmptyImage}
	}

	b := img.Bounds()
	r := &Report{Width: b.Dx(), Height: b.Dy()}

	r.Field = field.Extract(img, p.cfg.HueRange, p.cfg.MorphSize)
	r.Prefilter = field.Prefilter(img, r.Field.Mask, EdgeParams(p.cfg))
	p.debugf("field: peak hue %d, %d mask pixels, %d edge pixels",
		r.Field.PeakHue, imaging.CountNonZero(r.Field.Mask), imaging.CountNonZero(r.Prefilter.Edges))

	r.Segments = p.detector.Detect(r.Prefilter.Edges)
	r.Candidates = geometry.BuildCandidates(r.Segments)
	r.Intersections = geometry.AllIntersections(r.Candidates)
	p.debugf("lines: %d segments, %d candidates, %d intersections",
		len(r.Segments), len(r.Candidates), len(r.Intersections))

	r.Aggregation = p.agg.Aggregate(r.Intersections)
	r.Estimate = r.Aggregation.Estimate
	if r.Estimate == nil {
		p.debugf("no vanishing point: %d plausible intersections, largest cluster %d",
			len(r.Aggregation.Plausible), r.Aggregation.Size)
	} else {
		p.debugf("vanishing point (%.2f, %.2f) from cluster of %d",
			r.Estimate.X, r.Estimate.Y, r.Aggregation.Size)
	}

	return r, nil
}

// Estimate runs the pipeline and returns only the estimate, nil when
// none was found.
func (p *Pipeline) Estimate(img image.Image) (*Point, error) {
	r, err := p.Run(img)
	if err != nil {
		return nil, err
	}
	return r.Estimate, nil
}

// Overlay draws the candidate lines and, when an estimate exists, the
// line from the bottom-center of the frame to the vanishing point, on top
// of the field-masked image.
func (p *Pipeline) Overlay(img image.Image, r *Report) image.Image {
	base := img
	if r.Prefilter != nil {
		base = r.Prefilter.Masked
	}

	segs := make([]geometry.Segment, len(r.Candidates))
	for i, c := range r.Candidates {
		segs[i] = c.Segment
	}

	var vp *r2.Vec
	if r.Estimate != nil {
		v := r.Estimate.Vec()
		vp = &v
	}
	return imaging.DrawOverlay(base, segs, vp, imaging.DefaultOverlayStyle)
}
