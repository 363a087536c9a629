package vanishing

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/vanishing-point-mcp/internal/cluster"
)

// Predicate decides whether an intersection may be a vanishing point.
type Predicate func(r2.Vec) bool

// AboveHorizon accepts points above the top edge of the image. Field
// markings receding from a camera mounted above the pitch converge there.
func AboveHorizon(p r2.Vec) bool {
	return p.Y < 0
}

// Anywhere accepts every point.
func Anywhere(r2.Vec) bool {
	return true
}

// FilterPlausible keeps the finite points accepted by pred, in order.
// A nil pred accepts every finite point. Filtering is idempotent.
func FilterPlausible(points []r2.Vec, pred Predicate) []r2.Vec {
	out := make([]r2.Vec, 0, len(points))
	for _, p := range points {
		if !finite(p) {
			continue
		}
		if pred != nil && !pred(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Aggregator reduces a cloud of intersections to a single estimate: the
// centroid of the largest density cluster of plausible points.
type Aggregator struct {
	Clusterer cluster.Clusterer
	Plausible Predicate
	Eps       float64
	MinPts    int
}

// NewAggregator returns an aggregator with DBSCAN(eps 5, minPts 3) and
// the AboveHorizon predicate.
func NewAggregator() *Aggregator {
	return &Aggregator{
		Clusterer: cluster.DBSCAN{},
		Plausible: AboveHorizon,
		Eps:       5,
		MinPts:    3,
	}
}

// Aggregation records every step of an aggregation.
type Aggregation struct {
	// Plausible is the filtered point set that was clustered.
	Plausible []r2.Vec

	// Labels holds one cluster label per plausible point, or nil when
	// clustering was skipped.
	Labels []int

	// Cluster is the winning label, or cluster.Noise.
	Cluster int

	// Size is the number of points in the winning cluster.
	Size int

	// Estimate is the winning centroid, or nil.
	Estimate *Point
}

// Estimate returns the centroid of the largest cluster. ok is false when
// there is no estimate.
func (a *Aggregator) Estimate(points []r2.Vec) (Point, bool) {
	agg := a.Aggregate(points)
	if agg.Estimate == nil {
		return Point{}, false
	}
	return *agg.Estimate, true
}

// Aggregate runs the full reduction and reports its intermediate results.
//
// Clustering is skipped when fewer than MinPts points survive filtering,
// since no cluster could form. Among clusters of equal size the lowest
// label wins.
func (a *Aggregator) Aggregate(points []r2.Vec) *Aggregation {
	agg := &Aggregation{
		Plausible: FilterPlausible(points, a.Plausible),
		Cluster:   cluster.Noise,
	}
	if len(agg.Plausible) == 0 || len(agg.Plausible) < a.MinPts {
		return agg
	}

	clusterer := a.Clusterer
	if clusterer == nil {
		clusterer = cluster.DBSCAN{}
	}
	agg.Labels = clusterer.Fit(agg.Plausible, a.Eps, a.MinPts)

	counts := make(map[int]int)
	for _, l := range agg.Labels {
		if l != cluster.Noise {
			counts[l]++
		}
	}
	for l, n := range counts {
		if n > agg.Size || (n == agg.Size && l < agg.Cluster) {
			agg.Cluster, agg.Size = l, n
		}
	}
	if agg.Size == 0 {
		agg.Cluster = cluster.Noise
		return agg
	}

	xs := make([]float64, 0, agg.Size)
	ys := make([]float64, 0, agg.Size)
	for i, l := range agg.Labels {
		if l == agg.Cluster {
			xs = append(xs, agg.Plausible[i].X)
			ys = append(ys, agg.Plausible[i].Y)
		}
	}

	c := r2.Vec{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
	if !finite(c) {
		return agg
	}
	p := pointOf(c)
	agg.Estimate = &p
	return agg
}
