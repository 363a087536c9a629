// Package cluster provides density-based clustering of 2D points.
package cluster

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Noise is the label assigned to points that belong to no dense cluster.
const Noise = -1

// unvisited marks points not yet reached during a Fit call.
const unvisited = -2

// Clusterer assigns one label per input point. Points in the same dense
// region share a label >= 0; all other points are labelled Noise.
type Clusterer interface {
	Fit(points []r2.Vec, eps float64, minPts int) []int
}

// DBSCAN implements Clusterer with the DBSCAN algorithm.
//
// The neighbourhood of a point contains every point (itself included) at
// Euclidean distance <= eps. A point with at least minPts neighbours is a
// core point. Clusters grow from core points through their neighbourhoods;
// non-core points reached this way are border points of the first cluster
// that reaches them. Labels are numbered from 0 in discovery order, which
// follows input order, so output is deterministic.
type DBSCAN struct{}

// Fit performs DBSCAN clustering.
func (DBSCAN) Fit(points []r2.Vec, eps float64, minPts int) []int {
	n := len(points)
	if n == 0 {
		return nil
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	index := newGridIndex(eps)
	index.build(points)

	clusterID := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}

		neighbors := index.regionQuery(points, i, eps)
		if len(neighbors) < minPts {
			labels[i] = Noise
			continue
		}

		expandCluster(points, index, labels, i, neighbors, clusterID, eps, minPts)
		clusterID++
	}

	return labels
}

// expandCluster grows a cluster from a core point with a work queue.
// A point is labelled when it is queued, so each one is queued at most once.
func expandCluster(points []r2.Vec, index *gridIndex, labels []int,
	seed int, neighbors []int, clusterID int, eps float64, minPts int) {

	labels[seed] = clusterID

	queue := make([]int, 0, len(neighbors))
	enqueue := func(nbrs []int) {
		for _, k := range nbrs {
			switch labels[k] {
			case Noise:
				labels[k] = clusterID // border point
			case unvisited:
				labels[k] = clusterID
				queue = append(queue, k)
			}
		}
	}

	enqueue(neighbors)
	for j := 0; j < len(queue); j++ {
		more := index.regionQuery(points, queue[j], eps)
		if len(more) >= minPts {
			enqueue(more)
		}
	}
}

// gridIndex buckets points into square cells of side eps so that a
// neighbourhood query only inspects the 3x3 block of cells around a point.
type gridIndex struct {
	cellSize float64
	cells    map[[2]int64][]int
}

func newGridIndex(cellSize float64) *gridIndex {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = 1
	}
	return &gridIndex{cellSize: cellSize}
}

func (g *gridIndex) build(points []r2.Vec) {
	g.cells = make(map[[2]int64][]int, len(points))
	for i, p := range points {
		key := g.cell(p)
		g.cells[key] = append(g.cells[key], i)
	}
}

func (g *gridIndex) cell(p r2.Vec) [2]int64 {
	return [2]int64{
		int64(math.Floor(p.X / g.cellSize)),
		int64(math.Floor(p.Y / g.cellSize)),
	}
}

// regionQuery returns the indices of all points within eps of points[idx],
// including idx itself.
func (g *gridIndex) regionQuery(points []r2.Vec, idx int, eps float64) []int {
	p := points[idx]
	base := g.cell(p)
	eps2 := eps * eps

	// eps larger than the cell size only happens when the index was built
	// with a fallback size; widen the search to stay exact.
	reach := int64(math.Ceil(eps / g.cellSize))
	if reach < 1 {
		reach = 1
	}

	var neighbors []int
	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			for _, j := range g.cells[[2]int64{base[0] + dx, base[1] + dy}] {
				if r2.Norm2(r2.Sub(points[j], p)) <= eps2 {
					neighbors = append(neighbors, j)
				}
			}
		}
	}
	return neighbors
}
