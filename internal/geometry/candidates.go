package geometry

import "gonum.org/v1/gonum/spatial/r2"

// Candidate is a segment admitted to pairwise intersection, with its
// derived slope and length.
type Candidate struct {
	Segment
	Slope  float64 `json:"slope"`
	Length float64 `json:"length"`
}

// BuildCandidates turns raw detector output into candidate lines.
//
// Vertical segments (X1 == X2) are dropped because their slope is
// undefined. Nothing else is filtered: horizontal and near-horizontal
// segments stay in the set.
func BuildCandidates(raw []Segment) []Candidate {
	candidates := make([]Candidate, 0, len(raw))
	for _, s := range raw {
		if s.Vertical() {
			continue
		}
		candidates = append(candidates, Candidate{
			Segment: s,
			Slope:   s.Slope(),
			Length:  s.Length(),
		})
	}
	return candidates
}

// AllIntersections intersects every unordered pair of candidates as
// infinite lines. Parallel pairs are skipped silently, so the result holds
// at most n*(n-1)/2 points and may be empty.
func AllIntersections(candidates []Candidate) []r2.Vec {
	lines := make([]Line, len(candidates))
	for i, c := range candidates {
		lines[i] = c.Line()
	}

	points := make([]r2.Vec, 0, len(lines)*(len(lines)-1)/2+1)
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			if p, ok := Intersect(lines[i], lines[j]); ok {
				points = append(points, p)
			}
		}
	}
	return points
}
