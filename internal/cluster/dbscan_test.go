package cluster

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestDBSCAN_Empty(t *testing.T) {
	if labels := (DBSCAN{}).Fit(nil, 5, 3); labels != nil {
		t.Errorf("got %v, want nil", labels)
	}
}

func TestDBSCAN_IdenticalPoints(t *testing.T) {
	points := []r2.Vec{{X: 10, Y: -20}, {X: 10, Y: -20}, {X: 10, Y: -20}, {X: 10, Y: -20}}

	labels := (DBSCAN{}).Fit(points, 5, 3)
	if len(labels) != len(points) {
		t.Fatalf("got %d labels, want %d", len(labels), len(points))
	}
	for i, l := range labels {
		if l != 0 {
			t.Errorf("label[%d]: got %d, want 0", i, l)
		}
	}
}

func TestDBSCAN_ManyIdenticalPoints(t *testing.T) {
	points := make([]r2.Vec, 3000)
	for i := range points {
		points[i] = r2.Vec{X: 320, Y: -200}
	}

	labels := (DBSCAN{}).Fit(points, 5, 3)
	for i, l := range labels {
		if l != 0 {
			t.Fatalf("label[%d]: got %d, want 0", i, l)
		}
	}
}

func TestDBSCAN_TooSparse(t *testing.T) {
	points := []r2.Vec{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}}

	labels := (DBSCAN{}).Fit(points, 5, 3)
	for i, l := range labels {
		if l != Noise {
			t.Errorf("label[%d]: got %d, want Noise", i, l)
		}
	}
}

func TestDBSCAN_TwoClustersAndNoise(t *testing.T) {
	points := []r2.Vec{
		// cluster A near (0,0)
		{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}, {X: 1, Y: -1},
		// isolated point
		{X: 500, Y: 500},
		// cluster B near (100,-50)
		{X: 100, Y: -50}, {X: 101, Y: -50}, {X: 100, Y: -51},
	}

	labels := (DBSCAN{}).Fit(points, 5, 3)

	for i := 0; i < 4; i++ {
		if labels[i] != labels[0] || labels[i] == Noise {
			t.Errorf("point %d: got label %d, want cluster %d", i, labels[i], labels[0])
		}
	}
	if labels[4] != Noise {
		t.Errorf("isolated point: got label %d, want Noise", labels[4])
	}
	for i := 5; i < 8; i++ {
		if labels[i] != labels[5] || labels[i] == Noise {
			t.Errorf("point %d: got label %d, want cluster %d", i, labels[i], labels[5])
		}
	}
	if labels[0] == labels[5] {
		t.Error("clusters A and B should have different labels")
	}
	if labels[0] != 0 || labels[5] != 1 {
		t.Errorf("labels should follow discovery order, got %d and %d", labels[0], labels[5])
	}
}

func TestDBSCAN_BorderPoint(t *testing.T) {
	// Three core points within eps of each other and one point within eps of
	// only the last of them: it is a border point, not noise.
	points := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 4, Y: 0}, {X: 8.5, Y: 0}}

	labels := (DBSCAN{}).Fit(points, 5, 3)
	if labels[3] != labels[0] {
		t.Errorf("border point: got label %d, want %d", labels[3], labels[0])
	}
}

func TestDBSCAN_DistanceIsInclusive(t *testing.T) {
	points := []r2.Vec{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 0, Y: 5}}

	labels := (DBSCAN{}).Fit(points, 5, 3)
	if labels[0] == Noise {
		t.Error("point with neighbours exactly eps away should be core")
	}
}

func TestDBSCAN_NegativeCoordinates(t *testing.T) {
	// Points straddling cell boundaries on the negative side.
	points := []r2.Vec{{X: -0.1, Y: -0.1}, {X: 0.1, Y: 0.1}, {X: -4.9, Y: 0.2}, {X: 3, Y: -3}}

	labels := (DBSCAN{}).Fit(points, 5, 3)
	for i, l := range labels {
		if l != 0 {
			t.Errorf("label[%d]: got %d, want 0", i, l)
		}
	}
}
