package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestSegmentLine_EndpointsSatisfyEquation(t *testing.T) {
	tests := []Segment{
		{X1: 0, Y1: 0, X2: 10, Y2: 10},
		{X1: -3.5, Y1: 7, X2: 12, Y2: -40},
		{X1: 100, Y1: 200, X2: 100, Y2: 300},
		{X1: 5, Y1: 5, X2: 50, Y2: 5},
	}

	for _, s := range tests {
		l := s.Line()
		for _, p := range []r2.Vec{{X: s.X1, Y: s.Y1}, {X: s.X2, Y: s.Y2}} {
			if r := l.Residual(p); math.Abs(r) > 1e-9 {
				t.Errorf("segment %+v: endpoint %v residual %g, want 0", s, p, r)
			}
		}
	}
}

func TestIntersect_Crossing(t *testing.T) {
	a := Segment{X1: 0, Y1: 0, X2: 10, Y2: 10}.Line()
	b := Segment{X1: 0, Y1: 10, X2: 10, Y2: 0}.Line()

	p, ok := Intersect(a, b)
	if !ok {
		t.Fatal("expected an intersection")
	}
	if math.Abs(p.X-5) > 1e-9 || math.Abs(p.Y-5) > 1e-9 {
		t.Errorf("got (%g,%g), want (5,5)", p.X, p.Y)
	}
}

func TestIntersect_RoundTrip(t *testing.T) {
	pairs := [][2]Segment{
		{{X1: 0, Y1: 0, X2: 10, Y2: 3}, {X1: 2, Y1: 9, X2: 7, Y2: -4}},
		{{X1: 100, Y1: 400, X2: 300, Y2: 100}, {X1: 600, Y1: 400, X2: 400, Y2: 120}},
		{{X1: -50, Y1: 12.5, X2: 80, Y2: 13}, {X1: 1, Y1: 1, X2: 1.5, Y2: 90}},
	}

	for i, pair := range pairs {
		l1, l2 := pair[0].Line(), pair[1].Line()
		p, ok := Intersect(l1, l2)
		if !ok {
			t.Fatalf("pair %d: expected an intersection", i)
		}
		if r := l1.Residual(p); math.Abs(r) > 1e-6 {
			t.Errorf("pair %d: first line residual %g", i, r)
		}
		if r := l2.Residual(p); math.Abs(r) > 1e-6 {
			t.Errorf("pair %d: second line residual %g", i, r)
		}
	}
}

func TestIntersect_Parallel(t *testing.T) {
	tests := []struct {
		name string
		a, b Segment
	}{
		{"horizontal", Segment{X1: 0, Y1: 0, X2: 10, Y2: 0}, Segment{X1: 0, Y1: 5, X2: 10, Y2: 5}},
		{"diagonal", Segment{X1: 0, Y1: 0, X2: 10, Y2: 10}, Segment{X1: 0, Y1: 3, X2: 10, Y2: 13}},
		{"coincident", Segment{X1: 0, Y1: 0, X2: 10, Y2: 10}, Segment{X1: 20, Y1: 20, X2: 30, Y2: 30}},
		{"vertical", Segment{X1: 4, Y1: 0, X2: 4, Y2: 10}, Segment{X1: 9, Y1: 0, X2: 9, Y2: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p, ok := Intersect(tt.a.Line(), tt.b.Line()); ok {
				t.Errorf("expected no intersection, got %v", p)
			}
		})
	}
}

func TestSegmentSlopeAndLength(t *testing.T) {
	s := Segment{X1: 0, Y1: 0, X2: 3, Y2: 4}
	if s.Slope() != 4.0/3.0 {
		t.Errorf("Slope: got %g, want %g", s.Slope(), 4.0/3.0)
	}
	if s.Length() != 5 {
		t.Errorf("Length: got %g, want 5", s.Length())
	}
	if s.Vertical() {
		t.Error("segment should not be vertical")
	}
	if !(Segment{X1: 2, Y1: 0, X2: 2, Y2: 9}).Vertical() {
		t.Error("segment with x1 == x2 should be vertical")
	}
}
