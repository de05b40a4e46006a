package geo

import (
	"math"
	"testing"
)

func TestWithinRange(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		max                    float64
		want                   bool
	}{
		{"too far", 0, 0, 40, 0, 30, false},
		{"inside", 0, 0, 20, 0, 30, true},
		{"on the boundary", 0, 0, 30, 0, 30, true},
		{"diagonal 3-4-5", 1, 1, 4, 5, 5, true},
		{"diagonal just out", 1, 1, 4, 5, 4.99, false},
		{"same point zero radius", 7, 7, 7, 7, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WithinRange(tc.lat1, tc.lon1, tc.lat2, tc.lon2, tc.max); got != tc.want {
				t.Fatalf("WithinRange = %v, want %v (distance %v)", got, tc.want,
					Distance(tc.lat1, tc.lon1, tc.lat2, tc.lon2))
			}
		})
	}
}

func TestDistanceIsPlanar(t *testing.T) {
	if d := Distance(10, 20, 40, 60); math.Abs(d-50) > 1e-12 {
		t.Fatalf("expected 50, got %v", d)
	}
	if Distance(1, 2, 3, 4) != Distance(3, 4, 1, 2) {
		t.Fatalf("distance must be symmetric")
	}
}
