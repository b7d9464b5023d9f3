// internal/link/geo_test.go
package link

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name string
		a, b Coordinate
		want float64
		tol  float64
	}{
		{"same point", Coordinate{40.4676639, -117.06286}, Coordinate{40.4676639, -117.06286}, 0, 1e-6},
		{"one degree of longitude at equator", Coordinate{0, 0}, Coordinate{0, 1}, 2 * math.Pi * EarthRadius / 360, 0.01},
		{"one degree of latitude", Coordinate{10, 20}, Coordinate{11, 20}, 2 * math.Pi * EarthRadius / 360, 0.01},
		{"antipodes", Coordinate{0, 0}, Coordinate{0, 180}, math.Pi * EarthRadius, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("Haversine = %f, want %f", got, tt.want)
			}
			if back := Haversine(tt.b, tt.a); math.Abs(back-got) > 1e-6 {
				t.Fatalf("not symmetric: %f vs %f", got, back)
			}
		})
	}
}
