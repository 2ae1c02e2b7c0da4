package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var square = []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

func TestContainsSquare(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want Containment
	}{
		{"center", Point{5, 5}, Inside},
		{"near corner", Point{1, 1}, Inside},
		{"left of", Point{-1, 5}, Outside},
		{"right of", Point{11, 5}, Outside},
		{"below", Point{5, 18}, Outside},
		{"above", Point{5, -3}, Outside},
		{"bottom edge", Point{5, 10}, OnBoundary},
		{"top edge", Point{5, 0}, OnBoundary},
		{"left edge", Point{0, 5}, OnBoundary},
		{"right edge", Point{10, 7}, OnBoundary},
		{"vertex", Point{10, 10}, OnBoundary},
		{"origin vertex", Point{0, 0}, OnBoundary},
		{"in line with top edge but outside", Point{15, 0}, Outside},
		{"in line with bottom edge but outside", Point{-4, 10}, Outside},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(square, tt.p))
		})
	}
}

func TestContainsWindingDirectionIrrelevant(t *testing.T) {
	clockwise := []Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	for _, p := range []Point{{5, 5}, {5, 10}, {20, 20}, {0, 0}} {
		assert.Equal(t, Contains(square, p), Contains(clockwise, p), "point %s", p)
	}
}

func TestContainsConcave(t *testing.T) {
	// U shape open at the top, notch between x=4..6 down to y=5
	u := []Point{{0, 0}, {4, 0}, {4, 5}, {6, 5}, {6, 0}, {10, 0}, {10, 10}, {0, 10}}

	assert.Equal(t, Outside, Contains(u, Point{5, 2}), "inside the notch")
	assert.Equal(t, Inside, Contains(u, Point{2, 2}))
	assert.Equal(t, Inside, Contains(u, Point{8, 2}))
	assert.Equal(t, Inside, Contains(u, Point{5, 7}))
	assert.Equal(t, OnBoundary, Contains(u, Point{5, 5}), "notch floor")
	assert.Equal(t, Outside, Contains(u, Point{5, 0}), "gap between the arms")
}

func TestContainsRayThroughVertex(t *testing.T) {
	diamond := []Point{{5, 0}, {10, 5}, {5, 10}, {0, 5}}

	assert.Equal(t, Inside, Contains(diamond, Point{5, 5}))
	// ray from (1,5) passes exactly through vertex (10,5)
	assert.Equal(t, Inside, Contains(diamond, Point{1, 5}))
	// ray from (-2,5) passes through both (0,5) and (10,5)
	assert.Equal(t, Outside, Contains(diamond, Point{-2, 5}))
	assert.Equal(t, OnBoundary, Contains(diamond, Point{0, 5}))
	assert.Equal(t, Outside, Contains(diamond, Point{1, 1}))
}

func TestContainsDegenerateVertices(t *testing.T) {
	repeated := []Point{{0, 0}, {0, 0}, {10, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 10}}
	collinear := []Point{{0, 0}, {5, 0}, {10, 0}, {10, 5}, {10, 10}, {0, 10}}

	for _, poly := range [][]Point{repeated, collinear} {
		assert.Equal(t, Inside, Contains(poly, Point{5, 5}))
		assert.Equal(t, OnBoundary, Contains(poly, Point{5, 0}))
		assert.Equal(t, OnBoundary, Contains(poly, Point{10, 5}))
		assert.Equal(t, Outside, Contains(poly, Point{12, 5}))
	}
}

func TestContainsCollapsedPolygon(t *testing.T) {
	line := []Point{{0, 0}, {5, 5}, {10, 10}}

	assert.Equal(t, OnBoundary, Contains(line, Point{3, 3}))
	assert.Equal(t, Outside, Contains(line, Point{3, 4}))
	assert.Equal(t, Outside, Contains(nil, Point{0, 0}))
}

func TestContainsLargeCoordinates(t *testing.T) {
	// default 4K-portrait zone
	zone := []Point{{6, 2404}, {651, 2424}, {627, 3012}, {6, 3019}}

	assert.Equal(t, Inside, Contains(zone, Point{300, 2700}))
	assert.Equal(t, Outside, Contains(zone, Point{300, 2000}))
	assert.Equal(t, OnBoundary, Contains(zone, Point{6, 2700}))
	assert.Equal(t, Outside, Contains(zone, Point{700, 2700}))
}

func TestContainmentHit(t *testing.T) {
	assert.True(t, Inside.Hit())
	assert.True(t, OnBoundary.Hit())
	assert.False(t, Outside.Hit())
	assert.Equal(t, "on_boundary", OnBoundary.String())
	assert.Equal(t, "(3,4)", Point{3, 4}.String())
}
