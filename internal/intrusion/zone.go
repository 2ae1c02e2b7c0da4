package intrusion

import (
	"errors"
	"fmt"

	"zoneguard-worker-go/internal/geometry"
)

// MinZoneVertices is the smallest vertex count that encloses an area
const MinZoneVertices = 3

// ErrInvalidZone is returned when a zone cannot form a polygon
var ErrInvalidZone = errors.New("invalid zone")

// Zone is the restricted region in raw frame pixel coordinates. The polygon
// is implicitly closed and immutable once constructed.
type Zone struct {
	vertices []geometry.Point
}

// NewZone copies the vertex list into a Zone
func NewZone(vertices []geometry.Point) (Zone, error) {
	if len(vertices) < MinZoneVertices {
		return Zone{}, fmt.Errorf("%w: need at least %d vertices, got %d", ErrInvalidZone, MinZoneVertices, len(vertices))
	}

	v := make([]geometry.Point, len(vertices))
	copy(v, vertices)
	return Zone{vertices: v}, nil
}

// MustZone is NewZone for static vertex lists; it panics on error
func MustZone(vertices ...geometry.Point) Zone {
	z, err := NewZone(vertices)
	if err != nil {
		panic(err)
	}
	return z
}

// Vertices returns a copy of the vertex list in traversal order
func (z Zone) Vertices() []geometry.Point {
	v := make([]geometry.Point, len(z.vertices))
	copy(v, z.vertices)
	return v
}

// Len returns the vertex count
func (z Zone) Len() int { return len(z.vertices) }

// Classify runs the containment test for p
func (z Zone) Classify(p geometry.Point) geometry.Containment {
	return geometry.Contains(z.vertices, p)
}

// Contains reports whether p is inside the zone or on its boundary
func (z Zone) Contains(p geometry.Point) bool {
	return z.Classify(p).Hit()
}
