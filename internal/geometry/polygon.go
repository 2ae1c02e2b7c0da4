package geometry

import "fmt"

// Point is a 2D integer pixel coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns "(x,y)"
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Containment is the result of a point-in-polygon test
type Containment int

const (
	Outside Containment = iota
	OnBoundary
	Inside
)

// String returns the string representation of Containment
func (c Containment) String() string {
	switch c {
	case Inside:
		return "inside"
	case OnBoundary:
		return "on_boundary"
	default:
		return "outside"
	}
}

// Hit reports whether the point is inside the polygon or on its boundary
func (c Containment) Hit() bool {
	return c == Inside || c == OnBoundary
}

// Contains tests p against the implicitly closed polygon.
//
// Every edge is checked for an exact boundary hit first, then the crossing
// number of a ray cast towards +X decides Inside/Outside (even-odd rule, same
// as OpenCV pointPolygonTest). All arithmetic is exact int64, so repeated
// vertices, collinear runs, and horizontal or vertical edges need no
// tolerance handling.
func Contains(polygon []Point, p Point) Containment {
	n := len(polygon)
	if n == 0 {
		return Outside
	}

	crossings := 0
	for i := 0; i < n; i++ {
		a := polygon[i]
		b := polygon[(i+1)%n]

		if onSegment(a, b, p) {
			return OnBoundary
		}

		// Half-open rule: an edge counts when exactly one endpoint is above p.
		// Horizontal edges never count.
		if (a.Y > p.Y) == (b.Y > p.Y) {
			continue
		}

		c := cross(a, b, p)
		if b.Y > a.Y {
			if c > 0 {
				crossings++
			}
		} else if c < 0 {
			crossings++
		}
	}

	if crossings%2 == 1 {
		return Inside
	}
	return Outside
}

// cross is the z component of (b-a) x (p-a)
func cross(a, b, p Point) int64 {
	return int64(b.X-a.X)*int64(p.Y-a.Y) - int64(p.X-a.X)*int64(b.Y-a.Y)
}

func onSegment(a, b, p Point) bool {
	if cross(a, b, p) != 0 {
		return false
	}
	return p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) &&
		p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
}
