package intrusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoneguard-worker-go/internal/geometry"
)

func TestNewZoneRejectsTooFewVertices(t *testing.T) {
	for n := 0; n < MinZoneVertices; n++ {
		_, err := NewZone(make([]geometry.Point, n))
		assert.ErrorIs(t, err, ErrInvalidZone, "n=%d", n)
	}
}

func TestNewZoneCopiesVertices(t *testing.T) {
	pts := []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	z, err := NewZone(pts)
	require.NoError(t, err)

	pts[0] = geometry.Point{X: 99, Y: 99}
	assert.Equal(t, geometry.Point{X: 0, Y: 0}, z.Vertices()[0])

	v := z.Vertices()
	v[1] = geometry.Point{X: -1, Y: -1}
	assert.Equal(t, geometry.Point{X: 10, Y: 0}, z.Vertices()[1])
}

func TestZoneContains(t *testing.T) {
	assert.True(t, square.Contains(geometry.Point{X: 5, Y: 5}))
	assert.True(t, square.Contains(geometry.Point{X: 0, Y: 3}))
	assert.False(t, square.Contains(geometry.Point{X: 5, Y: 11}))
	assert.Equal(t, geometry.OnBoundary, square.Classify(geometry.Point{X: 10, Y: 0}))
}

func TestMustZonePanics(t *testing.T) {
	assert.Panics(t, func() { MustZone(geometry.Point{}) })
}
