package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoneguard-worker-go/internal/geometry"
)

func TestReferencePoint(t *testing.T) {
	tests := []struct {
		name string
		box  BoundingBox
		want geometry.Point
	}{
		{"even width", BoundingBox{10, 20, 30, 60}, geometry.Point{X: 20, Y: 60}},
		{"odd width truncates", BoundingBox{10, 20, 31, 60}, geometry.Point{X: 20, Y: 60}},
		{"odd sum truncates", BoundingBox{2, 2, 7, 18}, geometry.Point{X: 4, Y: 18}},
		{"zero size", BoundingBox{5, 5, 5, 5}, geometry.Point{X: 5, Y: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.box.ReferencePoint())
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, BoundingBox{1, 2, 3, 4}.Validate())
	require.NoError(t, BoundingBox{3, 3, 3, 3}.Validate())

	err := BoundingBox{30, 20, 10, 60}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBoundingBox))

	err = BoundingBox{10, 60, 30, 20}.Validate()
	assert.ErrorIs(t, err, ErrInvalidBoundingBox)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, BoundingBox{10, 20, 30, 60}, BoundingBox{30, 60, 10, 20}.Normalize())
	assert.Equal(t, BoundingBox{10, 20, 30, 60}, BoundingBox{10, 60, 30, 20}.Normalize())
	assert.Equal(t, BoundingBox{1, 2, 3, 4}, BoundingBox{1, 2, 3, 4}.Normalize())
}

func TestClamp(t *testing.T) {
	got := BoundingBox{-5, -10, 700, 500}.Clamp(640, 480)
	assert.Equal(t, BoundingBox{0, 0, 639, 479}, got)

	got = BoundingBox{700, 10, 600, 20}.Clamp(640, 480)
	assert.Equal(t, BoundingBox{600, 10, 639, 20}, got)
	assert.NoError(t, got.Validate())
}

func TestFrameClone(t *testing.T) {
	f := &Frame{FrameID: 7, Width: 2, Height: 1, Data: []byte{1, 2, 3, 4, 5, 6}}
	c := f.Clone()
	c.Data[0] = 99

	assert.Equal(t, byte(1), f.Data[0])
	assert.Equal(t, int64(7), c.Metadata().FrameID)
}
