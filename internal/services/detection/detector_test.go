package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoneguard-worker-go/internal/models"
)

func TestNewClassFilter(t *testing.T) {
	f, err := NewClassFilter(COCOClasses, []string{"Person", " car "})
	require.NoError(t, err)

	assert.True(t, f.AllowsID(0))
	assert.True(t, f.AllowsID(2))
	assert.False(t, f.AllowsID(1))
	assert.True(t, f.AllowsLabel("person"))
	assert.True(t, f.AllowsLabel("CAR"))
	assert.False(t, f.AllowsLabel("dog"))
	assert.Equal(t, "person", f.Label(0))
	assert.ElementsMatch(t, []string{"person", "car"}, f.Labels())

	_, err = NewClassFilter(COCOClasses, []string{"unicorn"})
	assert.ErrorContains(t, err, "unicorn")

	_, err = NewClassFilter(COCOClasses, nil)
	assert.Error(t, err)
}

func TestFinalize(t *testing.T) {
	f, err := NewClassFilter(COCOClasses, []string{"person"})
	require.NoError(t, err)

	frame := &models.Frame{SourceID: "cam", FrameID: 3, Width: 100, Height: 50}
	dets := []models.Detection{
		{Box: models.BoundingBox{X1: -10, Y1: 5, X2: 120, Y2: 60}, ClassLabel: "person"},
		{Box: models.BoundingBox{X1: 1, Y1: 1, X2: 2, Y2: 2}, ClassLabel: "dog"},
		{Box: models.BoundingBox{X1: 40, Y1: 30, X2: 20, Y2: 10}, ClassLabel: "person"},
	}

	got := Finalize(frame, dets, f)
	require.Len(t, got, 2)
	assert.Equal(t, models.BoundingBox{X1: 0, Y1: 5, X2: 99, Y2: 49}, got[0].Box)
	assert.Equal(t, models.BoundingBox{X1: 20, Y1: 10, X2: 40, Y2: 30}, got[1].Box)

	assert.Len(t, Finalize(frame, dets, nil), 3)
}

func TestDecodeYOLOv8(t *testing.T) {
	// 3 classes, 3 anchors: rows = 4 + 3
	const rows, cols = 7, 3
	data := make([]float32, rows*cols)
	set := func(row, col int, v float32) { data[row*cols+col] = v }

	// anchor 0: person at 0.9, box centered (100,100) 40x80
	set(0, 0, 100)
	set(1, 0, 100)
	set(2, 0, 40)
	set(3, 0, 80)
	set(4, 0, 0.9)
	set(5, 0, 0.1)

	// anchor 1: bicycle wins at 0.8, filtered out
	set(0, 1, 50)
	set(1, 1, 50)
	set(2, 1, 10)
	set(3, 1, 10)
	set(4, 1, 0.3)
	set(5, 1, 0.8)

	// anchor 2: person below threshold
	set(0, 2, 10)
	set(1, 2, 10)
	set(2, 2, 4)
	set(3, 2, 4)
	set(4, 2, 0.1)

	f, err := NewClassFilter(COCOClasses, []string{"person"})
	require.NoError(t, err)

	got, err := DecodeYOLOv8(data, rows, cols, DecodeOptions{
		ConfidenceThreshold: 0.25,
		XFactor:             2,
		YFactor:             0.5,
		Filter:              f,
		Classes:             COCOClasses,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, models.BoundingBox{X1: 160, Y1: 30, X2: 240, Y2: 70}, got[0].Box)
	assert.Equal(t, "person", got[0].ClassLabel)
	assert.Equal(t, 0, got[0].ClassID)
	assert.InDelta(t, 0.9, got[0].Score, 1e-6)
}

func TestDecodeYOLOv8RejectsBadShape(t *testing.T) {
	_, err := DecodeYOLOv8(make([]float32, 8), 4, 2, DecodeOptions{})
	assert.Error(t, err)

	_, err = DecodeYOLOv8(make([]float32, 10), 5, 3, DecodeOptions{})
	assert.Error(t, err)
}
