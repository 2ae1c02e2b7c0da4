package detection

import (
	"fmt"

	"zoneguard-worker-go/internal/models"
)

// DecodeOptions controls YOLOv8 output decoding
type DecodeOptions struct {
	ConfidenceThreshold float32
	// Scale from model input pixels back to frame pixels
	XFactor float32
	YFactor float32
	Filter  *ClassFilter
	Classes []string
}

// DecodeYOLOv8 turns a raw [1, 4+C, N] YOLOv8 output tensor into target
// detections above the confidence threshold. Rows 0..3 hold cx, cy, w, h in
// model input pixels, the remaining rows hold per-class scores. NMS is left
// to the caller.
func DecodeYOLOv8(data []float32, rows, cols int, opts DecodeOptions) ([]models.Detection, error) {
	if rows < 5 {
		return nil, fmt.Errorf("unexpected YOLOv8 output rows %d", rows)
	}
	if len(data) < rows*cols {
		return nil, fmt.Errorf("YOLOv8 output too short: %d < %d", len(data), rows*cols)
	}

	numClasses := rows - 4
	var out []models.Detection

	for i := 0; i < cols; i++ {
		bestID := -1
		var bestScore float32
		for c := 0; c < numClasses; c++ {
			s := data[(4+c)*cols+i]
			if s > bestScore {
				bestScore = s
				bestID = c
			}
		}

		if bestID < 0 || bestScore < opts.ConfidenceThreshold {
			continue
		}
		if opts.Filter != nil && !opts.Filter.AllowsID(bestID) {
			continue
		}

		cx := data[i]
		cy := data[cols+i]
		w := data[2*cols+i]
		h := data[3*cols+i]

		box := models.BoundingBox{
			X1: int((cx - w/2) * opts.XFactor),
			Y1: int((cy - h/2) * opts.YFactor),
			X2: int((cx + w/2) * opts.XFactor),
			Y2: int((cy + h/2) * opts.YFactor),
		}

		out = append(out, models.Detection{
			Box:        box,
			ClassID:    bestID,
			ClassLabel: classLabel(opts.Classes, bestID),
			Score:      bestScore,
		})
	}

	return out, nil
}

func classLabel(table []string, id int) string {
	if id >= 0 && id < len(table) {
		return table[id]
	}
	return fmt.Sprintf("class_%d", id)
}
