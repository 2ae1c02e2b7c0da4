package intrusion

import (
	"zoneguard-worker-go/internal/geometry"
	"zoneguard-worker-go/internal/models"
)

// ClassifiedDetection is a detection with its reference point and zone verdict
type ClassifiedDetection struct {
	Detection      models.Detection `json:"detection"`
	ReferencePoint geometry.Point   `json:"reference_point"`
	Inside         bool             `json:"inside"`
}

// FrameResult is the complete engine output for one frame
type FrameResult struct {
	Detections []ClassifiedDetection `json:"detections"`
	Alert      bool                  `json:"alert"`
}

// InsideCount returns how many detections were classified inside
func (r FrameResult) InsideCount() int {
	n := 0
	for _, d := range r.Detections {
		if d.Inside {
			n++
		}
	}
	return n
}

// Evaluate classifies every detection against zone, in input order.
//
// Out-of-order box corners are swapped before the reference point is taken.
// A point on the zone boundary counts as inside. Alert is false when there
// are no detections.
func Evaluate(zone Zone, detections []models.Detection) FrameResult {
	result := FrameResult{
		Detections: make([]ClassifiedDetection, 0, len(detections)),
	}

	for _, det := range detections {
		det.Box = det.Box.Normalize()
		ref := det.Box.ReferencePoint()
		inside := zone.Contains(ref)

		result.Detections = append(result.Detections, ClassifiedDetection{
			Detection:      det,
			ReferencePoint: ref,
			Inside:         inside,
		})
		if inside {
			result.Alert = true
		}
	}

	return result
}

// Engine evaluates frames against one zone fixed at construction
type Engine struct {
	zone Zone
}

// NewEngine creates an engine for zone
func NewEngine(zone Zone) *Engine {
	return &Engine{zone: zone}
}

// Evaluate runs Evaluate with the engine's zone
func (e *Engine) Evaluate(detections []models.Detection) FrameResult {
	return Evaluate(e.zone, detections)
}

// Zone returns the engine's zone
func (e *Engine) Zone() Zone {
	return e.zone
}
