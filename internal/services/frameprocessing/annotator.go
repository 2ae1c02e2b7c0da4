package frameprocessing

import (
	"image"
	"strings"

	"github.com/rs/zerolog/log"

	"zoneguard-worker-go/internal/helpers"
	"zoneguard-worker-go/internal/intrusion"
	"zoneguard-worker-go/internal/models"
	"zoneguard-worker-go/internal/services/frameprocessing/solutions"
)

// Annotator draws classification results, the zone and the alert overlay
type Annotator struct {
	zone       intrusion.Zone
	showStatus bool
}

// NewAnnotator creates an annotator for zone
func NewAnnotator(zone intrusion.Zone, showStatus bool) *Annotator {
	return &Annotator{zone: zone, showStatus: showStatus}
}

// Annotate returns a copy of frame with the overlays drawn. The input frame
// and result are left untouched.
func (a *Annotator) Annotate(frame *models.Frame, result intrusion.FrameResult) (*models.Frame, error) {
	out := frame.Clone()

	mat, err := helpers.FrameToMat(out)
	if err != nil {
		log.Error().Err(err).Str("source_id", frame.SourceID).Msg("Failed to create Mat from frame data")
		return nil, err
	}
	defer mat.Close()

	for _, cd := range result.Detections {
		b := cd.Detection.Box
		solutions.DrawDetection(&mat, image.Rect(b.X1, b.Y1, b.X2, b.Y2), cd.ReferencePoint, displayLabel(cd.Detection.ClassLabel), cd.Inside)
	}

	solutions.DrawZone(&mat, a.zone.Vertices(), solutions.ColorZone, 2)

	if result.Alert {
		solutions.DrawIntrusion(&mat)
	}

	if a.showStatus {
		y := mat.Rows() - 20
		solutions.DrawStatus(&mat, result.Alert, len(result.Detections), result.InsideCount(), &y)
	}

	out.Data = mat.ToBytes()
	return out, nil
}

// displayLabel capitalizes the class label, "person" -> "Person"
func displayLabel(label string) string {
	if label == "" {
		return "Object"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
