package detection

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"zoneguard-worker-go/internal/models"
)

// Detector yields the detections of interest for one frame
type Detector interface {
	Detect(ctx context.Context, frame *models.Frame) ([]models.Detection, error)
	Close() error
}

// ClassFilter keeps only the configured target classes
type ClassFilter struct {
	names map[int]string
	ids   map[string]int
}

// NewClassFilter resolves target class names against the class table
func NewClassFilter(table []string, targets []string) (*ClassFilter, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no target classes configured")
	}

	index := make(map[string]int, len(table))
	for id, name := range table {
		index[name] = id
	}

	f := &ClassFilter{
		names: make(map[int]string, len(targets)),
		ids:   make(map[string]int, len(targets)),
	}
	for _, t := range targets {
		name := strings.ToLower(strings.TrimSpace(t))
		id, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("unknown target class %q", t)
		}
		f.names[id] = name
		f.ids[name] = id
	}
	return f, nil
}

// AllowsID reports whether the class id is a target
func (f *ClassFilter) AllowsID(id int) bool {
	_, ok := f.names[id]
	return ok
}

// AllowsLabel reports whether the class label is a target
func (f *ClassFilter) AllowsLabel(label string) bool {
	_, ok := f.ids[strings.ToLower(label)]
	return ok
}

// Label returns the class label for a target id
func (f *ClassFilter) Label(id int) string {
	return f.names[id]
}

// Labels returns the target labels
func (f *ClassFilter) Labels() []string {
	out := make([]string, 0, len(f.ids))
	for name := range f.ids {
		out = append(out, name)
	}
	return out
}

// Finalize clamps every box to the frame extent and drops non-target classes.
// Out-of-order corners are logged and normalized.
func Finalize(frame *models.Frame, dets []models.Detection, filter *ClassFilter) []models.Detection {
	out := make([]models.Detection, 0, len(dets))
	for _, det := range dets {
		if filter != nil && !filter.AllowsLabel(det.ClassLabel) {
			continue
		}

		if err := det.Box.Validate(); err != nil {
			log.Debug().
				Err(err).
				Str("source_id", frame.SourceID).
				Int64("frame_id", frame.FrameID).
				Msg("Normalizing malformed bounding box from detector")
		}

		det.Box = det.Box.Clamp(frame.Width, frame.Height)
		out = append(out, det)
	}
	return out
}
