package models

import (
	"errors"
	"fmt"
	"time"

	"zoneguard-worker-go/internal/geometry"
)

// ErrInvalidBoundingBox is reported for boxes with x1 > x2 or y1 > y2
var ErrInvalidBoundingBox = errors.New("invalid bounding box")

// BoundingBox holds pixel corners of a detection, (X1,Y1) top-left and (X2,Y2) bottom-right
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Validate returns ErrInvalidBoundingBox when the corners are out of order
func (b BoundingBox) Validate() error {
	if b.X1 > b.X2 || b.Y1 > b.Y2 {
		return fmt.Errorf("%w: (%d,%d,%d,%d)", ErrInvalidBoundingBox, b.X1, b.Y1, b.X2, b.Y2)
	}
	return nil
}

// Normalize swaps out-of-order corners so that X1 <= X2 and Y1 <= Y2
func (b BoundingBox) Normalize() BoundingBox {
	if b.X1 > b.X2 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y1 > b.Y2 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
	return b
}

// Clamp limits the box to a width x height frame. The result is normalized.
func (b BoundingBox) Clamp(width, height int) BoundingBox {
	b = b.Normalize()
	b.X1 = clampInt(b.X1, 0, width-1)
	b.X2 = clampInt(b.X2, 0, width-1)
	b.Y1 = clampInt(b.Y1, 0, height-1)
	b.Y2 = clampInt(b.Y2, 0, height-1)
	return b
}

// ReferencePoint is where the object stands: horizontal center of the box
// (truncated toward zero) on its bottom edge.
func (b BoundingBox) ReferencePoint() geometry.Point {
	return geometry.Point{X: (b.X1 + b.X2) / 2, Y: b.Y2}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Detection is one detected object instance in one frame
type Detection struct {
	Box        BoundingBox `json:"bbox"`
	ClassLabel string      `json:"class_label"`
	ClassID    int         `json:"class_id"`
	Score      float32     `json:"score"`
}

// AlertType represents different types of alerts that can be generated
type AlertType string

const (
	AlertTypeZoneIntrusion AlertType = "ZONE_INTRUSION"
)

// AlertSeverity represents the severity level of alerts
type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "LOW"
	AlertSeverityHigh     AlertSeverity = "HIGH"
	AlertSeverityCritical AlertSeverity = "CRITICAL"
)

// FrameMetadata contains frame-level information
type FrameMetadata struct {
	FrameID   int64     `json:"frame_id"`
	Timestamp time.Time `json:"timestamp"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	SourceID  string    `json:"source_id"`
}

// Intruder is a detection whose reference point fell inside the zone
type Intruder struct {
	ClassLabel     string         `json:"class_label"`
	Score          float32        `json:"score"`
	BBox           BoundingBox    `json:"bbox"`
	ReferencePoint geometry.Point `json:"reference_point"`
}

// Alert represents the alert information
type Alert struct {
	AlertType   AlertType     `json:"alert_type"`
	Severity    AlertSeverity `json:"severity"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Timestamp   time.Time     `json:"timestamp"`
}

// AlertPayload represents the structure sent to NATS
type AlertPayload struct {
	ID             string                 `json:"id"`
	WorkerID       string                 `json:"worker_id"`
	Frame          FrameMetadata          `json:"frame"`
	Alert          Alert                  `json:"alert"`
	Intruders      []Intruder             `json:"intruders"`
	DetectionCount int                    `json:"detection_count"`
	Zone           []geometry.Point       `json:"zone"`
	ContextImage   *string                `json:"context_image,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// MessagePublisher interface for publishing alerts
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
}

// AlertCooldownKey identifies one alert stream for cooldown purposes
type AlertCooldownKey struct {
	SourceID  string
	AlertType AlertType
}

// String returns "source:type"
func (k AlertCooldownKey) String() string {
	return k.SourceID + ":" + string(k.AlertType)
}
