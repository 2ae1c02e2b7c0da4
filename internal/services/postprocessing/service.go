package postprocessing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"zoneguard-worker-go/internal/config"
	"zoneguard-worker-go/internal/intrusion"
	"zoneguard-worker-go/internal/models"
)

// ImageEncoder renders a frame as a base64 JPEG for the alert context image
type ImageEncoder func(frame *models.Frame, quality, maxWidth int) (string, error)

// Service turns alerting frame results into NATS alert payloads, one per
// source per cooldown window
type Service struct {
	cfg       *config.Config
	publisher models.MessagePublisher
	zone      intrusion.Zone
	encode    ImageEncoder
	now       func() time.Time

	cooldownMu sync.RWMutex
	lastSent   map[string]time.Time
	cooldown   time.Duration
}

// NewService creates a new postprocessing service. encode may be nil to
// skip context images.
func NewService(cfg *config.Config, publisher models.MessagePublisher, zone intrusion.Zone, encode ImageEncoder) (*Service, error) {
	if publisher == nil {
		return nil, fmt.Errorf("message publisher is required")
	}

	s := &Service{
		cfg:       cfg,
		publisher: publisher,
		zone:      zone,
		encode:    encode,
		now:       time.Now,
		lastSent:  make(map[string]time.Time),
		cooldown:  cfg.AlertsCooldown,
	}

	log.Info().
		Dur("cooldown", s.cooldown).
		Str("subject", cfg.AlertsSubject).
		Bool("context_image", cfg.AlertContextImage && encode != nil).
		Msg("Post-processing service initialized")

	return s, nil
}

// Shutdown stops the service gracefully
func (s *Service) Shutdown(ctx context.Context) error {
	log.Info().Msg("Post-processing service shutdown")
	return nil
}

// ProcessFrameResult publishes a zone intrusion alert for an alerting frame.
// It reports whether an alert was sent; non-alerting frames and frames inside
// the cooldown window are skipped.
func (s *Service) ProcessFrameResult(frame *models.Frame, result intrusion.FrameResult) (bool, error) {
	if !result.Alert {
		return false, nil
	}

	key := models.AlertCooldownKey{SourceID: frame.SourceID, AlertType: models.AlertTypeZoneIntrusion}
	if !s.CheckCooldown(key) {
		log.Debug().
			Str("source_id", frame.SourceID).
			Int64("frame_id", frame.FrameID).
			Msg("Alert blocked by cooldown")
		return false, nil
	}

	start := s.now()
	payload := s.BuildAlert(frame, result)

	if s.cfg.AlertContextImage && s.encode != nil {
		img, err := s.encode(frame, s.cfg.AlertImageQuality, s.cfg.AlertMaxImageWidth)
		if err != nil {
			log.Warn().Err(err).Str("source_id", frame.SourceID).Msg("Failed to encode alert context image, sending without it")
		} else {
			payload.ContextImage = &img
		}
	}

	payload.Metadata["processing_time_ms"] = s.now().Sub(start).Milliseconds()

	if err := s.publisher.Publish(s.cfg.AlertsSubject, payload); err != nil {
		log.Error().
			Err(err).
			Str("source_id", frame.SourceID).
			Str("alert_type", string(payload.Alert.AlertType)).
			Msg("Failed to publish alert")
		return false, fmt.Errorf("publish alert: %w", err)
	}

	s.UpdateCooldown(key)

	log.Info().
		Str("alert_id", payload.ID).
		Str("source_id", frame.SourceID).
		Int64("frame_id", frame.FrameID).
		Int("intruders", len(payload.Intruders)).
		Str("severity", string(payload.Alert.Severity)).
		Msg("Alert published successfully")

	return true, nil
}

// BuildAlert assembles the payload for an alerting frame without a context image
func (s *Service) BuildAlert(frame *models.Frame, result intrusion.FrameResult) models.AlertPayload {
	intruders := make([]models.Intruder, 0, result.InsideCount())
	for _, cd := range result.Detections {
		if !cd.Inside {
			continue
		}
		intruders = append(intruders, models.Intruder{
			ClassLabel:     cd.Detection.ClassLabel,
			Score:          cd.Detection.Score,
			BBox:           cd.Detection.Box,
			ReferencePoint: cd.ReferencePoint,
		})
	}

	ts := frame.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	return models.AlertPayload{
		ID:       uuid.NewString(),
		WorkerID: s.cfg.WorkerID,
		Frame:    frame.Metadata(),
		Alert: models.Alert{
			AlertType:   models.AlertTypeZoneIntrusion,
			Severity:    Severity(len(intruders)),
			Title:       "Danger zone intrusion",
			Description: fmt.Sprintf("%d of %d detections inside the danger zone on %s", len(intruders), len(result.Detections), frame.SourceID),
			Timestamp:   ts,
		},
		Intruders:      intruders,
		DetectionCount: len(result.Detections),
		Zone:           s.zone.Vertices(),
		Metadata: map[string]interface{}{
			"frame_dimensions": map[string]interface{}{
				"width":  frame.Width,
				"height": frame.Height,
			},
		},
	}
}

// Severity grades an alert by how many objects are inside the zone
func Severity(intruders int) models.AlertSeverity {
	switch {
	case intruders >= 3:
		return models.AlertSeverityCritical
	case intruders >= 1:
		return models.AlertSeverityHigh
	default:
		return models.AlertSeverityLow
	}
}

// CheckCooldown checks if enough time has passed since the last alert
func (s *Service) CheckCooldown(key models.AlertCooldownKey) bool {
	s.cooldownMu.RLock()
	defer s.cooldownMu.RUnlock()

	lastSent, exists := s.lastSent[key.String()]
	if !exists {
		return true
	}

	return s.now().Sub(lastSent) >= s.cooldown
}

// UpdateCooldown updates the last sent time for a cooldown key
func (s *Service) UpdateCooldown(key models.AlertCooldownKey) {
	s.cooldownMu.Lock()
	defer s.cooldownMu.Unlock()

	s.lastSent[key.String()] = s.now()
}
