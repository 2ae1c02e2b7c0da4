package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"zoneguard-worker-go/internal/api/handlers"
	"zoneguard-worker-go/internal/config"
	"zoneguard-worker-go/internal/helpers"
	"zoneguard-worker-go/internal/intrusion"
	"zoneguard-worker-go/internal/models"
	"zoneguard-worker-go/internal/services/detection"
	"zoneguard-worker-go/internal/services/detection/onnx"
	"zoneguard-worker-go/internal/services/detection/remote"
	"zoneguard-worker-go/internal/services/frameprocessing"
	"zoneguard-worker-go/internal/services/messaging"
	"zoneguard-worker-go/internal/services/postprocessing"
	"zoneguard-worker-go/internal/services/publisher/display"
	"zoneguard-worker-go/internal/services/publisher/mjpeg"
	"zoneguard-worker-go/internal/services/recorder"
	"zoneguard-worker-go/internal/services/streamcapture"
	"zoneguard-worker-go/internal/worker"
)

type closableDetector interface {
	worker.Detector
	Close() error
}

// ServiceContainer holds all services
type ServiceContainer struct {
	Config *config.Config
	Zone   intrusion.Zone

	Source         *streamcapture.Source
	Detector       closableDetector
	RemoteDetector *remote.Service
	Annotator      *frameprocessing.Annotator
	Display        *display.Window
	MJPEG          *mjpeg.Publisher
	Recorder       *recorder.Service
	MessageSvc     *messaging.Service
	AlertSvc       *postprocessing.Service
	Worker         *worker.Worker
}

// NewServiceContainer creates every pipeline stage from cfg. Anything opened
// before a failure is released again.
func NewServiceContainer(cfg *config.Config, zone intrusion.Zone) (sc *ServiceContainer, err error) {
	sc = &ServiceContainer{Config: cfg, Zone: zone}
	defer func() {
		if err != nil {
			sc.Shutdown(context.Background())
			sc = nil
		}
	}()

	filter, err := detection.NewClassFilter(detection.COCOClasses, cfg.TargetClasses)
	if err != nil {
		return sc, fmt.Errorf("invalid TARGET_CLASSES: %w", err)
	}

	switch cfg.DetectorBackend {
	case "grpc":
		remoteSvc, err := remote.NewService(cfg, filter)
		if err != nil {
			return sc, fmt.Errorf("failed to create remote detector: %w", err)
		}
		sc.RemoteDetector = remoteSvc
		sc.Detector = remoteSvc
	default:
		onnxDet, err := onnx.NewDetector(cfg, filter)
		if err != nil {
			return sc, fmt.Errorf("failed to load model: %w", err)
		}
		sc.Detector = onnxDet
	}

	sc.Source, err = streamcapture.Open(cfg)
	if err != nil {
		return sc, err
	}

	// NATS is optional; without it alerts are only drawn
	var publisher models.MessagePublisher
	if cfg.NatsEnabled {
		sc.MessageSvc, err = messaging.NewService(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("NATS unavailable, alerts will not be published")
			err = nil
		} else {
			publisher = sc.MessageSvc
		}
	}

	if publisher != nil {
		var encode postprocessing.ImageEncoder
		if cfg.AlertContextImage {
			encode = helpers.EncodeJPEGBase64
		}
		sc.AlertSvc, err = postprocessing.NewService(cfg, publisher, zone, encode)
		if err != nil {
			return sc, err
		}
	}

	sc.Annotator = frameprocessing.NewAnnotator(zone, true)

	var sinks []worker.Sink
	if cfg.DisplayEnabled {
		sc.Display = display.NewWindow(cfg.WindowName, cfg.DisplayWidth)
		sinks = append(sinks, worker.Sink{Name: "display", FrameSink: sc.Display})
	}
	if cfg.MJPEGEnabled {
		sc.MJPEG = mjpeg.NewPublisher(cfg.MJPEGQuality, func(frame *models.Frame, quality int) ([]byte, error) {
			return helpers.EncodeJPEG(frame, quality, 0)
		})
		sinks = append(sinks, worker.Sink{Name: "mjpeg", FrameSink: sc.MJPEG})
	}
	if cfg.VideoOutputPath != "" {
		sc.Recorder, err = recorder.NewService(cfg, sc.Source.FPS(), publisher)
		if err != nil {
			return sc, err
		}
		sinks = append(sinks, worker.Sink{Name: "recorder", FrameSink: sc.Recorder})
	}

	deps := worker.Deps{
		Source:    sc.Source,
		Detector:  sc.Detector,
		Engine:    intrusion.NewEngine(zone),
		Annotator: sc.Annotator,
		Sinks:     sinks,
	}
	if sc.AlertSvc != nil {
		deps.Alerts = sc.AlertSvc
	}

	sc.Worker, err = worker.New(deps)
	if err != nil {
		return sc, err
	}

	log.Info().
		Str("backend", cfg.DetectorBackend).
		Strs("classes", filter.Labels()).
		Int("sinks", len(sinks)).
		Bool("alerts", sc.AlertSvc != nil).
		Msg("Service container initialized")

	return sc, nil
}

// APIDeps exposes the container to the HTTP layer
func (sc *ServiceContainer) APIDeps() (handlers.PipelineReader, handlers.Streamer, map[string]handlers.HealthCheckFunc) {
	checks := map[string]handlers.HealthCheckFunc{}
	if sc.MessageSvc != nil {
		checks["nats"] = sc.MessageSvc.IsConnected
	}
	if sc.RemoteDetector != nil {
		checks["detector"] = sc.RemoteDetector.IsHealthy
	}

	var streamer handlers.Streamer
	if sc.MJPEG != nil {
		streamer = sc.MJPEG
	}
	return sc.Worker, streamer, checks
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	var errs []error

	if sc.MJPEG != nil {
		errs = append(errs, sc.MJPEG.Close())
	}
	if sc.Recorder != nil {
		errs = append(errs, sc.Recorder.Close())
	}
	if sc.Display != nil {
		errs = append(errs, sc.Display.Close())
	}
	if sc.Source != nil {
		errs = append(errs, sc.Source.Close())
	}
	if sc.Detector != nil {
		errs = append(errs, sc.Detector.Close())
	}
	if sc.AlertSvc != nil {
		errs = append(errs, sc.AlertSvc.Shutdown(ctx))
	}
	// after the recorder so its metadata can still be published
	if sc.MessageSvc != nil {
		errs = append(errs, sc.MessageSvc.Shutdown(ctx))
	}

	return errors.Join(errs...)
}
