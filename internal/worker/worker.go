package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"zoneguard-worker-go/internal/intrusion"
	"zoneguard-worker-go/internal/logging"
	"zoneguard-worker-go/internal/models"
)

// FrameSource yields frames in order. ok=false with a nil error is a normal
// end of stream.
type FrameSource interface {
	Next(ctx context.Context) (*models.Frame, bool, error)
	Close() error
}

type Detector interface {
	Detect(ctx context.Context, frame *models.Frame) ([]models.Detection, error)
}

type Annotator interface {
	Annotate(frame *models.Frame, result intrusion.FrameResult) (*models.Frame, error)
}

// FrameSink consumes annotated frames. Returning models.ErrStopRequested ends
// the run cleanly.
type FrameSink interface {
	WriteFrame(frame *models.Frame) error
}

type AlertSink interface {
	ProcessFrameResult(frame *models.Frame, result intrusion.FrameResult) (bool, error)
}

// Sink is a FrameSink with a name for logs and stats
type Sink struct {
	Name string
	FrameSink
}

// Deps bundles the pipeline stages. Annotator and Alerts may be nil.
type Deps struct {
	Source    FrameSource
	Detector  Detector
	Engine    *intrusion.Engine
	Annotator Annotator
	Sinks     []Sink
	Alerts    AlertSink
}

// Status is a point-in-time snapshot of the pipeline
type Status struct {
	Running         bool                   `json:"running"`
	StartedAt       time.Time              `json:"started_at"`
	StoppedAt       time.Time              `json:"stopped_at,omitempty"`
	StopReason      string                 `json:"stop_reason,omitempty"`
	FramesProcessed int64                  `json:"frames_processed"`
	AlertFrames     int64                  `json:"alert_frames"`
	AlertsSent      int64                  `json:"alerts_sent"`
	DetectorErrors  int64                  `json:"detector_errors"`
	AnnotateErrors  int64                  `json:"annotate_errors"`
	SinkErrors      map[string]int64       `json:"sink_errors"`
	AlertErrors     int64                  `json:"alert_errors"`
	LastFrame       *models.FrameMetadata  `json:"last_frame,omitempty"`
	LastResult      *intrusion.FrameResult `json:"last_result,omitempty"`
	FPS             float64                `json:"fps"`
}

// Worker runs the read, detect, classify, annotate, emit loop for one source
type Worker struct {
	deps   Deps
	logger zerolog.Logger

	mutex  sync.RWMutex
	status Status
}

func New(deps Deps) (*Worker, error) {
	if deps.Source == nil || deps.Detector == nil || deps.Engine == nil {
		return nil, fmt.Errorf("worker requires a source, a detector and an engine")
	}

	return &Worker{
		deps:   deps,
		logger: log.With().Str("component", "worker").Logger(),
		status: Status{SinkErrors: make(map[string]int64)},
	}, nil
}

// Run processes frames until the source ends, a sink requests a stop or ctx
// is cancelled; all three return nil. Only a source read failure is an error.
func (w *Worker) Run(ctx context.Context) error {
	w.setRunning()
	w.logger.Info().Int("zone_vertices", w.deps.Engine.Zone().Len()).Int("sinks", len(w.deps.Sinks)).Msg("Worker started")

	reason, err := w.loop(ctx)
	w.setStopped(reason)

	if err != nil {
		w.logger.Error().Err(err).Msg("Worker stopped with error")
		return err
	}
	w.logger.Info().Str("reason", reason).Msg("Worker stopped")
	return nil
}

func (w *Worker) loop(ctx context.Context) (string, error) {
	for {
		if ctx.Err() != nil {
			return "cancelled", nil
		}

		frame, ok, err := w.deps.Source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return "cancelled", nil
			}
			return "source_error", fmt.Errorf("read frame: %w", err)
		}
		if !ok {
			return "end_of_stream", nil
		}

		if err := w.ProcessFrame(ctx, frame); err != nil {
			return "stop_requested", nil
		}
	}
}

// ProcessFrame runs one frame through the pipeline. It only fails with
// models.ErrStopRequested; every other stage error is logged and counted.
func (w *Worker) ProcessFrame(ctx context.Context, frame *models.Frame) error {
	flog := logging.WithFrame(logging.WithSource(w.logger, frame.SourceID), frame.FrameID)

	detections, err := w.deps.Detector.Detect(ctx, frame)
	if err != nil {
		flog.Error().Err(err).Msg("Detection failed, evaluating frame with no detections")
		w.count(func(s *Status) { s.DetectorErrors++ })
		detections = nil
	}

	result := w.deps.Engine.Evaluate(detections)

	flog.Debug().
		Int("detections", len(result.Detections)).
		Int("inside", result.InsideCount()).
		Bool("alert", result.Alert).
		Msg("Frame evaluated")

	w.record(frame, result)

	if w.deps.Alerts != nil {
		sent, err := w.deps.Alerts.ProcessFrameResult(frame, result)
		switch {
		case err != nil:
			w.count(func(s *Status) { s.AlertErrors++ })
		case sent:
			w.count(func(s *Status) { s.AlertsSent++ })
		}
	}

	out := frame
	if w.deps.Annotator != nil {
		annotated, err := w.deps.Annotator.Annotate(frame, result)
		if err != nil {
			flog.Warn().Err(err).Msg("Annotation failed, emitting raw frame")
			w.count(func(s *Status) { s.AnnotateErrors++ })
		} else {
			out = annotated
		}
	}

	var stop error
	for _, sink := range w.deps.Sinks {
		if err := sink.WriteFrame(out); err != nil {
			if errors.Is(err, models.ErrStopRequested) {
				stop = err
				continue
			}
			flog.Warn().Err(err).Str("sink", sink.Name).Msg("Sink write failed")
			w.count(func(s *Status) { s.SinkErrors[sink.Name]++ })
		}
	}
	return stop
}

func (w *Worker) record(frame *models.Frame, result intrusion.FrameResult) {
	meta := frame.Metadata()

	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.status.FramesProcessed++
	if result.Alert {
		w.status.AlertFrames++
	}
	w.status.LastFrame = &meta
	w.status.LastResult = &result

	if elapsed := time.Since(w.status.StartedAt).Seconds(); elapsed > 0 {
		w.status.FPS = float64(w.status.FramesProcessed) / elapsed
	}
}

func (w *Worker) count(fn func(s *Status)) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	fn(&w.status)
}

func (w *Worker) setRunning() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.status.Running = true
	w.status.StartedAt = time.Now()
	w.status.StoppedAt = time.Time{}
	w.status.StopReason = ""
}

func (w *Worker) setStopped(reason string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.status.Running = false
	w.status.StoppedAt = time.Now()
	w.status.StopReason = reason
}

// Status returns a copy of the current pipeline status
func (w *Worker) Status() Status {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	s := w.status
	if w.status.LastResult != nil {
		r := copyResult(*w.status.LastResult)
		s.LastResult = &r
	}
	s.SinkErrors = make(map[string]int64, len(w.status.SinkErrors))
	for k, v := range w.status.SinkErrors {
		s.SinkErrors[k] = v
	}
	return s
}

// LatestResult returns the most recent frame result, false before the first frame
func (w *Worker) LatestResult() (intrusion.FrameResult, models.FrameMetadata, bool) {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	if w.status.LastResult == nil {
		return intrusion.FrameResult{}, models.FrameMetadata{}, false
	}
	return copyResult(*w.status.LastResult), *w.status.LastFrame, true
}

// copyResult detaches the detections slice so callers outside the frame
// loop cannot alias the stored result
func copyResult(r intrusion.FrameResult) intrusion.FrameResult {
	r.Detections = append(make([]intrusion.ClassifiedDetection, 0, len(r.Detections)), r.Detections...)
	return r
}

// Zone returns the zone the worker classifies against
func (w *Worker) Zone() intrusion.Zone {
	return w.deps.Engine.Zone()
}
