package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"zoneguard-worker-go/internal/config"
	"zoneguard-worker-go/internal/helpers"
	"zoneguard-worker-go/internal/models"
)

const (
	defaultFPS        = 25.0
	frameBufferSize   = 200
	recordingsSubject = "recordings.completed"
)

// RecordingMetadata is published once the output file is finalized
type RecordingMetadata struct {
	WorkerID   string    `json:"worker_id"`
	SourceID   string    `json:"source_id"`
	Path       string    `json:"path"`
	Codec      string    `json:"codec"`
	FPS        float64   `json:"fps"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	StartTime  time.Time `json:"start_time"`
	Duration   float64   `json:"duration"`
	FileSize   int64     `json:"file_size"`
	FrameCount int64     `json:"frame_count"`
	Dropped    int64     `json:"dropped_frames"`
}

// Service writes annotated frames to a single video file. Frames are queued
// and encoded on a background goroutine; a full queue drops the frame.
type Service struct {
	cfg       *config.Config
	publisher models.MessagePublisher
	path      string
	codec     string
	fps       float64

	frameChannel chan *models.Frame
	wg           sync.WaitGroup
	closeOnce    sync.Once

	mutex      sync.Mutex
	writer     *gocv.VideoWriter
	width      int
	height     int
	startedAt  time.Time
	frameCount int64
	dropped    int64
	writeErr   error
}

// NewService prepares the output path. sourceFPS is used when
// VIDEO_OUTPUT_FPS is unset; publisher may be nil.
func NewService(cfg *config.Config, sourceFPS float64, publisher models.MessagePublisher) (*Service, error) {
	if dir := filepath.Dir(cfg.VideoOutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	fps := OutputFPS(cfg.VideoOutputFPS, sourceFPS)

	rs := &Service{
		cfg:          cfg,
		publisher:    publisher,
		path:         cfg.VideoOutputPath,
		codec:        cfg.VideoOutputCodec,
		fps:          fps,
		frameChannel: make(chan *models.Frame, frameBufferSize),
	}

	rs.wg.Add(1)
	go rs.processFrames()

	log.Info().
		Str("path", rs.path).
		Str("codec", rs.codec).
		Float64("fps", fps).
		Msg("Recorder service initialized")
	return rs, nil
}

// OutputFPS picks the configured rate, then the source rate, then 25
func OutputFPS(configured, source float64) float64 {
	if configured > 0 {
		return configured
	}
	if source > 0 {
		return source
	}
	return defaultFPS
}

// WriteFrame queues a frame for encoding
func (rs *Service) WriteFrame(frame *models.Frame) error {
	rs.mutex.Lock()
	err := rs.writeErr
	rs.mutex.Unlock()
	if err != nil {
		return err
	}

	select {
	case rs.frameChannel <- frame:
	default:
		rs.mutex.Lock()
		rs.dropped++
		rs.mutex.Unlock()
		log.Debug().Str("source_id", frame.SourceID).Int64("frame_id", frame.FrameID).Msg("Dropped frame for recording (channel full)")
	}
	return nil
}

func (rs *Service) processFrames() {
	defer rs.wg.Done()

	for frame := range rs.frameChannel {
		if err := rs.writeFrame(frame); err != nil {
			log.Error().Err(err).Str("path", rs.path).Msg("Failed to write frame to recording")
			rs.mutex.Lock()
			rs.writeErr = err
			rs.mutex.Unlock()
		}
	}
}

func (rs *Service) writeFrame(frame *models.Frame) error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	if rs.writeErr != nil {
		return nil
	}

	if rs.writer == nil {
		w, err := gocv.VideoWriterFile(rs.path, rs.codec, rs.fps, frame.Width, frame.Height, true)
		if err != nil {
			return fmt.Errorf("failed to open video writer %s: %w", rs.path, err)
		}
		rs.writer = w
		rs.width = frame.Width
		rs.height = frame.Height
		rs.startedAt = time.Now()
		log.Info().Str("path", rs.path).Int("width", frame.Width).Int("height", frame.Height).Msg("Started recording")
	}

	if frame.Width != rs.width || frame.Height != rs.height {
		return fmt.Errorf("frame size changed from %dx%d to %dx%d", rs.width, rs.height, frame.Width, frame.Height)
	}

	mat, err := helpers.FrameToMat(frame)
	if err != nil {
		return err
	}
	defer mat.Close()

	if err := rs.writer.Write(mat); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	rs.frameCount++
	return nil
}

// Close drains queued frames, finalizes the file and publishes its metadata
func (rs *Service) Close() error {
	var err error
	rs.closeOnce.Do(func() {
		close(rs.frameChannel)
		rs.wg.Wait()

		rs.mutex.Lock()
		defer rs.mutex.Unlock()

		if rs.writer == nil {
			log.Info().Str("path", rs.path).Msg("Recorder closed without frames")
			return
		}
		if cerr := rs.writer.Close(); cerr != nil {
			err = fmt.Errorf("failed to close video writer: %w", cerr)
			return
		}
		rs.writer = nil

		meta := rs.metadata()
		log.Info().
			Str("path", meta.Path).
			Int64("frames", meta.FrameCount).
			Int64("dropped", meta.Dropped).
			Float64("duration", meta.Duration).
			Msg("Recording finalized")

		if rs.publisher != nil {
			if perr := rs.publisher.Publish(recordingsSubject, meta); perr != nil {
				log.Error().Err(perr).Msg("Failed to publish recording metadata")
			}
		}
	})
	return err
}

func (rs *Service) metadata() RecordingMetadata {
	var size int64
	if info, err := os.Stat(rs.path); err == nil {
		size = info.Size()
	}

	return RecordingMetadata{
		WorkerID:   rs.cfg.WorkerID,
		SourceID:   rs.cfg.SourceID,
		Path:       rs.path,
		Codec:      rs.codec,
		FPS:        rs.fps,
		Width:      rs.width,
		Height:     rs.height,
		StartTime:  rs.startedAt,
		Duration:   float64(rs.frameCount) / rs.fps,
		FileSize:   size,
		FrameCount: rs.frameCount,
		Dropped:    rs.dropped,
	}
}
