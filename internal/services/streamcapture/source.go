package streamcapture

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"zoneguard-worker-go/internal/config"
	"zoneguard-worker-go/internal/logging"
	"zoneguard-worker-go/internal/models"
)

// frameReader is the part of gocv.VideoCapture the read loop needs
type frameReader interface {
	Read(m *gocv.Mat) bool
	Close() error
}

// Source reads decoded frames from a video file, network stream or local device
type Source struct {
	cfg     *config.Config
	logger  zerolog.Logger
	cap     frameReader
	img     gocv.Mat
	live    bool
	frameID int64

	width  int
	height int
	fps    float64
}

// Open starts OpenCV VideoCapture for cfg.VideoSource
func Open(cfg *config.Config) (*Source, error) {
	logger := logging.WithSource(logging.NewServiceLogger(cfg, "streamcapture"), cfg.SourceID)
	logger.Info().Str("url", cfg.VideoSource).Msg("Opening video source")

	var device interface{} = cfg.VideoSource
	if idx, err := strconv.Atoi(cfg.VideoSource); err == nil {
		device = idx
	}

	cap, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open video source %s: %w", cfg.VideoSource, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("video capture is not opened for source %s", cfg.VideoSource)
	}

	s := newSource(cfg, logger, cap, isLive(cfg.VideoSource))
	s.width = int(cap.Get(gocv.VideoCaptureFrameWidth))
	s.height = int(cap.Get(gocv.VideoCaptureFrameHeight))
	s.fps = cap.Get(gocv.VideoCaptureFPS)

	if s.live {
		cap.Set(gocv.VideoCaptureBufferSize, 1) // Minimal buffer
	}

	logger.Info().
		Bool("live", s.live).
		Float64("fps", s.fps).
		Int("width", s.width).
		Int("height", s.height).
		Msg("VideoCapture opened successfully")

	return s, nil
}

func newSource(cfg *config.Config, logger zerolog.Logger, reader frameReader, live bool) *Source {
	return &Source{
		cfg:    cfg,
		logger: logger,
		cap:    reader,
		img:    gocv.NewMat(),
		live:   live,
	}
}

// isLive reports whether the source is a stream or device rather than a finite file
func isLive(src string) bool {
	if _, err := strconv.Atoi(src); err == nil {
		return true
	}
	lower := strings.ToLower(src)
	for _, scheme := range []string{"rtsp://", "rtmp://", "http://", "https://", "udp://", "tcp://"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// Next returns the next decoded frame. ok is false with a nil error at end of
// stream. Live sources retry failed reads up to MaxConsecutiveErrors times.
func (s *Source) Next(ctx context.Context) (*models.Frame, bool, error) {
	consecutiveErrors := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		ok := s.cap.Read(&s.img)
		if ok && !s.img.Empty() {
			break
		}

		if !s.live {
			s.logger.Info().
				Int64("frames", s.frameID).
				Msg("End of video")
			return nil, false, nil
		}

		consecutiveErrors++
		s.logger.Warn().
			Int("consecutive_errors", consecutiveErrors).
			Msg("Failed to read frame from VideoCapture")

		if consecutiveErrors >= s.cfg.MaxConsecutiveErrors {
			return nil, false, fmt.Errorf("too many consecutive frame read errors (%d)", consecutiveErrors)
		}

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(s.cfg.ReadRetryDelay):
		}
	}

	s.frameID++
	frame := &models.Frame{
		SourceID:  s.cfg.SourceID,
		Data:      s.img.ToBytes(),
		Timestamp: time.Now(),
		FrameID:   s.frameID,
		Width:     s.img.Cols(),
		Height:    s.img.Rows(),
		Format:    "BGR24",
	}

	return frame, true, nil
}

// FPS returns the frame rate reported by the container or stream, 0 when unknown
func (s *Source) FPS() float64 {
	return s.fps
}

// Close releases the capture device
func (s *Source) Close() error {
	s.img.Close()
	return s.cap.Close()
}
