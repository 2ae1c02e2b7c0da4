package remote

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	"zoneguard-worker-go/internal/config"
	"zoneguard-worker-go/internal/helpers"
	"zoneguard-worker-go/internal/models"
	"zoneguard-worker-go/internal/services/detection"
)

// DetectMethod is the unary RPC served by the inference service, see detection.proto
const DetectMethod = "/zoneguard.v1.DetectionService/Detect"

// Service is a Detector backed by a remote gRPC inference service
type Service struct {
	conn      *grpc.ClientConn
	health    healthpb.HealthClient
	grpcURL   string
	timeout   time.Duration
	filter    *detection.ClassFilter
	isHealthy atomic.Bool
}

func NewService(cfg *config.Config, filter *detection.ClassFilter) (*Service, error) {
	log.Info().Str("url", cfg.AIGRPCURL).Msg("Initializing AI detection service")

	conn, err := grpc.NewClient(cfg.AIGRPCURL, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to detection service: %w", err)
	}

	s := &Service{
		conn:    conn,
		health:  healthpb.NewHealthClient(conn),
		grpcURL: cfg.AIGRPCURL,
		timeout: cfg.AITimeout,
		filter:  filter,
	}

	// Don't fail if it's not available yet
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.HealthCheck(ctx); err != nil {
		log.Warn().Err(err).Msg("AI detection service not available, will retry on first frame")
	} else {
		log.Info().Msg("Successfully connected to AI detection service")
	}

	return s, nil
}

// Detect sends one JPEG-encoded frame to the inference service
func (s *Service) Detect(ctx context.Context, frame *models.Frame) ([]models.Detection, error) {
	jpegBytes, err := helpers.EncodeJPEG(frame, helpers.HighQuality, 0)
	if err != nil {
		return nil, err
	}

	req, err := detection.BuildRequest(jpegBytes, frame, s.filter.Labels())
	if err != nil {
		return nil, fmt.Errorf("failed to build detection request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp := &structpb.Struct{}
	if err := s.conn.Invoke(ctx, DetectMethod, req, resp); err != nil {
		s.isHealthy.Store(false)
		return nil, fmt.Errorf("detection service call failed: %w", err)
	}
	s.isHealthy.Store(true)

	dets, err := detection.ParseResponse(resp)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("source_id", frame.SourceID).
		Int64("frame_id", frame.FrameID).
		Int("jpeg_size", len(jpegBytes)).
		Int("detections", len(dets)).
		Msg("Remote inference completed")

	return detection.Finalize(frame, dets, s.filter), nil
}

// HealthCheck queries the standard gRPC health service
func (s *Service) HealthCheck(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		s.isHealthy.Store(false)
		return fmt.Errorf("detection service health check failed: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		s.isHealthy.Store(false)
		return fmt.Errorf("detection service not serving: %s", resp.GetStatus())
	}
	s.isHealthy.Store(true)
	return nil
}

func (s *Service) IsHealthy() bool {
	return s.isHealthy.Load()
}

func (s *Service) Close() error {
	if s.conn != nil {
		log.Info().Msg("Shutting down detection service connection")
		return s.conn.Close()
	}
	return nil
}
