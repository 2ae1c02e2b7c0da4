package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"zoneguard-worker-go/internal/config"
)

func NewServiceLogger(cfg *config.Config, service string) zerolog.Logger {
	return log.With().Str("worker_id", cfg.WorkerID).Str("service", service).Logger()
}

func WithSource(base zerolog.Logger, sourceID string) zerolog.Logger {
	return base.With().Str("source_id", sourceID).Logger()
}

// WithFrame adds the frame id to a logger, for per-frame debug lines
func WithFrame(base zerolog.Logger, frameID int64) zerolog.Logger {
	return base.With().Int64("frame_id", frameID).Logger()
}
