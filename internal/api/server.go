package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"zoneguard-worker-go/internal/api/handlers"
	"zoneguard-worker-go/internal/config"
)

// Deps are the runtime components the API reads from
type Deps struct {
	Pipeline handlers.PipelineReader
	Streamer handlers.Streamer
	Checks   map[string]handlers.HealthCheckFunc
}

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	healthHandler   *handlers.HealthHandler
	pipelineHandler *handlers.PipelineHandler
	streamHandler   *handlers.StreamHandler
	systemHandler   *handlers.SystemHandler
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	return &Server{
		config:          cfg,
		router:          router,
		healthHandler:   handlers.NewHealthHandler(cfg.WorkerID, cfg.Version, cfg.DetectorBackend, deps.Checks),
		pipelineHandler: handlers.NewPipelineHandler(deps.Pipeline),
		streamHandler:   handlers.NewStreamHandler(deps.Streamer),
		systemHandler:   handlers.NewSystemHandler(cfg.WorkerID),
	}
}

func (s *Server) Setup() error {
	s.setupMiddleware()

	s.setupRoutes()

	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
	}

	return nil
}

// Start blocks serving HTTP; http.ErrServerClosed is returned after Stop
func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting ZoneGuard Worker API")
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	log.Info().Msg("Stopping ZoneGuard Worker API")
	return s.server.Shutdown(ctx)
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}
