package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"zoneguard-worker-go/internal/api"
	"zoneguard-worker-go/internal/config"
	"zoneguard-worker-go/internal/intrusion"
	"zoneguard-worker-go/internal/logging"
	"zoneguard-worker-go/internal/services"
)

// @title ZoneGuard Worker API
// @version 1.0.0
// @description Danger zone intrusion worker: person detection on a video stream, zone classification, MJPEG preview and NATS alerts
// @host localhost:8000
// @BasePath /
func main() {
	var (
		source    = flag.String("source", "", "Video file, stream URL or device index (overrides VIDEO_SOURCE)")
		zoneFlag  = flag.String("zone", "", "Zone polygon as x,y;x,y;... (overrides ZONE_POLYGON and ZONE_FILE)")
		output    = flag.String("output", "", "Write the annotated video to this path (overrides VIDEO_OUTPUT_PATH)")
		noDisplay = flag.Bool("no-display", false, "Disable the preview window")
	)
	flag.Parse()

	// Setup structured logging
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if *source != "" {
		cfg.VideoSource = *source
	}
	if *zoneFlag != "" {
		pts, err := config.ParsePolygon(*zoneFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid -zone")
		}
		cfg.ZonePolygon = pts
	}
	if *output != "" {
		cfg.VideoOutputPath = *output
	}
	if *noDisplay {
		cfg.DisplayEnabled = false
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogdyEnabled {
		w, _, err := logging.StartLogdy(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to start Logdy, continuing with console logs only")
		} else {
			log.Logger = log.Output(io.MultiWriter(zerolog.ConsoleWriter{Out: os.Stderr}, w))
		}
	}

	zone, err := intrusion.NewZone(cfg.ZonePolygon)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid danger zone")
	}

	log.Info().
		Str("worker_id", cfg.WorkerID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Str("source", cfg.VideoSource).
		Str("detector", cfg.DetectorBackend).
		Int("zone_vertices", zone.Len()).
		Int("port", cfg.Port).
		Msg("Starting ZoneGuard Worker")

	container, err := services.NewServiceContainer(cfg, zone)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	pipeline, streamer, checks := container.APIDeps()
	server := api.NewServer(cfg, api.Deps{Pipeline: pipeline, Streamer: streamer, Checks: checks})
	if err := server.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup API server")
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("API server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := container.Worker.Run(ctx)
	if ctx.Err() != nil {
		log.Info().Msg("Shutdown signal received")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Service shutdown completed with errors")
	} else {
		log.Info().Msg("Server shutdown complete")
	}

	if runErr != nil {
		os.Exit(1)
	}
}
