package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"zoneguard-worker-go/internal/geometry"
)

// DefaultZone is the danger zone used when neither ZONE_POLYGON nor ZONE_FILE is set
var DefaultZone = []geometry.Point{
	{X: 6, Y: 2404},
	{X: 651, Y: 2424},
	{X: 627, Y: 3012},
	{X: 6, Y: 3019},
}

type Config struct {
	// Application
	Version     string
	Environment string
	WorkerID    string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Video source: file path, RTSP URL or numeric device index
	VideoSource          string
	SourceID             string
	MaxConsecutiveErrors int
	ReadRetryDelay       time.Duration

	// Danger zone, raw frame pixel coordinates
	ZonePolygon []geometry.Point
	ZoneFile    string

	// Detection
	DetectorBackend     string // "onnx" or "grpc"
	ModelPath           string
	ModelInputSize      int
	ConfidenceThreshold float32
	NMSThreshold        float32
	TargetClasses       []string
	AIGRPCURL           string
	AITimeout           time.Duration

	// Display window
	DisplayEnabled bool
	DisplayWidth   int
	WindowName     string

	// Video Recording
	VideoOutputPath  string
	VideoOutputCodec string
	VideoOutputFPS   float64

	// MJPEG publishing
	MJPEGEnabled bool
	MJPEGQuality int

	// NATS (for alerts)
	NatsEnabled        bool
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int

	// Alerting via NATS
	AlertsSubject      string
	AlertsCooldown     time.Duration
	AlertContextImage  bool
	AlertImageQuality  int
	AlertMaxImageWidth int

	// Swagger Configuration
	SwaggerHost string

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	cfg := &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WorkerID:    getEnv("WORKER_ID", "worker-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Video source
		VideoSource:          getEnv("VIDEO_SOURCE", "input.mp4"),
		SourceID:             getEnv("SOURCE_ID", "camera-1"),
		MaxConsecutiveErrors: getEnvInt("MAX_CONSECUTIVE_ERRORS", 10),
		ReadRetryDelay:       getEnvDuration("READ_RETRY_DELAY", 100*time.Millisecond),

		// Zone
		ZoneFile: getEnv("ZONE_FILE", ""),

		// Detection
		DetectorBackend:     strings.ToLower(getEnv("DETECTOR_BACKEND", "onnx")),
		ModelPath:           getEnv("MODEL_PATH", "yolov8n.onnx"),
		ModelInputSize:      getEnvInt("MODEL_INPUT_SIZE", 640),
		ConfidenceThreshold: getEnvFloat32("CONFIDENCE_THRESHOLD", 0.25),
		NMSThreshold:        getEnvFloat32("NMS_THRESHOLD", 0.45),
		TargetClasses:       getEnvList("TARGET_CLASSES", []string{"person"}),
		AIGRPCURL:           getEnv("AI_GRPC_URL", "localhost:50052"),
		AITimeout:           getEnvDuration("AI_TIMEOUT", 5*time.Second),

		// Display
		DisplayEnabled: getEnvBool("DISPLAY_ENABLED", true),
		DisplayWidth:   getEnvInt("DISPLAY_WIDTH", 640),
		WindowName:     getEnv("WINDOW_NAME", "Danger Zone Detection"),

		// Video Recording
		VideoOutputPath:  getEnv("VIDEO_OUTPUT_PATH", ""),
		VideoOutputCodec: getEnv("VIDEO_OUTPUT_CODEC", "mp4v"),
		VideoOutputFPS:   getEnvFloat64("VIDEO_OUTPUT_FPS", 0), // 0 = use source FPS

		// MJPEG
		MJPEGEnabled: getEnvBool("MJPEG_ENABLED", true),
		MJPEGQuality: getEnvInt("MJPEG_QUALITY", 80),

		// NATS
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getNatsURL(),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited

		// Alerting
		AlertsSubject:      getEnv("ALERTS_SUBJECT", "alerts.zone_intrusion"),
		AlertsCooldown:     getEnvDuration("ALERTS_COOLDOWN", 10*time.Second),
		AlertContextImage:  getEnvBool("ALERT_CONTEXT_IMAGE", true),
		AlertImageQuality:  getEnvInt("ALERT_IMAGE_QUALITY", 75),
		AlertMaxImageWidth: getEnvInt("ALERT_MAX_IMAGE_WIDTH", 1280),

		// Swagger
		SwaggerHost: getEnv("SWAGGER_HOST", "localhost:8000"),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	zone, err := loadZone(getEnv("ZONE_POLYGON", ""), cfg.ZoneFile)
	if err != nil {
		return nil, err
	}
	cfg.ZonePolygon = zone

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later in the pipeline
func (c *Config) Validate() error {
	switch c.DetectorBackend {
	case "onnx", "grpc":
	default:
		return fmt.Errorf("unknown DETECTOR_BACKEND %q (want onnx or grpc)", c.DetectorBackend)
	}
	if len(c.TargetClasses) == 0 {
		return fmt.Errorf("TARGET_CLASSES must name at least one class")
	}
	if c.ModelInputSize <= 0 {
		return fmt.Errorf("MODEL_INPUT_SIZE must be positive, got %d", c.ModelInputSize)
	}
	if c.DisplayWidth <= 0 {
		return fmt.Errorf("DISPLAY_WIDTH must be positive, got %d", c.DisplayWidth)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be within [0,1], got %v", c.ConfidenceThreshold)
	}
	return nil
}

// loadZone resolves the zone polygon: ZONE_POLYGON wins over ZONE_FILE,
// DefaultZone is used when neither is set
func loadZone(polygon, file string) ([]geometry.Point, error) {
	if polygon != "" {
		pts, err := ParsePolygon(polygon)
		if err != nil {
			return nil, fmt.Errorf("invalid ZONE_POLYGON: %w", err)
		}
		return pts, nil
	}

	if file != "" {
		pts, err := LoadZoneFile(file)
		if err != nil {
			return nil, fmt.Errorf("invalid ZONE_FILE %s: %w", file, err)
		}
		return pts, nil
	}

	pts := make([]geometry.Point, len(DefaultZone))
	copy(pts, DefaultZone)
	return pts, nil
}

// ParsePolygon parses "x,y;x,y;..." into points
func ParsePolygon(s string) ([]geometry.Point, error) {
	var pts []geometry.Point
	for i, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("vertex %d %q: want x,y", i, pair)
		}

		x, err := strconv.Atoi(strings.TrimSpace(xy[0]))
		if err != nil {
			return nil, fmt.Errorf("vertex %d x: %w", i, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(xy[1]))
		if err != nil {
			return nil, fmt.Errorf("vertex %d y: %w", i, err)
		}

		pts = append(pts, geometry.Point{X: x, Y: y})
	}
	return pts, nil
}

type zoneFile struct {
	Vertices [][]int `yaml:"vertices"`
}

// LoadZoneFile reads a YAML file of the form
//
//	vertices:
//	  - [6, 2404]
//	  - [651, 2424]
func LoadZoneFile(path string) ([]geometry.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var zf zoneFile
	if err := yaml.Unmarshal(data, &zf); err != nil {
		return nil, fmt.Errorf("failed to parse zone file: %w", err)
	}

	pts := make([]geometry.Point, 0, len(zf.Vertices))
	for i, v := range zf.Vertices {
		if len(v) != 2 {
			return nil, fmt.Errorf("vertex %d: want [x, y], got %d values", i, len(v))
		}
		pts = append(pts, geometry.Point{X: v[0], Y: v[1]})
	}
	return pts, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat32(key string, defaultValue float32) float32 {
	return float32(getEnvFloat64(key, float64(defaultValue)))
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Helper functions for Docker environment detection
func isRunningInDocker() bool {
	if os.Getenv("DOCKER_CONTAINER") == "true" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}

// getNatsURL returns the appropriate NATS URL based on environment
func getNatsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}

	// If running in Docker, use service name; otherwise use localhost
	if isRunningInDocker() {
		return "nats://nats:4222"
	}

	return "nats://localhost:4222"
}
