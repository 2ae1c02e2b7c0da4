package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheckFunc reports whether one dependency is usable
type HealthCheckFunc func() bool

type HealthHandler struct {
	WorkerID string
	Version  string
	Backend  string
	checks   map[string]HealthCheckFunc
}

func NewHealthHandler(workerID, version, backend string, checks map[string]HealthCheckFunc) *HealthHandler {
	if checks == nil {
		checks = map[string]HealthCheckFunc{}
	}
	return &HealthHandler{WorkerID: workerID, Version: version, Backend: backend, checks: checks}
}

type HealthResponse struct {
	Status     string          `json:"status" example:"healthy"`
	WorkerID   string          `json:"worker_id" example:"worker-1"`
	Components map[string]bool `json:"components,omitempty"`
}

type WorkerInfoResponse struct {
	WorkerID     string   `json:"worker_id" example:"worker-1"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Detector     string   `json:"detector" example:"onnx"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Check if the worker and its optional dependencies are healthy
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		WorkerID: h.WorkerID,
	}

	code := http.StatusOK
	if len(h.checks) > 0 {
		resp.Components = make(map[string]bool, len(h.checks))
		for name, check := range h.checks {
			ok := check()
			resp.Components[name] = ok
			if !ok {
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
	}

	c.JSON(code, resp)
}

// @Summary Worker information
// @Description Get basic worker information and capabilities
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} WorkerInfoResponse
// @Router / [get]
func (h *HealthHandler) WorkerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, WorkerInfoResponse{
		WorkerID: h.WorkerID,
		Status:   "running",
		Version:  h.Version,
		Detector: h.Backend,
		Capabilities: []string{
			"person_detection",
			"danger_zone_intrusion",
			"mjpeg_streaming",
			"nats_alerts",
		},
	})
}
