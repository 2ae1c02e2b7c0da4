package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zoneguard-worker-go/internal/geometry"
	"zoneguard-worker-go/internal/intrusion"
	"zoneguard-worker-go/internal/logging"
	"zoneguard-worker-go/internal/models"
	"zoneguard-worker-go/internal/worker"
)

// PipelineReader is the read-only view of a running worker
type PipelineReader interface {
	Status() worker.Status
	LatestResult() (intrusion.FrameResult, models.FrameMetadata, bool)
	Zone() intrusion.Zone
}

type PipelineHandler struct {
	pipeline PipelineReader
}

func NewPipelineHandler(pipeline PipelineReader) *PipelineHandler {
	return &PipelineHandler{pipeline: pipeline}
}

type ZoneResponse struct {
	Vertices    []geometry.Point `json:"vertices"`
	VertexCount int              `json:"vertex_count" example:"4"`
}

type LatestResultResponse struct {
	Frame       models.FrameMetadata  `json:"frame"`
	Result      intrusion.FrameResult `json:"result"`
	InsideCount int                   `json:"inside_count" example:"1"`
}

// @Summary Danger zone
// @Description Get the polygon detections are classified against, in frame pixel coordinates
// @Tags pipeline
// @Produce json
// @Success 200 {object} ZoneResponse
// @Router /zone [get]
func (h *PipelineHandler) GetZone(c *gin.Context) {
	zone := h.pipeline.Zone()
	c.JSON(http.StatusOK, ZoneResponse{
		Vertices:    zone.Vertices(),
		VertexCount: zone.Len(),
	})
}

// @Summary Pipeline status
// @Description Get frame counters, error counters and the stop reason of the worker loop
// @Tags pipeline
// @Produce json
// @Success 200 {object} worker.Status
// @Router /status [get]
func (h *PipelineHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.pipeline.Status())
}

// @Summary Latest frame result
// @Description Get the classified detections and alert flag of the most recent frame
// @Tags pipeline
// @Produce json
// @Success 200 {object} LatestResultResponse
// @Failure 404 {object} ErrorResponse
// @Router /results/latest [get]
func (h *PipelineHandler) GetLatestResult(c *gin.Context) {
	result, meta, ok := h.pipeline.LatestResult()
	if !ok {
		logging.Debug(c).Msg("Latest result requested before first frame")
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no frame processed yet"})
		return
	}

	c.JSON(http.StatusOK, LatestResultResponse{
		Frame:       meta,
		Result:      result,
		InsideCount: result.InsideCount(),
	})
}
