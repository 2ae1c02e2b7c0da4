package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zoneguard-worker-go/internal/logging"
)

// Streamer serves a live multipart MJPEG response
type Streamer interface {
	StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request)
}

type StreamHandler struct {
	streamer Streamer
}

// NewStreamHandler creates a stream handler; streamer is nil when MJPEG is disabled
func NewStreamHandler(streamer Streamer) *StreamHandler {
	return &StreamHandler{streamer: streamer}
}

// @Summary Annotated MJPEG stream
// @Description Live multipart/x-mixed-replace stream of annotated frames
// @Tags stream
// @Produce multipart/x-mixed-replace
// @Success 200
// @Failure 503 {object} ErrorResponse
// @Router /stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	if h.streamer == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "mjpeg streaming disabled"})
		return
	}

	logging.Info(c).Str("remote_addr", c.Request.RemoteAddr).Msg("MJPEG stream opened")
	h.streamer.StreamMJPEGHTTP(c.Writer, c.Request)
	logging.Info(c).Str("remote_addr", c.Request.RemoteAddr).Msg("MJPEG stream closed")
}
