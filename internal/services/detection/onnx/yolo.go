package onnx

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"zoneguard-worker-go/internal/config"
	"zoneguard-worker-go/internal/helpers"
	"zoneguard-worker-go/internal/models"
	"zoneguard-worker-go/internal/services/detection"
)

// Detector runs a YOLOv8 ONNX export through the OpenCV DNN module
type Detector struct {
	net       gocv.Net
	inputSize int
	confThr   float32
	nmsThr    float32
	filter    *detection.ClassFilter
}

// NewDetector loads the model at cfg.ModelPath
func NewDetector(cfg *config.Config, filter *detection.ClassFilter) (*Detector, error) {
	log.Info().
		Str("model", cfg.ModelPath).
		Int("input_size", cfg.ModelInputSize).
		Strs("classes", filter.Labels()).
		Msg("Loading ONNX detection model")

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load ONNX model %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &Detector{
		net:       net,
		inputSize: cfg.ModelInputSize,
		confThr:   cfg.ConfidenceThreshold,
		nmsThr:    cfg.NMSThreshold,
		filter:    filter,
	}, nil
}

// Detect runs inference on one frame
func (d *Detector) Detect(ctx context.Context, frame *models.Frame) ([]models.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := helpers.FrameToMat(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to create Mat from frame data: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.inputSize, d.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	shape := output.Size()
	if len(shape) != 3 {
		return nil, fmt.Errorf("unexpected model output shape %v", shape)
	}

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read model output: %w", err)
	}

	candidates, err := detection.DecodeYOLOv8(data, shape[1], shape[2], detection.DecodeOptions{
		ConfidenceThreshold: d.confThr,
		XFactor:             float32(frame.Width) / float32(d.inputSize),
		YFactor:             float32(frame.Height) / float32(d.inputSize),
		Filter:              d.filter,
		Classes:             detection.COCOClasses,
	})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []models.Detection{}, nil
	}

	rects := make([]image.Rectangle, len(candidates))
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		rects[i] = image.Rect(c.Box.X1, c.Box.Y1, c.Box.X2, c.Box.Y2)
		scores[i] = c.Score
	}

	keep := gocv.NMSBoxes(rects, scores, d.confThr, d.nmsThr)

	dets := make([]models.Detection, 0, len(keep))
	for _, idx := range keep {
		dets = append(dets, candidates[idx])
	}

	log.Debug().
		Str("source_id", frame.SourceID).
		Int64("frame_id", frame.FrameID).
		Int("candidates", len(candidates)).
		Int("kept", len(dets)).
		Msg("ONNX inference completed")

	return detection.Finalize(frame, dets, d.filter), nil
}

// Close releases the network
func (d *Detector) Close() error {
	return d.net.Close()
}
