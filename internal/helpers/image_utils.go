package helpers

import (
	"encoding/base64"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"zoneguard-worker-go/internal/models"
)

// HighQuality is the JPEG quality used for frames sent to remote inference
const HighQuality = 95

// FrameToMat wraps BGR24 frame bytes in a Mat. The caller closes it.
func FrameToMat(frame *models.Frame) (gocv.Mat, error) {
	if len(frame.Data) != frame.Width*frame.Height*3 {
		return gocv.Mat{}, fmt.Errorf("frame data length %d does not match %dx%d BGR24", len(frame.Data), frame.Width, frame.Height)
	}
	return gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
}

// EncodeJPEG encodes a frame as JPEG, scaling it down to maxWidth when maxWidth > 0
func EncodeJPEG(frame *models.Frame, quality, maxWidth int) ([]byte, error) {
	mat, err := FrameToMat(frame)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	src := mat
	if maxWidth > 0 && frame.Width > maxWidth {
		h := frame.Height * maxWidth / frame.Width
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(mat, &resized, image.Pt(maxWidth, h), 0, 0, gocv.InterpolationArea)
		src = resized
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, src, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	defer buf.Close()

	b := buf.GetBytes()
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// EncodeJPEGBase64 returns EncodeJPEG as a base64 string, for JSON payloads
func EncodeJPEGBase64(frame *models.Frame, quality, maxWidth int) (string, error) {
	b, err := EncodeJPEG(frame, quality, maxWidth)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
