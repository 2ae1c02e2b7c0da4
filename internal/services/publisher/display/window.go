package display

import (
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"zoneguard-worker-go/internal/helpers"
	"zoneguard-worker-go/internal/models"
)

// ErrStopRequested is returned by WriteFrame once the operator presses q
var ErrStopRequested = models.ErrStopRequested

const quitKey = 'q'

// Window shows annotated frames scaled to a fixed width
type Window struct {
	name   string
	width  int
	window *gocv.Window
	scaled gocv.Mat
}

func NewWindow(name string, width int) *Window {
	log.Info().Str("window", name).Int("width", width).Msg("Opening display window")
	return &Window{
		name:   name,
		width:  width,
		window: gocv.NewWindow(name),
		scaled: gocv.NewMat(),
	}
}

// ScaledSize returns the display size for a w x h frame at the given width,
// aspect ratio preserved
func ScaledSize(w, h, width int) image.Point {
	if w <= 0 || h <= 0 {
		return image.Pt(width, 0)
	}
	return image.Pt(width, int(float64(h)*float64(width)/float64(w)))
}

func (d *Window) WriteFrame(frame *models.Frame) error {
	mat, err := helpers.FrameToMat(frame)
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	defer mat.Close()

	gocv.Resize(mat, &d.scaled, ScaledSize(frame.Width, frame.Height, d.width), 0, 0, gocv.InterpolationLinear)
	d.window.IMShow(d.scaled)

	if d.window.WaitKey(1)&0xFF == quitKey {
		log.Info().Str("window", d.name).Msg("Quit key pressed")
		return ErrStopRequested
	}
	return nil
}

func (d *Window) Close() error {
	if err := d.scaled.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to release display buffer")
	}
	return d.window.Close()
}
