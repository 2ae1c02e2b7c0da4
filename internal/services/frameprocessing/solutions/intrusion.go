package solutions

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"zoneguard-worker-go/internal/geometry"
)

var (
	ColorSafe   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	ColorDanger = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	ColorZone   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// AlertBannerText is drawn at the top-left of every alerting frame
const AlertBannerText = "!!! DANGER ZONE ALERT !!!"

// DrawZone draws the closed zone outline
func DrawZone(mat *gocv.Mat, vertices []geometry.Point, zoneColor color.RGBA, thickness int) {
	if mat == nil || len(vertices) < 2 {
		return
	}

	pts := make([]image.Point, len(vertices))
	for i, v := range vertices {
		pts[i] = image.Pt(v.X, v.Y)
	}

	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()

	gocv.Polylines(mat, pv, true, zoneColor, thickness)
}

// DrawDetection draws one classified box: green outside, red with a filled
// foot-point marker inside
func DrawDetection(mat *gocv.Mat, box image.Rectangle, ref geometry.Point, label string, inside bool) {
	if mat == nil {
		return
	}

	boxColor := ColorSafe
	if inside {
		boxColor = ColorDanger
		gocv.Circle(mat, image.Pt(ref.X, ref.Y), 7, boxColor, -1)
	}

	gocv.Rectangle(mat, box, boxColor, 2)
	gocv.PutText(mat, label, image.Pt(box.Min.X, box.Min.Y-10), gocv.FontHersheySimplex, 0.5, boxColor, 2)
}

// DrawIntrusion draws the alert banner and a red frame border
func DrawIntrusion(mat *gocv.Mat) {
	if mat == nil {
		return
	}

	gocv.Rectangle(mat, image.Rect(0, 0, mat.Cols(), mat.Rows()), ColorDanger, 5)
	gocv.PutText(mat, AlertBannerText, image.Pt(50, 50), gocv.FontHersheyTriplex, 1, ColorDanger, 2)
}

// DrawStatus draws a one-line zone summary at y and advances y
func DrawStatus(mat *gocv.Mat, alert bool, total, inside int, y *int) {
	if mat == nil {
		return
	}

	text := fmt.Sprintf("Area Secure  %d tracked", total)
	textColor := ColorSafe
	if alert {
		text = fmt.Sprintf("INTRUSION DETECTED  %d/%d in zone", inside, total)
		textColor = ColorDanger
	}

	DrawText(mat, text, 15, *y, textColor)
	*y += 30
}
