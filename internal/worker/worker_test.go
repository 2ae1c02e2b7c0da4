package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoneguard-worker-go/internal/geometry"
	"zoneguard-worker-go/internal/intrusion"
	"zoneguard-worker-go/internal/models"
)

type fakeSource struct {
	frames []*models.Frame
	err    error
	closed bool
}

func (f *fakeSource) Next(ctx context.Context) (*models.Frame, bool, error) {
	if len(f.frames) == 0 {
		if f.err != nil {
			return nil, false, f.err
		}
		return nil, false, nil
	}
	fr := f.frames[0]
	f.frames = f.frames[1:]
	return fr, true, nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

// fakeDetector returns detections keyed by frame id, or err for ids in fail
type fakeDetector struct {
	byFrame map[int64][]models.Detection
	fail    map[int64]bool
}

func (f *fakeDetector) Detect(ctx context.Context, frame *models.Frame) ([]models.Detection, error) {
	if f.fail[frame.FrameID] {
		return nil, errors.New("inference failed")
	}
	return f.byFrame[frame.FrameID], nil
}

type fakeAnnotator struct {
	results []intrusion.FrameResult
	err     error
}

func (f *fakeAnnotator) Annotate(frame *models.Frame, result intrusion.FrameResult) (*models.Frame, error) {
	f.results = append(f.results, result)
	if f.err != nil {
		return nil, f.err
	}
	out := frame.Clone()
	out.Format = "annotated"
	return out, nil
}

type fakeSink struct {
	frames []*models.Frame
	errAt  map[int64]error
}

func (f *fakeSink) WriteFrame(frame *models.Frame) error {
	f.frames = append(f.frames, frame)
	return f.errAt[frame.FrameID]
}

type fakeAlerts struct {
	calls int
	sent  int
}

func (f *fakeAlerts) ProcessFrameResult(frame *models.Frame, result intrusion.FrameResult) (bool, error) {
	f.calls++
	if result.Alert {
		f.sent++
		return true, nil
	}
	return false, nil
}

var (
	testZone   = intrusion.MustZone(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, geometry.Point{X: 10, Y: 10}, geometry.Point{X: 0, Y: 10})
	insideDet  = models.Detection{Box: models.BoundingBox{X1: 2, Y1: 2, X2: 8, Y2: 8}, ClassLabel: "person", Score: 0.9}
	outsideDet = models.Detection{Box: models.BoundingBox{X1: 2, Y1: 2, X2: 8, Y2: 18}, ClassLabel: "person", Score: 0.8}
)

func frames(n int) []*models.Frame {
	out := make([]*models.Frame, n)
	for i := range out {
		out[i] = &models.Frame{SourceID: "cam", FrameID: int64(i + 1), Width: 20, Height: 20}
	}
	return out
}

func TestRunProcessesUntilEndOfStream(t *testing.T) {
	src := &fakeSource{frames: frames(3)}
	det := &fakeDetector{byFrame: map[int64][]models.Detection{
		1: {outsideDet},
		2: {insideDet, outsideDet},
	}}
	ann := &fakeAnnotator{}
	sink := &fakeSink{}
	alerts := &fakeAlerts{}

	w, err := New(Deps{
		Source:    src,
		Detector:  det,
		Engine:    intrusion.NewEngine(testZone),
		Annotator: ann,
		Sinks:     []Sink{{Name: "test", FrameSink: sink}},
		Alerts:    alerts,
	})
	require.NoError(t, err)

	require.NoError(t, w.Run(context.Background()))

	require.Len(t, ann.results, 3)
	assert.False(t, ann.results[0].Alert)
	assert.True(t, ann.results[1].Alert)
	assert.False(t, ann.results[2].Alert)
	assert.Empty(t, ann.results[2].Detections)

	require.Len(t, sink.frames, 3)
	for i, f := range sink.frames {
		assert.Equal(t, int64(i+1), f.FrameID, "frames are emitted in order")
		assert.Equal(t, "annotated", f.Format)
	}

	assert.Equal(t, 3, alerts.calls)
	assert.Equal(t, 1, alerts.sent)

	st := w.Status()
	assert.False(t, st.Running)
	assert.Equal(t, "end_of_stream", st.StopReason)
	assert.Equal(t, int64(3), st.FramesProcessed)
	assert.Equal(t, int64(1), st.AlertFrames)
	assert.Equal(t, int64(1), st.AlertsSent)
	assert.Equal(t, int64(0), st.DetectorErrors)

	res, meta, ok := w.LatestResult()
	require.True(t, ok)
	assert.Equal(t, int64(3), meta.FrameID)
	assert.False(t, res.Alert)
}

func TestDetectorErrorYieldsEmptyResult(t *testing.T) {
	det := &fakeDetector{
		byFrame: map[int64][]models.Detection{1: {insideDet}},
		fail:    map[int64]bool{1: true},
	}
	ann := &fakeAnnotator{}
	w, err := New(Deps{Source: &fakeSource{frames: frames(1)}, Detector: det, Engine: intrusion.NewEngine(testZone), Annotator: ann})
	require.NoError(t, err)

	require.NoError(t, w.Run(context.Background()))

	require.Len(t, ann.results, 1)
	assert.False(t, ann.results[0].Alert)
	assert.NotNil(t, ann.results[0].Detections)
	assert.Empty(t, ann.results[0].Detections)
	assert.Equal(t, int64(1), w.Status().DetectorErrors)
}

func TestStopRequestedEndsRunCleanly(t *testing.T) {
	src := &fakeSource{frames: frames(5)}
	stopper := &fakeSink{errAt: map[int64]error{2: models.ErrStopRequested}}
	other := &fakeSink{}

	w, err := New(Deps{
		Source:   src,
		Detector: &fakeDetector{},
		Engine:   intrusion.NewEngine(testZone),
		Sinks:    []Sink{{Name: "display", FrameSink: stopper}, {Name: "mjpeg", FrameSink: other}},
	})
	require.NoError(t, err)

	require.NoError(t, w.Run(context.Background()))

	assert.Len(t, stopper.frames, 2)
	assert.Len(t, other.frames, 2, "remaining sinks still get the last frame")
	assert.Len(t, src.frames, 3)
	assert.Equal(t, "stop_requested", w.Status().StopReason)
}

func TestSinkErrorIsCountedNotFatal(t *testing.T) {
	sink := &fakeSink{errAt: map[int64]error{1: errors.New("disk full")}}
	w, err := New(Deps{
		Source:   &fakeSource{frames: frames(2)},
		Detector: &fakeDetector{},
		Engine:   intrusion.NewEngine(testZone),
		Sinks:    []Sink{{Name: "recorder", FrameSink: sink}},
	})
	require.NoError(t, err)

	require.NoError(t, w.Run(context.Background()))

	assert.Len(t, sink.frames, 2)
	assert.Equal(t, int64(1), w.Status().SinkErrors["recorder"])
}

func TestAnnotationFailureEmitsRawFrame(t *testing.T) {
	sink := &fakeSink{}
	w, err := New(Deps{
		Source:    &fakeSource{frames: frames(1)},
		Detector:  &fakeDetector{},
		Engine:    intrusion.NewEngine(testZone),
		Annotator: &fakeAnnotator{err: errors.New("bad mat")},
		Sinks:     []Sink{{Name: "test", FrameSink: sink}},
	})
	require.NoError(t, err)

	require.NoError(t, w.Run(context.Background()))

	require.Len(t, sink.frames, 1)
	assert.Empty(t, sink.frames[0].Format)
	assert.Equal(t, int64(1), w.Status().AnnotateErrors)
}

func TestSourceErrorIsReturned(t *testing.T) {
	w, err := New(Deps{
		Source:   &fakeSource{err: errors.New("device lost")},
		Detector: &fakeDetector{},
		Engine:   intrusion.NewEngine(testZone),
	})
	require.NoError(t, err)

	err = w.Run(context.Background())
	assert.ErrorContains(t, err, "device lost")
	assert.Equal(t, "source_error", w.Status().StopReason)
}

func TestCancelledContextStopsCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{frames: frames(3)}
	w, err := New(Deps{Source: src, Detector: &fakeDetector{}, Engine: intrusion.NewEngine(testZone)})
	require.NoError(t, err)

	require.NoError(t, w.Run(ctx))
	assert.Len(t, src.frames, 3)
	assert.Equal(t, "cancelled", w.Status().StopReason)
}

func TestNewRequiresCoreStages(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestStatusIsACopy(t *testing.T) {
	w, err := New(Deps{Source: &fakeSource{}, Detector: &fakeDetector{}, Engine: intrusion.NewEngine(testZone)})
	require.NoError(t, err)

	st := w.Status()
	st.SinkErrors["x"] = 9
	assert.Empty(t, w.Status().SinkErrors)

	_, _, ok := w.LatestResult()
	assert.False(t, ok)
	assert.Equal(t, testZone.Vertices(), w.Zone().Vertices())
}

func TestLatestResultIsDetached(t *testing.T) {
	det := &fakeDetector{byFrame: map[int64][]models.Detection{1: {insideDet}}}
	w, err := New(Deps{Source: &fakeSource{frames: frames(1)}, Detector: det, Engine: intrusion.NewEngine(testZone)})
	require.NoError(t, err)
	require.NoError(t, w.Run(context.Background()))

	res, _, ok := w.LatestResult()
	require.True(t, ok)
	require.Len(t, res.Detections, 1)
	res.Detections[0].Inside = false
	res.Detections[0].Detection.ClassLabel = "changed"

	again, _, _ := w.LatestResult()
	assert.True(t, again.Detections[0].Inside)
	assert.Equal(t, "person", again.Detections[0].Detection.ClassLabel)

	st := w.Status()
	require.NotNil(t, st.LastResult)
	st.LastResult.Detections[0].Inside = false
	assert.True(t, w.Status().LastResult.Detections[0].Inside)
}
