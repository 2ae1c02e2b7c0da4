package mjpeg

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoneguard-worker-go/internal/models"
)

func fakeEncode(frame *models.Frame, quality int) ([]byte, error) {
	if frame == nil {
		return nil, errors.New("nil frame")
	}
	return []byte("jpeg-" + frame.SourceID), nil
}

func TestWriteFrameStoresLatest(t *testing.T) {
	p := NewPublisher(80, fakeEncode)
	assert.Nil(t, p.Latest())

	require.NoError(t, p.WriteFrame(&models.Frame{SourceID: "cam"}))
	assert.Equal(t, []byte("jpeg-cam"), p.Latest())

	assert.Error(t, p.WriteFrame(nil))
	assert.Equal(t, []byte("jpeg-cam"), p.Latest(), "failed encode keeps the previous frame")
}

func TestPublishAfterClose(t *testing.T) {
	p := NewPublisher(80, fakeEncode)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.PublishJPEG([]byte("x")), ErrPublisherClosed)
}

func TestStreamMJPEGHTTP(t *testing.T) {
	p := NewPublisher(80, fakeEncode)
	require.NoError(t, p.PublishJPEG([]byte("first")))

	srv := httptest.NewServer(http.HandlerFunc(p.StreamMJPEGHTTP))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "multipart/x-mixed-replace; boundary=frame", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readPart := func() string {
		var lines []string
		for len(lines) < 4 {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, strings.TrimSpace(line))
		}
		return strings.Join(lines, "|")
	}

	assert.Equal(t, "--frame|Content-Type: image/jpeg|Content-Length: 5|first", readPart())

	require.Eventually(t, func() bool { return p.Viewers() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, p.PublishJPEG([]byte("second")))
	assert.Equal(t, "--frame|Content-Type: image/jpeg|Content-Length: 6|second", readPart())

	require.NoError(t, p.Close())
	require.Eventually(t, func() bool { return p.Viewers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestStreamRejectsAfterClose(t *testing.T) {
	p := NewPublisher(80, fakeEncode)
	require.NoError(t, p.Close())

	rec := httptest.NewRecorder()
	p.StreamMJPEGHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
