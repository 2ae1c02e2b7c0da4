package mjpeg

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"zoneguard-worker-go/internal/models"
)

const boundary = "frame"

var ErrPublisherClosed = errors.New("mjpeg publisher closed")

// EncodeFunc turns a BGR frame into a JPEG at the given quality
type EncodeFunc func(frame *models.Frame, quality int) ([]byte, error)

// Publisher keeps the latest annotated JPEG and fans it out to every
// connected viewer
type Publisher struct {
	quality   int
	encode    EncodeFunc
	keepalive time.Duration

	jpegMutex  sync.RWMutex
	latestJPEG []byte

	notifyMutex sync.Mutex
	viewers     map[chan struct{}]struct{}
	closed      bool
	done        chan struct{}
}

func NewPublisher(quality int, encode EncodeFunc) *Publisher {
	return &Publisher{
		quality:   quality,
		encode:    encode,
		keepalive: 2 * time.Second,
		viewers:   make(map[chan struct{}]struct{}),
		done:      make(chan struct{}),
	}
}

// WriteFrame encodes frame and publishes it to viewers
func (p *Publisher) WriteFrame(frame *models.Frame) error {
	jpeg, err := p.encode(frame, p.quality)
	if err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return p.PublishJPEG(jpeg)
}

// PublishJPEG stores jpeg as the latest frame and wakes all viewers
func (p *Publisher) PublishJPEG(jpeg []byte) error {
	p.notifyMutex.Lock()
	closed := p.closed
	p.notifyMutex.Unlock()
	if closed {
		return ErrPublisherClosed
	}

	p.jpegMutex.Lock()
	p.latestJPEG = jpeg
	p.jpegMutex.Unlock()

	p.notifyStreamers()
	return nil
}

// Latest returns the most recent JPEG, nil before the first frame
func (p *Publisher) Latest() []byte {
	p.jpegMutex.RLock()
	defer p.jpegMutex.RUnlock()
	return p.latestJPEG
}

// Viewers returns the number of connected MJPEG clients
func (p *Publisher) Viewers() int {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()
	return len(p.viewers)
}

func (p *Publisher) notifyStreamers() {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()

	for notify := range p.viewers {
		select {
		case notify <- struct{}{}:
		default:
		}
	}
}

func (p *Publisher) addViewer() (chan struct{}, bool) {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()

	if p.closed {
		return nil, false
	}
	notify := make(chan struct{}, 1)
	p.viewers[notify] = struct{}{}
	return notify, true
}

func (p *Publisher) removeViewer(notify chan struct{}) {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()
	delete(p.viewers, notify)
}

// StreamMJPEGHTTP serves multipart/x-mixed-replace until the client goes away
// or the publisher is closed
func (p *Publisher) StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	notify, ok := p.addViewer()
	if !ok {
		http.Error(w, "Stream closed", http.StatusServiceUnavailable)
		return
	}
	defer p.removeViewer(notify)

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	log.Debug().Str("remote_addr", r.RemoteAddr).Msg("MJPEG viewer connected")

	writeLatest := func() bool {
		jpeg := p.Latest()
		if len(jpeg) == 0 {
			return true
		}
		if err := writePart(w, jpeg); err != nil {
			log.Debug().Err(err).Str("remote_addr", r.RemoteAddr).Msg("MJPEG viewer write failed")
			return false
		}
		flusher.Flush()
		return true
	}

	if !writeLatest() {
		return
	}

	keepaliveTicker := time.NewTicker(p.keepalive)
	defer keepaliveTicker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-notify:
			if !writeLatest() {
				return
			}
		case <-keepaliveTicker.C:
			if !writeLatest() {
				return
			}
		}
	}
}

func writePart(w io.Writer, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", boundary, len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// Close disconnects all viewers
func (p *Publisher) Close() error {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)
	log.Info().Msg("MJPEG Publisher shutting down")
	return nil
}
