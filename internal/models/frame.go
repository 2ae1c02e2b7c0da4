package models

import (
	"errors"
	"time"
)

// Frame is one decoded BGR24 frame from the stream source
type Frame struct {
	SourceID  string
	Data      []byte
	Timestamp time.Time
	FrameID   int64
	Width     int
	Height    int
	Format    string
}

// Metadata returns the frame-level information without pixel data
func (f *Frame) Metadata() FrameMetadata {
	return FrameMetadata{
		FrameID:   f.FrameID,
		Timestamp: f.Timestamp,
		Width:     f.Width,
		Height:    f.Height,
		SourceID:  f.SourceID,
	}
}

// Clone returns a copy of the frame with its own pixel buffer
func (f *Frame) Clone() *Frame {
	c := *f
	c.Data = make([]byte, len(f.Data))
	copy(c.Data, f.Data)
	return &c
}

// ErrStopRequested is returned by a frame sink when the operator asks the
// pipeline to stop
var ErrStopRequested = errors.New("stop requested")
