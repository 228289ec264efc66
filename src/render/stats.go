package render

import (
	"fmt"
	"time"

	"github.com/loov/hrtime"
)

// RenderStats tracks per-tick timing: how long a draw request takes end to
// end, how long recording the pool takes, and a once-a-second FPS figure.
type RenderStats struct {
	frames       int
	framesPerSec int
	lastRequest  time.Duration
	lastRecord   time.Duration
	lastPoolSize int

	fpsMark     time.Duration
	requestMark time.Duration
	recordMark  time.Duration
}

func NewRenderStats() *RenderStats {
	return &RenderStats{fpsMark: hrtime.Now()}
}

func (s *RenderStats) BeginRequest() {
	s.requestMark = hrtime.Now()
}

func (s *RenderStats) EndRequest() {
	now := hrtime.Now()
	s.lastRequest = now - s.requestMark

	s.frames++
	if now-s.fpsMark >= time.Second {
		s.framesPerSec = s.frames
		s.frames = 0
		s.fpsMark = now
	}
}

func (s *RenderStats) BeginRecord() {
	s.recordMark = hrtime.Now()
}

func (s *RenderStats) EndRecord(poolSize int) {
	s.lastRecord = hrtime.Now() - s.recordMark
	s.lastPoolSize = poolSize
}

func (s *RenderStats) FPS() int                       { return s.framesPerSec }
func (s *RenderStats) LastRequestTime() time.Duration { return s.lastRequest }
func (s *RenderStats) LastRecordTime() time.Duration  { return s.lastRecord }
func (s *RenderStats) LastPoolSize() int              { return s.lastPoolSize }

func (s *RenderStats) String() string {
	return fmt.Sprintf("fps: %d\nrequest: %v\nrecord: %v\nrecords: %d",
		s.framesPerSec, s.lastRequest, s.lastRecord, s.lastPoolSize)
}
