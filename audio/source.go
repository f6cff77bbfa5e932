package audio

import "math"

// source holds the start/stop schedule shared by oscillators and buffer
// sources. A source plays from its start frame until its stop frame, or until it
// runs out of data.
type source struct {
	owner      *Context
	startFrame int64
	stopFrame  int64
	endFrame   int64
	onEnded    func()
}

func newSource(c *Context) *source {
	return &source{owner: c, startFrame: -1, stopFrame: -1, endFrame: -1}
}

// Start schedules the source to start at context time at. A time in the past
// starts it immediately. Starting a source twice returns ErrInvalidState.
func (s *source) Start(at float64) error {
	c := s.owner
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return ErrClosed
	}
	if s.startFrame >= 0 {
		return ErrInvalidState
	}
	s.startFrame = c.toFrame(at)
	c.sources[s] = struct{}{}
	c.stats.SourcesStarted++
	return nil
}

// Stop schedules the source to stop at context time at. Stopping a source
// that was not started, or stopping it a second time, returns ErrInvalidState.
func (s *source) Stop(at float64) error {
	c := s.owner
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.startFrame < 0 || s.stopFrame >= 0 {
		return ErrInvalidState
	}
	f := c.toFrame(at)
	if f < s.startFrame {
		f = s.startFrame
	}
	s.stopFrame = f
	if s.endFrame < 0 || s.endFrame > f {
		s.endFrame = f
	}
	return nil
}

// Started reports whether Start was called.
func (s *source) Started() bool {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	return s.startFrame >= 0
}

// Stopped reports whether Stop was called.
func (s *source) Stopped() bool {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	return s.stopFrame >= 0
}

// OnEnded registers f to run once the source has finished playing. f runs on
// the goroutine pulling the context, after the graph lock is released.
func (s *source) OnEnded(f func()) {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	s.onEnded = f
}

// span returns the range of the quantum starting at frame in which the source
// produces sound.
func (s *source) span(frame int64) (from, to int) {
	if s.startFrame < 0 {
		return 0, 0
	}
	from = clampFrame(s.startFrame-frame, 0, renderQuantum)
	to = renderQuantum
	if s.endFrame >= 0 {
		to = clampFrame(s.endFrame-frame, 0, renderQuantum)
	}
	if to < from {
		to = from
	}
	return from, to
}

// finish marks a natural end at frame.
func (s *source) finish(frame int64) {
	if s.endFrame < 0 || s.endFrame > frame {
		s.endFrame = frame
	}
}

func (c *Context) toFrame(t float64) int64 {
	f := int64(math.Round(t * float64(c.sampleRate)))
	if f < c.frame {
		f = c.frame
	}
	return f
}

func clampFrame(v int64, lo, hi int) int {
	if v < int64(lo) {
		return lo
	}
	if v > int64(hi) {
		return hi
	}
	return int(v)
}
