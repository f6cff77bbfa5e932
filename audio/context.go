package audio

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gopxl/beep"
)

// renderQuantum is the number of frames rendered per graph pass. Sources are
// still started and stopped sample-accurately within a quantum.
const renderQuantum = 128

// State of a Context.
type State int

const (
	Suspended State = iota
	Running
	Closed
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrUnavailable is returned when no audio output can be opened.
	ErrUnavailable = errors.New("audio output unavailable")
	// ErrClosed is returned when using a context after Close.
	ErrClosed = errors.New("audio context closed")
	// ErrInvalidState is returned when starting a source twice or stopping one
	// that was never started.
	ErrInvalidState = errors.New("invalid source state")
)

// Options configures a Context.
type Options struct {
	SampleRate int
	// Device opens the output device. When nil the context has no device and
	// must be pulled by the caller through Stream.
	Device     DeviceFactory
	Compressor CompressorOptions
}

// Stats counts graph activity since the context was created.
type Stats struct {
	NodesCreated   uint64
	SourcesStarted uint64
	SourcesEnded   uint64
}

// Context owns an audio graph and its output chain:
//
//	layers → master gain → compressor → device
//
// Time only advances while the context is running and being pulled.
type Context struct {
	mu         sync.Mutex
	sampleRate int
	frame      int64
	state      State
	device     Device

	master *Gain
	comp   *Compressor

	// rendered frames not yet handed to the device
	tail    []float64
	tailBuf []float64

	sources map[*source]struct{}
	ended   []func()
	stats   Stats
}

// NewContext creates a suspended context and opens its device. If the device
// cannot be opened the returned error wraps ErrUnavailable.
func NewContext(opts Options) (*Context, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	c := &Context{
		sampleRate: opts.SampleRate,
		tailBuf:    make([]float64, renderQuantum),
		sources:    make(map[*source]struct{}),
	}
	c.master = c.NewGain()
	c.comp = c.newCompressor(opts.Compressor)
	c.master.Connect(c.comp)

	if opts.Device != nil {
		dev, err := opts.Device(c, c.sampleRate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		c.device = dev
	}
	return c, nil
}

// DefaultSampleRate is used when Options.SampleRate is not set.
const DefaultSampleRate = 44100

// SampleRate returns the sample rate in Hz.
func (c *Context) SampleRate() int { return c.sampleRate }

// Master is the master volume stage. Everything audible is connected to it.
func (c *Context) Master() *Gain { return c.master }

// CurrentTime returns the context time in seconds.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime()
}

func (c *Context) currentTime() float64 {
	return float64(c.frame) / float64(c.sampleRate)
}

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Context) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Resume starts the output device if the context is suspended.
func (c *Context) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case Closed:
		return ErrClosed
	case Running:
		return nil
	}
	if c.device != nil {
		if err := c.device.Start(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	c.state = Running
	return nil
}

// Close stops the device and releases the graph. Closing twice is a no-op.
func (c *Context) Close() error {
	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return nil
	}
	c.state = Closed
	dev := c.device
	c.device = nil
	c.sources = make(map[*source]struct{})
	c.ended = nil
	c.mu.Unlock()

	// The device callback takes the lock, so close it unlocked.
	if dev != nil {
		if err := dev.Close(); err != nil {
			log.Printf("audio: close device: %v", err)
			return err
		}
	}
	return nil
}

// Stream renders the graph into samples. It implements beep.Streamer so the
// context can be handed to any beep consumer. While the context is not running
// it produces silence and time stands still.
func (c *Context) Stream(samples [][2]float64) (n int, ok bool) {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}
	for n < len(samples) {
		if len(c.tail) == 0 {
			out := c.comp.pull(c.frame)
			c.frame += renderQuantum
			c.collectEnded()
			c.tail = append(c.tailBuf[:0], out...)
		}
		k := copy2(samples[n:], c.tail)
		c.tail = c.tail[k:]
		n += k
	}
	ended := c.ended
	c.ended = nil
	c.mu.Unlock()

	for _, f := range ended {
		f()
	}
	return n, true
}

// Err implements beep.Streamer.
func (c *Context) Err() error { return nil }

var _ beep.Streamer = (*Context)(nil)

func copy2(dst [][2]float64, src []float64) int {
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	for i, v := range src[:n] {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		dst[i] = [2]float64{v, v}
	}
	return n
}

func (c *Context) collectEnded() {
	for s := range c.sources {
		if s.endFrame >= 0 && s.endFrame <= c.frame {
			delete(c.sources, s)
			c.stats.SourcesEnded++
			if s.onEnded != nil {
				c.ended = append(c.ended, s.onEnded)
			}
		}
	}
}
