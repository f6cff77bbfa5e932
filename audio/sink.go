package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gordonklaus/portaudio"
)

// Device is an output that pulls samples from a stream once started.
type Device interface {
	Start() error
	Close() error
}

// DeviceFactory opens a device that will pull src at sampleRate.
type DeviceFactory func(src beep.Streamer, sampleRate int) (Device, error)

// DefaultBufferSize is the number of frames per device callback.
const DefaultBufferSize = 512

// PortAudio opens the default PortAudio output with the given buffer size in
// frames.
func PortAudio(bufferSize int) DeviceFactory {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return func(src beep.Streamer, sampleRate int) (Device, error) {
		if err := portaudio.Initialize(); err != nil {
			return nil, err
		}
		s := &portAudioSink{src: src, buf: make([][2]float64, bufferSize)}
		stream, err := portaudio.OpenDefaultStream(0, 2, float64(sampleRate), bufferSize, s.process)
		if err != nil {
			portaudio.Terminate()
			return nil, err
		}
		s.stream = stream
		return s, nil
	}
}

type portAudioSink struct {
	src    beep.Streamer
	stream *portaudio.Stream
	buf    [][2]float64
}

func (s *portAudioSink) Start() error {
	return s.stream.Start()
}

func (s *portAudioSink) Close() error {
	defer portaudio.Terminate()
	if err := s.stream.Stop(); err != nil {
		s.stream.Close()
		return err
	}
	return s.stream.Close()
}

func (s *portAudioSink) process(out [][]float32) {
	n := len(out[0])
	if n > len(s.buf) {
		s.buf = make([][2]float64, n)
	}
	buf := s.buf[:n]
	s.src.Stream(buf)
	for i := range buf {
		out[0][i] = float32(buf[i][0])
		out[1][i] = float32(buf[i][1])
	}
}

// Speaker plays through beep's speaker package, which drives the platform
// output through oto. bufferSize is the latency of the speaker buffer.
func Speaker(bufferSize time.Duration) DeviceFactory {
	if bufferSize <= 0 {
		bufferSize = 50 * time.Millisecond
	}
	return func(src beep.Streamer, sampleRate int) (Device, error) {
		sr := beep.SampleRate(sampleRate)
		if err := speaker.Init(sr, sr.N(bufferSize)); err != nil {
			return nil, fmt.Errorf("init speaker: %w", err)
		}
		return &speakerSink{src: src}, nil
	}
}

type speakerSink struct {
	src beep.Streamer
}

func (s *speakerSink) Start() error {
	speaker.Play(s.src)
	return nil
}

func (s *speakerSink) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}
