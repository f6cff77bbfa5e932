package audio

import "github.com/gopxl/beep"

// NewMonoBuffer stores samples in a mono beep buffer at the given rate.
func NewMonoBuffer(sampleRate int, samples []float64) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   2,
	})
	pos := 0
	buf.Append(beep.StreamerFunc(func(out [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := 0
		for n < len(out) && pos < len(samples) {
			out[n] = [2]float64{samples[pos], samples[pos]}
			n++
			pos++
		}
		return n, true
	}))
	return buf
}

// BufferSource plays a beep buffer, once or looped. Offset is the frame the
// playback starts from.
type BufferSource struct {
	*node
	*source
	Loop   bool
	Offset int

	buf    *beep.Buffer
	stream beep.Streamer
	tmp    [][2]float64
}

func (c *Context) NewBufferSource(buf *beep.Buffer) *BufferSource {
	b := &BufferSource{buf: buf, tmp: make([][2]float64, renderQuantum)}
	b.node = c.newNode(b)
	b.source = newSource(c)
	return b
}

func (b *BufferSource) streamer() beep.Streamer {
	n := b.buf.Len()
	off := 0
	if n > 0 {
		off = ((b.Offset % n) + n) % n
	}
	if !b.Loop {
		return b.buf.Streamer(off, n)
	}
	if off == 0 {
		return beep.Loop(-1, b.buf.Streamer(0, n))
	}
	return beep.Seq(b.buf.Streamer(off, n), beep.Loop(-1, b.buf.Streamer(0, n)))
}

func (b *BufferSource) process(_, out []float64, frame int64) {
	for i := range out {
		out[i] = 0
	}
	from, to := b.span(frame)
	if from == to {
		return
	}
	if b.stream == nil {
		b.stream = b.streamer()
	}
	want := to - from
	got := 0
	for got < want {
		n, ok := b.stream.Stream(b.tmp[got:want])
		got += n
		if !ok || n == 0 {
			break
		}
	}
	for i := 0; i < got; i++ {
		out[from+i] = b.tmp[i][0]
	}
	if got < want {
		b.finish(frame + int64(from+got))
	}
}
