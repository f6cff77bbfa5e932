package audio

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Waveform selects the shape of an Oscillator.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

var waveformNames = []string{"sine", "square", "sawtooth", "triangle"}

func (w Waveform) String() string {
	if w >= 0 && int(w) < len(waveformNames) {
		return waveformNames[w]
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

// ParseWaveform accepts the waveform names, plus "saw" for Sawtooth.
func ParseWaveform(s string) (Waveform, error) {
	if s == "saw" {
		return Sawtooth, nil
	}
	for i, name := range waveformNames {
		if s == name {
			return Waveform(i), nil
		}
	}
	return 0, fmt.Errorf("not a valid waveform type: %v", s)
}

func (w Waveform) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *Waveform) UnmarshalText(b []byte) error {
	v, err := ParseWaveform(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// MidiToFreq converts a MIDI note number to a frequency in Hz (A4 = 69 = 440Hz).
func MidiToFreq(note int) float64 {
	return math.Pow(2, float64(note-69)/12.0) * 440
}

// Oscillator is a periodic source. Its pitch is Frequency (Hz) shifted by
// Detune (cents).
type Oscillator struct {
	*node
	*source
	Type      Waveform
	Frequency *Param
	Detune    *Param

	phase float64 // [0, 1)
	fn    func(phase float64) float64
}

// NewOscillator creates an unstarted oscillator at 440Hz.
func (c *Context) NewOscillator(w Waveform) *Oscillator {
	o := &Oscillator{Type: w}
	o.node = c.newNode(o)
	o.source = newSource(c)
	o.Frequency = c.newParam(440)
	o.Detune = c.newParam(0)
	o.fn = waveFunc(w)
	return o
}

func waveFunc(w Waveform) func(float64) float64 {
	switch w {
	case Square:
		return func(phase float64) float64 {
			if phase < 0.5 {
				return 1
			}
			return -1
		}
	case Sawtooth:
		return func(phase float64) float64 { return 2*phase - 1 }
	case Triangle:
		return func(phase float64) float64 {
			if phase < 0.5 {
				return 4*phase - 1
			}
			return 3 - 4*phase
		}
	}
	return func(phase float64) float64 { return math.Sin(twoPi * phase) }
}

func (o *Oscillator) process(_, out []float64, frame int64) {
	for i := range out {
		out[i] = 0
	}
	from, to := o.span(frame)
	if from == to {
		return
	}
	freq := o.Frequency.fill(frame)
	detune := o.Detune.fill(frame)
	rate := float64(o.owner.sampleRate)
	for n := from; n < to; n++ {
		out[n] = o.fn(o.phase)
		f := freq[n]
		if detune[n] != 0 {
			f *= math.Exp2(detune[n] / 1200)
		}
		o.phase += f / rate
		o.phase -= math.Floor(o.phase)
	}
}

// FilterType selects the response of a BiquadFilter.
type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
)

var filterNames = []string{"lowpass", "highpass", "bandpass"}

func (t FilterType) String() string {
	if t >= 0 && int(t) < len(filterNames) {
		return filterNames[t]
	}
	return fmt.Sprintf("FilterType(%d)", int(t))
}

func ParseFilterType(s string) (FilterType, error) {
	for i, name := range filterNames {
		if s == name {
			return FilterType(i), nil
		}
	}
	return 0, fmt.Errorf("not a valid filter type: %v", s)
}

func (t FilterType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *FilterType) UnmarshalText(b []byte) error {
	v, err := ParseFilterType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// coefficients are recomputed at most this often while a param moves.
const coefficientInterval = 16

// BiquadFilter is a second order filter based on
// https://www.w3.org/2011/audio/audio-eq-cookbook.html
type BiquadFilter struct {
	*node
	Type      FilterType
	Frequency *Param
	Q         *Param

	b0, b1, b2, a1, a2 float64
	lastFreq, lastQ    float64

	// state
	y1, y2 float64
}

// NewBiquadFilter creates a filter with a cutoff of 350Hz and a Q of 1.
func (c *Context) NewBiquadFilter(t FilterType) *BiquadFilter {
	f := &BiquadFilter{Type: t, lastFreq: -1}
	f.node = c.newNode(f)
	f.Frequency = c.newParam(350)
	f.Q = c.newParam(1)
	return f
}

func (f *BiquadFilter) process(in, out []float64, frame int64) {
	freq := f.Frequency.fill(frame)
	q := f.Q.fill(frame)
	for n := range in {
		if n%coefficientInterval == 0 && (freq[n] != f.lastFreq || q[n] != f.lastQ) {
			f.calculateCoefficients(freq[n], q[n])
		}
		x := in[n]
		y := f.b0*x + f.y1
		out[n] = y
		f.y1 = f.b1*x - f.a1*y + f.y2
		f.y2 = f.b2*x - f.a2*y
	}
}

func (f *BiquadFilter) calculateCoefficients(freq, q float64) {
	f.lastFreq, f.lastQ = freq, q

	nyquist := float64(f.ctx.sampleRate) / 2
	freq = math.Max(10, math.Min(freq, nyquist*0.95))
	q = math.Max(q, 0.0001)

	omega := twoPi * freq / float64(f.ctx.sampleRate)
	cos := math.Cos(omega)
	sin := math.Sin(omega)
	alpha := sin / (2 * q)

	var b0, b1, b2 float64
	switch f.Type {
	case Highpass:
		b0 = (1 + cos) / 2
		b1 = -(1 + cos)
		b2 = b0
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cos) / 2
		b1 = 1 - cos
		b2 = b0
	}
	a0 := 1 + alpha
	a1 := -2 * cos
	a2 := 1 - alpha

	f.b0 = b0 / a0
	f.b1 = b1 / a0
	f.b2 = b2 / a0
	f.a1 = a1 / a0
	f.a2 = a2 / a0
}
