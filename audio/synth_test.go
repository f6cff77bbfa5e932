package audio

import (
	"encoding/json"
	"math"
	"testing"
)

func TestOscillatorSine(t *testing.T) {
	c := newTestContext(t, 8000)
	osc := c.NewOscillator(Sine)
	osc.Frequency.SetValue(1000)
	if err := osc.Start(0); err != nil {
		t.Fatal(err)
	}
	out := osc.pull(0)
	for i, want := range []float64{0, math.Sqrt2 / 2, 1, math.Sqrt2 / 2, 0, -math.Sqrt2 / 2, -1} {
		if math.Abs(want-out[i]) > 1e-9 {
			t.Errorf("frame %d: want %v, got %v", i, want, out[i])
		}
	}
}

func TestOscillatorDetune(t *testing.T) {
	c := newTestContext(t, 8000)
	octaveUp := c.NewOscillator(Sawtooth)
	octaveUp.Frequency.SetValue(250)
	octaveUp.Detune.SetValue(1200)
	plain := c.NewOscillator(Sawtooth)
	plain.Frequency.SetValue(500)
	for _, o := range []*Oscillator{octaveUp, plain} {
		if err := o.Start(0); err != nil {
			t.Fatal(err)
		}
	}
	a, b := octaveUp.pull(0), plain.pull(0)
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			t.Fatalf("frame %d: want %v, got %v", i, b[i], a[i])
		}
	}
}

func TestWaveformsAreBounded(t *testing.T) {
	c := newTestContext(t, 44100)
	for _, w := range []Waveform{Sine, Square, Sawtooth, Triangle} {
		osc := c.NewOscillator(w)
		osc.Frequency.SetValue(440)
		if err := osc.Start(0); err != nil {
			t.Fatal(err)
		}
		var min, max float64
		for frame := int64(0); frame < 1024; frame += renderQuantum {
			for _, v := range osc.pull(frame) {
				min = math.Min(min, v)
				max = math.Max(max, v)
			}
		}
		if min < -1 || max > 1 || min > -0.9 || max < 0.9 {
			t.Errorf("%v: range [%v, %v]", w, min, max)
		}
	}
}

func TestParseWaveform(t *testing.T) {
	tests := []struct {
		in   string
		want Waveform
		err  bool
	}{
		{"sine", Sine, false},
		{"square", Square, false},
		{"saw", Sawtooth, false},
		{"sawtooth", Sawtooth, false},
		{"triangle", Triangle, false},
		{"noise", 0, true},
	}
	for _, test := range tests {
		got, err := ParseWaveform(test.in)
		if (err != nil) != test.err {
			t.Errorf("%q: unexpected error: %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("%q: want %v, got %v", test.in, test.want, got)
		}
	}

	var w Waveform
	if err := json.Unmarshal([]byte(`"triangle"`), &w); err != nil {
		t.Fatal(err)
	}
	if want, got := Triangle, w; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if _, err := ParseFilterType("notch"); err == nil {
		t.Error("want error for an unsupported filter type")
	}
}

func rms(buf []float64) float64 {
	var sum float64
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}

// filterResponse renders a sine at freq through a filter and returns the
// RMS of the settled output relative to the input.
func filterResponse(t *testing.T, typ FilterType, cutoff, freq float64) float64 {
	t.Helper()
	c := newTestContext(t, 44100)
	osc := c.NewOscillator(Sine)
	osc.Frequency.SetValue(freq)
	f := c.NewBiquadFilter(typ)
	f.Frequency.SetValue(cutoff)
	f.Q.SetValue(0.707)
	osc.Connect(f)
	if err := osc.Start(0); err != nil {
		t.Fatal(err)
	}
	var in, out []float64
	for frame := int64(0); frame < 44100/2; frame += renderQuantum {
		o := f.pull(frame)
		if frame < 44100/4 {
			continue
		}
		in = append(in, osc.pull(frame)...)
		out = append(out, o...)
	}
	return rms(out) / rms(in)
}

func TestBiquadFilter(t *testing.T) {
	tests := []struct {
		typ      FilterType
		cutoff   float64
		freq     float64
		min, max float64
	}{
		{Lowpass, 500, 100, 0.9, 1.1},
		{Lowpass, 500, 8000, 0, 0.01},
		{Highpass, 2000, 100, 0, 0.01},
		{Highpass, 500, 8000, 0.9, 1.1},
		{Bandpass, 1000, 1000, 0.9, 1.1},
		{Bandpass, 1000, 10000, 0, 0.2},
	}
	for _, test := range tests {
		got := filterResponse(t, test.typ, test.cutoff, test.freq)
		if got < test.min || got > test.max {
			t.Errorf("%v at %vHz, %vHz tone: gain %v not in [%v, %v]",
				test.typ, test.cutoff, test.freq, got, test.min, test.max)
		}
	}
}

func TestCompressor(t *testing.T) {
	c := newTestContext(t, 44100)
	comp := c.newCompressor(CompressorOptions{})

	loud := make([]float64, renderQuantum)
	out := make([]float64, renderQuantum)
	for i := range loud {
		loud[i] = 1
	}
	for i := 0; i < 100; i++ {
		comp.process(loud, out, 0)
	}
	// 0dB in, -24dB threshold, 12:1 above the knee
	want := math.Pow(10, -22.0/20)
	if math.Abs(out[len(out)-1]-want) > 0.01 {
		t.Errorf("loud input: want %v, got %v", want, out[len(out)-1])
	}

	quiet := make([]float64, renderQuantum)
	for i := range quiet {
		quiet[i] = 0.001
	}
	comp = c.newCompressor(CompressorOptions{})
	comp.process(quiet, out, 0)
	for i := range out {
		if out[i] != quiet[i] {
			t.Fatalf("quiet input changed at frame %d: %v", i, out[i])
		}
	}
	if want, got := 0.0, comp.Reduction(); want != got {
		t.Errorf("want no reduction, got %v", got)
	}
}

func TestEnvelope(t *testing.T) {
	c := newTestContext(t, 1000)
	p := c.newParam(1)
	env := Envelope{Attack: 0.05, Hold: 0.35, Fall: 0.2, Sustain: 0.3, Release: 0.2, Floor: 0.0001}
	env.Apply(p, 0, 1)

	if want, got := 0.8, env.Length(); !almostEqual(want, got) {
		t.Errorf("want length %v, got %v", want, got)
	}
	tests := []struct {
		at, want float64
	}{
		{0, 0},
		{0.025, 0.5},
		{0.05, 1},
		{0.3, 1},
		{0.6, 0.3},
		{0.7, math.Sqrt(0.3 * 0.0001)},
		{0.8, 0.0001},
		{2, 0.0001},
	}
	for _, test := range tests {
		if got := p.valueAt(test.at); math.Abs(test.want-got) > 1e-6 {
			t.Errorf("at %v: want %v, got %v", test.at, test.want, got)
		}
	}
}
