package ambient

import (
	"time"

	"github.com/mrdg/ambient/audio"
	"github.com/mrdg/ambient/scene"
)

const (
	// NoiseFadeIn is the fade-in time of noise layers.
	NoiseFadeIn = 2 * time.Second
	// PitchJitter is the random pitch variation of tonal pulses.
	PitchJitter = 0.05

	arpAttack    = 0.05
	arpSustain   = 0.3
	arpFloor     = 0.0001
	arpStopAfter = 0.05

	pulseAttack = 0.005
	pulseFloor  = 0.001
)

// factory builds layers on one context.
type factory struct {
	ctx         *audio.Context
	clock       Clock
	rng         *lockedRand
	noise       *noiseCache
	minInterval time.Duration
}

// build creates every layer of p. On error the layers built so far are
// destroyed.
func (f *factory) build(p scene.Preset) ([]*layer, error) {
	at := f.ctx.CurrentTime()
	var layers []*layer
	add := func(l *layer, err error) error {
		if l != nil {
			layers = append(layers, l)
		}
		return err
	}
	var err error
	for _, c := range p.Pads {
		if err = add(f.pad(c, at)); err != nil {
			break
		}
	}
	for _, c := range p.Arps {
		if err != nil {
			break
		}
		err = add(f.arp(c))
	}
	for _, c := range p.Noises {
		if err != nil {
			break
		}
		err = add(f.noiseLayer(c, at))
	}
	for _, c := range p.Pulses {
		if err != nil {
			break
		}
		err = add(f.pulse(c))
	}
	if err != nil {
		for _, l := range layers {
			l.destroy()
		}
		return nil, err
	}
	return layers, nil
}

// next returns the delay before the next cycle of a jittered loop.
func (f *factory) next(interval, jitter scene.Duration) func() time.Duration {
	return func() time.Duration {
		d := interval.D()
		if jitter > 0 {
			j := jitter.Seconds()
			d += time.Duration(f.rng.uniform(-j, j) * float64(time.Second))
		}
		if d < f.minInterval {
			d = f.minInterval
		}
		return d
	}
}

func (f *factory) pad(c scene.PadConfig, at float64) (*layer, error) {
	l := newLayer(Pad, f.ctx)
	filter := f.ctx.NewBiquadFilter(audio.Lowpass)
	filter.Frequency.SetValue(c.Cutoff)
	filter.Q.SetValue(c.Q)
	filter.Connect(l.out)
	l.own(filter)

	fadeIn(l.out.Gain, c.Gain, at, c.Attack.Seconds())

	if lfo, ok := c.LFO.Get(); ok {
		if err := f.modulate(l, filter.Frequency, lfo.Rate, lfo.Depth*c.Cutoff, at); err != nil {
			return l, err
		}
	}

	notes := []int{c.Root}
	for _, iv := range c.Intervals {
		notes = append(notes, c.Root+iv)
	}
	for _, n := range notes {
		for _, detune := range []float64{-c.Detune, c.Detune} {
			osc := f.ctx.NewOscillator(c.Wave)
			osc.Frequency.SetValue(audio.MidiToFreq(n))
			osc.Detune.SetValue(detune)
			osc.Connect(filter)
			if err := l.start(osc, at); err != nil {
				return l, err
			}
		}
	}
	return l, nil
}

// modulate connects a sine LFO at rate Hz, scaled by depth, to p.
func (f *factory) modulate(l *layer, p *audio.Param, rate, depth, at float64) error {
	lfo := f.ctx.NewOscillator(audio.Sine)
	lfo.Frequency.SetValue(rate)
	amount := f.ctx.NewGain()
	amount.Gain.SetValue(depth)
	lfo.Connect(amount)
	amount.ConnectParam(p)
	l.own(amount)
	return l.start(lfo, at)
}

func fadeIn(p *audio.Param, target, at, seconds float64) {
	if seconds <= 0 {
		p.SetValue(target)
		return
	}
	p.SetValueAtTime(0, at)
	p.LinearRampToValueAtTime(target, at+seconds)
}

func arpPitches(c scene.ArpConfig) []int {
	octaves := c.Octaves
	if octaves < 1 {
		octaves = 1
	}
	var pitches []int
	for o := 0; o < octaves; o++ {
		for _, degree := range c.Scale {
			pitches = append(pitches, c.Root+12*o+degree)
		}
	}
	return pitches
}

func arpEnvelope(length float64) audio.Envelope {
	attack := arpAttack
	if attack > length/2 {
		attack = length / 2
	}
	return audio.Envelope{
		Attack:  attack,
		Hold:    length/2 - attack,
		Fall:    length / 4,
		Sustain: arpSustain,
		Release: length / 4,
		Floor:   arpFloor,
	}
}

func (f *factory) arp(c scene.ArpConfig) (*layer, error) {
	l := newLayer(Arp, f.ctx)
	filter := f.ctx.NewBiquadFilter(audio.Lowpass)
	filter.Frequency.SetValue(c.Cutoff)
	filter.Connect(l.out)
	l.own(filter)
	l.out.Gain.SetValue(c.Gain)

	pitches := arpPitches(c)
	env := arpEnvelope(c.NoteLength.Seconds())

	cycle := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if !l.alive() {
			return
		}
		now := f.ctx.CurrentTime()
		osc := f.ctx.NewOscillator(c.Wave)
		osc.Frequency.SetValue(audio.MidiToFreq(pitches[f.rng.intn(len(pitches))]))
		amp := f.ctx.NewGain()
		osc.Connect(amp)
		amp.Connect(filter)
		env.Apply(amp.Gain, now, 1)
		// swallowed: fails only once the context is closed
		_ = l.play(osc, now, now+env.Length()+arpStopAfter, amp)
	}
	l.repeat(f.clock, f.next(c.Interval, c.Jitter), cycle)
	return l, nil
}

func pulseEnvelope(length float64) audio.Envelope {
	attack := pulseAttack
	if attack > length/2 {
		attack = length / 2
	}
	return audio.Envelope{
		Attack:  attack,
		Release: length - attack,
		Floor:   pulseFloor,
	}
}

func (f *factory) pulse(c scene.PulseConfig) (*layer, error) {
	l := newLayer(Pulse, f.ctx)
	l.out.Gain.SetValue(c.Gain)

	length := c.Length.Seconds()
	env := pulseEnvelope(length)
	pitch, tonal := c.Pitch.Get()
	wave := c.Wave.Or(audio.Sine)

	cycle := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if !l.alive() {
			return
		}
		now := f.ctx.CurrentTime()
		var src scheduled
		if tonal {
			osc := f.ctx.NewOscillator(wave)
			osc.Frequency.SetValue(pitch * (1 + f.rng.uniform(-PitchJitter, PitchJitter)))
			src = osc
		} else {
			buf := f.noise.White()
			b := f.ctx.NewBufferSource(buf)
			if span := buf.Len() - int(length*float64(f.ctx.SampleRate())); span > 0 {
				b.Offset = f.rng.intn(span)
			}
			src = b
		}
		filter := f.ctx.NewBiquadFilter(c.Filter)
		filter.Frequency.SetValue(c.Cutoff)
		filter.Q.SetValue(c.Q)
		amp := f.ctx.NewGain()
		src.Connect(filter)
		filter.Connect(amp)
		amp.Connect(l.out)
		env.Apply(amp.Gain, now, 1)
		// swallowed: fails only once the context is closed
		_ = l.play(src, now, now+length, filter, amp)
	}
	l.repeat(f.clock, f.next(c.Interval, c.Jitter), cycle)
	return l, nil
}

func (f *factory) noiseLayer(c scene.NoiseConfig, at float64) (*layer, error) {
	l := newLayer(Noise, f.ctx)
	buf := f.noise.White()
	if c.Brown {
		buf = f.noise.Brown()
	}
	src := f.ctx.NewBufferSource(buf)
	src.Loop = true
	src.Offset = f.rng.intn(buf.Len())

	filter := f.ctx.NewBiquadFilter(c.Filter)
	filter.Frequency.SetValue(c.Cutoff)
	filter.Q.SetValue(c.Q)
	// amplitude modulation happens before the layer gain so the fade-out
	// silences it too
	amp := f.ctx.NewGain()
	src.Connect(filter)
	filter.Connect(amp)
	amp.Connect(l.out)
	l.own(filter, amp)

	fadeIn(l.out.Gain, c.Gain, at, NoiseFadeIn.Seconds())

	if am, ok := c.AM.Get(); ok {
		if err := f.modulate(l, amp.Gain, am.Rate, am.Depth, at); err != nil {
			return l, err
		}
	}
	return l, l.start(src, at)
}
