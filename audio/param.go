package audio

import "math"

type automationKind int

const (
	setValue automationKind = iota
	linearRamp
	exponentialRamp
)

type automation struct {
	kind  automationKind
	time  float64 // seconds on the context clock
	value float64
}

// Param is an automatable node parameter. Its value at any frame is the
// automation timeline value plus the sum of every node connected to it.
//
// Ramps interpolate from the previous event (or from the value at the time the
// ramp was scheduled) to the ramp's target. An exponential ramp between values of
// different sign, or from/to zero, holds the previous value instead.
type Param struct {
	ctx    *Context
	value  float64
	events []automation
	inputs []*node

	buf        []float64
	renderedAt int64
}

func (c *Context) newParam(init float64) *Param {
	return &Param{
		ctx:        c,
		value:      init,
		buf:        make([]float64, renderQuantum),
		renderedAt: -1,
	}
}

// SetValue drops all scheduled automation and sets the value immediately.
func (p *Param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.events = nil
	p.value = v
}

// Value returns the automation value at the current context time, ignoring
// connected modulators.
func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.valueAt(p.ctx.currentTime())
}

func (p *Param) SetValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insert(automation{kind: setValue, time: t, value: v})
}

func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.anchor()
	p.insert(automation{kind: linearRamp, time: t, value: v})
}

func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.anchor()
	p.insert(automation{kind: exponentialRamp, time: t, value: v})
}

// CancelScheduledValues removes every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.cancel(t)
}

// CancelAndHoldAtTime removes every event at or after t and pins the value the
// param had at t, so that a following ramp starts from where the old
// automation left off.
func (p *Param) CancelAndHoldAtTime(t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	v := p.valueAt(t)
	p.cancel(t)
	p.insert(automation{kind: setValue, time: t, value: v})
}

func (p *Param) cancel(t float64) {
	for i, ev := range p.events {
		if ev.time >= t {
			p.events = p.events[:i]
			return
		}
	}
}

// anchor makes sure a ramp has a start point: if nothing is scheduled up to now,
// the current value is pinned at the current time.
func (p *Param) anchor() {
	now := p.ctx.currentTime()
	for _, ev := range p.events {
		if ev.time <= now {
			return
		}
	}
	p.insert(automation{kind: setValue, time: now, value: p.valueAt(now)})
}

func (p *Param) insert(ev automation) {
	i := len(p.events)
	for i > 0 && p.events[i-1].time > ev.time {
		i--
	}
	p.events = append(p.events, automation{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = ev
}

func (p *Param) valueAt(t float64) float64 {
	v, t0 := p.value, 0.0
	for _, ev := range p.events {
		if ev.time <= t {
			v, t0 = ev.value, ev.time
			continue
		}
		switch ev.kind {
		case linearRamp:
			return v + (ev.value-v)*(t-t0)/(ev.time-t0)
		case exponentialRamp:
			if v*ev.value <= 0 {
				return v
			}
			return v * math.Pow(ev.value/v, (t-t0)/(ev.time-t0))
		}
		return v
	}
	return v
}

// prune folds events that are fully in the past into the base value, keeping
// the most recent one as the anchor for a ramp that may follow.
func (p *Param) prune(t float64) {
	last := -1
	for i, ev := range p.events {
		if ev.time > t {
			break
		}
		last = i
	}
	if last <= 0 {
		return
	}
	p.value = p.events[last-1].value
	p.events = append(p.events[:0], p.events[last:]...)
}

// fill renders the param for the quantum starting at frame. Called with the
// context lock held.
func (p *Param) fill(frame int64) []float64 {
	if p.renderedAt == frame {
		return p.buf
	}
	rate := float64(p.ctx.sampleRate)
	start := float64(frame) / rate
	p.prune(start)

	if n := len(p.events); n == 0 || p.events[n-1].time <= start {
		v := p.valueAt(start)
		for i := range p.buf {
			p.buf[i] = v
		}
	} else {
		for i := range p.buf {
			p.buf[i] = p.valueAt(float64(frame+int64(i)) / rate)
		}
	}
	for _, src := range p.inputs {
		for i, v := range src.pull(frame) {
			p.buf[i] += v
		}
	}
	p.renderedAt = frame
	return p.buf
}
