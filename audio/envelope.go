package audio

// Envelope is a one-shot amplitude shape scheduled onto a gain param:
//
//	attack (linear to peak) → hold → fall (linear to Sustain*peak) → release (exponential to Floor*peak)
//
// All durations are in seconds. Segments with a zero duration are skipped.
type Envelope struct {
	Attack  float64
	Hold    float64
	Fall    float64
	Sustain float64
	Release float64
	Floor   float64
}

// Length is the time from the start of the attack to the end of the release.
func (e Envelope) Length() float64 {
	return e.Attack + e.Hold + e.Fall + e.Release
}

// Apply schedules the envelope on p starting at context time at.
func (e Envelope) Apply(p *Param, at, peak float64) {
	t := at
	p.SetValueAtTime(0, t)
	t += e.Attack
	p.LinearRampToValueAtTime(peak, t)
	if e.Hold > 0 {
		t += e.Hold
		p.SetValueAtTime(peak, t)
	}
	level := peak
	if e.Fall > 0 {
		t += e.Fall
		level = peak * e.Sustain
		p.LinearRampToValueAtTime(level, t)
	}
	if e.Release > 0 {
		floor := peak * e.Floor
		if floor <= 0 {
			floor = 1e-4
		}
		t += e.Release
		p.ExponentialRampToValueAtTime(floor, t)
	}
}
