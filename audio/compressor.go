package audio

import "math"

// CompressorOptions configures the dynamics compressor at the end of the
// master chain. Zero fields take the defaults below.
type CompressorOptions struct {
	Threshold float64 // dB
	Knee      float64 // dB
	Ratio     float64
	Attack    float64 // seconds
	Release   float64 // seconds
}

var DefaultCompressor = CompressorOptions{
	Threshold: -24,
	Knee:      30,
	Ratio:     12,
	Attack:    0.003,
	Release:   0.25,
}

func (o CompressorOptions) withDefaults() CompressorOptions {
	if o.Threshold == 0 {
		o.Threshold = DefaultCompressor.Threshold
	}
	if o.Knee == 0 {
		o.Knee = DefaultCompressor.Knee
	}
	if o.Ratio < 1 {
		o.Ratio = DefaultCompressor.Ratio
	}
	if o.Attack <= 0 {
		o.Attack = DefaultCompressor.Attack
	}
	if o.Release <= 0 {
		o.Release = DefaultCompressor.Release
	}
	return o
}

// Compressor is a feed-forward soft-knee compressor with peak detection.
type Compressor struct {
	*node
	opts CompressorOptions

	attackCoef, releaseCoef float64
	env                     float64 // detected level, dB
	reduction               float64 // last gain reduction, dB (<= 0)
}

func (c *Context) newCompressor(opts CompressorOptions) *Compressor {
	opts = opts.withDefaults()
	rate := float64(c.sampleRate)
	comp := &Compressor{
		opts:        opts,
		attackCoef:  math.Exp(-1 / (opts.Attack * rate)),
		releaseCoef: math.Exp(-1 / (opts.Release * rate)),
		env:         -120,
	}
	comp.node = c.newNode(comp)
	return comp
}

// Reduction returns the gain reduction applied to the last rendered frame in dB.
func (c *Compressor) Reduction() float64 {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	return c.reduction
}

func (c *Compressor) process(in, out []float64, _ int64) {
	for n, x := range in {
		level := -120.0
		if a := math.Abs(x); a > 1e-6 {
			level = 20 * math.Log10(a)
		}
		coef := c.releaseCoef
		if level > c.env {
			coef = c.attackCoef
		}
		c.env = coef*c.env + (1-coef)*level
		c.reduction = c.gain(c.env) - c.env
		out[n] = x * math.Pow(10, c.reduction/20)
	}
}

// gain is the static curve: the output level in dB for an input level in dB.
func (c *Compressor) gain(level float64) float64 {
	o := c.opts
	over := level - o.Threshold
	switch {
	case 2*over < -o.Knee:
		return level
	case 2*over <= o.Knee:
		d := over + o.Knee/2
		return level + (1/o.Ratio-1)*d*d/(2*o.Knee)
	}
	return o.Threshold + over/o.Ratio
}
