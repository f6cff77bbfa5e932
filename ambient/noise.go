package ambient

import (
	"math/rand"
	"sync"

	"github.com/gopxl/beep"
	"github.com/mrdg/ambient/audio"
)

const (
	// NoiseSeconds is the length of the cached noise loops.
	NoiseSeconds = 4
	// BrownWeight is the weight of each new white sample in the brown noise
	// integrator.
	BrownWeight = 0.02
	// BrownGain brings brown noise up to roughly the loudness of white noise.
	BrownGain = 3.5
)

// noiseCache holds the white and brown noise loops of one context. Each
// buffer is generated on first use.
type noiseCache struct {
	mu           sync.Mutex
	rate         int
	rng          *lockedRand
	white, brown *beep.Buffer
}

func newNoiseCache(rate int, rng *lockedRand) *noiseCache {
	return &noiseCache{rate: rate, rng: rng}
}

func (c *noiseCache) White() *beep.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.white == nil {
		c.white = audio.NewMonoBuffer(c.rate, whiteNoise(c.rng, c.rate*NoiseSeconds))
	}
	return c.white
}

func (c *noiseCache) Brown() *beep.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.brown == nil {
		c.brown = audio.NewMonoBuffer(c.rate, brownNoise(c.rng, c.rate*NoiseSeconds))
	}
	return c.brown
}

func whiteNoise(rng *lockedRand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.uniform(-1, 1)
	}
	return out
}

func brownNoise(rng *lockedRand, n int) []float64 {
	out := make([]float64, n)
	var x float64
	for i := range out {
		x = (x + BrownWeight*rng.uniform(-1, 1)) / (1 + BrownWeight)
		v := x * BrownGain
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = v
	}
	return out
}

// lockedRand is a rand.Rand safe for use from timer goroutines.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(r *rand.Rand) *lockedRand {
	return &lockedRand{r: r}
}

func (l *lockedRand) uniform(lo, hi float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lo + (hi-lo)*l.r.Float64()
}

func (l *lockedRand) intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}
