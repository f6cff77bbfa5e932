// Package ambient plays procedural ambient soundscapes. An Engine builds the
// layers of a scene preset on an audio graph and crossfades between scenes.
package ambient

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/mrdg/ambient/audio"
	"github.com/mrdg/ambient/scene"
)

const (
	// DefaultVolume is the master volume of a new engine.
	DefaultVolume = 0.5
	// SwitchFade is the default fade-out of the old scene when switching scenes.
	SwitchFade = 3 * time.Second
	// StopFade is the default fade-out on Stop.
	StopFade = 1500 * time.Millisecond
	// VolumeRamp is the default time SetVolume takes to reach its target.
	VolumeRamp = 80 * time.Millisecond
	// MinInterval is the default lower bound for arp and pulse intervals.
	MinInterval = 200 * time.Millisecond
)

// Tunable properties of an Engine, in seconds.
const (
	PropSwitchFade  = "fade.switch"
	PropStopFade    = "fade.stop"
	PropVolumeRamp  = "volume.ramp"
	PropMinInterval = "interval.min"
)

// Config configures an Engine. The zero value plays the built-in scenes on an
// offline context driven by the system clock.
type Config struct {
	Catalog    *scene.Catalog
	Clock      Clock
	Device     audio.DeviceFactory
	SampleRate int
	Compressor audio.CompressorOptions
	Rand       *rand.Rand
	Volume     scene.Option[float64]
}

// Engine owns one audio context and the layers playing on it. All methods are
// safe for concurrent use.
type Engine struct {
	props   *audio.Props
	cfg     Config
	catalog *scene.Catalog
	clock   Clock
	rng     *lockedRand

	mu       sync.Mutex
	ctx      *audio.Context
	noise    *noiseCache
	layers   []*layer
	retiring map[*layer]struct{}
	playing  bool
	current  string
	volume   float64
}

func New(cfg Config) *Engine {
	if cfg.Catalog == nil {
		cfg.Catalog = scene.Builtin()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		props:    audio.NewProps(),
		cfg:      cfg,
		catalog:  cfg.Catalog,
		clock:    cfg.Clock,
		rng:      newLockedRand(cfg.Rand),
		retiring: make(map[*layer]struct{}),
		volume:   clamp01(cfg.Volume.Or(DefaultVolume)),
	}
	e.props.MustRegister(PropSwitchFade, audio.FloatRange(0, 60), SwitchFade.Seconds())
	e.props.MustRegister(PropStopFade, audio.FloatRange(0, 60), StopFade.Seconds())
	e.props.MustRegister(PropVolumeRamp, audio.FloatRange(0, 10), VolumeRamp.Seconds())
	e.props.MustRegister(PropMinInterval, audio.FloatRange(0.01, 10), MinInterval.Seconds())
	return e
}

// Init opens the output. Calling it is optional: Play opens the output on
// first use.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.ensureContext()
	return err
}

func (e *Engine) ensureContext() (*audio.Context, error) {
	if e.ctx != nil {
		return e.ctx, nil
	}
	ctx, err := audio.NewContext(audio.Options{
		SampleRate: e.cfg.SampleRate,
		Device:     e.cfg.Device,
		Compressor: e.cfg.Compressor,
	})
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	ctx.Master().Gain.SetValue(e.volume)
	e.ctx = ctx
	e.noise = newNoiseCache(ctx.SampleRate(), e.rng)
	return ctx, nil
}

// Play crossfades to the scene called name, or to the default scene if there
// is no such scene. Playing the scene that is already playing does nothing.
func (e *Engine) Play(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	key, preset := e.catalog.Resolve(name)
	ctx, err := e.ensureContext()
	if err != nil {
		return err
	}
	if err := ctx.Resume(); err != nil {
		return fmt.Errorf("resume output: %w", err)
	}
	if e.playing && e.current == key {
		return nil
	}

	e.retireAll(e.seconds(PropSwitchFade))

	f := &factory{
		ctx:         ctx,
		clock:       e.clock,
		rng:         e.rng,
		noise:       e.noise,
		minInterval: e.seconds(PropMinInterval),
	}
	layers, err := f.build(preset)
	if err != nil {
		e.playing = false
		e.current = ""
		return fmt.Errorf("play %s: %w", key, err)
	}
	e.layers = layers
	e.playing = true
	e.current = key
	return nil
}

// Stop fades out every layer. The engine is idle as soon as Stop returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.retireAll(e.seconds(PropStopFade))
	e.playing = false
	e.current = ""
}

// retireAll fades out the active layers. Called with e.mu held.
func (e *Engine) retireAll(fade time.Duration) {
	for _, l := range e.layers {
		l := l
		e.retiring[l] = struct{}{}
		l.retire(e.clock, fade, func() { e.forget(l) })
	}
	e.layers = nil
}

func (e *Engine) forget(l *layer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.retiring, l)
}

// SetVolume sets the master volume, clamped to [0, 1]. The change is ramped to
// avoid clicks.
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = clamp01(v)
	if e.ctx == nil {
		return
	}
	gain := e.ctx.Master().Gain
	now := e.ctx.CurrentTime()
	gain.CancelAndHoldAtTime(now)
	gain.LinearRampToValueAtTime(e.volume, now+e.seconds(PropVolumeRamp).Seconds())
}

// Destroy tears down every layer immediately and closes the output. It can
// be called more than once; a later Play opens a new output.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, l := range e.layers {
		l.destroy()
	}
	for l := range e.retiring {
		l.destroy()
	}
	e.layers = nil
	e.retiring = make(map[*layer]struct{})
	e.playing = false
	e.current = ""
	if e.ctx != nil {
		// Close only fails when stopping the device does; it is closed either way.
		_ = e.ctx.Close()
		e.ctx = nil
	}
	e.noise = nil
}

func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// CurrentPreset returns the key of the scene playing, or "" when idle. After
// playing an unknown name it is the default scene's key.
func (e *Engine) CurrentPreset() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Catalog returns the scenes the engine can play.
func (e *Engine) Catalog() *scene.Catalog { return e.catalog }

// Context returns the current audio context, or nil if none is open.
func (e *Engine) Context() *audio.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx
}

// Layers describes the active layers followed by the ones fading out.
func (e *Engine) Layers() []LayerInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	var infos []LayerInfo
	for _, l := range e.layers {
		infos = append(infos, l.info())
	}
	for l := range e.retiring {
		infos = append(infos, l.info())
	}
	return infos
}

// Set updates the tunable property key. See the Prop constants.
func (e *Engine) Set(key string, value interface{}) error { return e.props.Set(key, value) }

func (e *Engine) Get(key string) (interface{}, error) { return e.props.Get(key) }

// Keys returns the names of the tunable properties.
func (e *Engine) Keys() []string { return e.props.Keys() }

func (e *Engine) seconds(key string) time.Duration {
	return time.Duration(e.props.Float(key) * float64(time.Second))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
