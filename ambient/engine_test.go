package ambient

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/mrdg/ambient/audio"
	"github.com/mrdg/ambient/scene"
)

func newTestEngine(t *testing.T) (*Engine, *ManualClock) {
	t.Helper()
	clock := NewManualClock(time.Unix(0, 0))
	e := New(Config{
		Clock: clock,
		Rand:  rand.New(rand.NewSource(1)),
	})
	t.Cleanup(e.Destroy)
	return e, clock
}

func countKinds(infos []LayerInfo) map[Kind]int {
	m := make(map[Kind]int)
	for _, info := range infos {
		m[info.Kind]++
	}
	return m
}

func TestPlayEveryPreset(t *testing.T) {
	catalog := scene.Builtin()
	for _, name := range catalog.Names() {
		t.Run(name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			if err := e.Play(name); err != nil {
				t.Fatal(err)
			}
			if !e.IsPlaying() {
				t.Error("not playing after Play")
			}
			if want, got := name, e.CurrentPreset(); want != got {
				t.Errorf("want current preset %q, got %q", want, got)
			}
			p, _ := catalog.Lookup(name)
			if want, got := p.Layers(), len(e.Layers()); want != got {
				t.Errorf("want %d layers, got %d", want, got)
			}
		})
	}
}

func TestPlayUnknownFallsBackToDefault(t *testing.T) {
	unknown, _ := newTestEngine(t)
	if err := unknown.Play("moon base"); err != nil {
		t.Fatal(err)
	}
	def, _ := newTestEngine(t)
	if err := def.Play(scene.DefaultName); err != nil {
		t.Fatal(err)
	}
	if want, got := def.CurrentPreset(), unknown.CurrentPreset(); want != got {
		t.Errorf("want current preset %q, got %q", want, got)
	}
	if want, got := def.Layers(), unknown.Layers(); !reflect.DeepEqual(want, got) {
		t.Errorf("wrong layers:\nwant: %+v\ngot:  %+v", want, got)
	}
	if want, got := def.Context().Stats(), unknown.Context().Stats(); want != got {
		t.Errorf("wrong graph stats: want %+v, got %+v", want, got)
	}
}

func TestPlaySamePresetTwice(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Play("tavern"); err != nil {
		t.Fatal(err)
	}
	nodes := e.Context().Stats().NodesCreated
	layers := len(e.Layers())

	if err := e.Play("tavern"); err != nil {
		t.Fatal(err)
	}
	if want, got := nodes, e.Context().Stats().NodesCreated; want != got {
		t.Errorf("second Play created nodes: want %d, got %d", want, got)
	}
	if want, got := layers, len(e.Layers()); want != got {
		t.Errorf("want %d layers, got %d", want, got)
	}
}

func TestPlayUnknownTwiceAfterDefault(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Play(scene.DefaultName); err != nil {
		t.Fatal(err)
	}
	nodes := e.Context().Stats().NodesCreated
	if err := e.Play("somewhere else"); err != nil {
		t.Fatal(err)
	}
	if want, got := nodes, e.Context().Stats().NodesCreated; want != got {
		t.Errorf("unknown name rebuilt the default scene: want %d nodes, got %d", want, got)
	}
}

func TestStopThenDestroy(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Play("forest"); err != nil {
		t.Fatal(err)
	}
	e.Stop()
	if e.IsPlaying() {
		t.Error("still playing right after Stop")
	}
	if want, got := "", e.CurrentPreset(); want != got {
		t.Errorf("want no current preset, got %q", got)
	}
	e.Destroy()
	e.Destroy()
	if e.IsPlaying() {
		t.Error("playing after Destroy")
	}
	if e.Context() != nil {
		t.Error("context still open after Destroy")
	}
	e.Stop()
}

func TestStopFadesOut(t *testing.T) {
	e, clock := newTestEngine(t)
	if err := e.Play("tavern"); err != nil {
		t.Fatal(err)
	}
	e.Stop()
	for _, info := range e.Layers() {
		if !info.Retiring {
			t.Errorf("%v layer not retiring after Stop", info.Kind)
		}
	}
	clock.Advance(StopFade - time.Millisecond)
	if len(e.Layers()) == 0 {
		t.Error("layers released before the fade is over")
	}
	clock.Advance(time.Millisecond)
	if want, got := 0, len(e.Layers()); want != got {
		t.Errorf("want %d layers after the fade, got %d", want, got)
	}
}

func TestSetVolume(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-5, 0},
		{5, 1},
		{0.25, 0.25},
		{0, 0},
		{1, 1},
	}
	e, _ := newTestEngine(t)
	for _, test := range tests {
		e.SetVolume(test.in)
		if got := e.Volume(); got != test.want {
			t.Errorf("SetVolume(%v): want %v, got %v", test.in, test.want, got)
		}
	}
	if err := e.Play("cave"); err != nil {
		t.Fatal(err)
	}
	e.SetVolume(5)
	if want, got := 1.0, e.Volume(); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestSetVolumeRamps(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := e.Context()
	if err := ctx.Resume(); err != nil {
		t.Fatal(err)
	}
	master := ctx.Master().Gain
	if want, got := DefaultVolume, master.Value(); want != got {
		t.Errorf("want initial master gain %v, got %v", want, got)
	}
	e.SetVolume(1)
	if want, got := DefaultVolume, master.Value(); want != got {
		t.Errorf("master gain jumped: want %v, got %v", want, got)
	}
	render(ctx, time.Second)
	if want, got := 1.0, master.Value(); want != got {
		t.Errorf("want master gain %v after the ramp, got %v", want, got)
	}
}

func TestBattleComposition(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Play("battle"); err != nil {
		t.Fatal(err)
	}
	want := map[Kind]int{Pad: 1, Arp: 1, Noise: 1, Pulse: 1}
	if got := countKinds(e.Layers()); !reflect.DeepEqual(want, got) {
		t.Errorf("wrong layers: want %v, got %v", want, got)
	}
}

func TestCrossfade(t *testing.T) {
	e, clock := newTestEngine(t)
	if err := e.Play("tavern"); err != nil {
		t.Fatal(err)
	}
	tavern := append([]*layer(nil), e.layers...)

	if err := e.Play("dungeon"); err != nil {
		t.Fatal(err)
	}
	dungeon := append([]*layer(nil), e.layers...)

	if want, got := "dungeon", e.CurrentPreset(); want != got {
		t.Errorf("want current preset %q, got %q", want, got)
	}
	for _, l := range tavern {
		if !l.connected() {
			t.Errorf("tavern %v layer disconnected before the fade is over", l.kind)
		}
	}

	clock.Advance(SwitchFade)

	for _, l := range tavern {
		if !l.disconnected() {
			t.Errorf("tavern %v layer still connected after the fade", l.kind)
		}
	}
	for _, l := range dungeon {
		if !l.connected() {
			t.Errorf("dungeon %v layer disconnected", l.kind)
		}
	}
	if want, got := len(dungeon), len(e.Layers()); want != got {
		t.Errorf("want %d layers, got %d", want, got)
	}
}

func TestCrossfadeStopsOldSchedulingImmediately(t *testing.T) {
	e, clock := newTestEngine(t)
	if err := e.Play("tavern"); err != nil {
		t.Fatal(err)
	}
	var tasks []*Task
	for _, l := range e.layers {
		tasks = append(tasks, l.tasks...)
	}
	if len(tasks) == 0 {
		t.Fatal("tavern has no scheduled layers")
	}
	runs := make([]int, len(tasks))
	for i, task := range tasks {
		runs[i] = task.Runs()
	}
	if err := e.Play("ocean"); err != nil {
		t.Fatal(err)
	}
	clock.Advance(10 * time.Second)
	for i, task := range tasks {
		if want, got := runs[i], task.Runs(); want != got {
			t.Errorf("retired task kept running: want %d runs, got %d", want, got)
		}
	}
}

func TestSwitchFadeProp(t *testing.T) {
	e, clock := newTestEngine(t)
	if err := e.Set(PropSwitchFade, 0.5); err != nil {
		t.Fatal(err)
	}
	if err := e.Set(PropSwitchFade, -1.0); err == nil {
		t.Error("expected an error for a negative fade")
	}
	if err := e.Set("fade.nope", 1.0); err == nil {
		t.Error("expected an error for an unknown property")
	}
	if err := e.Play("night"); err != nil {
		t.Fatal(err)
	}
	if err := e.Play("dawn"); err != nil {
		t.Fatal(err)
	}
	clock.Advance(500 * time.Millisecond)
	for _, info := range e.Layers() {
		if info.Retiring {
			t.Errorf("%v layer still retiring after the configured fade", info.Kind)
		}
	}
}

func TestDestroyStopsScheduling(t *testing.T) {
	e, clock := newTestEngine(t)
	if err := e.Play("battle"); err != nil {
		t.Fatal(err)
	}
	ctx := e.Context()
	before := ctx.Stats().SourcesStarted
	clock.Advance(time.Second)
	if ctx.Stats().SourcesStarted == before {
		t.Fatal("no sources started while playing")
	}

	e.Destroy()
	after := ctx.Stats().SourcesStarted
	clock.Advance(time.Minute)
	if want, got := after, ctx.Stats().SourcesStarted; want != got {
		t.Errorf("sources started after Destroy: want %d, got %d", want, got)
	}
	if want, got := 0, clock.Pending(); want != got {
		t.Errorf("want no pending timers after Destroy, got %d", got)
	}
	if want, got := audio.Closed, ctx.State(); want != got {
		t.Errorf("want context %v, got %v", want, got)
	}
}

func TestDestroyDuringCrossfade(t *testing.T) {
	e, clock := newTestEngine(t)
	if err := e.Play("swamp"); err != nil {
		t.Fatal(err)
	}
	old := append([]*layer(nil), e.layers...)
	if err := e.Play("city"); err != nil {
		t.Fatal(err)
	}
	e.Destroy()
	for _, l := range old {
		if !l.disconnected() {
			t.Errorf("retiring %v layer not released by Destroy", l.kind)
		}
	}
	if want, got := 0, clock.Pending(); want != got {
		t.Errorf("want no pending timers, got %d", got)
	}
	clock.Advance(time.Minute)
	if want, got := 0, len(e.Layers()); want != got {
		t.Errorf("want no layers, got %d", got)
	}
}

func TestPlayAfterDestroy(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Play("temple"); err != nil {
		t.Fatal(err)
	}
	old := e.Context()
	e.Destroy()
	if err := e.Play("temple"); err != nil {
		t.Fatal(err)
	}
	if e.Context() == old {
		t.Error("Play after Destroy reused the closed context")
	}
	if !e.IsPlaying() {
		t.Error("not playing")
	}
}

type failingDevice struct {
	startErr error
}

func (d failingDevice) Start() error { return d.startErr }
func (d failingDevice) Close() error { return nil }

func TestOutputUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		factory audio.DeviceFactory
	}{
		{
			name: "open",
			factory: func(beep.Streamer, int) (audio.Device, error) {
				return nil, errors.New("no output device")
			},
		},
		{
			name: "start",
			factory: func(beep.Streamer, int) (audio.Device, error) {
				return failingDevice{startErr: errors.New("device busy")}, nil
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := New(Config{
				Clock:  NewManualClock(time.Unix(0, 0)),
				Device: test.factory,
			})
			defer e.Destroy()
			err := e.Play("default")
			if !errors.Is(err, audio.ErrUnavailable) {
				t.Fatalf("want an error wrapping %v, got %v", audio.ErrUnavailable, err)
			}
			if e.IsPlaying() {
				t.Error("playing without an output")
			}
			if len(e.Layers()) != 0 {
				t.Error("layers built without an output")
			}
		})
	}
}

func TestVoicesReleasedWhenTheyEnd(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Play("battle"); err != nil {
		t.Fatal(err)
	}
	voices := func() int {
		n := 0
		for _, info := range e.Layers() {
			n += info.Voices
		}
		return n
	}
	// the first arp note and pulse burst start with the scene
	if want, got := 2, voices(); want != got {
		t.Errorf("want %d voices, got %d", want, got)
	}

	ctx := e.Context()
	out := render(ctx, time.Second)

	if want, got := 0, voices(); want != got {
		t.Errorf("want %d voices after they ended, got %d", want, got)
	}
	if want, got := uint64(2), ctx.Stats().SourcesEnded; want != got {
		t.Errorf("want %d ended sources, got %d", want, got)
	}
	var peak float64
	for _, s := range out {
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak == 0 || peak > 1 {
		t.Errorf("want audible output within [-1, 1], got peak %v", peak)
	}
}

func TestArpPitches(t *testing.T) {
	tests := []struct {
		cfg  scene.ArpConfig
		want []int
	}{
		{scene.ArpConfig{Root: 60, Scale: []int{0, 3}, Octaves: 0}, []int{60, 63}},
		{scene.ArpConfig{Root: 60, Scale: []int{0, 3}, Octaves: 1}, []int{60, 63}},
		{scene.ArpConfig{Root: 60, Scale: []int{0, 3}, Octaves: 2}, []int{60, 63, 72, 75}},
	}
	for _, test := range tests {
		if got := arpPitches(test.cfg); !reflect.DeepEqual(test.want, got) {
			t.Errorf("octaves %d: want %v, got %v", test.cfg.Octaves, test.want, got)
		}
	}
}

func TestNextIntervalIsFloored(t *testing.T) {
	f := &factory{
		rng:         newLockedRand(rand.New(rand.NewSource(3))),
		minInterval: MinInterval,
	}
	next := f.next(scene.Duration(50*time.Millisecond), 0)
	if want, got := MinInterval, next(); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	next = f.next(scene.Duration(time.Second), scene.Duration(300*time.Millisecond))
	for i := 0; i < 1000; i++ {
		d := next()
		if d < 700*time.Millisecond || d > 1300*time.Millisecond {
			t.Fatalf("interval out of jitter range: %v", d)
		}
	}
}

func TestEnvelopes(t *testing.T) {
	if want, got := 0.8, arpEnvelope(0.8).Length(); math.Abs(want-got) > 1e-9 {
		t.Errorf("arp envelope: want length %v, got %v", want, got)
	}
	if want, got := 0.02, pulseEnvelope(0.02).Length(); math.Abs(want-got) > 1e-9 {
		t.Errorf("pulse envelope: want length %v, got %v", want, got)
	}
	if want, got := 0.005, pulseEnvelope(0.01).Attack; want != got {
		t.Errorf("short pulse: want attack %v, got %v", want, got)
	}
	short := arpEnvelope(0.06)
	if want, got := 0.06, short.Length(); math.Abs(want-got) > 1e-9 {
		t.Errorf("short arp envelope: want length %v, got %v", want, got)
	}
	if want, got := 0.03, short.Attack; want != got {
		t.Errorf("short arp: want attack %v, got %v", want, got)
	}
	if short.Hold < 0 {
		t.Errorf("short arp: negative hold %v", short.Hold)
	}
}

func TestEngineProps(t *testing.T) {
	e, _ := newTestEngine(t)
	want := []string{PropSwitchFade, PropStopFade, PropMinInterval, PropVolumeRamp}
	sort.Strings(want)
	if got := e.Keys(); !reflect.DeepEqual(want, got) {
		t.Errorf("want props %v, got %v", want, got)
	}
	if err := e.Set(PropVolumeRamp, "0.2"); err != nil {
		t.Fatal(err)
	}
	v, err := e.Get(PropVolumeRamp)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 0.2, v; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := 200*time.Millisecond, e.seconds(PropVolumeRamp); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestBrownNoiseBounded(t *testing.T) {
	rng := newLockedRand(rand.New(rand.NewSource(42)))
	samples := brownNoise(rng, 44100*NoiseSeconds)
	if len(samples) < 10000 {
		t.Fatalf("want at least 10000 samples, got %d", len(samples))
	}
	var energy float64
	for i, v := range samples {
		if v < -1 || v > 1 || math.IsNaN(v) {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
		energy += v * v
	}
	if energy == 0 {
		t.Error("brown noise is silent")
	}
}

func TestWhiteNoiseBounded(t *testing.T) {
	rng := newLockedRand(rand.New(rand.NewSource(42)))
	for i, v := range whiteNoise(rng, 20000) {
		if v < -1 || v > 1 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}

func TestNoiseCacheReusesBuffers(t *testing.T) {
	c := newNoiseCache(8000, newLockedRand(rand.New(rand.NewSource(1))))
	if c.White() != c.White() {
		t.Error("white noise generated twice")
	}
	if c.Brown() != c.Brown() {
		t.Error("brown noise generated twice")
	}
	if want, got := 8000*NoiseSeconds, c.White().Len(); want != got {
		t.Errorf("want %d frames, got %d", want, got)
	}
}

func render(ctx *audio.Context, d time.Duration) [][2]float64 {
	out := make([][2]float64, int(d.Seconds()*float64(ctx.SampleRate())))
	ctx.Stream(out)
	return out
}
