package ambient

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrdg/ambient/audio"
)

// Kind is the type of a layer.
type Kind int

const (
	Pad Kind = iota
	Arp
	Noise
	Pulse
)

func (k Kind) String() string {
	switch k {
	case Pad:
		return "pad"
	case Arp:
		return "arp"
	case Noise:
		return "noise"
	case Pulse:
		return "pulse"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// LayerInfo describes a layer for display and tests.
type LayerInfo struct {
	Kind     Kind
	Nodes    int // long-lived nodes, including the layer gain
	Voices   int // notes or bursts still sounding
	Retiring bool
}

type scheduled interface {
	audio.Node
	Start(at float64) error
	Stop(at float64) error
	OnEnded(f func())
}

// voice is the short-lived sub-graph of one arp note or pulse burst.
type voice struct {
	nodes []audio.Node
}

// layer owns every node, source and task it creates. All its output goes
// through out, which is the only node connected to the master gain.
type layer struct {
	kind Kind
	ctx  *audio.Context
	out  *audio.Gain

	mu      sync.Mutex
	nodes   []audio.Node
	sources []scheduled
	voices  map[*voice]struct{}
	tasks   []*Task
	cleanup Timer
	retired bool
	done    bool
}

func newLayer(kind Kind, ctx *audio.Context) *layer {
	l := &layer{
		kind:   kind,
		ctx:    ctx,
		out:    ctx.NewGain(),
		voices: make(map[*voice]struct{}),
	}
	l.out.Connect(ctx.Master())
	l.nodes = append(l.nodes, l.out)
	return l
}

func (l *layer) own(nodes ...audio.Node) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nodes = append(l.nodes, nodes...)
}

// start starts a long-lived source at time at. The source is stopped at
// teardown.
func (l *layer) start(src scheduled, at float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nodes = append(l.nodes, src)
	if err := src.Start(at); err != nil {
		return err
	}
	l.sources = append(l.sources, src)
	return nil
}

// play starts src as a voice lasting until stopAt. The voice's nodes are
// released when src ends. Called with l.mu held.
func (l *layer) play(src scheduled, at, stopAt float64, nodes ...audio.Node) error {
	v := &voice{nodes: append([]audio.Node{src}, nodes...)}
	src.OnEnded(func() { l.release(v) })
	l.voices[v] = struct{}{}
	if err := src.Start(at); err != nil {
		delete(l.voices, v)
		disconnectAll(v.nodes)
		return err
	}
	return src.Stop(stopAt)
}

func (l *layer) release(v *voice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.voices[v]; !ok {
		return
	}
	delete(l.voices, v)
	disconnectAll(v.nodes)
}

func (l *layer) repeat(clock Clock, next func() time.Duration, cycle func()) {
	t := Repeat(clock, next, cycle)
	l.mu.Lock()
	l.tasks = append(l.tasks, t)
	l.mu.Unlock()
}

// alive reports whether the layer is still scheduling voices. Called with
// l.mu held.
func (l *layer) alive() bool {
	return !l.retired && !l.done
}

func (l *layer) cancelTasks() {
	l.mu.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.mu.Unlock()
	// A running cycle holds its task lock and then takes l.mu.
	for _, t := range tasks {
		t.Cancel()
	}
}

// retire stops scheduling, fades the layer out over fade and tears it down
// once the fade is over. onDone runs after the teardown.
func (l *layer) retire(clock Clock, fade time.Duration, onDone func()) {
	l.mu.Lock()
	l.retired = true
	l.mu.Unlock()
	l.cancelTasks()

	now := l.ctx.CurrentTime()
	l.out.Gain.CancelAndHoldAtTime(now)
	l.out.Gain.LinearRampToValueAtTime(0, now+fade.Seconds())

	t := clock.AfterFunc(fade, func() {
		l.teardown()
		if onDone != nil {
			onDone()
		}
	})
	l.mu.Lock()
	l.cleanup = t
	l.mu.Unlock()
}

// destroy tears the layer down without a fade.
func (l *layer) destroy() {
	l.mu.Lock()
	l.retired = true
	if l.cleanup != nil {
		l.cleanup.Stop()
		l.cleanup = nil
	}
	l.mu.Unlock()
	l.cancelTasks()
	l.teardown()
}

// teardown stops every source and disconnects every node. It is safe to call
// more than once.
func (l *layer) teardown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return
	}
	l.done = true
	now := l.ctx.CurrentTime()
	for _, src := range l.sources {
		if err := src.Stop(now); err != nil && !errors.Is(err, audio.ErrInvalidState) {
			log.Printf("ambient: stop %v source: %v", l.kind, err)
		}
	}
	for v := range l.voices {
		disconnectAll(v.nodes)
	}
	disconnectAll(l.nodes)
	l.sources = nil
	l.voices = make(map[*voice]struct{})
}

func (l *layer) info() LayerInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LayerInfo{
		Kind:     l.kind,
		Nodes:    len(l.nodes),
		Voices:   len(l.voices),
		Retiring: l.retired,
	}
}

// connected reports whether every node of the layer is still connected.
func (l *layer) connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range l.nodes {
		if !n.Connected() {
			return false
		}
	}
	return len(l.nodes) > 0
}

// disconnected reports whether no node of the layer has a connection left.
func (l *layer) disconnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range l.nodes {
		if n.Connected() {
			return false
		}
	}
	for v := range l.voices {
		for _, n := range v.nodes {
			if n.Connected() {
				return false
			}
		}
	}
	return true
}

func disconnectAll(nodes []audio.Node) {
	for _, n := range nodes {
		n.Disconnect()
	}
}
