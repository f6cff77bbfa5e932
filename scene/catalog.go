package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrInvalidPreset is wrapped by every validation error.
var ErrInvalidPreset = errors.New("invalid preset")

// Catalog is an immutable set of named presets. It always contains
// DefaultName.
type Catalog struct {
	presets map[string]Preset
}

// Builtin returns the catalog of built-in scenes.
func Builtin() *Catalog {
	return &Catalog{presets: builtin}
}

// NewCatalog validates presets and builds a catalog from them.
func NewCatalog(presets map[string]Preset) (*Catalog, error) {
	if _, ok := presets[DefaultName]; !ok {
		return nil, fmt.Errorf("%w: missing %q preset", ErrInvalidPreset, DefaultName)
	}
	m := make(map[string]Preset, len(presets))
	for name, p := range presets {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		m[name] = p
	}
	return &Catalog{presets: m}, nil
}

// Lookup returns a copy of the preset called name.
func (c *Catalog) Lookup(name string) (Preset, bool) {
	p, ok := c.presets[name]
	return p.clone(), ok
}

// Resolve returns the preset called name, or the default preset if there is
// no such name. The returned key is the name of the preset actually used.
func (c *Catalog) Resolve(name string) (string, Preset) {
	if p, ok := c.presets[name]; ok {
		return name, p.clone()
	}
	return DefaultName, c.presets[DefaultName].clone()
}

// clone copies every slice of p so callers cannot change the catalog.
func (p Preset) clone() Preset {
	p.Pads = append([]PadConfig(nil), p.Pads...)
	for i := range p.Pads {
		p.Pads[i].Intervals = append([]int(nil), p.Pads[i].Intervals...)
	}
	p.Arps = append([]ArpConfig(nil), p.Arps...)
	for i := range p.Arps {
		p.Arps[i].Scale = append([]int(nil), p.Arps[i].Scale...)
	}
	p.Noises = append([]NoiseConfig(nil), p.Noises...)
	p.Pulses = append([]PulseConfig(nil), p.Pulses...)
	return p
}

// Names returns the preset names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Len() int { return len(c.presets) }

// Merge returns a new catalog with extra added to c. Presets in extra replace
// presets of the same name.
func (c *Catalog) Merge(extra map[string]Preset) (*Catalog, error) {
	m := make(map[string]Preset, len(c.presets)+len(extra))
	for name, p := range c.presets {
		m[name] = p
	}
	for name, p := range extra {
		m[name] = p
	}
	return NewCatalog(m)
}

// Load reads a JSON object mapping scene names to presets:
//
//	{"crypt": {"label": "Crypt", "noises": [{"filter": "lowpass", "cutoff": 300, "gain": 0.1, "brown": true}]}}
//
// Durations are either strings ("1.5s") or numbers of seconds.
func Load(r io.Reader) (map[string]Preset, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var presets map[string]Preset
	if err := dec.Decode(&presets); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	for name, p := range presets {
		if name == "" {
			return nil, fmt.Errorf("%w: empty scene name", ErrInvalidPreset)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
	}
	return presets, nil
}

// Validate checks that every layer of p can be built.
func (p Preset) Validate() error {
	for i, c := range p.Pads {
		if err := c.validate(); err != nil {
			return fmt.Errorf("pad %d: %w", i, err)
		}
	}
	for i, c := range p.Arps {
		if err := c.validate(); err != nil {
			return fmt.Errorf("arp %d: %w", i, err)
		}
	}
	for i, c := range p.Noises {
		if err := c.validate(); err != nil {
			return fmt.Errorf("noise %d: %w", i, err)
		}
	}
	for i, c := range p.Pulses {
		if err := c.validate(); err != nil {
			return fmt.Errorf("pulse %d: %w", i, err)
		}
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidPreset, fmt.Sprintf(format, args...))
}

func checkGain(g float64) error {
	if g < 0 || g > 1 {
		return invalid("gain out of range 0 - 1: %v", g)
	}
	return nil
}

func checkFilter(cutoff, q float64) error {
	if cutoff <= 0 {
		return invalid("cutoff must be positive: %v", cutoff)
	}
	if q < 0 {
		return invalid("q must not be negative: %v", q)
	}
	return nil
}

func checkLFO(o Option[LFO]) error {
	lfo, ok := o.Get()
	if !ok {
		return nil
	}
	if lfo.Rate <= 0 {
		return invalid("lfo rate must be positive: %v", lfo.Rate)
	}
	if lfo.Depth < 0 || lfo.Depth > 1 {
		return invalid("lfo depth out of range 0 - 1: %v", lfo.Depth)
	}
	return nil
}

func checkNote(n int) error {
	if n < 0 || n > 127 {
		return invalid("root is not a midi note: %v", n)
	}
	return nil
}

func (c PadConfig) validate() error {
	if err := checkNote(c.Root); err != nil {
		return err
	}
	if err := checkGain(c.Gain); err != nil {
		return err
	}
	if err := checkFilter(c.Cutoff, c.Q); err != nil {
		return err
	}
	if c.Attack < 0 {
		return invalid("negative attack: %v", c.Attack.D())
	}
	return checkLFO(c.LFO)
}

func (c ArpConfig) validate() error {
	if err := checkNote(c.Root); err != nil {
		return err
	}
	if len(c.Scale) == 0 {
		return invalid("empty scale")
	}
	if err := checkGain(c.Gain); err != nil {
		return err
	}
	if err := checkFilter(c.Cutoff, 0); err != nil {
		return err
	}
	if c.Interval <= 0 || c.NoteLength <= 0 {
		return invalid("interval and note length must be positive")
	}
	if c.Jitter < 0 {
		return invalid("negative jitter: %v", c.Jitter.D())
	}
	return nil
}

func (c NoiseConfig) validate() error {
	if err := checkGain(c.Gain); err != nil {
		return err
	}
	if err := checkFilter(c.Cutoff, c.Q); err != nil {
		return err
	}
	return checkLFO(c.AM)
}

func (c PulseConfig) validate() error {
	if err := checkGain(c.Gain); err != nil {
		return err
	}
	if err := checkFilter(c.Cutoff, c.Q); err != nil {
		return err
	}
	if c.Length <= 0 || c.Interval <= 0 {
		return invalid("length and interval must be positive")
	}
	if c.Jitter < 0 {
		return invalid("negative jitter: %v", c.Jitter.D())
	}
	if pitch, ok := c.Pitch.Get(); ok && pitch <= 0 {
		return invalid("pitch must be positive: %v", pitch)
	}
	return nil
}
