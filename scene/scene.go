// Package scene holds the preset catalog: named compositions of pad, arp,
// noise and pulse layers.
package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mrdg/ambient/audio"
)

// Duration is a time.Duration that reads and writes JSON as "250ms", "4s", or a
// plain number of seconds.
type Duration time.Duration

func (d Duration) D() time.Duration { return time.Duration(d) }

// Seconds returns d as floating point seconds, the unit of the audio clock.
func (d Duration) Seconds() float64 { return time.Duration(d).Seconds() }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = Duration(math.Round(x * float64(time.Second)))
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration: %s", b)
	}
	return nil
}

func sec(s float64) Duration { return Duration(math.Round(s * float64(time.Second))) }

func ms(n int) Duration { return Duration(time.Duration(n) * time.Millisecond) }

// LFO is a slow sine modulation. Depth is a fraction of the modulated value.
type LFO struct {
	Rate  float64 `json:"rate"`
	Depth float64 `json:"depth"`
}

// Preset is a scene: any number of layers of each kind.
type Preset struct {
	Label  string        `json:"label"`
	Pads   []PadConfig   `json:"pads,omitempty"`
	Arps   []ArpConfig   `json:"arps,omitempty"`
	Noises []NoiseConfig `json:"noises,omitempty"`
	Pulses []PulseConfig `json:"pulses,omitempty"`
}

// Layers returns the total number of layers in the preset.
func (p Preset) Layers() int {
	return len(p.Pads) + len(p.Arps) + len(p.Noises) + len(p.Pulses)
}

// PadConfig is a sustained chord of detuned oscillator pairs through a
// lowpass filter. Root is a MIDI note and Detune is in cents. LFO, if present,
// modulates the cutoff by Depth*Cutoff.
type PadConfig struct {
	Root      int            `json:"root"`
	Intervals []int          `json:"intervals,omitempty"`
	Detune    float64        `json:"detune"`
	Wave      audio.Waveform `json:"wave"`
	Cutoff    float64        `json:"cutoff"`
	Q         float64        `json:"q"`
	Gain      float64        `json:"gain"`
	Attack    Duration       `json:"attack"`
	LFO       Option[LFO]    `json:"lfo"`
}

// ArpConfig plays random notes from Scale over Octaves octaves above Root.
// Octaves below 1 is treated as 1.
type ArpConfig struct {
	Root       int            `json:"root"`
	Scale      []int          `json:"scale"`
	Octaves    int            `json:"octaves"`
	Interval   Duration       `json:"interval"`
	Jitter     Duration       `json:"jitter"`
	NoteLength Duration       `json:"noteLength"`
	Wave       audio.Waveform `json:"wave"`
	Gain       float64        `json:"gain"`
	Cutoff     float64        `json:"cutoff"`
}

// NoiseConfig is a looped white or brown noise bed. AM, if present,
// modulates the gain by Depth*Gain.
type NoiseConfig struct {
	Filter audio.FilterType `json:"filter"`
	Cutoff float64          `json:"cutoff"`
	Q      float64          `json:"q"`
	Gain   float64          `json:"gain"`
	AM     Option[LFO]      `json:"am"`
	Brown  bool             `json:"brown"`
}

// PulseConfig fires short bursts. With a Pitch (Hz) each burst is a tone of
// Wave (sine when absent); without one it is a white noise burst.
type PulseConfig struct {
	Filter   audio.FilterType       `json:"filter"`
	Cutoff   float64                `json:"cutoff"`
	Q        float64                `json:"q"`
	Length   Duration               `json:"length"`
	Interval Duration               `json:"interval"`
	Jitter   Duration               `json:"jitter"`
	Gain     float64                `json:"gain"`
	Pitch    Option[float64]        `json:"pitch"`
	Wave     Option[audio.Waveform] `json:"wave"`
}
