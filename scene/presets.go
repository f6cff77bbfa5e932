package scene

import "github.com/mrdg/ambient/audio"

// DefaultName is the preset played for unknown scene names.
const DefaultName = "default"

var (
	minorPenta = []int{0, 3, 5, 7, 10}
	majorPenta = []int{0, 2, 4, 7, 9}
	dorian     = []int{0, 2, 3, 5, 7, 9, 10}
	phrygian   = []int{0, 1, 3, 5, 7, 8, 10}
	lydian     = []int{0, 2, 4, 6, 7, 9, 11}
)

var builtin = map[string]Preset{
	"default": {
		Label: "Calm ambience",
		Pads: []PadConfig{{
			Root: 48, Intervals: []int{7, 16}, Detune: 6, Wave: audio.Sine,
			Cutoff: 900, Q: 0.7, Gain: 0.14, Attack: sec(4),
			LFO: Some(LFO{Rate: 0.07, Depth: 0.3}),
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Lowpass, Cutoff: 500, Q: 0.5, Gain: 0.05, Brown: true,
		}},
	},
	"tavern": {
		Label: "Tavern",
		Pads: []PadConfig{{
			Root: 45, Intervals: []int{4, 7}, Detune: 8, Wave: audio.Triangle,
			Cutoff: 1200, Q: 0.8, Gain: 0.1, Attack: sec(3),
		}},
		Arps: []ArpConfig{{
			Root: 57, Scale: majorPenta, Octaves: 2,
			Interval: ms(450), Jitter: ms(150), NoteLength: ms(600),
			Wave: audio.Triangle, Gain: 0.09, Cutoff: 2500,
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Bandpass, Cutoff: 900, Q: 0.6, Gain: 0.04,
			AM: Some(LFO{Rate: 0.3, Depth: 0.4}),
		}},
		Pulses: []PulseConfig{{
			Filter: audio.Lowpass, Cutoff: 300, Q: 1.5, Length: ms(120),
			Interval: sec(2.5), Jitter: sec(1.5), Gain: 0.18,
		}},
	},
	"dungeon": {
		Label: "Dungeon",
		Pads: []PadConfig{{
			Root: 36, Intervals: []int{3, 7}, Detune: 12, Wave: audio.Sawtooth,
			Cutoff: 400, Q: 2, Gain: 0.1, Attack: sec(5),
			LFO: Some(LFO{Rate: 0.05, Depth: 0.4}),
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Lowpass, Cutoff: 250, Q: 0.7, Gain: 0.08, Brown: true,
		}},
		Pulses: []PulseConfig{{
			Filter: audio.Bandpass, Cutoff: 1800, Q: 6, Length: ms(80),
			Interval: sec(3), Jitter: sec(2), Gain: 0.12,
			Pitch: Some(1400.0),
		}},
	},
	"cave": {
		Label: "Cave",
		Pads: []PadConfig{{
			Root: 38, Intervals: []int{7}, Detune: 5, Wave: audio.Sine,
			Cutoff: 600, Q: 1, Gain: 0.12, Attack: sec(6),
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Lowpass, Cutoff: 300, Q: 0.5, Gain: 0.06, Brown: true,
			AM: Some(LFO{Rate: 0.08, Depth: 0.3}),
		}},
		Pulses: []PulseConfig{{
			Filter: audio.Bandpass, Cutoff: 2200, Q: 8, Length: ms(60),
			Interval: sec(1.8), Jitter: sec(1.2), Gain: 0.15,
			Pitch: Some(1900.0), Wave: Some(audio.Sine),
		}},
	},
	"forest": {
		Label: "Forest",
		Pads: []PadConfig{{
			Root: 50, Intervals: []int{7, 14}, Detune: 5, Wave: audio.Sine,
			Cutoff: 1500, Q: 0.7, Gain: 0.08, Attack: sec(4),
		}},
		Arps: []ArpConfig{{
			Root: 74, Scale: majorPenta, Octaves: 2,
			Interval: sec(1.2), Jitter: ms(800), NoteLength: ms(250),
			Wave: audio.Sine, Gain: 0.05, Cutoff: 5000,
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Highpass, Cutoff: 2000, Q: 0.5, Gain: 0.025,
			AM: Some(LFO{Rate: 0.15, Depth: 0.5}),
		}},
	},
	"ocean": {
		Label: "Ocean",
		Pads: []PadConfig{{
			Root: 41, Intervals: []int{7, 12}, Detune: 7, Wave: audio.Sine,
			Cutoff: 700, Q: 0.7, Gain: 0.08, Attack: sec(5),
		}},
		Noises: []NoiseConfig{
			{
				Filter: audio.Lowpass, Cutoff: 800, Q: 0.6, Gain: 0.12, Brown: true,
				AM: Some(LFO{Rate: 0.1, Depth: 0.8}),
			},
			{
				Filter: audio.Highpass, Cutoff: 3000, Q: 0.5, Gain: 0.02,
				AM: Some(LFO{Rate: 0.1, Depth: 0.9}),
			},
		},
	},
	"desert": {
		Label: "Desert",
		Pads: []PadConfig{{
			Root: 40, Intervals: []int{7}, Detune: 10, Wave: audio.Triangle,
			Cutoff: 800, Q: 1.2, Gain: 0.09, Attack: sec(6),
			LFO: Some(LFO{Rate: 0.04, Depth: 0.3}),
		}},
		Arps: []ArpConfig{{
			Root: 64, Scale: phrygian, Octaves: 1,
			Interval: sec(2), Jitter: sec(1), NoteLength: sec(1.2),
			Wave: audio.Triangle, Gain: 0.05, Cutoff: 1800,
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Bandpass, Cutoff: 1200, Q: 0.8, Gain: 0.05,
			AM: Some(LFO{Rate: 0.12, Depth: 0.6}),
		}},
	},
	"mountain": {
		Label: "Mountain",
		Pads: []PadConfig{{
			Root: 43, Intervals: []int{7, 12, 19}, Detune: 4, Wave: audio.Sine,
			Cutoff: 1100, Q: 0.7, Gain: 0.1, Attack: sec(5),
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Bandpass, Cutoff: 600, Q: 1.5, Gain: 0.07, Brown: true,
			AM: Some(LFO{Rate: 0.09, Depth: 0.6}),
		}},
	},
	"swamp": {
		Label: "Swamp",
		Pads: []PadConfig{{
			Root: 37, Intervals: []int{6}, Detune: 14, Wave: audio.Sawtooth,
			Cutoff: 350, Q: 3, Gain: 0.08, Attack: sec(5),
			LFO: Some(LFO{Rate: 0.06, Depth: 0.5}),
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Lowpass, Cutoff: 400, Q: 1, Gain: 0.06, Brown: true,
		}},
		Pulses: []PulseConfig{
			{
				Filter: audio.Lowpass, Cutoff: 600, Q: 4, Length: ms(180),
				Interval: sec(2.2), Jitter: sec(1.4), Gain: 0.12,
				Pitch: Some(180.0), Wave: Some(audio.Square),
			},
			{
				Filter: audio.Bandpass, Cutoff: 3500, Q: 10, Length: ms(40),
				Interval: ms(700), Jitter: ms(400), Gain: 0.05,
				Pitch: Some(4200.0),
			},
		},
	},
	"blizzard": {
		Label: "Blizzard",
		Pads: []PadConfig{{
			Root: 44, Intervals: []int{3, 10}, Detune: 9, Wave: audio.Sine,
			Cutoff: 900, Q: 0.7, Gain: 0.06, Attack: sec(4),
		}},
		Noises: []NoiseConfig{
			{
				Filter: audio.Bandpass, Cutoff: 1500, Q: 0.7, Gain: 0.1,
				AM: Some(LFO{Rate: 0.25, Depth: 0.7}),
			},
			{
				Filter: audio.Lowpass, Cutoff: 300, Q: 0.5, Gain: 0.08, Brown: true,
				AM: Some(LFO{Rate: 0.13, Depth: 0.5}),
			},
		},
	},
	"inferno": {
		Label: "Inferno",
		Pads: []PadConfig{{
			Root: 33, Intervals: []int{1, 7}, Detune: 18, Wave: audio.Sawtooth,
			Cutoff: 500, Q: 4, Gain: 0.1, Attack: sec(3),
			LFO: Some(LFO{Rate: 0.2, Depth: 0.5}),
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Lowpass, Cutoff: 1200, Q: 0.8, Gain: 0.1, Brown: true,
			AM: Some(LFO{Rate: 3.5, Depth: 0.6}),
		}},
		Pulses: []PulseConfig{{
			Filter: audio.Highpass, Cutoff: 2500, Q: 1, Length: ms(30),
			Interval: ms(350), Jitter: ms(250), Gain: 0.07,
		}},
	},
	"sky": {
		Label: "Open sky",
		Pads: []PadConfig{{
			Root: 55, Intervals: []int{4, 7, 11, 14}, Detune: 5, Wave: audio.Sine,
			Cutoff: 2000, Q: 0.7, Gain: 0.08, Attack: sec(6),
			LFO: Some(LFO{Rate: 0.05, Depth: 0.25}),
		}},
		Arps: []ArpConfig{{
			Root: 67, Scale: lydian, Octaves: 2,
			Interval: sec(1.5), Jitter: ms(700), NoteLength: sec(2),
			Wave: audio.Sine, Gain: 0.04, Cutoff: 3000,
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Bandpass, Cutoff: 800, Q: 0.5, Gain: 0.03,
			AM: Some(LFO{Rate: 0.07, Depth: 0.6}),
		}},
	},
	"city": {
		Label: "City",
		Pads: []PadConfig{{
			Root: 46, Intervals: []int{3, 7, 10}, Detune: 6, Wave: audio.Triangle,
			Cutoff: 1000, Q: 0.9, Gain: 0.07, Attack: sec(3),
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Lowpass, Cutoff: 700, Q: 0.6, Gain: 0.07, Brown: true,
			AM: Some(LFO{Rate: 0.2, Depth: 0.3}),
		}},
		Pulses: []PulseConfig{{
			Filter: audio.Bandpass, Cutoff: 700, Q: 2, Length: ms(90),
			Interval: ms(900), Jitter: ms(500), Gain: 0.06,
		}},
	},
	"night": {
		Label: "Night",
		Pads: []PadConfig{{
			Root: 45, Intervals: []int{3, 7}, Detune: 4, Wave: audio.Sine,
			Cutoff: 700, Q: 0.7, Gain: 0.09, Attack: sec(6),
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Lowpass, Cutoff: 350, Q: 0.5, Gain: 0.03, Brown: true,
		}},
		Pulses: []PulseConfig{
			{
				Filter: audio.Bandpass, Cutoff: 4500, Q: 12, Length: ms(35),
				Interval: ms(400), Jitter: ms(250), Gain: 0.04,
				Pitch: Some(4500.0),
			},
			{
				Filter: audio.Lowpass, Cutoff: 800, Q: 1, Length: ms(450),
				Interval: sec(9), Jitter: sec(5), Gain: 0.06,
				Pitch: Some(420.0), Wave: Some(audio.Triangle),
			},
		},
	},
	"dawn": {
		Label: "Dawn",
		Pads: []PadConfig{{
			Root: 52, Intervals: []int{4, 7, 14}, Detune: 5, Wave: audio.Sine,
			Cutoff: 1400, Q: 0.7, Gain: 0.09, Attack: sec(7),
			LFO: Some(LFO{Rate: 0.03, Depth: 0.35}),
		}},
		Arps: []ArpConfig{{
			Root: 76, Scale: majorPenta, Octaves: 1,
			Interval: sec(1.8), Jitter: sec(1.2), NoteLength: ms(300),
			Wave: audio.Sine, Gain: 0.04, Cutoff: 6000,
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Highpass, Cutoff: 1500, Q: 0.5, Gain: 0.015,
		}},
	},
	"temple": {
		Label: "Temple",
		Pads: []PadConfig{
			{
				Root: 38, Intervals: []int{7, 12}, Detune: 3, Wave: audio.Sine,
				Cutoff: 800, Q: 0.7, Gain: 0.1, Attack: sec(6),
			},
			{
				Root: 62, Intervals: []int{5}, Detune: 7, Wave: audio.Triangle,
				Cutoff: 1600, Q: 1.5, Gain: 0.04, Attack: sec(8),
				LFO: Some(LFO{Rate: 0.04, Depth: 0.3}),
			},
		},
		Arps: []ArpConfig{{
			Root: 62, Scale: dorian, Octaves: 2,
			Interval: sec(3), Jitter: sec(1.5), NoteLength: sec(2.5),
			Wave: audio.Sine, Gain: 0.05, Cutoff: 2200,
		}},
	},
	"battle": {
		Label: "Battle",
		Pads: []PadConfig{{
			Root: 38, Intervals: []int{3, 6}, Detune: 15, Wave: audio.Sawtooth,
			Cutoff: 700, Q: 3, Gain: 0.1, Attack: sec(1.5),
			LFO: Some(LFO{Rate: 0.5, Depth: 0.4}),
		}},
		Arps: []ArpConfig{{
			Root: 50, Scale: minorPenta, Octaves: 2,
			Interval: ms(220), Jitter: ms(60), NoteLength: ms(180),
			Wave: audio.Square, Gain: 0.06, Cutoff: 1500,
		}},
		Noises: []NoiseConfig{{
			Filter: audio.Lowpass, Cutoff: 600, Q: 0.8, Gain: 0.08, Brown: true,
			AM: Some(LFO{Rate: 1.5, Depth: 0.5}),
		}},
		Pulses: []PulseConfig{{
			Filter: audio.Lowpass, Cutoff: 200, Q: 2, Length: ms(200),
			Interval: ms(600), Jitter: ms(150), Gain: 0.25,
			Pitch: Some(55.0),
		}},
	},
}
