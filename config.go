package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mrdg/ambient/ambient"
	"github.com/mrdg/ambient/audio"
)

const (
	envDevice     = "AMBIENT_DEVICE"
	envVolume     = "AMBIENT_VOLUME"
	envSampleRate = "AMBIENT_SAMPLE_RATE"
)

type config struct {
	device     string
	sampleRate int
	bufferSize int
	volume     float64
	scene      string
	presets    string
	follow     string
	render     string
	duration   time.Duration
	seed       int64
	run        string
}

func defaultConfig() config {
	return config{
		device:     "portaudio",
		sampleRate: audio.DefaultSampleRate,
		bufferSize: audio.DefaultBufferSize,
		volume:     ambient.DefaultVolume,
		duration:   30 * time.Second,
	}
}

// parseConfig reads the environment first so that flags given on the command
// line win over it.
func parseConfig(args []string, getenv func(string) string, output io.Writer) (config, error) {
	cfg := defaultConfig()
	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("ambient", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.device, "device", cfg.device, "output device: portaudio or speaker")
	fs.IntVar(&cfg.sampleRate, "rate", cfg.sampleRate, "sample rate in Hz")
	fs.IntVar(&cfg.bufferSize, "buffer", cfg.bufferSize, "device buffer size in frames")
	fs.Float64Var(&cfg.volume, "volume", cfg.volume, "master volume between 0 and 1")
	fs.StringVar(&cfg.scene, "scene", "", "scene to play at startup")
	fs.StringVar(&cfg.presets, "presets", "", "JSON file with extra scenes")
	fs.StringVar(&cfg.follow, "follow", "", "play the scene named in this file whenever it changes")
	fs.StringVar(&cfg.render, "render", "", "render the scene to this WAV file and exit")
	fs.DurationVar(&cfg.duration, "duration", cfg.duration, "length of a rendered file")
	fs.Int64Var(&cfg.seed, "seed", 0, "random seed, 0 picks one from the time")
	fs.StringVar(&cfg.run, "run", "", "file with commands to run at startup")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c *config) applyEnv(getenv func(string) string) error {
	if v := getenv(envDevice); v != "" {
		c.device = v
	}
	if v := getenv(envVolume); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", envVolume, err)
		}
		c.volume = f
	}
	if v := getenv(envSampleRate); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envSampleRate, err)
		}
		c.sampleRate = n
	}
	return nil
}

func (c config) validate() error {
	switch c.device {
	case "portaudio", "speaker":
	default:
		return fmt.Errorf("unknown device: %s", c.device)
	}
	if c.sampleRate < 8000 || c.sampleRate > 192000 {
		return fmt.Errorf("sample rate out of range: %d", c.sampleRate)
	}
	if c.bufferSize <= 0 {
		return fmt.Errorf("invalid buffer size: %d", c.bufferSize)
	}
	if c.volume < 0 || c.volume > 1 {
		return fmt.Errorf("volume out of range: %v", c.volume)
	}
	if c.render != "" && c.duration <= 0 {
		return fmt.Errorf("invalid render duration: %v", c.duration)
	}
	return nil
}

func (c config) deviceFactory() audio.DeviceFactory {
	if c.device == "speaker" {
		latency := time.Duration(c.bufferSize) * time.Second / time.Duration(c.sampleRate)
		return audio.Speaker(latency)
	}
	return audio.PortAudio(c.bufferSize)
}
