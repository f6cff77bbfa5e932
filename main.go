package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/mrdg/ambient/ambient"
	"github.com/mrdg/ambient/audio"
	"github.com/mrdg/ambient/scene"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	catalog, err := loadCatalog(cfg.presets)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.render != "" {
		f, err := os.Create(cfg.render)
		if err != nil {
			log.Fatal(err)
		}
		if err := render(cfg, catalog, f); err != nil {
			f.Close()
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
		return
	}

	var commands []string
	if cfg.run != "" {
		commands, err = readCommands(cfg.run)
		if err != nil {
			log.Fatal(err)
		}
	}

	engine := ambient.New(ambient.Config{
		Catalog:    catalog,
		Device:     cfg.deviceFactory(),
		SampleRate: cfg.sampleRate,
		Rand:       newRand(cfg.seed),
		Volume:     scene.Some(cfg.volume),
	})
	defer engine.Destroy()

	if err := engine.Init(); err != nil {
		log.Fatal(err)
	}
	if cfg.scene != "" {
		if err := engine.Play(cfg.scene); err != nil {
			log.Fatal(err)
		}
	}

	env := &env{engine: engine, out: os.Stdout}
	for _, line := range commands {
		if err := env.eval(line); err != nil {
			log.Fatal(err)
		}
	}

	if cfg.follow != "" {
		done := make(chan struct{})
		defer close(done)
		if err := follow(cfg.follow, engine, done); err != nil {
			log.Fatal(err)
		}
	}

	if err := repl(env); err != nil && err != io.EOF {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadCatalog returns the built-in scenes, overlaid with the scenes in path if
// it is not empty.
func loadCatalog(path string) (*scene.Catalog, error) {
	catalog := scene.Builtin()
	if path == "" {
		return catalog, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	extra, err := scene.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog.Merge(extra)
}

func readCommands(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var commands []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		commands = append(commands, line)
	}
	return commands, scanner.Err()
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// render plays cfg.scene on an offline context for cfg.duration and writes
// the result to w as a WAV file. Scheduling runs on a manual clock that is
// advanced with the rendered audio, so the output does not depend on how fast
// the machine renders.
func render(cfg config, catalog *scene.Catalog, w io.Writer) error {
	clock := ambient.NewManualClock(time.Unix(0, 0))
	engine := ambient.New(ambient.Config{
		Catalog:    catalog,
		Clock:      clock,
		SampleRate: cfg.sampleRate,
		Rand:       newRand(cfg.seed),
		Volume:     scene.Some(cfg.volume),
	})
	defer engine.Destroy()

	if err := engine.Play(cfg.scene); err != nil {
		return err
	}
	ctx := engine.Context()
	rate := ctx.SampleRate()
	frames := int(cfg.duration.Seconds() * float64(rate))

	var elapsed time.Duration
	return audio.WriteWAV(w, ctx, rate, frames, func(written int) {
		now := time.Duration(float64(written) / float64(rate) * float64(time.Second))
		clock.Advance(now - elapsed)
		elapsed = now
	})
}
