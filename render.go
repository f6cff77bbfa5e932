package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrdg/ambient/ambient"
	"github.com/mrdg/ambient/scene"
)

func renderStatus(engine *ambient.Engine, w io.Writer) {
	state := colorize("stopped", colorYellow)
	if engine.IsPlaying() {
		state = colorize("playing "+engine.CurrentPreset(), colorGreen)
	}
	fmt.Fprintf(w, "%s  volume %s\n", state, volumeBar(engine.Volume(), 10))

	ctx := engine.Context()
	if ctx == nil {
		fmt.Fprintln(w, colorize("output closed", colorMagenta))
		return
	}
	stats := ctx.Stats()
	fmt.Fprintf(w, "output %s  %dHz  t=%.1fs  sources %d/%d\n",
		ctx.State(), ctx.SampleRate(), ctx.CurrentTime(), stats.SourcesEnded, stats.SourcesStarted)

	for _, info := range engine.Layers() {
		kind := colorize(fmt.Sprintf("%-5s", info.Kind), colorBlue)
		row := fmt.Sprintf("  %s nodes %-3d voices %-3d", kind, info.Nodes, info.Voices)
		if info.Retiring {
			row += colorize("fading", colorMagenta)
		}
		fmt.Fprintln(w, row)
	}
}

func renderScenes(catalog *scene.Catalog, current string, w io.Writer) {
	names := catalog.Names()
	var width int
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, name := range names {
		preset, _ := catalog.Lookup(name)
		marker := " "
		label := fmt.Sprintf("%-*s", width, name)
		if name == current {
			marker = "▶"
			label = colorize(label, colorGreen)
		} else {
			label = colorize(label, colorBlue)
		}
		fmt.Fprintf(w, "%s %s  %s\n", marker, label, preset.Label)
	}
}

func volumeBar(v float64, width int) string {
	n := int(v*float64(width) + 0.5)
	return "[" + strings.Repeat("#", n) + strings.Repeat(".", width-n) + "]" + fmt.Sprintf(" %.2f", v)
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
