package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/mrdg/ambient/dub"
)

type command struct {
	name  string
	run   func(*env, []dub.Node) error
	arity int // -n means len(args) must be >= n
	usage string
}

var commands = []command{
	{"play", playCommand, 1, "play <scene>: crossfade to a scene"},
	{"stop", stopCommand, 0, "stop: fade out the current scene"},
	{"volume", volumeCommand, 1, "volume <0..1>: set the master volume"},
	{"status", statusCommand, 0, "status: show what is playing"},
	{"scenes", scenesCommand, 0, "scenes: list the available scenes"},
	{"set", setCommand, 2, "set <prop> <value>: set an engine property"},
	{"get", getCommand, 1, "get <prop>: show an engine property"},
	{"props", propsCommand, 0, "props: list the engine properties"},
	{"destroy", destroyCommand, 0, "destroy: release all audio resources"},
}

func init() {
	commands = append(commands, command{"help", helpCommand, 0, "help: show this list"})
}

func playCommand(env *env, args []dub.Node) error {
	var name string
	if err := readArgs(args, &name); err != nil {
		return err
	}
	if err := env.engine.Play(name); err != nil {
		return err
	}
	if key := env.engine.CurrentPreset(); key != name {
		fmt.Fprintf(env.out, "no scene %q, playing %s\n", name, key)
	}
	return nil
}

func stopCommand(env *env, args []dub.Node) error {
	env.engine.Stop()
	return nil
}

func volumeCommand(env *env, args []dub.Node) error {
	var v float64
	if err := readArgs(args, &v); err != nil {
		return err
	}
	env.engine.SetVolume(v)
	return nil
}

func statusCommand(env *env, args []dub.Node) error {
	renderStatus(env.engine, env.out)
	return nil
}

func scenesCommand(env *env, args []dub.Node) error {
	renderScenes(env.engine.Catalog(), env.engine.CurrentPreset(), env.out)
	return nil
}

func setCommand(env *env, args []dub.Node) error {
	var prop string
	var value interface{}
	if err := readArgs(args, &prop, &value); err != nil {
		return err
	}
	return env.engine.Set(prop, value)
}

func getCommand(env *env, args []dub.Node) error {
	var prop string
	if err := readArgs(args, &prop); err != nil {
		return err
	}
	v, err := env.engine.Get(prop)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.out, v)
	return nil
}

func propsCommand(env *env, args []dub.Node) error {
	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	for _, key := range env.engine.Keys() {
		v, err := env.engine.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%v\n", key, v)
	}
	return tw.Flush()
}

func destroyCommand(env *env, args []dub.Node) error {
	env.engine.Destroy()
	return nil
}

func helpCommand(env *env, args []dub.Node) error {
	for _, cmd := range commands {
		fmt.Fprintln(env.out, cmd.usage)
	}
	return nil
}
