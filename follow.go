package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mrdg/ambient/ambient"
)

// follow plays the scene named in the file at path, and again every time the
// file changes, until done is closed. The directory is watched rather than the
// file so that editors which replace the file on save keep working.
func follow(path string, engine *ambient.Engine, done <-chan struct{}) error {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("can't create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	playFrom := func() {
		name, err := readScene(path)
		if err != nil {
			log.Printf("follow: %v", err)
			return
		}
		if name == "" {
			return
		}
		if err := engine.Play(name); err != nil {
			log.Printf("follow: %v", err)
		}
	}
	if _, err := os.Stat(path); err == nil {
		playFrom()
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) > 0 {
					playFrom()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("follow: %v", err)
			case <-done:
				return
			}
		}
	}()
	return nil
}

// readScene returns the first non-blank line of the file at path.
func readScene(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", scanner.Err()
}
