package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must stay quiet before it is rebuilt.
const settle = 100 * time.Millisecond

// runWatch builds files, then rebuilds each one whenever it is written,
// until ctx is cancelled. The parent directories are watched so that files
// replaced on save keep being seen.
func runWatch(ctx context.Context, files []string) int {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}
	defer w.Close()

	inputs := make(map[string]string) // absolute path -> name as given
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitError
		}
		inputs[abs] = f
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				fmt.Fprintf(os.Stderr, "error: watch %s: %v\n", dir, err)
				return exitError
			}
			dirs[dir] = true
		}
	}

	runBuild(ctx, files)
	logger.Printf("watching %d file(s)", len(files))

	pending := make(map[string]bool)
	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return exitOK

		case ev, ok := <-w.Events:
			if !ok {
				return exitOK
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name, ok := inputs[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			pending[name] = true
			timer.Reset(settle)

		case <-timer.C:
			var batch []string
			for _, f := range files {
				if pending[f] {
					batch = append(batch, f)
				}
			}
			clear(pending)
			logger.Printf("rebuilding %v", batch)
			runBuild(ctx, batch)

		case err, ok := <-w.Errors:
			if !ok {
				return exitOK
			}
			logger.Printf("watch: %v", err)
		}
	}
}
