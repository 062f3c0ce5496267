package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashlane/hashlane/internal/config"
	"github.com/hashlane/hashlane/internal/engine"
	"github.com/hashlane/hashlane/internal/logging"
	"github.com/hashlane/hashlane/internal/progress"
	"github.com/hashlane/hashlane/internal/termio"
	"github.com/hashlane/hashlane/internal/ui"
	"github.com/hashlane/hashlane/pkg/task"
)

const version = "v0.1.0"

func main() {
	termio.Init()
	cfg := config.Parse()
	log := logging.New("hashlane", cfg.LogLevel)

	if len(cfg.Paths) == 0 {
		printUsage()
		os.Exit(2)
	}

	eng := engine.New(log, engine.Config{
		ChunkSize:     cfg.ChunkSize,
		QueueDepth:    cfg.QueueDepth,
		EventBuffer:   cfg.EventBuffer,
		ParallelFiles: cfg.ParallelFiles,
	})
	session := ui.NewSession()

	var total int64
	registered := 0
	for _, path := range cfg.Paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			log.Warn("skipping path", "path", path, "err", err)
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			log.Warn("skipping path", "path", path, "err", err)
			continue
		}
		if err := eng.Begin(abs); err != nil {
			log.Warn("skipping path", "path", path, "err", err)
			continue
		}
		session.AddFile(abs, info.Size())
		total += info.Size()
		registered++
	}
	if registered == 0 {
		fmt.Fprintln(termio.Stderr(), "nothing to hash")
		os.Exit(1)
	}
	session.Start(total)

	interactive := termio.StdoutIsTTY() && !cfg.Plain

	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		var lastLog int64
		for ev := range eng.Events() {
			session.Apply(ev)
			if interactive {
				continue
			}
			switch ev.State.Kind {
			case task.Progressing:
				if progress.ShouldLog(&lastLog) {
					fmt.Fprintf(termio.Stdout(), "%5.1f%%  %s\n", ev.State.Percent, ev.Path)
				}
			case task.Done:
				fmt.Fprintf(termio.Stdout(), "%s  %s\n", ev.State.Digest, ev.Path)
			}
		}
	}()

	var stopUI func()
	if interactive {
		stopUI = ui.Run(termio.Stdout(), session.View, eng.CancelAll)
	}

	eng.Wait()
	eng.Close()
	<-consumed
	if stopUI != nil {
		stopUI()
	}

	if interactive {
		printSummary(session.View())
	}
}

// printSummary prints the classic "digest  path" lines after the
// interactive display shuts down, so results survive in the scrollback
// and pipe cleanly.
func printSummary(v ui.View) {
	for _, row := range v.Rows {
		if row.State.Kind != task.Done {
			continue
		}
		fmt.Fprintf(termio.Stdout(), "%s  %s\n", row.State.Digest, row.Path)
	}
}

func printUsage() {
	fmt.Fprintln(termio.Stderr(), "usage: hashlane [flags] <file> [file...]")
	fmt.Fprintln(termio.Stderr(), "computes the SHA-256 of each file with live progress")
	fmt.Fprintln(termio.Stderr(), "flags:")
	fmt.Fprintln(termio.Stderr(), "  -chunk-size      read chunk size in bytes (default 1 MiB)")
	fmt.Fprintln(termio.Stderr(), "  -queue-depth     chunks buffered between read and hash stages")
	fmt.Fprintln(termio.Stderr(), "  -event-buffer    buffered events on the multiplexed stream")
	fmt.Fprintln(termio.Stderr(), "  -parallel-files  max files hashed at once (1..32)")
	fmt.Fprintln(termio.Stderr(), "  -plain           line-oriented output, no interactive display")
	fmt.Fprintln(termio.Stderr(), "  -log-level       debug, info, warn or error")
	fmt.Fprintf(termio.Stderr(), "hashlane %s\n", version)
}
