// Package config parses the hashlane command line and environment.
package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds tunables for the hashing engine and its terminal shell.
type Config struct {
	Paths         []string // files to hash (positional arguments)
	LogLevel      string   // "debug", "info", "warn", "error"
	ChunkSize     int      // read ceiling per chunk in bytes (default: 1 MiB)
	QueueDepth    int      // chunks buffered between read and hash stages (default: 10)
	EventBuffer   int      // multiplexed event stream capacity (default: 3)
	ParallelFiles int      // max files hashed at once (1..32, default: 8)
	Plain         bool     // force line-oriented output even on a TTY
}

const (
	defaultChunkSize     = 1 << 20
	defaultQueueDepth    = 10
	defaultEventBuffer   = 3
	defaultParallelFiles = 8
)

// Parse parses configuration from flags and environment variables. Flags
// take precedence over environment variables; positional arguments are the
// files to hash.
func Parse() Config {
	return parseWithFlagSet(flag.CommandLine, os.Args[1:])
}

// parseWithFlagSet is an internal helper for testing with isolated flag sets.
func parseWithFlagSet(fs *flag.FlagSet, args []string) Config {
	cfg := Config{
		LogLevel:      "info",
		ChunkSize:     defaultChunkSize,
		QueueDepth:    defaultQueueDepth,
		EventBuffer:   defaultEventBuffer,
		ParallelFiles: defaultParallelFiles,
	}

	// Read from environment first
	if logLevel := os.Getenv("HASHLANE_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if chunkSize := os.Getenv("HASHLANE_CHUNK_SIZE"); chunkSize != "" {
		if v, err := strconv.Atoi(chunkSize); err == nil {
			cfg.ChunkSize = v
		}
	}
	if queueDepth := os.Getenv("HASHLANE_QUEUE_DEPTH"); queueDepth != "" {
		if v, err := strconv.Atoi(queueDepth); err == nil {
			cfg.QueueDepth = v
		}
	}
	if eventBuffer := os.Getenv("HASHLANE_EVENT_BUFFER"); eventBuffer != "" {
		if v, err := strconv.Atoi(eventBuffer); err == nil {
			cfg.EventBuffer = v
		}
	}
	if parallel := os.Getenv("HASHLANE_PARALLEL_FILES"); parallel != "" {
		if v, err := strconv.Atoi(parallel); err == nil {
			cfg.ParallelFiles = v
		}
	}

	// Flags override environment
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "read chunk size in bytes")
	fs.IntVar(&cfg.QueueDepth, "queue-depth", cfg.QueueDepth, "chunks buffered between read and hash stages")
	fs.IntVar(&cfg.EventBuffer, "event-buffer", cfg.EventBuffer, "buffered events on the multiplexed stream")
	fs.IntVar(&cfg.ParallelFiles, "parallel-files", cfg.ParallelFiles, "max files hashed at once (1..32)")
	fs.BoolVar(&cfg.Plain, "plain", cfg.Plain, "line-oriented output, no interactive display")
	fs.Parse(args)

	cfg.Paths = fs.Args()

	if cfg.ChunkSize < 4*1024 {
		cfg.ChunkSize = 4 * 1024
	}
	if cfg.QueueDepth < 1 {
		cfg.QueueDepth = 1
	}
	if cfg.QueueDepth > 256 {
		cfg.QueueDepth = 256
	}
	if cfg.EventBuffer < 1 {
		cfg.EventBuffer = 1
	}
	if cfg.EventBuffer > 256 {
		cfg.EventBuffer = 256
	}
	if cfg.ParallelFiles < 1 {
		cfg.ParallelFiles = 1
	}
	if cfg.ParallelFiles > 32 {
		cfg.ParallelFiles = 32
	}

	return cfg
}
