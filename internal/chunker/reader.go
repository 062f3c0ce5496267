// Package chunker turns a file into an ordered, bounded sequence of byte
// chunks suitable for incremental hashing.
package chunker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the read ceiling per chunk.
const DefaultChunkSize = 1 << 20 // 1 MiB

// ErrNotRegularFile indicates the path does not resolve to a regular file.
var ErrNotRegularFile = errors.New("not a regular file")

// Reader produces the chunks of one file, in order, exactly once. The file
// size is captured at Open and is authoritative for the whole read: a file
// that shrinks mid-read surfaces as a read error, never as a short chunk.
type Reader struct {
	path      string
	size      int64
	file      *os.File
	chunkSize int
	streamed  bool
}

// Open opens the file and captures its size from metadata. chunkSize <= 0
// selects DefaultChunkSize.
func Open(path string, chunkSize int) (*Reader, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Reader{
		path:      path,
		size:      info.Size(),
		file:      file,
		chunkSize: chunkSize,
	}, nil
}

// Size returns the byte length captured at Open.
func (r *Reader) Size() int64 {
	return r.size
}

// Stream reads the file front to back, sending each chunk on out. Every
// chunk is full-sized except the last, which consumes the exact remainder.
// The consumer owns each received buffer and should hand it back with
// Release once folded.
//
// Stream sends nothing for an empty file. It does not close out. It returns
// nil once all bytes have been delivered, the context error if canceled
// while reading or sending, or a read error (a short read counts) with no
// partial chunk delivered. Stream is one-shot.
func (r *Reader) Stream(ctx context.Context, out chan<- []byte) error {
	if r.streamed {
		panic("chunker: Stream called twice")
	}
	r.streamed = true

	pool := poolFor(r.chunkSize)
	remain := r.size
	for remain > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := r.chunkSize
		if int64(n) > remain {
			n = int(remain)
		}
		buf := pool.get(n)
		if _, err := io.ReadFull(r.file, buf); err != nil {
			pool.put(buf)
			return fmt.Errorf("read %s: %w", r.path, err)
		}
		select {
		case out <- buf:
		case <-ctx.Done():
			pool.put(buf)
			return ctx.Err()
		}
		remain -= int64(n)
	}
	return nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}
