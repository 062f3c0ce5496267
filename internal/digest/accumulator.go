// Package digest wraps an incremental SHA-256 over a file's chunks.
package digest

import (
	"encoding/hex"
	"hash"

	sha256 "github.com/minio/sha256-simd"
)

// EmptySum is the digest of zero bytes.
const EmptySum = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// Accumulator folds byte chunks, in order, into one SHA-256 state. Each
// task gets a fresh accumulator; it is consumed by Finalize and must not
// be touched afterwards.
type Accumulator struct {
	h         hash.Hash
	finalized bool
}

// New returns an accumulator with fresh hash state.
func New() *Accumulator {
	return &Accumulator{h: sha256.New()}
}

// Fold absorbs the next chunk. Chunks must arrive in file order with no
// gaps; the accumulator has no way to detect missed or reordered bytes.
func (a *Accumulator) Fold(chunk []byte) {
	if a.finalized {
		panic("digest: Fold after Finalize")
	}
	a.h.Write(chunk)
}

// Finalize consumes the accumulator and returns the digest as lowercase
// hex. Calling it twice is a programming error.
func (a *Accumulator) Finalize() string {
	if a.finalized {
		panic("digest: Finalize called twice")
	}
	a.finalized = true
	return hex.EncodeToString(a.h.Sum(nil))
}
