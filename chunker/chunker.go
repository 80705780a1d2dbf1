// Copyright 2025 The farbot Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package chunker splits regulatory text into overlapping chunks sized
// for embedding.
//
// Chunks are cut on a character window, snapped backward to the nearest
// sentence or word boundary, and overlap by a configurable amount. The
// cursor advance is guarded so that boundary snapping can never move it
// backward: for every pair of consecutive chunks the later start offset
// is strictly greater than the earlier one, which guarantees termination
// on any input.
package chunker

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Defaults used across ingestion and direct section lookup.
// These are configuration constants, not part of the contract.
const (
	DefaultChunkSize    = 600
	DefaultChunkOverlap = 150
)

var sentenceTerminators = []string{". ", "! ", "? "}

// Chunker splits text into overlapping chunks. It holds no mutable state
// and is safe for concurrent use.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker with the given window size and overlap, both in
// bytes. The overlap must be non-negative and strictly smaller than the
// size; anything else would let the cursor stall.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidChunkSize, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidOverlap, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidOverlap, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Default returns a Chunker with the default size and overlap.
func Default() *Chunker {
	c, _ := New(DefaultChunkSize, DefaultChunkOverlap)
	return c
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured chunk overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunks returns a restartable lazy sequence of non-empty chunks.
// Each iteration starts fresh from the beginning of text; an empty text
// yields nothing. Chunking the same text twice produces identical chunks.
func (c *Chunker) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := 0
		for start < len(text) {
			end := start + c.size
			if end < len(text) {
				end = snapToBoundary(text, start, end)
			} else {
				end = len(text)
			}

			if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
				if !yield(chunk) {
					return
				}
			}

			if end >= len(text) {
				return
			}

			// Advance guard: boundary snapping can pull end so close to
			// start that subtracting the overlap would stall or move the
			// cursor backward. In that case the overlap is discarded for
			// this step and the cursor jumps straight to end.
			next := end - c.overlap
			if next <= start {
				next = end
			}
			start = next
		}
	}
}

// Split is a convenience wrapper that collects the chunk sequence into
// a slice.
func (c *Chunker) Split(text string) []string {
	return slices.Collect(c.Chunks(text))
}

// snapToBoundary searches backward within [start, end) for the best cut
// point. It prefers the right-most sentence terminator (". ", "! ", "? "),
// cutting just after the terminator character and before the space. Failing
// that it cuts at the right-most space, and as a last resort leaves the raw
// mid-word cut in place.
func snapToBoundary(text string, start, end int) int {
	window := text[start:end]

	sentence := -1
	for _, term := range sentenceTerminators {
		if i := strings.LastIndex(window, term); i > sentence {
			sentence = i
		}
	}
	if sentence > 0 {
		return start + sentence + 1
	}

	if space := strings.LastIndex(window, " "); space > 0 {
		return start + space
	}

	return end
}
