// Package numbuf implements a fixed-capacity float64 scratch buffer.
//
// It is adapted from a streaming ring buffer originally used to hold a
// rolling window of samples for an EWMA estimator. Algorithm A has no
// rolling window — it recomputes the same n positions on every
// iteration — so this version drops the ring/wraparound bookkeeping
// entirely and keeps only what the estimator actually needs: one
// preallocated slice, reused across iterations, so the winsorization
// step never allocates once the buffer is created.
package numbuf

import "fmt"

// Buffer is a fixed-size float64 scratch array. Its length never
// changes after New.
type Buffer struct {
	values []float64
}

// New allocates a Buffer with capacity n. n must be >= 1.
func New(n int) (*Buffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("numbuf: capacity must be >= 1, got %d", n)
	}
	return &Buffer{values: make([]float64, n)}, nil
}

// Len returns the buffer's fixed capacity.
func (b *Buffer) Len() int {
	return len(b.values)
}

// Set overwrites position i.
func (b *Buffer) Set(i int, v float64) {
	b.values[i] = v
}

// Get returns the value at position i.
func (b *Buffer) Get(i int) float64 {
	return b.values[i]
}

// Raw returns the underlying slice for read/write access in a tight
// loop. Callers must not change its length.
func (b *Buffer) Raw() []float64 {
	return b.values
}

// CopyFrom overwrites every position from src. len(src) must equal
// b.Len().
func (b *Buffer) CopyFrom(src []float64) error {
	if len(src) != len(b.values) {
		return fmt.Errorf("numbuf: length mismatch: buffer has %d, source has %d", len(b.values), len(src))
	}
	copy(b.values, src)
	return nil
}

// Snapshot returns a fresh copy of the buffer's current contents, safe
// for the caller to retain past the buffer's next mutation.
func (b *Buffer) Snapshot() []float64 {
	out := make([]float64, len(b.values))
	copy(out, b.values)
	return out
}
