// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostaudio

import "sync"

// Ring is a bounded FIFO of samples shared by one writer and one
// reader on different goroutines. Writing past capacity discards the
// oldest samples.
type Ring struct {
	mutex sync.Mutex
	data  []float32
	start int
	size  int

	dropped uint64
}

// NewRing returns a ring holding up to capacity samples.
func NewRing(capacity int) *Ring {
	return &Ring{data: make([]float32, capacity)}
}

// Write appends samples, discarding the oldest on overflow.
func (r *Ring) Write(samples []float32) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	capacity := len(r.data)
	if capacity == 0 {
		return
	}
	if len(samples) > capacity {
		r.dropped += uint64(len(samples) - capacity)
		samples = samples[len(samples)-capacity:]
	}
	if overflow := r.size + len(samples) - capacity; overflow > 0 {
		r.start = (r.start + overflow) % capacity
		r.size -= overflow
		r.dropped += uint64(overflow)
	}
	end := (r.start + r.size) % capacity
	copied := copy(r.data[end:], samples)
	copy(r.data, samples[copied:])
	r.size += len(samples)
}

// Read fills samples from the front of the ring and zeroes whatever
// the ring could not supply. It returns the number of real samples.
func (r *Ring) Read(samples []float32) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	n := min(len(samples), r.size)
	if n > 0 {
		capacity := len(r.data)
		first := copy(samples[:n], r.data[r.start:min(r.start+n, capacity)])
		copy(samples[first:n], r.data)
		r.start = (r.start + n) % capacity
		r.size -= n
	}
	clear(samples[n:])
	return n
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.size
}

// Dropped returns how many samples overflow has discarded.
func (r *Ring) Dropped() uint64 {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.dropped
}

// Reset empties the ring.
func (r *Ring) Reset() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.start, r.size = 0, 0
}
