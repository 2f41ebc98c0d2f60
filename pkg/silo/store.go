// Package silo pkg/silo/store.go

package silo

import (
	"sync"

	"github.com/Aboubacarelhacen/silo/pkg/models"
)

// series is the bounded ring of samples for one stream. A single writer
// (the poll loop) appends; any number of readers take snapshots.
type series struct {
	mu      sync.RWMutex
	samples []models.Sample
	head    int // next write index
	count   int
}

// Store holds one bounded, time-ordered sample series per stream.
// Streams are created lazily and locked independently, so recording on
// one stream never contends with reads on another.
type Store struct {
	capacity int
	streams  sync.Map // stream name -> *series
}

// NewStore creates a store whose streams each retain up to capacity
// samples, evicting oldest-first beyond that.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 1
	}

	return &Store{capacity: capacity}
}

func (s *Store) stream(name string) *series {
	v, _ := s.streams.LoadOrStore(name, &series{
		samples: make([]models.Sample, s.capacity),
	})

	return v.(*series)
}

// Record appends a sample to the named stream, evicting the oldest
// sample once the stream is at capacity. O(1).
func (s *Store) Record(name string, sample models.Sample) {
	ser := s.stream(name)

	ser.mu.Lock()
	defer ser.mu.Unlock()

	ser.samples[ser.head] = sample
	ser.head = (ser.head + 1) % len(ser.samples)

	if ser.count < len(ser.samples) {
		ser.count++
	}
}

// Latest returns the most recently recorded sample, or false if the
// stream is empty.
func (s *Store) Latest(name string) (models.Sample, bool) {
	ser := s.stream(name)

	ser.mu.RLock()
	defer ser.mu.RUnlock()

	if ser.count == 0 {
		return models.Sample{}, false
	}

	idx := (ser.head - 1 + len(ser.samples)) % len(ser.samples)

	return ser.samples[idx], true
}

// Recent returns up to maxCount of the most recent samples, oldest
// first. The result is a fresh slice; callers never observe the live
// ring.
func (s *Store) Recent(name string, maxCount int) []models.Sample {
	ser := s.stream(name)

	ser.mu.RLock()
	defer ser.mu.RUnlock()

	n := maxCount
	if n > ser.count {
		n = ser.count
	}

	if n <= 0 {
		return nil
	}

	out := make([]models.Sample, n)
	start := (ser.head - n + len(ser.samples)) % len(ser.samples)

	for i := 0; i < n; i++ {
		out[i] = ser.samples[(start+i)%len(ser.samples)]
	}

	return out
}

// Size returns the number of samples currently retained for a stream.
func (s *Store) Size(name string) int {
	ser := s.stream(name)

	ser.mu.RLock()
	defer ser.mu.RUnlock()

	return ser.count
}
