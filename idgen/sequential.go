package idgen

import "sync"

type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Sequential counts from 1. Reseed moves the counter so the next id
// continues a sequence observed on disk.
type Sequential[K Integer] struct {
	mutex sync.Mutex
	last  K
}

func NewSequential[K Integer]() *Sequential[K] {
	return &Sequential[K]{}
}

func (s *Sequential[K]) Next() (K, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := s.last + 1
	if next <= s.last {
		// overflow, the sequence is exhausted
		return 0, false
	}
	s.last = next
	return next, true
}

func (s *Sequential[K]) Reseed(last K) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if last > s.last {
		s.last = last
	}
}
