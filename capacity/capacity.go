// Package capacity implements the admission policy a store consults before
// every insert. A policy is either unbounded or keeps a movable target
// between a minimum and a maximum; the headroom toward the target is
// derived from usage, never set directly.
package capacity

import (
	"fmt"
	"sync"
)

type Policy struct {
	mutex     sync.Mutex
	unbounded bool
	min       int
	max       int
	target    int
	used      int
}

// Unbounded returns a policy that always admits.
func Unbounded() *Policy {
	return &Policy{
		unbounded: true,
	}
}

// New returns a bounded policy with the target starting at max.
func New(min, max int) (*Policy, error) {
	if min < 0 || max < min {
		return nil, fmt.Errorf("invalid capacity bounds [%d, %d]", min, max)
	}
	return &Policy{
		min:    min,
		max:    max,
		target: max,
	}, nil
}

// HasCapacity reports whether there is headroom left toward the target.
func (p *Policy) HasCapacity() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.unbounded || p.used < p.target
}

// Reserve claims one unit of capacity. The claim and the headroom check are
// one atomic step, so concurrent writers cannot over-admit. A reservation
// must be given back with Release if the write it guards does not land.
func (p *Policy) Reserve() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.unbounded && p.used >= p.target {
		return false
	}
	p.used++
	return true
}

// Release gives back one unit of capacity.
func (p *Policy) Release() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.used > 0 {
		p.used--
	}
}

// SetUsed syncs usage with an externally observed count, typically the
// on-disk entry count at store open.
func (p *Policy) SetUsed(n int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if n < 0 {
		n = 0
	}
	p.used = n
}

// AddCapacity grows the target by n, silently clamped to max.
func (p *Policy) AddCapacity(n int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.unbounded || n < 0 {
		return
	}
	p.target += n
	if p.target > p.max {
		p.target = p.max
	}
}

// CutCapacity shrinks the target by n, silently clamped to min.
func (p *Policy) CutCapacity(n int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.unbounded || n < 0 {
		return
	}
	p.target -= n
	if p.target < p.min {
		p.target = p.min
	}
}

// Remaining is the derived headroom toward the target. It is -1 for an
// unbounded policy.
func (p *Policy) Remaining() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.unbounded {
		return -1
	}
	remaining := p.target - p.used
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (p *Policy) Unlimited() bool {
	return p.unbounded
}

func (p *Policy) Min() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.min
}

func (p *Policy) Max() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.max
}

func (p *Policy) Target() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.target
}

func (p *Policy) Used() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.used
}
