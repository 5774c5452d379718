// Package keylock provides striped mutexes for serializing work by string
// key. Updates touching the same user's location sample or the same friend
// pair's meeting session must not interleave; locking a hash-selected stripe
// gives that guarantee without keeping a mutex alive per key.
package keylock

import (
	"hash/fnv"
	"sync"
)

type Striped struct {
	stripes []sync.Mutex
}

// New creates a striped lock set. n is rounded up to at least 1; a power of
// two keeps the modulo cheap but is not required.
func New(n int) *Striped {
	if n < 1 {
		n = 1
	}
	return &Striped{stripes: make([]sync.Mutex, n)}
}

func (s *Striped) Lock(key string) {
	s.stripes[s.index(key)].Lock()
}

func (s *Striped) Unlock(key string) {
	s.stripes[s.index(key)].Unlock()
}

func (s *Striped) index(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.stripes)))
}
