package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. It is the source
// used by live encounters.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics otherwise, or if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource is a reproducible PCG stream guarded by a mutex.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a Source whose sequence is fully determined by seed.
// Two sources built from the same seed produce identical encounters.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Scripted replays a fixed list of draws in order, cycling when exhausted.
// Each draw is clamped into [0, n). It exists so encounters can be replayed
// with forced hits, misses and crits.
type Scripted struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewScripted returns a Scripted source over values.
//
// Precondition: len(values) > 0.
func NewScripted(values ...int) *Scripted {
	if len(values) == 0 {
		panic("dice: NewScripted requires at least one value")
	}
	return &Scripted{values: append([]int(nil), values...)}
}

// Intn returns the next scripted value clamped into [0, n).
func (s *Scripted) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	v := s.values[s.next%len(s.values)]
	s.next++
	s.mu.Unlock()
	switch {
	case v < 0:
		return 0
	case v >= n:
		return n - 1
	default:
		return v
	}
}

// Draws reports how many values have been consumed so far.
func (s *Scripted) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
