package random

import (
	"math/rand/v2"
	"sync"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
)

// Source is a goroutine-safe PCG random source
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ core.RandomSource = (*Source)(nil)

// New creates a source seeded from the runtime's entropy
func New() *Source {
	return NewSeeded(rand.Uint64())
}

// NewSeeded creates a reproducible source
func NewSeeded(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns a uniform value in [0, 1)
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Intn returns a uniform value in [0, n). It panics if n <= 0.
func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
