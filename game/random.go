package game

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource is the only place the engine draws randomness from.
// *rand.Rand satisfies it; tests pass scripted sources.
type RandomSource interface {
	// Float64 returns a number in [0, 1)
	Float64() float64
	// Int63n returns a number in [0, n)
	Int63n(n int64) int64
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomSource returns a goroutine-safe source. Seed 0 seeds from the clock.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedSource) Int63n(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Int63n(n)
}
