package game

import (
	"strings"
	"time"
)

// scriptedRandom replays floats in order and repeats the last one when exhausted.
// Int63n returns n-1 clamped by intValue.
type scriptedRandom struct {
	floats   []float64
	intValue int64
	intCalls []int64
}

func alwaysRoll(v float64) *scriptedRandom {
	return &scriptedRandom{floats: []float64{v}}
}

func (s *scriptedRandom) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	if len(s.floats) > 1 {
		s.floats = s.floats[1:]
	}
	return v
}

func (s *scriptedRandom) Int63n(n int64) int64 {
	s.intCalls = append(s.intCalls, n)
	if s.intValue >= n {
		return n - 1
	}
	return s.intValue
}

type mapDirectory map[string]*Account

func (d mapDirectory) Lookup(username string) (*Account, bool) {
	acc, ok := d[strings.ToLower(strings.TrimPrefix(username, "@"))]
	return acc, ok
}

var testNow = time.Date(2025, 3, 27, 12, 0, 0, 0, time.UTC)

func newTestEngine(rng RandomSource) *Engine {
	e := NewEngine(DefaultRules(), rng)
	e.now = func() time.Time { return testNow }
	return e
}
