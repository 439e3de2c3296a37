// Package rng provides the seedable random source shared by combat and
// world systems. Position tracking lets a restored save replay the
// stream to exactly where it left off.
package rng

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every call, enabling save/restore.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// draw consumes exactly one value from the source. Every public
// method that rolls goes through here, so the stream position maps
// one-to-one onto Int63 calls and Restore can replay it exactly.
func (r *RNG) draw(n int64) int64 {
	r.pos++
	return r.src.Int63() % n
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	if sides <= 1 {
		r.draw(1)
		return 1
	}
	return int(r.draw(int64(sides))) + 1
}

// Chance rolls a percent check: true with probability percent/100.
// Nothing is drawn for percent <= 0.
func (r *RNG) Chance(percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		r.draw(100)
		return true
	}
	return r.Roll(100) <= percent
}

// Between returns a random integer in [lo, hi]. lo >= hi returns lo.
func (r *RNG) Between(lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + int(r.draw(int64(hi-lo+1)))
}

// Pick returns a random index into a slice of length n.
func (r *RNG) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return int(r.draw(int64(n)))
}

// WeightedSelect returns an index chosen by weighted random selection.
// Non-positive weights never win. An empty or all-non-positive slice
// returns 0 without drawing.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	roll := int(r.draw(int64(total)))
	cumulative := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Seed returns the seed this RNG was created from.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Restore creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.src.Int63()
	}
	r.pos = position
	return r
}
