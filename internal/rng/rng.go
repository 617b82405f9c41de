// Package rng provides the deterministic random stream every report draw
// goes through. A session seed always maps to the same stream, so the same
// request replays to the same report.
package rng

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Rng is a seeded deterministic random source. Not safe for concurrent use;
// each request owns its own instance.
type Rng struct {
	src *rand.Rand
}

// New derives an Rng from a session seed. A UUID seed folds its two 64-bit
// halves together; any other string hashes with FNV-1a. Either way the
// stream is stable across runs and platforms.
func New(sessionSeed string) *Rng {
	var seed uint64
	if id, err := uuid.Parse(sessionSeed); err == nil {
		b := id[:]
		hi := beUint64(b[0:8])
		lo := beUint64(b[8:16])
		seed = hi ^ lo
	} else {
		h := fnv.New64a()
		h.Write([]byte(sessionSeed))
		seed = h.Sum64()
	}
	return &Rng{src: rand.New(rand.NewPCG(seed, seed))}
}

func beUint64(b []byte) uint64 {
	return uint64(b[7]) | uint64(b[6])<<8 | uint64(b[5])<<16 | uint64(b[4])<<24 |
		uint64(b[3])<<32 | uint64(b[2])<<40 | uint64(b[1])<<48 | uint64(b[0])<<56
}

// IntN returns a uniform int in [0, bound).
func (r *Rng) IntN(bound int) int { return r.src.IntN(bound) }

// IntRange returns a uniform int in [lo, hi).
func (r *Rng) IntRange(lo, hi int) int { return lo + r.src.IntN(hi-lo) }

// Int64N returns a uniform int64 in [0, bound).
func (r *Rng) Int64N(bound int64) int64 { return r.src.Int64N(bound) }

// Sign returns +1 or -1 with equal probability.
func (r *Rng) Sign() int {
	if r.src.IntN(2) == 0 {
		return 1
	}
	return -1
}

// Shuffle permutes items in place with a Fisher-Yates walk from the tail.
func Shuffle[T any](items []T, r *Rng) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// PickOne returns a uniform element, or the zero value for an empty slice.
func PickOne[T any](items []T, r *Rng) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[r.IntN(len(items))]
}

// PickWeighted selects by roulette wheel over weightFn, treating negative
// weights as zero. An all-zero pool degrades to a uniform pick. Returns
// false only for an empty pool.
func PickWeighted[T any](items []T, weightFn func(T) int, r *Rng) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	var total int64
	for _, it := range items {
		total += int64(max(0, weightFn(it)))
	}
	if total <= 0 {
		return items[r.IntN(len(items))], true
	}
	draw := r.Int64N(total)
	var acc int64
	for _, it := range items {
		acc += int64(max(0, weightFn(it)))
		if draw < acc {
			return it, true
		}
	}
	return items[len(items)-1], true
}
