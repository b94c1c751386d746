package engine

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mathrand "math/rand"
)

// GameRNG is the single deterministic randomness source for a run. Every
// gameplay-visible random choice — shuffles, boss selection, shop stock,
// joker procs — goes through one of these so a run can be replayed bit for
// bit from its seed. It is not safe for concurrent use; the orchestrator is
// single-threaded during a scoring pass, so callers never need to share one
// across goroutines.
type GameRNG struct {
	seed  int64
	src   *mathrand.Rand
	draws int64
}

// countingSource wraps a math/rand.Source and counts every underlying
// Int63 draw it services. math/rand.Rand's higher-level methods (Intn,
// Float64, Shuffle, ...) each consume a variable number of underlying Int63
// calls — Shuffle alone makes on the order of len(items) of them via
// Fisher-Yates, and rejection-sampling methods like Intn can make more than
// one depending on the bound. Counting at this layer, instead of once per
// public GameRNG method, is what lets StreamPosition/AdvanceTo reproduce the
// actual position in the underlying stream rather than a per-call tally.
type countingSource struct {
	src   mathrand.Source
	draws *int64
}

func (c *countingSource) Int63() int64 {
	*c.draws++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) { c.src.Seed(seed) }

// NewGameRNG builds a gameplay RNG seeded deterministically.
func NewGameRNG(seed int64) *GameRNG {
	g := &GameRNG{seed: seed}
	g.src = mathrand.New(&countingSource{src: mathrand.NewSource(seed), draws: &g.draws})
	return g
}

// Seed returns the seed this RNG was constructed with.
func (g *GameRNG) Seed() int64 { return g.seed }

// StreamPosition reports how many underlying Int63 draws have been consumed
// from this RNG since it was seeded, used to describe (and later restore)
// its position within the deterministic stream in persisted state.
func (g *GameRNG) StreamPosition() int64 { return g.draws }

// AdvanceTo fast-forwards a freshly seeded RNG to the given stream position
// by replaying that many underlying Int63 draws, used when restoring a
// snapshot. Because countingSource counts every draw math/rand's own
// algorithms make internally, replaying draws one at a time here lands the
// restored RNG at the exact same internal position a shuffle or any other
// multi-draw call would have left it at, not just the same per-call count.
func (g *GameRNG) AdvanceTo(position int64) {
	for g.draws < position {
		g.src.Int63()
	}
}

// GenRange returns a pseudo-random integer in [lo, hi).
func (g *GameRNG) GenRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.src.Intn(hi-lo)
}

// GenBool returns true with probability p (clamped to [0,1]).
func (g *GameRNG) GenBool(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return g.src.Float64() < p
}

// Choose picks a uniformly random element. Panics on an empty slice, same as
// indexing one — callers are expected to check length first.
func Choose[T any](g *GameRNG, items []T) T {
	return items[g.src.Intn(len(items))]
}

// ChooseWeighted picks an index proportional to weights. Weights must be
// non-negative and sum to more than zero.
func ChooseWeighted(g *GameRNG, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return g.src.Intn(len(weights))
	}
	target := g.src.Float64() * total
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if target < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Shuffle permutes items in place using Fisher-Yates.
func Shuffle[T any](g *GameRNG, items []T) {
	g.src.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// Fork derives an independent child RNG from the next value in this stream.
// Used when a joker or sub-system needs its own reproducible sequence (e.g.
// a consumable's internal rolls) without perturbing the parent's draw
// sequence by more than one Int63 call.
func (g *GameRNG) Fork() *GameRNG {
	childSeed := g.src.Int63()
	return NewGameRNG(childSeed)
}

// SecureRNG wraps the OS CSPRNG for non-gameplay randomness: initial seed
// generation, save-file correlation salts, anything that must not be
// reproducible from a gameplay seed. It is intentionally a separate type
// from GameRNG so a driver can never accidentally route a gameplay draw
// through crypto/rand and break determinism.
type SecureRNG struct{}

// NewSeed draws a fresh 63-bit seed suitable for NewGameRNG from the OS
// CSPRNG.
func (SecureRNG) NewSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the OS entropy source is broken; there is
		// no sane gameplay fallback, so surface it loudly via panic rather
		// than silently degrading to a weak seed.
		panic("engine: secure RNG unavailable: " + err.Error())
	}
	v := int64(binary.BigEndian.Uint64(buf[:]))
	if v < 0 {
		v = -v
	}
	return v
}

// Int63n draws a uniform non-gameplay integer in [0, n).
func (SecureRNG) Int63n(n int64) (int64, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}
