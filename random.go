package textfx

import (
	"math"
	"math/rand/v2"
	"time"
)

// RandomSource is a seedable random stream whose state can be saved and
// restored. The package keeps one shared stream (see SharedRandom) that user
// code may draw from; the Animator snapshots it before a vertex pass and
// restores it afterwards so effects never perturb unrelated consumers.
type RandomSource struct {
	pcg rand.PCG
	rng *rand.Rand
}

// RandomState is an opaque snapshot of a RandomSource.
type RandomState struct {
	pcg rand.PCG
}

// NewRandomSource returns a stream seeded with seed.
func NewRandomSource(seed uint64) *RandomSource {
	s := &RandomSource{}
	s.pcg.Seed(seed, seed^0x9e3779b97f4a7c15)
	s.rng = rand.New(&s.pcg)
	return s
}

var sharedRandom = NewRandomSource(uint64(time.Now().UnixNano()))

// SharedRandom returns the package-wide random stream.
func SharedRandom() *RandomSource { return sharedRandom }

// Seed reseeds the stream.
func (s *RandomSource) Seed(seed uint64) {
	s.pcg.Seed(seed, seed^0x9e3779b97f4a7c15)
}

// Snapshot captures the current state.
func (s *RandomSource) Snapshot() RandomState {
	return RandomState{pcg: s.pcg}
}

// Restore rewinds the stream to a snapshot.
func (s *RandomSource) Restore(st RandomState) {
	s.pcg = st.pcg
}

// Uint64 returns a pseudo-random 64-bit value.
func (s *RandomSource) Uint64() uint64 { return s.rng.Uint64() }

// Float64 returns a value in [0, 1).
func (s *RandomSource) Float64() float64 { return s.rng.Float64() }

// Range returns a value in [lo, hi).
func (s *RandomSource) Range(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Bool returns true or false with equal probability.
func (s *RandomSource) Bool() bool { return s.rng.Float64() < 0.5 }

// InsideUnitCircle returns a uniformly distributed point in the unit disc.
func (s *RandomSource) InsideUnitCircle() Vec2 {
	for {
		v := Vec2{s.Range(-1, 1), s.Range(-1, 1)}
		if v.X*v.X+v.Y*v.Y <= 1 {
			return v
		}
	}
}

// Color returns a random color with channels in [lo, hi]. Alpha is 1 unless
// randomizeAlpha is set.
func (s *RandomSource) Color(lo, hi float64, randomizeAlpha bool) Color {
	c := Color{s.Range(lo, hi), s.Range(lo, hi), s.Range(lo, hi), 1}
	if randomizeAlpha {
		c.A = s.Range(lo, hi)
	}
	return c
}

// Corners returns random corner weights in [lo, hi).
func (s *RandomSource) Corners(lo, hi float64) Corners {
	return Corners{s.Range(lo, hi), s.Range(lo, hi), s.Range(lo, hi), s.Range(lo, hi)}
}

// Vec3 returns a vector with each component in [lo, hi).
func (s *RandomSource) Vec3(lo, hi float64) Vec3 {
	return Vec3{s.Range(lo, hi), s.Range(lo, hi), s.Range(lo, hi)}
}

// SteppedRandom produces a random sequence that stays identical across frames
// until an elapsed-time threshold passes, then jumps to a new sequence. Every
// frame replays the sequence from its start, so glyph i sees the same draw on
// each frame of a window regardless of the frame rate.
type SteppedRandom struct {
	saved      rand.PCG
	live       rand.PCG
	rng        *rand.Rand
	lastChange float64
	lastFrame  uint64
	seeded     bool
}

// Begin prepares the sequence for a draw at unscaledTime in frame. interval
// is the window length in seconds; a new seed is pulled from seeds once more
// than interval has elapsed since the last change.
func (r *SteppedRandom) Begin(unscaledTime, interval float64, frame uint64, seeds *RandomSource) *rand.Rand {
	if r.rng == nil {
		r.rng = rand.New(&r.live)
	}
	// A restart rewinds time; follow it so the window is measured afresh.
	if r.lastChange > unscaledTime {
		r.lastChange = unscaledTime
	}
	if !r.seeded || unscaledTime-r.lastChange > interval {
		r.lastChange = unscaledTime
		seed := seeds.Uint64()
		r.saved.Seed(seed, seed^0x632be59bd9b4e019)
		r.seeded = true
		r.lastFrame = frame - 1
	}
	if frame != r.lastFrame {
		r.lastFrame = frame
		r.live = r.saved
	}
	return r.rng
}

// Reset forgets the current window and seed.
func (r *SteppedRandom) Reset() {
	*r = SteppedRandom{}
}

// rangeWith returns a value in [lo, hi) drawn from rng.
func rangeWith(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// insideUnitCircleWith draws a point in the unit disc from rng.
func insideUnitCircleWith(rng *rand.Rand) Vec2 {
	for {
		v := Vec2{rangeWith(rng, -1, 1), rangeWith(rng, -1, 1)}
		if v.X*v.X+v.Y*v.Y <= 1 {
			return v
		}
	}
}

// randomTableSize is the length of the deterministic lookup table used by
// the typewriter shake module.
const randomTableSize = 100

var randomTable []float64

// FillRandomTable refills the typewriter shake lookup table from src.
func FillRandomTable(src *RandomSource) {
	if randomTable == nil {
		randomTable = make([]float64, randomTableSize)
	}
	for i := range randomTable {
		randomTable[i] = src.Float64()
	}
}

// randomTableValue returns the table entry at abs(index) mod size, filling
// the table on first use.
func randomTableValue(index float64) float64 {
	if randomTable == nil {
		FillRandomTable(sharedRandom)
	}
	i := int(math.Abs(index)) % randomTableSize
	return randomTable[i]
}

// Curve returns a random curve from (0,0) to (1,1) with up to three random
// inner keys whose values lie in [lo, hi).
func (s *RandomSource) Curve(lo, hi float64) *Curve {
	n := 2 + s.rng.IntN(4)
	keys := make([]Keyframe, n)
	keys[0] = Keyframe{Time: 0, Value: 0}
	keys[n-1] = Keyframe{Time: 1, Value: 1}
	for i := 1; i < n-1; i++ {
		keys[i] = Keyframe{
			Time:       s.Float64(),
			Value:      s.Range(lo, hi),
			InTangent:  s.Range(-1, 1),
			OutTangent: s.Range(-1, 1),
		}
	}
	return NewCurve(keys...)
}

// Sign returns -1 or 1 with equal probability.
func (s *RandomSource) Sign() float64 {
	if s.Bool() {
		return 1
	}
	return -1
}
