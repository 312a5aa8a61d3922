// Package rand provides the seedable random number generator used by the
// map's sources, samplers and initializers.
//
// The generator is the Mersenne Twister (MT19937) with NumPy-compatible
// seeding and float conversion, so a seed yields the same stream as
// numpy.random.RandomState(seed).
package rand

import "math"

const (
	mtN        = 624
	mtM        = 397
	matrixA    = 0x9908b0df
	upperMask  = 0x80000000
	lowerMask  = 0x7fffffff
	temperingB = 0x9d2c5680
	temperingC = 0xefc60000
)

// MT19937 is a Mersenne Twister random number generator.
// It is not safe for concurrent use.
type MT19937 struct {
	mt  [mtN]uint32
	mti int
}

// New creates a generator from a 64-bit seed. Only the low 32 bits are used.
func New(seed int64) *MT19937 {
	return NewMT19937(uint32(seed))
}

// NewMT19937 creates a new Mersenne Twister with the given seed.
func NewMT19937(seed uint32) *MT19937 {
	mt := &MT19937{}
	mt.Seed(seed)
	return mt
}

// Seed resets the generator state.
func (mt *MT19937) Seed(seed uint32) {
	mt.mt[0] = seed
	for i := 1; i < mtN; i++ {
		mt.mt[i] = 1812433253*(mt.mt[i-1]^(mt.mt[i-1]>>30)) + uint32(i)
	}
	mt.mti = mtN
}

// Uint32 generates a random uint32.
func (mt *MT19937) Uint32() uint32 {
	if mt.mti >= mtN {
		mt.twist()
	}

	y := mt.mt[mt.mti]
	mt.mti++

	y ^= y >> 11
	y ^= (y << 7) & temperingB
	y ^= (y << 15) & temperingC
	y ^= y >> 18

	return y
}

// twist regenerates the whole state block.
func (mt *MT19937) twist() {
	mag01 := [2]uint32{0, matrixA}

	var y uint32
	var kk int
	for kk = 0; kk < mtN-mtM; kk++ {
		y = (mt.mt[kk] & upperMask) | (mt.mt[kk+1] & lowerMask)
		mt.mt[kk] = mt.mt[kk+mtM] ^ (y >> 1) ^ mag01[y&1]
	}
	for ; kk < mtN-1; kk++ {
		y = (mt.mt[kk] & upperMask) | (mt.mt[kk+1] & lowerMask)
		mt.mt[kk] = mt.mt[kk+(mtM-mtN)] ^ (y >> 1) ^ mag01[y&1]
	}
	y = (mt.mt[mtN-1] & upperMask) | (mt.mt[0] & lowerMask)
	mt.mt[mtN-1] = mt.mt[mtM-1] ^ (y >> 1) ^ mag01[y&1]
	mt.mti = 0
}

// Float64 generates a random float64 in [0, 1) with 53 bits of precision.
func (mt *MT19937) Float64() float64 {
	a := mt.Uint32() >> 5
	b := mt.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

// Uniform generates a random float64 in [low, high).
func (mt *MT19937) Uniform(low, high float64) float64 {
	return low + (high-low)*mt.Float64()
}

// Intn returns a random int in [0, n). It returns 0 when n <= 0.
func (mt *MT19937) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	bound := uint64(n)
	if bound > 1<<32 {
		v := uint64(mt.Uint32())<<32 | uint64(mt.Uint32())
		return int(v % bound)
	}
	// Rejection sampling on the largest multiple of n below 2^32.
	limit := (uint64(1) << 32) - (uint64(1)<<32)%bound
	for {
		v := uint64(mt.Uint32())
		if v < limit {
			return int(v % bound)
		}
	}
}

// Normal returns a standard normal draw using the Box-Muller transform.
// Both uniforms are taken from (0, 1] so the logarithm stays finite.
func (mt *MT19937) Normal() float64 {
	u1 := 1.0 - mt.Float64()
	u2 := 1.0 - mt.Float64()
	return math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
}

// Perm returns a random permutation of [0, n).
func (mt *MT19937) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := mt.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}
