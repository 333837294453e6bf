// Package prng implements a Mersenne Twister (MT19937) generator that is
// bit-for-bit compatible with CPython's random.Random for the operations
// the mutation engine depends on: seeding from a 32-bit integer, uniform
// floats, getrandbits, randbelow, randrange, shuffle, choice and sample.
//
// math/rand's stream does not match CPython's, so it cannot be used for
// anything whose output is part of a reproducibility contract. This
// package exists purely to reproduce that contract; it is not a
// general-purpose PRNG.
package prng

const (
	n          = 624
	m          = 397
	matrixA    = 0x9908b0df
	upperMask  = 0x80000000
	lowerMask  = 0x7fffffff
	maxUint32  = 0xffffffff
)

// Rand is a CPython-compatible MT19937 stream.
type Rand struct {
	mt  [n]uint32
	mti int
}

// New seeds a generator the way CPython's random.Random(seed) does for a
// non-negative integer seed that fits in 32 bits: the seed is treated as
// a single little-endian 32-bit word and fed to init_by_array.
func New(seed uint32) *Rand {
	r := &Rand{}
	r.initByArray([]uint32{seed})
	return r
}

// NewFromKey seeds from an arbitrary little-endian 32-bit word array,
// mirroring CPython's handling of arbitrary-precision integer seeds.
func NewFromKey(key []uint32) *Rand {
	if len(key) == 0 {
		key = []uint32{0}
	}
	r := &Rand{}
	r.initByArray(key)
	return r
}

func (r *Rand) initGenrand(s uint32) {
	r.mt[0] = s
	for i := 1; i < n; i++ {
		r.mt[i] = (1812433253*(r.mt[i-1]^(r.mt[i-1]>>30)) + uint32(i)) & maxUint32
	}
	r.mti = n
}

func (r *Rand) initByArray(key []uint32) {
	r.initGenrand(19650218)
	i, j := 1, 0
	k := n
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		r.mt[i] = (r.mt[i] ^ ((r.mt[i-1] ^ (r.mt[i-1] >> 30)) * 1664525)) + key[j] + uint32(j)
		r.mt[i] &= maxUint32
		i++
		j++
		if i >= n {
			r.mt[0] = r.mt[n-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = n - 1; k > 0; k-- {
		r.mt[i] = (r.mt[i] ^ ((r.mt[i-1] ^ (r.mt[i-1] >> 30)) * 1566083941)) - uint32(i)
		r.mt[i] &= maxUint32
		i++
		if i >= n {
			r.mt[0] = r.mt[n-1]
			i = 1
		}
	}
	r.mt[0] = 0x80000000
}

var mag01 = [2]uint32{0, matrixA}

// Uint32 returns the next raw 32-bit tempered output word.
func (r *Rand) Uint32() uint32 {
	if r.mti >= n {
		var kk int
		for kk = 0; kk < n-m; kk++ {
			y := (r.mt[kk] & upperMask) | (r.mt[kk+1] & lowerMask)
			r.mt[kk] = r.mt[kk+m] ^ (y >> 1) ^ mag01[y&1]
		}
		for ; kk < n-1; kk++ {
			y := (r.mt[kk] & upperMask) | (r.mt[kk+1] & lowerMask)
			r.mt[kk] = r.mt[kk+(m-n)] ^ (y >> 1) ^ mag01[y&1]
		}
		y := (r.mt[n-1] & upperMask) | (r.mt[0] & lowerMask)
		r.mt[n-1] = r.mt[m-1] ^ (y >> 1) ^ mag01[y&1]
		r.mti = 0
	}

	y := r.mt[r.mti]
	r.mti++
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Float64 reproduces CPython's random.random(): a 53-bit float in [0, 1).
func (r *Rand) Float64() float64 {
	a := r.Uint32() >> 5
	b := r.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

// GetRandBits reproduces CPython's random.getrandbits(k) for k in [1, 64].
// Word 0 (the first genrand_uint32 draw) holds the least-significant bits,
// matching CPython's little-endian word order for k > 32.
func (r *Rand) GetRandBits(k int) uint64 {
	if k <= 0 {
		panic("prng: GetRandBits requires k > 0")
	}
	if k > 64 {
		panic("prng: GetRandBits only supports k <= 64")
	}
	if k <= 32 {
		return uint64(r.Uint32() >> uint(32-k))
	}
	lo := uint64(r.Uint32())
	remaining := k - 32
	hi := uint64(r.Uint32() >> uint(32-remaining))
	return lo | (hi << 32)
}

// RandBelow reproduces CPython's Random._randbelow_with_getrandbits(n):
// rejection sampling using the smallest number of bits covering n.
func (r *Rand) RandBelow(nn int) int {
	if nn <= 0 {
		return 0
	}
	k := bitLength(uint64(nn))
	v := r.GetRandBits(k)
	for v >= uint64(nn) {
		v = r.GetRandBits(k)
	}
	return int(v)
}

func bitLength(v uint64) int {
	bits := 0
	for v > 0 {
		bits++
		v >>= 1
	}
	return bits
}

// RandRange reproduces CPython's random.randrange(start, stop) for step=1.
func (r *Rand) RandRange(start, stop int) int {
	width := stop - start
	return start + r.RandBelow(width)
}

// ShuffleN reproduces CPython's random.shuffle() index permutation, via a
// callback so callers can shuffle slices of any element type in place.
func (r *Rand) ShuffleN(length int, swap func(i, j int)) {
	for i := length - 1; i > 0; i-- {
		j := r.RandBelow(i + 1)
		swap(i, j)
	}
}

// ChoiceIndex reproduces CPython's random.choice(seq) index selection.
func (r *Rand) ChoiceIndex(length int) int {
	if length <= 0 {
		panic("prng: ChoiceIndex on empty sequence")
	}
	return r.RandBelow(length)
}

// SampleIndices reproduces CPython's random.sample(population, k) index
// selection (3.11+ algorithm): the in-place pool-swap variant for small
// populations, the rejection-set variant for large ones.
func (r *Rand) SampleIndices(popSize, k int) []int {
	if k < 0 || k > popSize {
		panic("prng: SampleIndices requires 0 <= k <= popSize")
	}

	result := make([]int, k)
	setSize := 21
	if k > 5 {
		setSize += pow4(ceilLog4(float64(k) * 3))
	}

	if popSize <= setSize {
		pool := make([]int, popSize)
		for i := range pool {
			pool[i] = i
		}
		for i := 0; i < k; i++ {
			j := r.RandBelow(popSize - i)
			result[i] = pool[j]
			pool[j] = pool[popSize-i-1]
		}
		return result
	}

	selected := make(map[int]struct{}, k)
	for i := 0; i < k; i++ {
		j := r.RandBelow(popSize)
		for {
			if _, ok := selected[j]; !ok {
				break
			}
			j = r.RandBelow(popSize)
		}
		selected[j] = struct{}{}
		result[i] = j
	}
	return result
}

func ceilLog4(x float64) int {
	// ceil(log4(x)) computed via repeated multiplication to avoid
	// floating point log-base drift for the small inputs sample() uses.
	if x <= 1 {
		return 0
	}
	count := 0
	v := 1.0
	for v < x {
		v *= 4
		count++
	}
	return count
}

func pow4(e int) int {
	v := 1
	for i := 0; i < e; i++ {
		v *= 4
	}
	return v
}
