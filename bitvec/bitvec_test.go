package bitvec_test

import (
	"math/rand"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForesightMiningSoftwareCorporation/vector-expr/bitvec"
)

// randomPair builds a bitvec.Vector and an equivalent bits-and-blooms
// bitset to use as the oracle.
func randomPair(t *testing.T, rng *rand.Rand, n int) (*bitvec.Vector, *bitset.BitSet) {
	t.Helper()
	v := bitvec.New(n)
	oracle := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		if rng.Intn(2) == 1 {
			v.Set(i)
			oracle.Set(uint(i))
		}
	}
	return v, oracle
}

func assertMatches(t *testing.T, v *bitvec.Vector, oracle *bitset.BitSet) {
	t.Helper()
	for i := 0; i < v.Len(); i++ {
		require.Equal(t, oracle.Test(uint(i)), v.Get(i), "bit %d", i)
	}
}

func TestLogicAgainstOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	// Lengths straddling word boundaries.
	for _, n := range []int{1, 63, 64, 65, 127, 128, 200} {
		a, oa := randomPair(t, rng, n)
		b, ob := randomPair(t, rng, n)

		and := bitvec.FromSlice(a.ToSlice())
		and.And(b)
		assertMatches(t, and, oa.Intersection(ob))

		or := bitvec.FromSlice(a.ToSlice())
		or.Or(b)
		assertMatches(t, or, oa.Union(ob))

		not := bitvec.FromSlice(a.ToSlice())
		not.NotInPlace()
		assertMatches(t, not, oa.Complement())
		assert.Equal(t, n-int(oa.Count()), not.Count(), "Not must keep tail bits clear at n=%d", n)
	}
}

func TestSetLenClearsBits(t *testing.T) {
	v := bitvec.New(100)
	for i := 0; i < 100; i++ {
		v.Set(i)
	}
	v.SetLen(70)
	assert.Equal(t, 70, v.Len())
	assert.Equal(t, 0, v.Count())
}

func TestResetRetainsCapacity(t *testing.T) {
	v := bitvec.New(1000)
	capacity := v.Cap()
	v.Reset()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, capacity, v.Cap())
	v.SetLen(1000)
	assert.Equal(t, capacity, v.Cap())
}

func TestWordAccess(t *testing.T) {
	v := bitvec.New(130)
	v.SetWord(1, ^uint64(0))
	for i := 0; i < 130; i++ {
		assert.Equal(t, i >= 64 && i < 128, v.Get(i), "bit %d", i)
	}
	assert.Equal(t, 64, v.Count())
}

func TestToBitmap(t *testing.T) {
	v := bitvec.New(300)
	rows := []int{0, 1, 63, 64, 65, 255, 299}
	for _, r := range rows {
		v.Set(r)
	}
	rb := v.ToBitmap()
	require.EqualValues(t, len(rows), rb.GetCardinality())
	for _, r := range rows {
		assert.True(t, rb.Contains(uint32(r)), "row %d", r)
	}
}
