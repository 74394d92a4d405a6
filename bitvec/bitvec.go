package bitvec

import (
	"math/bits"

	"github.com/RoaringBitmap/roaring/v2"
)

// WordBits is the number of rows covered by one storage word.
const WordBits = 64

// wordsFor returns the number of words needed to hold n bits.
func wordsFor(n int) int {
	return (n + WordBits - 1) / WordBits
}

// Vector is a dense, word-packed boolean vector. It is not safe for
// concurrent mutation; concurrent writers must target disjoint words via
// SetWord.
type Vector struct {
	words  []uint64
	length int
}

// New creates a zeroed Vector of the given length in rows.
func New(length int) *Vector {
	return &Vector{
		words:  make([]uint64, wordsFor(length)),
		length: length,
	}
}

// WithCapacity creates an empty Vector with room for capacity rows.
func WithCapacity(capacity int) *Vector {
	return &Vector{
		words: make([]uint64, 0, wordsFor(capacity)),
	}
}

// FromSlice packs a []bool into a Vector.
func FromSlice(values []bool) *Vector {
	v := New(len(values))
	for i, b := range values {
		if b {
			v.Set(i)
		}
	}
	return v
}

// Len returns the logical length in rows.
func (v *Vector) Len() int { return v.length }

// Cap returns the number of rows the vector can hold without reallocating.
func (v *Vector) Cap() int { return cap(v.words) * WordBits }

// WordCount returns the number of storage words in use.
func (v *Vector) WordCount() int { return len(v.words) }

// Reset empties the vector, retaining its capacity.
func (v *Vector) Reset() {
	v.words = v.words[:0]
	v.length = 0
}

// SetLen resizes the vector to n rows with all bits cleared, growing the
// underlying storage only if the capacity is insufficient.
func (v *Vector) SetLen(n int) {
	nw := wordsFor(n)
	if nw <= cap(v.words) {
		v.words = v.words[:nw]
	} else {
		v.words = make([]uint64, nw)
	}
	for i := range v.words {
		v.words[i] = 0
	}
	v.length = n
}

// Get returns the bit at row i.
func (v *Vector) Get(i int) bool {
	return v.words[i>>6]&(1<<(uint(i)&63)) != 0
}

// Set sets the bit at row i.
func (v *Vector) Set(i int) {
	v.words[i>>6] |= 1 << (uint(i) & 63)
}

// Word returns storage word i.
func (v *Vector) Word(i int) uint64 { return v.words[i] }

// SetWord overwrites storage word i. Writers targeting distinct i never
// race, which is what the chunked parallel comparison relies on.
func (v *Vector) SetWord(i int, w uint64) { v.words[i] = w }

// Words returns the underlying word slice. Mutating it mutates the vector.
func (v *Vector) Words() []uint64 { return v.words }

// And computes v &= other word-wise. Both vectors must have equal length.
func (v *Vector) And(other *Vector) {
	if v.length != other.length {
		panic("bitvec: length mismatch in And")
	}
	andWords(v.words, other.words)
}

// Or computes v |= other word-wise. Both vectors must have equal length.
func (v *Vector) Or(other *Vector) {
	if v.length != other.length {
		panic("bitvec: length mismatch in Or")
	}
	orWords(v.words, other.words)
}

// NotInPlace inverts every bit, keeping the bits past the logical length
// zero.
func (v *Vector) NotInPlace() {
	for i := range v.words {
		v.words[i] = ^v.words[i]
	}
	v.maskTail()
}

// maskTail clears the bits of the last word beyond the logical length.
func (v *Vector) maskTail() {
	if rem := uint(v.length) & 63; rem != 0 && len(v.words) > 0 {
		v.words[len(v.words)-1] &= (1 << rem) - 1
	}
}

// Count returns the number of set bits.
func (v *Vector) Count() int {
	return popcountWords(v.words)
}

// ToSlice unpacks the vector into a []bool.
func (v *Vector) ToSlice() []bool {
	out := make([]bool, v.length)
	for i := range out {
		out[i] = v.Get(i)
	}
	return out
}

// ToBitmap exports the set rows as a roaring bitmap, suitable for
// row-filter consumers.
func (v *Vector) ToBitmap() *roaring.Bitmap {
	rb := roaring.New()
	buf := make([]uint32, 0, 256)
	for wi, w := range v.words {
		base := uint32(wi) * WordBits
		for w != 0 {
			buf = append(buf, base+uint32(bits.TrailingZeros64(w)))
			w &= w - 1
		}
		if len(buf) >= 224 {
			rb.AddMany(buf)
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		rb.AddMany(buf)
	}
	return rb
}

func andWords(dst, src []uint64) {
	i := 0
	for ; i+4 <= len(dst); i += 4 {
		dst[i] &= src[i]
		dst[i+1] &= src[i+1]
		dst[i+2] &= src[i+2]
		dst[i+3] &= src[i+3]
	}
	for ; i < len(dst); i++ {
		dst[i] &= src[i]
	}
}

func orWords(dst, src []uint64) {
	i := 0
	for ; i+4 <= len(dst); i += 4 {
		dst[i] |= src[i]
		dst[i+1] |= src[i+1]
		dst[i+2] |= src[i+2]
		dst[i+3] |= src[i+3]
	}
	for ; i < len(dst); i++ {
		dst[i] |= src[i]
	}
}

func popcountWords(words []uint64) int {
	count := 0
	i := 0
	for ; i+4 <= len(words); i += 4 {
		count += bits.OnesCount64(words[i])
		count += bits.OnesCount64(words[i+1])
		count += bits.OnesCount64(words[i+2])
		count += bits.OnesCount64(words[i+3])
	}
	for ; i < len(words); i++ {
		count += bits.OnesCount64(words[i])
	}
	return count
}
