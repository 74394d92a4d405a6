package vexpr

import (
	"github.com/ForesightMiningSoftwareCorporation/vector-expr/bitvec"
)

// Registers is scratch space for evaluation: one free list of reusable
// buffers per result kind. It can be reused across evaluations sharing the
// same register length, which bounds cold allocations by the dataflow
// width of the expression rather than its node count.
//
// A Registers value is owned by a single in-flight evaluation at a time;
// concurrent evaluations must each use their own instance.
type Registers[T Real] struct {
	numAllocations int
	realRegisters  [][]T
	boolRegisters  []*bitvec.Vector
	strRegisters   [][]StringID
	registerLength int
}

// NewRegisters creates an empty pool for columns of registerLength rows.
func NewRegisters[T Real](registerLength int) *Registers[T] {
	return &Registers[T]{registerLength: registerLength}
}

// Length returns the shared row count all columns and results must have.
func (r *Registers[T]) Length() int { return r.registerLength }

// SetLength changes the shared row count for subsequent evaluations.
// Pooled buffers whose capacity is now insufficient are dropped, so the
// pool never serves an undersized buffer.
func (r *Registers[T]) SetLength(n int) {
	if n > r.registerLength {
		r.realRegisters = pruneByCap(r.realRegisters, n)
		r.strRegisters = pruneByCap(r.strRegisters, n)
		kept := r.boolRegisters[:0]
		for _, v := range r.boolRegisters {
			if v.Cap() >= n {
				kept = append(kept, v)
			}
		}
		r.boolRegisters = kept
	}
	r.registerLength = n
}

// NumAllocations returns the total number of cold allocations made over
// the pool's lifetime. Recycling effectiveness shows up here: evaluating
// a deep expression should allocate far fewer registers than it has nodes.
func (r *Registers[T]) NumAllocations() int { return r.numAllocations }

func pruneByCap[E any](pool [][]E, n int) [][]E {
	kept := pool[:0]
	for _, buf := range pool {
		if cap(buf) >= n {
			kept = append(kept, buf)
		}
	}
	return kept
}

func (r *Registers[T]) allocateReal() []T {
	if n := len(r.realRegisters); n > 0 {
		reg := r.realRegisters[n-1]
		r.realRegisters = r.realRegisters[:n-1]
		return reg
	}
	r.numAllocations++
	return make([]T, 0, r.registerLength)
}

func (r *Registers[T]) recycleReal(used []T) {
	r.realRegisters = append(r.realRegisters, used[:0])
}

func (r *Registers[T]) allocateBool() *bitvec.Vector {
	if n := len(r.boolRegisters); n > 0 {
		reg := r.boolRegisters[n-1]
		r.boolRegisters = r.boolRegisters[:n-1]
		return reg
	}
	r.numAllocations++
	return bitvec.WithCapacity(r.registerLength)
}

func (r *Registers[T]) recycleBool(used *bitvec.Vector) {
	used.Reset()
	r.boolRegisters = append(r.boolRegisters, used)
}

func (r *Registers[T]) allocateString() []StringID {
	if n := len(r.strRegisters); n > 0 {
		reg := r.strRegisters[n-1]
		r.strRegisters = r.strRegisters[:n-1]
		return reg
	}
	r.numAllocations++
	return make([]StringID, 0, r.registerLength)
}

func (r *Registers[T]) recycleString(used []StringID) {
	r.strRegisters = append(r.strRegisters, used[:0])
}
