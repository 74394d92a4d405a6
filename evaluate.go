package vexpr

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ForesightMiningSoftwareCorporation/vector-expr/bitvec"
)

// minParallelChunks is the smallest number of work units worth fanning out.
// Below this the fork-join overhead dominates.
const minParallelChunks = 8

// Evaluator computes column-wise results for expression trees. It is
// stateless apart from configuration and may be shared across goroutines;
// the per-call Registers pool is what must not be shared.
type Evaluator[T Real] struct {
	workers int
	logger  *Logger
}

// New creates an Evaluator. By default evaluation is serial; see
// WithParallelism.
func New[T Real](optFns ...Option) *Evaluator[T] {
	o := applyOptions(optFns)
	workers := o.parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Evaluator[T]{
		workers: workers,
		logger:  o.logger,
	}
}

// EvaluateReal calculates the real-valued results of expr component-wise.
//
// bindings holds one column per RealBinding index, each of exactly
// regs.Length() rows. The returned slice is owned by the caller and is
// never recycled back into regs.
func (ev *Evaluator[T]) EvaluateReal(expr RealExpr[T], bindings [][]T, regs *Registers[T]) ([]T, error) {
	if err := validateColumns(bindings, regs.registerLength); err != nil {
		ev.logger.LogEvaluate("real", regs.registerLength, regs.numAllocations, err)
		return nil, err
	}
	if mb := maxRealBinding[T](expr); mb >= len(bindings) {
		err := &ErrBindingOutOfRange{Binding: BindingID(mb), Supplied: len(bindings)}
		ev.logger.LogEvaluate("real", regs.registerLength, regs.numAllocations, err)
		return nil, err
	}
	out := ev.evalReal(expr, bindings, regs)
	ev.logger.LogEvaluate("real", regs.registerLength, regs.numAllocations, nil)
	return out, nil
}

// EvaluateConstant evaluates a real expression that references no bindings.
func (ev *Evaluator[T]) EvaluateConstant(expr RealExpr[T], regs *Registers[T]) ([]T, error) {
	return ev.EvaluateReal(expr, nil, regs)
}

// EvaluateBool calculates the boolean results of expr component-wise,
// returned word-packed.
//
// realBindings and stringBindings hold one column per binding index of the
// respective kind. intern is invoked once per string literal node per call;
// it may be nil if the expression contains no string literals. The returned
// vector is owned by the caller and is never recycled back into regs.
func (ev *Evaluator[T]) EvaluateBool(
	expr BoolExpr[T],
	realBindings [][]T,
	stringBindings [][]StringID,
	intern InternFunc,
	regs *Registers[T],
) (*bitvec.Vector, error) {
	if err := validateColumns(realBindings, regs.registerLength); err != nil {
		ev.logger.LogEvaluate("bool", regs.registerLength, regs.numAllocations, err)
		return nil, err
	}
	if err := validateColumns(stringBindings, regs.registerLength); err != nil {
		ev.logger.LogEvaluate("bool", regs.registerLength, regs.numAllocations, err)
		return nil, err
	}
	maxReal, maxString := maxBoolBindings[T](expr)
	if maxReal >= len(realBindings) {
		err := &ErrBindingOutOfRange{Binding: BindingID(maxReal), Supplied: len(realBindings)}
		ev.logger.LogEvaluate("bool", regs.registerLength, regs.numAllocations, err)
		return nil, err
	}
	if maxString >= len(stringBindings) {
		err := &ErrBindingOutOfRange{Binding: BindingID(maxString), Supplied: len(stringBindings)}
		ev.logger.LogEvaluate("bool", regs.registerLength, regs.numAllocations, err)
		return nil, err
	}
	if intern == nil {
		intern = func(s string) StringID {
			panic("vexpr: expression contains string literal " + s + " but no intern function was supplied")
		}
	}
	out := ev.evalBool(expr, realBindings, stringBindings, intern, regs)
	ev.logger.LogEvaluate("bool", regs.registerLength, regs.numAllocations, nil)
	return out, nil
}

func validateColumns[E any](cols [][]E, expected int) error {
	for i, col := range cols {
		if len(col) != expected {
			return &ErrLengthMismatch{Binding: BindingID(i), Expected: expected, Actual: len(col)}
		}
	}
	return nil
}

func (ev *Evaluator[T]) evalReal(e RealExpr[T], bindings [][]T, regs *Registers[T]) []T {
	switch n := e.(type) {
	case RealBinary[T]:
		return ev.evalRealBinary(realBinaryFunc[T](n.Op), n.LHS, n.RHS, bindings, regs)
	case RealNeg[T]:
		return ev.evalRealUnary(func(x T) T { return -x }, n.Expr, bindings, regs)
	case RealLiteral[T]:
		out := regs.allocateReal()[:regs.registerLength]
		ev.forEachRange(regs.registerLength, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = n.Value
			}
		})
		return out
	case RealBinding[T]:
		// Only reached when the whole (sub-)expression is the identity map
		// of one input column; operators read bindings by reference instead.
		out := regs.allocateReal()
		return append(out, bindings[n.Binding]...)
	}
	panic("vexpr: unknown real expression node")
}

// resolveReal returns the operand values for e. When e is directly a
// binding, the input column is read by reference and reg is nil; otherwise
// e is evaluated recursively and reg is the register holding the result,
// to be recycled by the caller once combined.
func (ev *Evaluator[T]) resolveReal(e RealExpr[T], bindings [][]T, regs *Registers[T]) (values, reg []T) {
	if b, ok := e.(RealBinding[T]); ok {
		return bindings[b.Binding], nil
	}
	reg = ev.evalReal(e, bindings, regs)
	return reg, reg
}

func (ev *Evaluator[T]) evalRealBinary(op func(T, T) T, lhs, rhs RealExpr[T], bindings [][]T, regs *Registers[T]) []T {
	lhsValues, lhsReg := ev.resolveReal(lhs, bindings, regs)
	rhsValues, rhsReg := ev.resolveReal(rhs, bindings, regs)

	// Allocate this output register as lazily as possible.
	out := regs.allocateReal()[:regs.registerLength]

	ev.forEachRange(regs.registerLength, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = op(lhsValues[i], rhsValues[i])
		}
	})

	if lhsReg != nil {
		regs.recycleReal(lhsReg)
	}
	if rhsReg != nil {
		regs.recycleReal(rhsReg)
	}
	return out
}

func (ev *Evaluator[T]) evalRealUnary(op func(T) T, only RealExpr[T], bindings [][]T, regs *Registers[T]) []T {
	onlyValues, onlyReg := ev.resolveReal(only, bindings, regs)

	// Allocate this output register as lazily as possible.
	out := regs.allocateReal()[:regs.registerLength]

	ev.forEachRange(regs.registerLength, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = op(onlyValues[i])
		}
	})

	if onlyReg != nil {
		regs.recycleReal(onlyReg)
	}
	return out
}

func (ev *Evaluator[T]) evalBool(
	e BoolExpr[T],
	realBindings [][]T,
	stringBindings [][]StringID,
	intern InternFunc,
	regs *Registers[T],
) *bitvec.Vector {
	switch n := e.(type) {
	case BoolBinary[T]:
		lhs := ev.evalBool(n.LHS, realBindings, stringBindings, intern, regs)
		rhs := ev.evalBool(n.RHS, realBindings, stringBindings, intern, regs)

		// Allocate this output register as lazily as possible.
		out := regs.allocateBool()
		out.SetLen(regs.registerLength)
		copy(out.Words(), lhs.Words())
		switch n.Op {
		case OpAnd:
			out.And(rhs)
		case OpOr:
			out.Or(rhs)
		default:
			panic("vexpr: unknown boolean operator")
		}

		regs.recycleBool(lhs)
		regs.recycleBool(rhs)
		return out
	case BoolNot[T]:
		// Booleans have no binding variant, so the operand register is
		// always uniquely owned here: invert it in place instead of
		// allocating a fresh output.
		only := ev.evalBool(n.Expr, realBindings, stringBindings, intern, regs)
		only.NotInPlace()
		return only
	case RealComparison[T]:
		return ev.evalRealComparison(compareFunc[T](n.Op), n.LHS, n.RHS, realBindings, regs)
	case StringComparison[T]:
		return ev.evalStringComparison(n.Op, n.LHS, n.RHS, stringBindings, intern, regs)
	}
	panic("vexpr: unknown boolean expression node")
}

func (ev *Evaluator[T]) evalRealComparison(op func(T, T) bool, lhs, rhs RealExpr[T], bindings [][]T, regs *Registers[T]) *bitvec.Vector {
	lhsValues, lhsReg := ev.resolveReal(lhs, bindings, regs)
	rhsValues, rhsReg := ev.resolveReal(rhs, bindings, regs)

	// Allocate this output register as lazily as possible.
	out := regs.allocateBool()
	out.SetLen(regs.registerLength)
	ev.compareInto(out, regs.registerLength, func(i int) bool {
		return op(lhsValues[i], rhsValues[i])
	})

	if lhsReg != nil {
		regs.recycleReal(lhsReg)
	}
	if rhsReg != nil {
		regs.recycleReal(rhsReg)
	}
	return out
}

// resolveString returns the operand StringIDs for e: input columns are
// read by reference, literals are interned once and broadcast into a
// register that the caller recycles.
func (ev *Evaluator[T]) resolveString(e StringExpr, bindings [][]StringID, intern InternFunc, regs *Registers[T]) (values, reg []StringID) {
	switch n := e.(type) {
	case StringBinding:
		return bindings[n.Binding], nil
	case StringLiteral:
		reg = regs.allocateString()
		id := intern(n.Value)
		for i := 0; i < regs.registerLength; i++ {
			reg = append(reg, id)
		}
		return reg, reg
	}
	panic("vexpr: unknown string expression node")
}

func (ev *Evaluator[T]) evalStringComparison(
	op StringCompareOp,
	lhs, rhs StringExpr,
	bindings [][]StringID,
	intern InternFunc,
	regs *Registers[T],
) *bitvec.Vector {
	lhsValues, lhsReg := ev.resolveString(lhs, bindings, intern, regs)
	rhsValues, rhsReg := ev.resolveString(rhs, bindings, intern, regs)

	// Allocate this output register as lazily as possible.
	out := regs.allocateBool()
	out.SetLen(regs.registerLength)
	switch op {
	case OpStrEq:
		ev.compareInto(out, regs.registerLength, func(i int) bool {
			return lhsValues[i] == rhsValues[i]
		})
	case OpStrNe:
		ev.compareInto(out, regs.registerLength, func(i int) bool {
			return lhsValues[i] != rhsValues[i]
		})
	default:
		panic("vexpr: unknown string operator")
	}

	if lhsReg != nil {
		regs.recycleString(lhsReg)
	}
	if rhsReg != nil {
		regs.recycleString(rhsReg)
	}
	return out
}

// compareInto reduces pred row-wise into out's packed words. Rows are
// processed one output word at a time: each full word is OR-accumulated
// from its 64 predicate results and written exactly once, so full words
// can be computed concurrently with no shared mutable state. The trailing
// partial word, if any, is reduced separately after the parallel pass.
func (ev *Evaluator[T]) compareInto(out *bitvec.Vector, n int, pred func(i int) bool) {
	fullWords := n / bitvec.WordBits
	ev.forEachRange(fullWords, func(lo, hi int) {
		for w := lo; w < hi; w++ {
			base := w * bitvec.WordBits
			var word uint64
			for b := 0; b < bitvec.WordBits; b++ {
				if pred(base + b) {
					word |= 1 << uint(b)
				}
			}
			out.SetWord(w, word)
		}
	})

	if rem := n - fullWords*bitvec.WordBits; rem > 0 {
		base := fullWords * bitvec.WordBits
		var word uint64
		for b := 0; b < rem; b++ {
			if pred(base + b) {
				word |= 1 << uint(b)
			}
		}
		out.SetWord(fullWords, word)
	}
}

// forEachRange runs fn over [0, n) split into contiguous ranges, fanning
// out across the configured workers and joining before returning. Row i of
// the output always corresponds to row i of the inputs; partitioning never
// reorders work.
func (ev *Evaluator[T]) forEachRange(n int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	workers := ev.workers
	if workers > n {
		workers = n
	}
	if workers <= 1 || n < minParallelChunks {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // fn cannot fail
}

func realBinaryFunc[T Real](op RealBinaryOp) func(T, T) T {
	switch op {
	case OpAdd:
		return func(a, b T) T { return a + b }
	case OpSub:
		return func(a, b T) T { return a - b }
	case OpMul:
		return func(a, b T) T { return a * b }
	case OpDiv:
		return func(a, b T) T { return a / b }
	case OpPow:
		return func(a, b T) T { return T(math.Pow(float64(a), float64(b))) }
	}
	panic("vexpr: unknown real operator")
}

func compareFunc[T Real](op CompareOp) func(T, T) bool {
	switch op {
	case OpEq:
		return func(a, b T) bool { return a == b }
	case OpNe:
		return func(a, b T) bool { return a != b }
	case OpGt:
		return func(a, b T) bool { return a > b }
	case OpGe:
		return func(a, b T) bool { return a >= b }
	case OpLt:
		return func(a, b T) bool { return a < b }
	case OpLe:
		return func(a, b T) bool { return a <= b }
	}
	panic("vexpr: unknown comparison operator")
}
