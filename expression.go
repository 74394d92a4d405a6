package vexpr

// Real is the set of element types an expression can compute over. The
// choice of float32 vs float64 is made once, at the type level, and flows
// through the tree, the registers and the evaluator.
type Real interface {
	~float32 | ~float64
}

// BindingID is a dense index into the column slices passed to evaluation.
// The parser resolves variable names to BindingIDs up front so that a
// parsed expression can be reused with many different data bindings.
type BindingID int

// StringID identifies an interned string. String comparisons reduce to
// integer comparisons over StringIDs; the engine never stores raw text.
type StringID uint32

// InternFunc maps a string literal to its StringID. The interning
// lifecycle is owned entirely by the caller; the engine invokes the
// function once per string literal node per evaluation and never caches
// the result across calls.
type InternFunc func(s string) StringID

// RealBinaryOp enumerates the binary arithmetic operators.
type RealBinaryOp uint8

const (
	// OpAdd is the + operator.
	OpAdd RealBinaryOp = iota
	// OpSub is the - operator.
	OpSub
	// OpMul is the * operator.
	OpMul
	// OpDiv is the / operator. Division follows IEEE-754, including
	// division by zero.
	OpDiv
	// OpPow is the ^ operator (floating exponentiation).
	OpPow
)

// CompareOp enumerates the relational operators over reals.
type CompareOp uint8

const (
	// OpEq is the == operator.
	OpEq CompareOp = iota
	// OpNe is the != operator.
	OpNe
	// OpGt is the > operator.
	OpGt
	// OpGe is the >= operator.
	OpGe
	// OpLt is the < operator.
	OpLt
	// OpLe is the <= operator.
	OpLe
)

// BoolBinaryOp enumerates the binary logic operators.
type BoolBinaryOp uint8

const (
	// OpAnd is the && operator. Both sides are always fully evaluated;
	// there is no row-wise short circuit.
	OpAnd BoolBinaryOp = iota
	// OpOr is the || operator.
	OpOr
)

// StringCompareOp enumerates the operators over strings.
type StringCompareOp uint8

const (
	// OpStrEq is the == operator over strings.
	OpStrEq StringCompareOp = iota
	// OpStrNe is the != operator over strings.
	OpStrNe
)

// RealExpr is a real-valued expression node. The variant set is closed:
// RealBinary, RealNeg, RealLiteral and RealBinding are the only
// implementations, and the evaluator type-switches exhaustively over them.
//
// Trees are immutable once constructed and contain no mutable state, so a
// single tree may be shared read-only across many concurrent evaluations
// (each using its own Registers).
type RealExpr[T Real] interface {
	realExpr()
}

// RealBinary applies Op element-wise to two real-valued operands.
type RealBinary[T Real] struct {
	Op  RealBinaryOp
	LHS RealExpr[T]
	RHS RealExpr[T]
}

// RealNeg negates its operand element-wise.
type RealNeg[T Real] struct {
	Expr RealExpr[T]
}

// RealLiteral is a constant, broadcast across all rows.
type RealLiteral[T Real] struct {
	Value T
}

// RealBinding references one of the caller's real-valued input columns.
type RealBinding[T Real] struct {
	Binding BindingID
}

func (RealBinary[T]) realExpr()  {}
func (RealNeg[T]) realExpr()     {}
func (RealLiteral[T]) realExpr() {}
func (RealBinding[T]) realExpr() {}

// BoolExpr is a boolean-valued expression node. Implementations are
// BoolBinary, BoolNot, RealComparison and StringComparison. Note that
// booleans have no binding variant: boolean values only arise from
// comparisons or logic over them.
type BoolExpr[T Real] interface {
	boolExpr()
}

// BoolBinary applies Op bitwise over two packed boolean operands.
type BoolBinary[T Real] struct {
	Op  BoolBinaryOp
	LHS BoolExpr[T]
	RHS BoolExpr[T]
}

// BoolNot inverts its operand row-wise.
type BoolNot[T Real] struct {
	Expr BoolExpr[T]
}

// RealComparison compares two real-valued operands element-wise.
type RealComparison[T Real] struct {
	Op  CompareOp
	LHS RealExpr[T]
	RHS RealExpr[T]
}

// StringComparison compares two string-valued operands element-wise by
// their interned StringIDs.
type StringComparison[T Real] struct {
	Op  StringCompareOp
	LHS StringExpr
	RHS StringExpr
}

func (BoolBinary[T]) boolExpr()       {}
func (BoolNot[T]) boolExpr()          {}
func (RealComparison[T]) boolExpr()   {}
func (StringComparison[T]) boolExpr() {}

// StringExpr is a string-valued expression node: either a literal or a
// reference to one of the caller's interned-string-id columns.
type StringExpr interface {
	stringExpr()
}

// StringLiteral is a constant string. It is interned through the caller's
// InternFunc at evaluation time and broadcast across all rows.
type StringLiteral struct {
	Value string
}

// StringBinding references one of the caller's StringID input columns.
type StringBinding struct {
	Binding BindingID
}

func (StringLiteral) stringExpr() {}
func (StringBinding) stringExpr() {}

// Kind discriminates the top-level type of a parsed expression.
type Kind uint8

const (
	// KindInvalid is the zero Kind.
	KindInvalid Kind = iota
	// KindReal marks a real-valued expression.
	KindReal
	// KindBool marks a boolean-valued expression.
	KindBool
	// KindString marks a string-valued expression.
	KindString
)

// Expression is the top-level result of parsing: exactly one of the three
// typed trees, discriminated by Kind.
type Expression[T Real] struct {
	kind Kind
	real RealExpr[T]
	b    BoolExpr[T]
	str  StringExpr
}

// NewRealExpression wraps a real-valued tree.
func NewRealExpression[T Real](e RealExpr[T]) Expression[T] {
	return Expression[T]{kind: KindReal, real: e}
}

// NewBoolExpression wraps a boolean-valued tree.
func NewBoolExpression[T Real](e BoolExpr[T]) Expression[T] {
	return Expression[T]{kind: KindBool, b: e}
}

// NewStringExpression wraps a string-valued tree.
func NewStringExpression[T Real](e StringExpr) Expression[T] {
	return Expression[T]{kind: KindString, str: e}
}

// Kind reports the top-level type of the expression.
func (e Expression[T]) Kind() Kind { return e.kind }

// Real returns the real-valued tree. It panics if Kind is not KindReal;
// use AsReal for the checked form.
func (e Expression[T]) Real() RealExpr[T] {
	if e.kind != KindReal {
		panic("vexpr: expression is not real-valued")
	}
	return e.real
}

// Bool returns the boolean-valued tree. It panics if Kind is not KindBool;
// use AsBool for the checked form.
func (e Expression[T]) Bool() BoolExpr[T] {
	if e.kind != KindBool {
		panic("vexpr: expression is not boolean-valued")
	}
	return e.b
}

// Str returns the string-valued tree. It panics if Kind is not KindString.
func (e Expression[T]) Str() StringExpr {
	if e.kind != KindString {
		panic("vexpr: expression is not string-valued")
	}
	return e.str
}

// AsReal returns the real-valued tree and whether the expression holds one.
func (e Expression[T]) AsReal() (RealExpr[T], bool) {
	return e.real, e.kind == KindReal
}

// AsBool returns the boolean-valued tree and whether the expression holds one.
func (e Expression[T]) AsBool() (BoolExpr[T], bool) {
	return e.b, e.kind == KindBool
}

// AsString returns the string-valued tree and whether the expression holds one.
func (e Expression[T]) AsString() (StringExpr, bool) {
	return e.str, e.kind == KindString
}

// maxRealBinding returns the largest real BindingID referenced by e, or -1
// if e references no real bindings.
func maxRealBinding[T Real](e RealExpr[T]) int {
	switch n := e.(type) {
	case RealBinary[T]:
		return max(maxRealBinding[T](n.LHS), maxRealBinding[T](n.RHS))
	case RealNeg[T]:
		return maxRealBinding[T](n.Expr)
	case RealBinding[T]:
		return int(n.Binding)
	case RealLiteral[T]:
		return -1
	}
	return -1
}

// maxBoolBindings returns the largest real and string BindingIDs referenced
// anywhere under e, or -1 for each kind with no references.
func maxBoolBindings[T Real](e BoolExpr[T]) (maxReal, maxString int) {
	switch n := e.(type) {
	case BoolBinary[T]:
		lr, ls := maxBoolBindings[T](n.LHS)
		rr, rs := maxBoolBindings[T](n.RHS)
		return max(lr, rr), max(ls, rs)
	case BoolNot[T]:
		return maxBoolBindings[T](n.Expr)
	case RealComparison[T]:
		return max(maxRealBinding[T](n.LHS), maxRealBinding[T](n.RHS)), -1
	case StringComparison[T]:
		return -1, max(maxStringBinding(n.LHS), maxStringBinding(n.RHS))
	}
	return -1, -1
}

func maxStringBinding(e StringExpr) int {
	if b, ok := e.(StringBinding); ok {
		return int(b.Binding)
	}
	return -1
}
