// Package vexpr provides a vectorized math expression evaluator for Go.
//
// Evaluating an expression with many variables row-by-row pays for tree
// traversal and variable lookup on every row. Vexpr amortizes that cost by
// evaluating each operator component-wise over whole columns of input data
// at a time, with optional data parallelism inside each operator.
//
// # Quick Start
//
//	bindingMap := func(name string) vexpr.BindingID {
//		switch name {
//		case "bar":
//			return 0
//		case "baz":
//			return 1
//		case "foo":
//			return 2
//		}
//		panic("unknown variable: " + name)
//	}
//	expr, _ := parse.Parse[float64]("2 * (foo + bar) * baz", bindingMap)
//
//	bar := []float64{1, 2, 3}
//	baz := []float64{4, 5, 6}
//	foo := []float64{7, 8, 9}
//
//	regs := vexpr.NewRegisters[float64](3)
//	out, _ := vexpr.New[float64]().EvaluateReal(expr.Real(), [][]float64{bar, baz, foo}, regs)
//	// out == []float64{64, 100, 144}
//
// Boolean results are returned word-packed as a bitvec.Vector and can be
// exported as a roaring bitmap of matching rows, which makes boolean
// expressions directly usable as row filters.
//
// # Registers
//
// All scratch space comes from a Registers pool. Intermediate buffers are
// recycled as soon as their consumer has read them, so the number of cold
// allocations tracks the dataflow width of the expression, not its node
// count. A Registers value can be reused across many evaluations as long as
// the row count stays consistent (or is updated with SetLength).
package vexpr
