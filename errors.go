package vexpr

import "fmt"

// ErrLengthMismatch indicates an input column whose length differs from
// the pool's register length. This is a caller contract violation: every
// column participating in one evaluation must share one row count.
type ErrLengthMismatch struct {
	Binding  BindingID
	Expected int
	Actual   int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("inconsistent binding length: column %d has %d rows, registers expect %d",
		e.Binding, e.Actual, e.Expected)
}

// ErrBindingOutOfRange indicates an expression referencing a binding index
// for which no input column was supplied.
type ErrBindingOutOfRange struct {
	Binding  BindingID
	Supplied int
}

func (e *ErrBindingOutOfRange) Error() string {
	return fmt.Sprintf("binding %d out of range: %d columns supplied", e.Binding, e.Supplied)
}
