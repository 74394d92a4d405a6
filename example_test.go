package vexpr_test

import (
	"fmt"

	vexpr "github.com/ForesightMiningSoftwareCorporation/vector-expr"
	"github.com/ForesightMiningSoftwareCorporation/vector-expr/parse"
)

func Example() {
	bindingMap := func(name string) vexpr.BindingID {
		switch name {
		case "bar":
			return 0
		case "baz":
			return 1
		case "foo":
			return 2
		}
		panic("unknown variable: " + name)
	}
	expr, err := parse.ParseReal[float64]("2 * (foo + bar) * baz", bindingMap)
	if err != nil {
		panic(err)
	}

	bar := []float64{1, 2, 3}
	baz := []float64{4, 5, 6}
	foo := []float64{7, 8, 9}

	regs := vexpr.NewRegisters[float64](3)
	out, err := vexpr.New[float64]().EvaluateReal(expr, [][]float64{bar, baz, foo}, regs)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: [64 100 144]
}

func Example_filter() {
	bindingMap := func(name string) vexpr.BindingID { return 0 }
	expr, err := parse.ParseBool[float64]("score >= 0.5", bindingMap)
	if err != nil {
		panic(err)
	}

	score := []float64{0.9, 0.1, 0.5, 0.3}
	regs := vexpr.NewRegisters[float64](4)
	out, err := vexpr.New[float64]().EvaluateBool(expr, [][]float64{score}, nil, nil, regs)
	if err != nil {
		panic(err)
	}
	fmt.Println(out.ToBitmap().ToArray())
	// Output: [0 2]
}
