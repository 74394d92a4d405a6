// Command vexpr parses an expression and evaluates it over columns of
// input data supplied on the command line, printing one result per row.
//
//	vexpr eval "2 * (foo + bar) * baz" --var foo=7,8,9 --var bar=1,2,3 --var baz=4,5,6
//	vexpr eval 'name == "alice" && score > 0.5' --str name=alice,bob --var score=0.9,0.7
//	vexpr vars "2 * (foo + bar) * baz"
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	vexpr "github.com/ForesightMiningSoftwareCorporation/vector-expr"
	"github.com/ForesightMiningSoftwareCorporation/vector-expr/parse"
)

func main() {
	root := &cobra.Command{
		Use:           "vexpr",
		Short:         "Vectorized expression evaluator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	eval := &cobra.Command{
		Use:   "eval expression",
		Short: "Evaluate an expression over input columns",
		Args:  cobra.ExactArgs(1),
		RunE:  runEval,
	}
	eval.Flags().StringArray("var", nil, "real column, e.g. --var foo=1,2,3")
	eval.Flags().StringArray("str", nil, "string column, e.g. --str name=a,b,c")
	eval.Flags().Int("parallel", 1, "workers per operator (0 = all CPUs)")
	root.AddCommand(eval)

	vars := &cobra.Command{
		Use:   "vars expression",
		Short: "List the variables an expression references",
		Args:  cobra.ExactArgs(1),
		RunE:  runVars,
	}
	root.AddCommand(vars)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// column is one named input column, kept in flag order so BindingIDs are
// stable and predictable.
type column struct {
	name   string
	values string
}

func parseColumnFlags(flagValues []string) ([]column, error) {
	cols := make([]column, 0, len(flagValues))
	for _, v := range flagValues {
		name, values, ok := strings.Cut(v, "=")
		if !ok {
			return nil, errors.Errorf("malformed column %q, want name=v1,v2,...", v)
		}
		cols = append(cols, column{name: name, values: values})
	}
	return cols, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	varFlags, _ := cmd.Flags().GetStringArray("var")
	strFlags, _ := cmd.Flags().GetStringArray("str")
	parallel, _ := cmd.Flags().GetInt("parallel")

	realCols, err := parseColumnFlags(varFlags)
	if err != nil {
		return err
	}
	strCols, err := parseColumnFlags(strFlags)
	if err != nil {
		return err
	}

	bindingMap := func(name string) vexpr.BindingID {
		for i, c := range realCols {
			if c.name == name {
				return vexpr.BindingID(i)
			}
		}
		for i, c := range strCols {
			if c.name == name {
				return vexpr.BindingID(i)
			}
		}
		return vexpr.BindingID(len(realCols) + len(strCols)) // out of range, caught by evaluation
	}

	expr, err := parse.Parse[float64](args[0], bindingMap)
	if err != nil {
		return errors.Wrap(err, "parsing expression")
	}

	rows := -1
	realBindings := make([][]float64, len(realCols))
	for i, c := range realCols {
		col, err := parseRealColumn(c)
		if err != nil {
			return err
		}
		realBindings[i] = col
		rows = checkRows(rows, len(col))
	}

	interner := vexpr.NewStringInterner()
	stringBindings := make([][]vexpr.StringID, len(strCols))
	for i, c := range strCols {
		var col []vexpr.StringID
		for _, s := range strings.Split(c.values, ",") {
			col = append(col, interner.Intern(s))
		}
		stringBindings[i] = col
		rows = checkRows(rows, len(col))
	}
	if rows < 0 {
		rows = 1 // constant expression, a single broadcast row
	}

	regs := vexpr.NewRegisters[float64](rows)
	ev := vexpr.New[float64](vexpr.WithParallelism(parallel))

	switch expr.Kind() {
	case vexpr.KindReal:
		out, err := ev.EvaluateReal(expr.Real(), realBindings, regs)
		if err != nil {
			return errors.Wrap(err, "evaluating expression")
		}
		for _, v := range out {
			fmt.Println(strconv.FormatFloat(v, 'g', -1, 64))
		}
	case vexpr.KindBool:
		out, err := ev.EvaluateBool(expr.Bool(), realBindings, stringBindings, interner.Intern, regs)
		if err != nil {
			return errors.Wrap(err, "evaluating expression")
		}
		for _, b := range out.ToSlice() {
			fmt.Println(b)
		}
	default:
		return errors.New("expression must be real- or boolean-valued")
	}
	return nil
}

func runVars(cmd *cobra.Command, args []string) error {
	realNames, err := parse.RealVariableNames(args[0])
	if err != nil {
		return errors.Wrap(err, "parsing expression")
	}
	strNames, err := parse.StringVariableNames(args[0])
	if err != nil {
		return errors.Wrap(err, "parsing expression")
	}
	for _, name := range sortedNames(realNames) {
		fmt.Printf("real\t%s\n", name)
	}
	for _, name := range sortedNames(strNames) {
		fmt.Printf("string\t%s\n", name)
	}
	return nil
}

func parseRealColumn(c column) ([]float64, error) {
	parts := strings.Split(c.values, ",")
	col := make([]float64, 0, len(parts))
	for _, s := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", c.name)
		}
		col = append(col, f)
	}
	return col, nil
}

// checkRows tracks the shared row count; mismatches surface later as
// evaluation errors with proper context, so just keep the first count.
func checkRows(rows, n int) int {
	if rows < 0 {
		return n
	}
	return rows
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
