package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vexpr "github.com/ForesightMiningSoftwareCorporation/vector-expr"
	"github.com/ForesightMiningSoftwareCorporation/vector-expr/parse"
)

func TestParseVariableNames(t *testing.T) {
	vars, err := parse.RealVariableNames("v1_dest + x + y + z99")
	require.NoError(t, err)
	assert.Contains(t, vars, "x")
	assert.Contains(t, vars, "y")
	assert.Contains(t, vars, "z99")
	assert.Contains(t, vars, "v1_dest")

	strVars, err := parse.StringVariableNames(`x == "W"`)
	require.NoError(t, err)
	assert.Contains(t, strVars, "x")
	realVars, err := parse.RealVariableNames(`x == "W"`)
	require.NoError(t, err)
	assert.Empty(t, realVars)
}

func TestParseComparisons(t *testing.T) {
	bindingMap := func(name string) vexpr.BindingID {
		switch name {
		case "x":
			return 0
		case "y":
			return 1
		}
		panic("unexpected variable")
	}

	for _, input := range []string{
		"x == y", "x != y", "x > y", "x < y", "x <= y", "x >= y",
	} {
		t.Run(input, func(t *testing.T) {
			e, err := parse.Parse[float64](input, bindingMap)
			require.NoError(t, err)
			assert.Equal(t, vexpr.KindBool, e.Kind())
		})
	}
}

func TestParseShapes(t *testing.T) {
	one := func(string) vexpr.BindingID { return 0 }

	t.Run("bare variable is a real binding", func(t *testing.T) {
		e, err := parse.Parse[float64]("x", one)
		require.NoError(t, err)
		require.Equal(t, vexpr.KindReal, e.Kind())
		assert.Equal(t, vexpr.RealBinding[float64]{Binding: 0}, e.Real())
	})

	t.Run("power is right-associative", func(t *testing.T) {
		e, err := parse.ParseReal[float64]("x ^ x ^ x", one)
		require.NoError(t, err)
		root, ok := e.(vexpr.RealBinary[float64])
		require.True(t, ok)
		assert.Equal(t, vexpr.OpPow, root.Op)
		_, lhsIsBinding := root.LHS.(vexpr.RealBinding[float64])
		assert.True(t, lhsIsBinding, "x ^ (x ^ x): left child must be the bare binding")
	})

	t.Run("unary minus binds looser than power", func(t *testing.T) {
		e, err := parse.ParseReal[float64]("-x ^ x", one)
		require.NoError(t, err)
		_, isNeg := e.(vexpr.RealNeg[float64])
		assert.True(t, isNeg, "-(x ^ x)")
	})

	t.Run("string literal expression", func(t *testing.T) {
		e, err := parse.Parse[float64](`"hello"`, parse.EmptyBindingMap)
		require.NoError(t, err)
		require.Equal(t, vexpr.KindString, e.Kind())
		assert.Equal(t, vexpr.StringLiteral{Value: "hello"}, e.Str())
	})
}

func TestParseErrors(t *testing.T) {
	one := func(string) vexpr.BindingID { return 0 }

	tests := []struct {
		name  string
		input string
	}{
		{"unterminated string", `x == "oops`},
		{"trailing input", "x + y)"},
		{"missing operand", "x +"},
		{"missing close paren", "(x + y"},
		{"logic over reals", "x && y"},
		{"arithmetic over strings", `"a" + "b"`},
		{"comparison of bool and real", "(x < y) < x"},
		{"bad character", "x $ y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse.Parse[float64](tt.input, one)
			var parseErr *parse.Error
			require.ErrorAs(t, err, &parseErr, "input %q", tt.input)
		})
	}
}

func TestParseNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"42", 42},
		{"0.5", 0.5},
		{".5", 0.5},
		{"1e3", 1000},
		{"2.5e-2", 0.025},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := parse.ParseReal[float64](tt.input, parse.EmptyBindingMap)
			require.NoError(t, err)
			assert.Equal(t, vexpr.RealLiteral[float64]{Value: tt.want}, e)
		})
	}
}

func TestBindingMapCalledPerOccurrence(t *testing.T) {
	calls := map[string]int{}
	bindingMap := func(name string) vexpr.BindingID {
		calls[name]++
		return 0
	}
	_, err := parse.Parse[float64]("x + x + y", bindingMap)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"x": 2, "y": 1}, calls)
}
