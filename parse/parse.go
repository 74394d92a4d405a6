package parse

import (
	"strconv"

	vexpr "github.com/ForesightMiningSoftwareCorporation/vector-expr"
)

// Error is a positioned parse error.
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return "parse error at offset " + strconv.Itoa(e.Pos) + ": " + e.Msg
}

// BindingMap resolves a variable name to the index of its input column.
// It is called once per variable occurrence, after the variable's kind
// (real or string) is known.
type BindingMap func(name string) vexpr.BindingID

// EmptyBindingMap is a BindingMap for expressions without variables.
func EmptyBindingMap(name string) vexpr.BindingID {
	panic("parse: empty binding map used for variable " + name)
}

// Parse parses input into a typed expression tree.
func Parse[T vexpr.Real](input string, bindingMap BindingMap) (vexpr.Expression[T], error) {
	p, err := newParser[T](input, bindingMap, bindingMap)
	if err != nil {
		return vexpr.Expression[T]{}, err
	}
	return p.parse()
}

// ParseReal parses input, requiring a real-valued expression.
func ParseReal[T vexpr.Real](input string, bindingMap BindingMap) (vexpr.RealExpr[T], error) {
	e, err := Parse[T](input, bindingMap)
	if err != nil {
		return nil, err
	}
	r, ok := e.AsReal()
	if !ok {
		return nil, &Error{Pos: 0, Msg: "expression is not real-valued"}
	}
	return r, nil
}

// ParseBool parses input, requiring a boolean-valued expression.
func ParseBool[T vexpr.Real](input string, bindingMap BindingMap) (vexpr.BoolExpr[T], error) {
	e, err := Parse[T](input, bindingMap)
	if err != nil {
		return nil, err
	}
	b, ok := e.AsBool()
	if !ok {
		return nil, &Error{Pos: 0, Msg: "expression is not boolean-valued"}
	}
	return b, nil
}

// RealVariableNames parses input and returns the set of variable names
// used as real bindings, without binding them.
func RealVariableNames(input string) (map[string]struct{}, error) {
	names := make(map[string]struct{})
	p, err := newParser[float64](input,
		func(name string) vexpr.BindingID { names[name] = struct{}{}; return 0 },
		func(name string) vexpr.BindingID { return 0 },
	)
	if err != nil {
		return nil, err
	}
	if _, err := p.parse(); err != nil {
		return nil, err
	}
	return names, nil
}

// StringVariableNames parses input and returns the set of variable names
// used as string bindings, without binding them.
func StringVariableNames(input string) (map[string]struct{}, error) {
	names := make(map[string]struct{})
	p, err := newParser[float64](input,
		func(name string) vexpr.BindingID { return 0 },
		func(name string) vexpr.BindingID { names[name] = struct{}{}; return 0 },
	)
	if err != nil {
		return nil, err
	}
	if _, err := p.parse(); err != nil {
		return nil, err
	}
	return names, nil
}

// Binding powers, lowest first. && and || share one level, exactly like
// the comparisons sharing theirs.
const (
	precLogic = iota + 1
	precCompare
	precAdd
	precMul
	precPow
)

func infixPrec(op string) (prec int, rightAssoc bool, ok bool) {
	switch op {
	case "&&", "||":
		return precLogic, false, true
	case "==", "!=", "<", "<=", ">", ">=":
		return precCompare, false, true
	case "+", "-":
		return precAdd, false, true
	case "*", "/":
		return precMul, false, true
	case "^":
		return precPow, true, true
	}
	return 0, false, false
}

type valueKind int

const (
	kindReal valueKind = iota
	kindBool
	kindStr
	// kindIdent is a variable whose kind is not yet known; it resolves to
	// a real binding unless a string comparison claims it.
	kindIdent
)

// value is a partially-typed parse result.
type value[T vexpr.Real] struct {
	kind valueKind
	real vexpr.RealExpr[T]
	b    vexpr.BoolExpr[T]
	str  vexpr.StringExpr
	name string
	pos  int
}

type parser[T vexpr.Real] struct {
	toks    []token
	pos     int
	realVar func(name string) vexpr.BindingID
	strVar  func(name string) vexpr.BindingID
}

func newParser[T vexpr.Real](input string, realVar, strVar func(string) vexpr.BindingID) (*parser[T], error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	return &parser[T]{toks: toks, realVar: realVar, strVar: strVar}, nil
}

func (p *parser[T]) peek() token { return p.toks[p.pos] }

func (p *parser[T]) next() token {
	t := p.toks[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser[T]) parse() (vexpr.Expression[T], error) {
	v, err := p.parseExpr(precLogic)
	if err != nil {
		return vexpr.Expression[T]{}, err
	}
	if t := p.peek(); t.kind != tokenEOF {
		return vexpr.Expression[T]{}, &Error{Pos: t.pos, Msg: "unexpected trailing input"}
	}
	switch v.kind {
	case kindBool:
		return vexpr.NewBoolExpression[T](v.b), nil
	case kindStr:
		return vexpr.NewStringExpression[T](v.str), nil
	default:
		r, err := p.resolveReal(v)
		if err != nil {
			return vexpr.Expression[T]{}, err
		}
		return vexpr.NewRealExpression[T](r), nil
	}
}

func (p *parser[T]) parseExpr(minPrec int) (value[T], error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return lhs, err
	}
	for {
		t := p.peek()
		if t.kind != tokenOp {
			break
		}
		prec, rightAssoc, ok := infixPrec(t.text)
		if !ok || prec < minPrec {
			break
		}
		p.next()
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		rhs, err := p.parseExpr(nextMin)
		if err != nil {
			return rhs, err
		}
		lhs, err = p.applyInfix(t, lhs, rhs)
		if err != nil {
			return lhs, err
		}
	}
	return lhs, nil
}

func (p *parser[T]) parseUnary() (value[T], error) {
	t := p.peek()
	switch t.kind {
	case tokenOp:
		switch t.text {
		case "-":
			p.next()
			// Operand at the power level: -x^2 is -(x^2), -x*y is (-x)*y.
			operand, err := p.parseExpr(precPow)
			if err != nil {
				return operand, err
			}
			r, err := p.resolveReal(operand)
			if err != nil {
				return value[T]{}, err
			}
			return value[T]{kind: kindReal, real: vexpr.RealNeg[T]{Expr: r}, pos: t.pos}, nil
		case "!":
			p.next()
			operand, err := p.parseExpr(precPow)
			if err != nil {
				return operand, err
			}
			b, err := p.resolveBool(operand)
			if err != nil {
				return value[T]{}, err
			}
			return value[T]{kind: kindBool, b: vexpr.BoolNot[T]{Expr: b}, pos: t.pos}, nil
		}
		return value[T]{}, &Error{Pos: t.pos, Msg: "unexpected operator " + t.text}
	case tokenOpen:
		p.next()
		v, err := p.parseExpr(precLogic)
		if err != nil {
			return v, err
		}
		if c := p.next(); c.kind != tokenClose {
			return value[T]{}, &Error{Pos: c.pos, Msg: "expected closing parenthesis"}
		}
		return v, nil
	case tokenNum:
		p.next()
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return value[T]{}, &Error{Pos: t.pos, Msg: "invalid number literal " + t.text}
		}
		return value[T]{kind: kindReal, real: vexpr.RealLiteral[T]{Value: T(f)}, pos: t.pos}, nil
	case tokenString:
		p.next()
		return value[T]{kind: kindStr, str: vexpr.StringLiteral{Value: t.text}, pos: t.pos}, nil
	case tokenIdent:
		p.next()
		return value[T]{kind: kindIdent, name: t.text, pos: t.pos}, nil
	case tokenClose:
		return value[T]{}, &Error{Pos: t.pos, Msg: "unexpected closing parenthesis"}
	}
	return value[T]{}, &Error{Pos: t.pos, Msg: "unexpected end of expression"}
}

func (p *parser[T]) applyInfix(op token, lhs, rhs value[T]) (value[T], error) {
	switch op.text {
	case "+", "-", "*", "/", "^":
		l, err := p.resolveReal(lhs)
		if err != nil {
			return value[T]{}, err
		}
		r, err := p.resolveReal(rhs)
		if err != nil {
			return value[T]{}, err
		}
		var binOp vexpr.RealBinaryOp
		switch op.text {
		case "+":
			binOp = vexpr.OpAdd
		case "-":
			binOp = vexpr.OpSub
		case "*":
			binOp = vexpr.OpMul
		case "/":
			binOp = vexpr.OpDiv
		case "^":
			binOp = vexpr.OpPow
		}
		return value[T]{kind: kindReal, real: vexpr.RealBinary[T]{Op: binOp, LHS: l, RHS: r}, pos: op.pos}, nil
	case "<", "<=", ">", ">=":
		return p.realComparison(op, lhs, rhs)
	case "==", "!=":
		// A string operand turns the comparison into a string comparison
		// and claims bare identifiers on the other side as string bindings.
		if lhs.kind == kindStr || rhs.kind == kindStr {
			l, err := p.resolveString(lhs)
			if err != nil {
				return value[T]{}, err
			}
			r, err := p.resolveString(rhs)
			if err != nil {
				return value[T]{}, err
			}
			strOp := vexpr.OpStrEq
			if op.text == "!=" {
				strOp = vexpr.OpStrNe
			}
			return value[T]{kind: kindBool, b: vexpr.StringComparison[T]{Op: strOp, LHS: l, RHS: r}, pos: op.pos}, nil
		}
		return p.realComparison(op, lhs, rhs)
	case "&&", "||":
		l, err := p.resolveBool(lhs)
		if err != nil {
			return value[T]{}, err
		}
		r, err := p.resolveBool(rhs)
		if err != nil {
			return value[T]{}, err
		}
		boolOp := vexpr.OpAnd
		if op.text == "||" {
			boolOp = vexpr.OpOr
		}
		return value[T]{kind: kindBool, b: vexpr.BoolBinary[T]{Op: boolOp, LHS: l, RHS: r}, pos: op.pos}, nil
	}
	return value[T]{}, &Error{Pos: op.pos, Msg: "unexpected operator " + op.text}
}

func (p *parser[T]) realComparison(op token, lhs, rhs value[T]) (value[T], error) {
	l, err := p.resolveReal(lhs)
	if err != nil {
		return value[T]{}, err
	}
	r, err := p.resolveReal(rhs)
	if err != nil {
		return value[T]{}, err
	}
	var cmpOp vexpr.CompareOp
	switch op.text {
	case "==":
		cmpOp = vexpr.OpEq
	case "!=":
		cmpOp = vexpr.OpNe
	case "<":
		cmpOp = vexpr.OpLt
	case "<=":
		cmpOp = vexpr.OpLe
	case ">":
		cmpOp = vexpr.OpGt
	case ">=":
		cmpOp = vexpr.OpGe
	}
	return value[T]{kind: kindBool, b: vexpr.RealComparison[T]{Op: cmpOp, LHS: l, RHS: r}, pos: op.pos}, nil
}

func (p *parser[T]) resolveReal(v value[T]) (vexpr.RealExpr[T], error) {
	switch v.kind {
	case kindReal:
		return v.real, nil
	case kindIdent:
		return vexpr.RealBinding[T]{Binding: p.realVar(v.name)}, nil
	}
	return nil, &Error{Pos: v.pos, Msg: "expected real-valued operand"}
}

func (p *parser[T]) resolveString(v value[T]) (vexpr.StringExpr, error) {
	switch v.kind {
	case kindStr:
		return v.str, nil
	case kindIdent:
		return vexpr.StringBinding{Binding: p.strVar(v.name)}, nil
	}
	return nil, &Error{Pos: v.pos, Msg: "expected string-valued operand"}
}

func (p *parser[T]) resolveBool(v value[T]) (vexpr.BoolExpr[T], error) {
	if v.kind == kindBool {
		return v.b, nil
	}
	return nil, &Error{Pos: v.pos, Msg: "expected boolean-valued operand"}
}
