package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	// tokenNum is a number literal.
	tokenNum
	// tokenIdent is a variable name.
	tokenIdent
	// tokenString is a double-quoted string literal, text unquoted.
	tokenString
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is (.
	tokenOpen
	// tokenClose is ).
	tokenClose
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex tokenizes the whole input up front. Inputs are short expressions, so
// there is nothing to gain from streaming.
func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		r, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r >= '0' && r <= '9' || r == '.':
			start := i
			i = scanNumber(input, i)
			toks = append(toks, token{kind: tokenNum, text: input[start:i], pos: start})
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(input) {
				r, size := utf8.DecodeRuneInString(input[i:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				i += size
			}
			toks = append(toks, token{kind: tokenIdent, text: input[start:i], pos: start})
		case r == '"':
			end := strings.IndexByte(input[i+1:], '"')
			if end < 0 {
				return nil, &Error{Pos: i, Msg: "unterminated string literal"}
			}
			toks = append(toks, token{kind: tokenString, text: input[i+1 : i+1+end], pos: i})
			i += end + 2
		case r == '(':
			toks = append(toks, token{kind: tokenOpen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokenClose, text: ")", pos: i})
			i++
		default:
			op, ok := scanOperator(input, i)
			if !ok {
				return nil, &Error{Pos: i, Msg: "unexpected character " + string(r)}
			}
			toks = append(toks, token{kind: tokenOp, text: op, pos: i})
			i += len(op)
		}
	}
	toks = append(toks, token{kind: tokenEOF, pos: len(input)})
	return toks, nil
}

// scanNumber consumes digits, at most one decimal point and an optional
// exponent. Validity is left to strconv at parse time.
func scanNumber(input string, i int) int {
	seenDot := false
	for i < len(input) {
		c := input[i]
		switch {
		case c >= '0' && c <= '9':
			i++
		case c == '.' && !seenDot:
			seenDot = true
			i++
		case (c == 'e' || c == 'E') && i+1 < len(input):
			j := i + 1
			if input[j] == '+' || input[j] == '-' {
				j++
			}
			if j < len(input) && input[j] >= '0' && input[j] <= '9' {
				i = j
				continue
			}
			return i
		default:
			return i
		}
	}
	return i
}

// twoCharOps before oneCharOps so that e.g. <= is not lexed as < followed
// by =.
var twoCharOps = []string{"==", "!=", "<=", ">=", "&&", "||"}

const oneCharOps = "+-*/^<>!"

func scanOperator(input string, i int) (string, bool) {
	for _, op := range twoCharOps {
		if strings.HasPrefix(input[i:], op) {
			return op, true
		}
	}
	if strings.IndexByte(oneCharOps, input[i]) >= 0 {
		return input[i : i+1], true
	}
	return "", false
}
