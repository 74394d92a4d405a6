// Package parse turns expression text into vexpr syntax trees.
//
// The grammar covers real arithmetic (+ - * / ^, unary -), comparisons
// (== != < <= > >=), boolean logic (&& || !), parenthesized grouping,
// number literals, double-quoted string literals and variables. Variable
// names are resolved to vexpr.BindingIDs during parsing via a
// caller-supplied BindingMap, so a parsed tree can be reused with many
// different data bindings without ever seeing variable names again.
//
// Precedence, lowest to highest: {&& ||} (left), comparisons (left),
// {+ -} (left), {* /} (left), ^ (right). Unary - and ! bind tighter than
// * but looser than ^.
//
// A variable compared against a string expression with == or != is a
// string binding; everywhere else variables are real bindings.
package parse
