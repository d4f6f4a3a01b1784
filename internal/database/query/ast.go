// SPDX-License-Identifier: GPL-2.0-or-later

package query

// Expr is a node in a parsed smart-query predicate.
type Expr interface {
	exprNode()
}

// BinaryExpr is an "and"/"or" combination of two subexpressions.
type BinaryExpr struct {
	Op    string // "and" or "or"
	Left  Expr
	Right Expr
}

// Comparison is a leaf node: one field compared against one literal value.
type Comparison struct {
	Field    string
	Operator string
	Value    string
	IsNumber bool
}

func (*BinaryExpr) exprNode()  {}
func (*Comparison) exprNode()  {}
