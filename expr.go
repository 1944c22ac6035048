package quadfusion

import "github.com/quadfusion/engine/internal/logical"

// Expr and its node types are defined in internal/logical (which also owns
// evaluation against a QuerySolution); these aliases keep them part of the
// engine's public surface, the same re-export shape forma's root package
// uses for types it delegates the implementation of to an internal package.
type (
	ExprKind  = logical.ExprKind
	Expr      = logical.Expr
	VarExpr   = logical.VarExpr
	TermExpr  = logical.TermExpr
	CallExpr  = logical.CallExpr
	LogicExpr = logical.LogicExpr
	NotExpr   = logical.NotExpr
)

const (
	ExprVar  = logical.ExprVar
	ExprTerm = logical.ExprTerm
	ExprCall = logical.ExprCall
	ExprAnd  = logical.ExprAnd
	ExprOr   = logical.ExprOr
	ExprNot  = logical.ExprNot
)

// MarshalExpr serializes an Expr tree to its wire envelope form.
func MarshalExpr(e Expr) ([]byte, error) { return logical.MarshalExpr(e) }

// UnmarshalExpr parses an Expr tree from its wire envelope form.
func UnmarshalExpr(data []byte) (Expr, error) { return logical.UnmarshalExpr(data) }
