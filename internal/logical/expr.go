// Package logical defines the SPARQL expression algebra and logical plan
// extension nodes: QuadPatternNode, PropertyPathNode, SparqlJoinNode,
// ExtendNode, MinusNode, plus the Expr tree FILTER/BIND expressions are
// built from and the Eval tree-walker that drives one against a
// solution's bindings.
package logical

import (
	"encoding/json"
	"fmt"

	"github.com/quadfusion/engine/model"
)

// ExprKind discriminates the node types of a SPARQL expression tree. A
// caller assembles Expr trees programmatically (this module has no
// SPARQL text parser); the short JSON tags below let a tree round-trip
// through a compact wire form.
type ExprKind string

const (
	ExprVar  ExprKind = "var"
	ExprTerm ExprKind = "term"
	ExprCall ExprKind = "call"
	ExprAnd  ExprKind = "and"
	ExprOr   ExprKind = "or"
	ExprNot  ExprKind = "not"
)

// Expr is a node of a SPARQL filter/extend expression tree (FILTER,
// BIND, the expression side of an ORDER BY key). internal/functions owns
// the built-in registry; this package owns the tree shape and its
// evaluation against a solution.
type Expr interface {
	Kind() ExprKind
	exprNode()
}

// VarExpr references a variable from the current solution mapping.
type VarExpr struct {
	Name string `json:"v"`
}

func (VarExpr) Kind() ExprKind { return ExprVar }
func (VarExpr) exprNode()      {}

// TermExpr is a constant RDF term (an IRI, literal, or blank node).
type TermExpr struct {
	Term model.Term `json:"-"`
}

func (TermExpr) Kind() ExprKind { return ExprTerm }
func (TermExpr) exprNode()      {}

// CallExpr invokes a named scalar or aggregate function over its
// argument expressions, e.g. {"fn":"STRLEN","args":[...]}.
type CallExpr struct {
	Func string `json:"fn"`
	Args []Expr `json:"args"`
	// Distinct marks an aggregate call's DISTINCT modifier; ignored by
	// scalar functions.
	Distinct bool `json:"distinct,omitempty"`
}

func (CallExpr) Kind() ExprKind { return ExprCall }
func (CallExpr) exprNode()      {}

// LogicExpr is a variadic AND/OR over SPARQL's three-valued logic:
// operands are evaluated left to right and the result follows the
// Kleene truth tables, not short-circuit boolean logic, so "false &&
// error" is false while "true && error" is an error.
type LogicExpr struct {
	Op       ExprKind `json:"op"` // ExprAnd or ExprOr
	Operands []Expr   `json:"operands"`
}

func (l LogicExpr) Kind() ExprKind { return l.Op }
func (LogicExpr) exprNode()        {}

// NotExpr negates its operand's effective boolean value.
type NotExpr struct {
	Operand Expr `json:"operand"`
}

func (NotExpr) Kind() ExprKind { return ExprNot }
func (NotExpr) exprNode()      {}

// exprEnvelope is the wire form every Expr marshals to/from: a
// discriminator plus kind-specific fields.
type exprEnvelope struct {
	Kind     ExprKind          `json:"kind"`
	Var      string            `json:"v,omitempty"`
	Term     *termEnvelope     `json:"term,omitempty"`
	Func     string            `json:"fn,omitempty"`
	Args     []json.RawMessage `json:"args,omitempty"`
	Distinct bool              `json:"distinct,omitempty"`
	Operands []json.RawMessage `json:"operands,omitempty"`
	Operand  json.RawMessage   `json:"operand,omitempty"`
}

type termEnvelope struct {
	Kind     model.TermKind `json:"kind"`
	Value    string         `json:"value,omitempty"`
	Datatype string         `json:"datatype,omitempty"`
	Language string         `json:"language,omitempty"`
}

// MarshalExpr serializes an Expr tree to its wire envelope form.
func MarshalExpr(e Expr) ([]byte, error) {
	env, err := toEnvelope(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func toEnvelope(e Expr) (*exprEnvelope, error) {
	switch v := e.(type) {
	case VarExpr:
		return &exprEnvelope{Kind: ExprVar, Var: v.Name}, nil
	case TermExpr:
		te := termToEnvelope(v.Term)
		return &exprEnvelope{Kind: ExprTerm, Term: te}, nil
	case CallExpr:
		args, err := marshalEach(v.Args)
		if err != nil {
			return nil, err
		}
		return &exprEnvelope{Kind: ExprCall, Func: v.Func, Args: args, Distinct: v.Distinct}, nil
	case LogicExpr:
		ops, err := marshalEach(v.Operands)
		if err != nil {
			return nil, err
		}
		return &exprEnvelope{Kind: v.Op, Operands: ops}, nil
	case NotExpr:
		raw, err := MarshalExpr(v.Operand)
		if err != nil {
			return nil, err
		}
		return &exprEnvelope{Kind: ExprNot, Operand: raw}, nil
	default:
		return nil, fmt.Errorf("logical: unknown Expr type %T", e)
	}
}

func marshalEach(exprs []Expr) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(exprs))
	for i, e := range exprs {
		raw, err := MarshalExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func termToEnvelope(t model.Term) *termEnvelope {
	switch t.Kind() {
	case model.KindNamedNode:
		return &termEnvelope{Kind: t.Kind(), Value: t.IRI()}
	case model.KindBlankNode:
		return &termEnvelope{Kind: t.Kind(), Value: t.BlankNodeLabel()}
	case model.KindLiteral:
		return &termEnvelope{Kind: t.Kind(), Value: t.LexicalForm(), Datatype: t.Datatype(), Language: t.Language()}
	default:
		return &termEnvelope{Kind: t.Kind()}
	}
}

func (te *termEnvelope) toTerm() model.Term {
	switch te.Kind {
	case model.KindNamedNode:
		return model.NewNamedNode(te.Value)
	case model.KindBlankNode:
		return model.NewBlankNode(te.Value)
	case model.KindLiteral:
		if te.Language != "" {
			return model.NewLangLiteral(te.Value, te.Language)
		}
		return model.NewTypedLiteral(te.Value, te.Datatype)
	default:
		return model.DefaultGraph
	}
}

// UnmarshalExpr parses an Expr tree from its wire envelope form.
func UnmarshalExpr(data []byte) (Expr, error) {
	var env exprEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return fromEnvelope(&env)
}

func fromEnvelope(env *exprEnvelope) (Expr, error) {
	switch env.Kind {
	case ExprVar:
		return VarExpr{Name: env.Var}, nil
	case ExprTerm:
		if env.Term == nil {
			return nil, fmt.Errorf("logical: term expression missing \"term\"")
		}
		return TermExpr{Term: env.Term.toTerm()}, nil
	case ExprCall:
		args, err := unmarshalEach(env.Args)
		if err != nil {
			return nil, err
		}
		return CallExpr{Func: env.Func, Args: args, Distinct: env.Distinct}, nil
	case ExprAnd, ExprOr:
		ops, err := unmarshalEach(env.Operands)
		if err != nil {
			return nil, err
		}
		return LogicExpr{Op: env.Kind, Operands: ops}, nil
	case ExprNot:
		if env.Operand == nil {
			return nil, fmt.Errorf("logical: not expression missing \"operand\"")
		}
		operand, err := UnmarshalExpr(env.Operand)
		if err != nil {
			return nil, err
		}
		return NotExpr{Operand: operand}, nil
	default:
		return nil, fmt.Errorf("logical: unknown expression kind %q", env.Kind)
	}
}

func unmarshalEach(raws []json.RawMessage) ([]Expr, error) {
	out := make([]Expr, len(raws))
	for i, raw := range raws {
		e, err := UnmarshalExpr(raw)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
