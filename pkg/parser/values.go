// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"strconv"

	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/util/source/sexp"
)

var opcodes = map[string]ast.Opcode{
	"+": ast.ADD, "-": ast.SUB, "*": ast.MUL, "/": ast.DIV, "%": ast.REM,
}

var comparators = map[string]ast.Comparator{
	">=": ast.GEQ, "<=": ast.LEQ, ">": ast.GT, "<": ast.LT,
}

// expr parses a term used as an integer.
func (p *translator) expr(term sexp.SExp) (ast.Expr, error) {
	v, err := p.value(term)
	if err != nil {
		return nil, err
	}
	//
	return ast.AsExpr(v), nil
}

// formula parses a term used as a boolean.
func (p *translator) formula(term sexp.SExp) (ast.Bool, error) {
	v, err := p.value(term)
	if err != nil {
		return nil, err
	}
	//
	return ast.AsBool(v), nil
}

func (p *translator) exprs(terms []sexp.SExp) ([]ast.Expr, error) {
	var exprs = make([]ast.Expr, len(terms))
	//
	for i, t := range terms {
		e, err := p.expr(t)
		if err != nil {
			return nil, err
		}
		//
		exprs[i] = e
	}
	//
	return exprs, nil
}

func (p *translator) formulas(terms []sexp.SExp) ([]ast.Bool, error) {
	var formulas = make([]ast.Bool, len(terms))
	//
	for i, t := range terms {
		b, err := p.formula(t)
		if err != nil {
			return nil, err
		}
		//
		formulas[i] = b
	}
	//
	return formulas, nil
}

func (p *translator) values(terms []sexp.SExp) ([]ast.Value, error) {
	var values = make([]ast.Value, len(terms))
	//
	for i, t := range terms {
		v, err := p.value(t)
		if err != nil {
			return nil, err
		}
		//
		values[i] = v
	}
	//
	return values, nil
}

// value parses any term, where integer expressions and formulas are wrapped as
// values.
func (p *translator) value(term sexp.SExp) (ast.Value, error) {
	var (
		v   ast.Value
		err error
	)
	//
	if sym := term.AsSymbol(); sym != nil {
		v, err = p.symbol(sym)
	} else {
		v, err = p.compound(term.AsList())
	}
	//
	if err != nil {
		return nil, err
	}
	//
	p.register(v, term)
	//
	return v, nil
}

func (p *translator) symbol(sym *sexp.Symbol) (ast.Value, error) {
	switch sym.Value {
	case "true":
		return &ast.FormulaValue{Formula: &ast.True{}}, nil
	case "false":
		return &ast.FormulaValue{Formula: &ast.False{}}, nil
	}
	//
	if n, err := strconv.ParseInt(sym.Value, 10, 32); err == nil {
		return ast.NewInt(int32(n)), nil
	} else if isName(sym.Value) {
		return ast.NewVar(sym.Value), nil
	}
	//
	return nil, p.error(sym, "invalid value")
}

func (p *translator) compound(list *sexp.List) (ast.Value, error) {
	if list.Len() == 0 {
		return &ast.UnitValue{}, nil
	}
	//
	head, ok := list.Head()
	args := list.Elements[1:]
	//
	if !ok {
		return nil, p.error(list, "invalid value")
	} else if opcode, ok := opcodes[head]; ok {
		return p.arithmetic(list, opcode, args)
	} else if cmp, ok := comparators[head]; ok {
		return p.comparison(list, args, func(l, r ast.Expr) ast.Bool { return ast.NewCompare(l, cmp, r) })
	}
	//
	switch head {
	case "==":
		return p.comparison(list, args, func(l, r ast.Expr) ast.Bool { return ast.NewEqual(l, r) })
	case "!=":
		return p.comparison(list, args, ast.NotEqual)
	case "and", "or":
		return p.logical(head, args)
	case "not":
		if len(args) == 1 {
			b, err := p.formula(args[0])
			if err != nil {
				return nil, err
			}
			//
			return &ast.FormulaValue{Formula: &ast.Not{Inner: b}}, nil
		}
	case "=>":
		if len(args) == 2 {
			bs, err := p.formulas(args)
			if err != nil {
				return nil, err
			}
			//
			return &ast.FormulaValue{Formula: ast.Implies(bs[0], bs[1])}, nil
		}
	case "forall", "exists":
		return p.quantifier(list, head, args)
	case "at", "dot":
		if len(args) == 2 {
			v, err := p.element(list)
			if err != nil {
				return nil, err
			}
			//
			return &ast.VarValue{Var: v}, nil
		}
	case "tuple":
		values, err := p.values(args)
		if err != nil {
			return nil, err
		}
		//
		return ast.NewTuple(values...), nil
	case "array":
		values, err := p.values(args)
		if err != nil {
			return nil, err
		}
		//
		return ast.NewArray(values...), nil
	case "call":
		if len(args) >= 1 && args[0].AsSymbol() != nil {
			values, err := p.values(args[1:])
			if err != nil {
				return nil, err
			}
			//
			return ast.NewCall(args[0].AsSymbol().Value, values...), nil
		}
	case "&", "&mut":
		if len(args) == 1 {
			v, err := p.value(args[0])
			if err != nil {
				return nil, err
			}
			//
			return &ast.RefValue{Inner: v, Mutable: head == "&mut"}, nil
		}
	case "ite":
		if len(args) == 3 {
			cond, err := p.formula(args[0])
			if err != nil {
				return nil, err
			}
			//
			values, err := p.values(args[1:])
			if err != nil {
				return nil, err
			}
			//
			return &ast.TernaryValue{Cond: cond, Then: values[0], Else: values[1]}, nil
		}
	}
	//
	return nil, p.error(list, "invalid value")
}

// arithmetic parses (OP a b ...), which associates to the left.  Unary minus is
// treated as subtraction from zero, whilst unary * is a dereference.
func (p *translator) arithmetic(list *sexp.List, opcode ast.Opcode, args []sexp.SExp) (ast.Value, error) {
	if len(args) == 1 && (opcode == ast.SUB || opcode == ast.MUL) {
		v, err := p.value(args[0])
		if err != nil {
			return nil, err
		} else if opcode == ast.MUL {
			return &ast.DerefValue{Inner: v}, nil
		}
		//
		return &ast.ExprValue{Expr: ast.Sub(ast.NewNumber(0), ast.AsExpr(v))}, nil
	} else if len(args) < 2 {
		return nil, p.error(list, "insufficient arguments")
	}
	//
	exprs, err := p.exprs(args)
	if err != nil {
		return nil, err
	}
	//
	e := exprs[0]
	//
	for _, rhs := range exprs[1:] {
		e = ast.NewOp(e, opcode, rhs)
	}
	//
	return &ast.ExprValue{Expr: e}, nil
}

func (p *translator) comparison(list *sexp.List, args []sexp.SExp, fn func(ast.Expr, ast.Expr) ast.Bool) (ast.Value, error) {
	if len(args) != 2 {
		return nil, p.error(list, "comparison requires two arguments")
	}
	//
	exprs, err := p.exprs(args)
	if err != nil {
		return nil, err
	}
	//
	return &ast.FormulaValue{Formula: fn(exprs[0], exprs[1])}, nil
}

// logical parses (and B...) or (or B...), which associate to the left.
func (p *translator) logical(head string, args []sexp.SExp) (ast.Value, error) {
	bs, err := p.formulas(args)
	if err != nil {
		return nil, err
	}
	//
	switch {
	case len(bs) == 0 && head == "and":
		return &ast.FormulaValue{Formula: &ast.True{}}, nil
	case len(bs) == 0:
		return &ast.FormulaValue{Formula: &ast.False{}}, nil
	}
	//
	b := bs[0]
	//
	for _, rhs := range bs[1:] {
		if head == "and" {
			b = &ast.And{Left: b, Right: rhs}
		} else {
			b = &ast.Or{Left: b, Right: rhs}
		}
	}
	//
	return ast.NewFormulaValue(b), nil
}

// quantifier parses (forall x [T] B) or (exists x [T] B), where the type
// defaults to i32.
func (p *translator) quantifier(list *sexp.List, head string, args []sexp.SExp) (ast.Value, error) {
	var t = ast.I32
	//
	if len(args) < 2 || len(args) > 3 || args[0].AsSymbol() == nil || !isName(args[0].AsSymbol().Value) {
		return nil, p.error(list, "invalid quantifier")
	} else if len(args) == 3 {
		var err error
		//
		if t, err = p.typ(args[1]); err != nil {
			return nil, err
		}
	}
	//
	body, err := p.formula(args[len(args)-1])
	if err != nil {
		return nil, err
	}
	//
	name := args[0].AsSymbol().Value
	//
	if head == "forall" {
		return &ast.FormulaValue{Formula: ast.NewForAll(name, t, body)}, nil
	}
	//
	return &ast.FormulaValue{Formula: ast.NewExists(name, t, body)}, nil
}

// variable parses the target of an assignment: a name, the wildcard, or an
// element of a named array (at a i) or tuple (dot t i).
func (p *translator) variable(term sexp.SExp) (ast.Variable, error) {
	var (
		v   ast.Variable
		err error
	)
	//
	if sym := term.AsSymbol(); sym != nil && sym.Value == "_" {
		v = &ast.Empty{}
	} else if sym != nil && isName(sym.Value) {
		v = &ast.Named{Name: sym.Value}
	} else if head, _ := headOf(term); (head == "at" || head == "dot") && term.AsList().Len() == 3 {
		v, err = p.element(term.AsList())
	} else {
		return nil, p.error(term, "invalid assignment target")
	}
	//
	if err != nil {
		return nil, err
	}
	//
	p.register(v, term)
	//
	return v, nil
}

func (p *translator) element(list *sexp.List) (ast.Variable, error) {
	var (
		head, _ = list.Head()
		base    = list.Get(1).AsSymbol()
	)
	//
	if base == nil || !isName(base.Value) {
		return nil, p.error(list.Get(1), "expected variable name")
	}
	//
	index, err := p.value(list.Get(2))
	if err != nil {
		return nil, err
	} else if head == "at" {
		return &ast.ArrayElem{Name: base.Value, Index: index}, nil
	} else if _, ok := ast.ConstantIndex(index); !ok {
		return nil, p.error(list.Get(2), "tuple index must be a constant")
	}
	//
	return &ast.TupleElem{Name: base.Value, Index: index}, nil
}
