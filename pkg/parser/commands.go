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
	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/util/source/sexp"
)

func (p *translator) block(terms []sexp.SExp) ([]ast.Command, error) {
	var commands = make([]ast.Command, 0, len(terms))
	//
	for _, term := range terms {
		c, err := p.command(term)
		if err != nil {
			return nil, err
		}
		//
		commands = append(commands, c)
	}
	//
	return commands, nil
}

func (p *translator) command(term sexp.SExp) (ast.Command, error) {
	var (
		c    ast.Command
		err  error
		list = term.AsList()
	)
	//
	head, ok := headOf(term)
	if !ok {
		return nil, p.error(term, "expected command")
	}
	//
	switch head {
	case "let":
		c, err = p.let(list)
	case "let-tuple":
		c, err = p.letTuple(list)
	case "set":
		c, err = p.set(list)
	case "set-tuple":
		c, err = p.setTuple(list)
	case "assert", "assume", "invariant":
		c, err = p.annotation(head, list)
	case "if":
		c, err = p.ifElse(list)
	case "while":
		c, err = p.while(list)
	case "for":
		c, err = p.forRange(list)
	case "noop":
		if list.Len() != 1 {
			return nil, p.error(term, "invalid noop")
		}
		//
		c = &ast.Noop{}
	default:
		return nil, p.error(term, "unknown command")
	}
	//
	if err != nil {
		return nil, err
	}
	//
	p.register(c, term)
	//
	return c, nil
}

// let parses (let [mut] x T [V]).
func (p *translator) let(list *sexp.List) (ast.Command, error) {
	var (
		elements = list.Elements[1:]
		mutable  = false
	)
	//
	if len(elements) > 0 && elements[0].AsSymbol() != nil && elements[0].AsSymbol().Value == "mut" {
		mutable, elements = true, elements[1:]
	}
	//
	if len(elements) < 2 || len(elements) > 3 || elements[0].AsSymbol() == nil ||
		!isName(elements[0].AsSymbol().Value) {
		return nil, p.error(list, "invalid let")
	}
	//
	name := elements[0].AsSymbol().Value
	//
	t, err := p.typ(elements[1])
	if err != nil {
		return nil, err
	} else if len(elements) == 2 {
		return ast.NewDeclaration(name, t, mutable), nil
	}
	//
	v, err := p.value(elements[2])
	if err != nil {
		return nil, err
	}
	//
	return ast.NewBinding(name, t, mutable, v), nil
}

// letTuple parses (let-tuple (PATTERN...) V).
func (p *translator) letTuple(list *sexp.List) (ast.Command, error) {
	if list.Len() != 3 || list.Get(1).AsList() == nil {
		return nil, p.error(list, "invalid let-tuple")
	}
	//
	var targets []*ast.Declaration
	//
	for _, e := range list.Get(1).AsList().Elements {
		d, err := p.declaration(e, false)
		if err != nil {
			return nil, err
		}
		//
		targets = append(targets, d)
	}
	//
	v, err := p.value(list.Get(2))
	if err != nil {
		return nil, err
	}
	//
	return &ast.TupleBinding{Targets: targets, Value: v}, nil
}

// set parses (set VAR V).
func (p *translator) set(list *sexp.List) (ast.Command, error) {
	if list.Len() != 3 {
		return nil, p.error(list, "invalid set")
	}
	//
	return p.assignment(list.Get(1), list.Get(2))
}

func (p *translator) assignment(lhs sexp.SExp, rhs sexp.SExp) (*ast.Assignment, error) {
	target, err := p.variable(lhs)
	if err != nil {
		return nil, err
	}
	//
	v, err := p.value(rhs)
	if err != nil {
		return nil, err
	}
	//
	return &ast.Assignment{Target: target, Value: v}, nil
}

// setTuple parses (set-tuple (VAR V)...).
func (p *translator) setTuple(list *sexp.List) (ast.Command, error) {
	var assignments []*ast.Assignment
	//
	for _, e := range list.Elements[1:] {
		if l := e.AsList(); l == nil || l.Len() != 2 {
			return nil, p.error(e, "invalid assignment")
		} else if a, err := p.assignment(l.Get(0), l.Get(1)); err != nil {
			return nil, err
		} else {
			p.register(a, e)
			assignments = append(assignments, a)
		}
	}
	//
	if len(assignments) == 0 {
		return nil, p.error(list, "empty set-tuple")
	}
	//
	return &ast.TupleAssignment{Assignments: assignments}, nil
}

func (p *translator) annotation(head string, list *sexp.List) (ast.Command, error) {
	if list.Len() != 2 {
		return nil, p.error(list, "invalid "+head)
	}
	//
	cond, err := p.formula(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	switch head {
	case "assert":
		return &ast.Assert{Cond: cond}, nil
	case "assume":
		return &ast.Assume{Cond: cond}, nil
	default:
		return &ast.LoopInvariant{Cond: cond}, nil
	}
}

// ifElse parses (if (B CMD...) ... (else CMD...)).
func (p *translator) ifElse(list *sexp.List) (ast.Command, error) {
	var c ast.If
	//
	for i, e := range list.Elements[1:] {
		branch := e.AsList()
		//
		if branch == nil || branch.Len() == 0 {
			return nil, p.error(e, "invalid branch")
		} else if branch.MatchSymbols(1, "else") && i == list.Len()-2 {
			body, err := p.block(branch.Elements[1:])
			if err != nil {
				return nil, err
			}
			//
			c.Else = body
		} else {
			cond, err := p.formula(branch.Get(0))
			if err != nil {
				return nil, err
			}
			//
			body, err := p.block(branch.Elements[1:])
			if err != nil {
				return nil, err
			}
			//
			c.Conditions = append(c.Conditions, cond)
			c.Branches = append(c.Branches, body)
		}
	}
	//
	if len(c.Conditions) == 0 {
		return nil, p.error(list, "conditional requires at least one condition")
	}
	//
	return &c, nil
}

// loopHeader parses the optional (invariant B) and (variant E) clauses at the
// start of a loop body.  Several invariants are conjoined.
func (p *translator) loopHeader(terms []sexp.SExp) (ast.Bool, ast.Expr, []sexp.SExp, error) {
	var (
		invariants []ast.Bool
		variant    ast.Expr
	)
	//
	for len(terms) > 0 {
		head, _ := headOf(terms[0])
		list := terms[0].AsList()
		//
		if head == "invariant" && list.Len() == 2 {
			inv, err := p.formula(list.Get(1))
			if err != nil {
				return nil, nil, nil, err
			}
			//
			invariants = append(invariants, inv)
		} else if head == "variant" && list.Len() == 2 && variant == nil {
			v, err := p.expr(list.Get(1))
			if err != nil {
				return nil, nil, nil, err
			}
			//
			variant = v
		} else {
			break
		}
		//
		terms = terms[1:]
	}
	//
	return ast.NewAnd(invariants...), variant, terms, nil
}

// while parses (while B (invariant B) [(variant E)] CMD...).
func (p *translator) while(list *sexp.List) (ast.Command, error) {
	if list.Len() < 2 {
		return nil, p.error(list, "invalid while")
	}
	//
	cond, err := p.formula(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	inv, variant, rest, err := p.loopHeader(list.Elements[2:])
	if err != nil {
		return nil, err
	}
	//
	body, err := p.block(rest)
	if err != nil {
		return nil, err
	}
	//
	return &ast.While{Cond: cond, Body: body, Invariant: inv, Variant: variant}, nil
}

// forRange parses (for i LO HI (invariant B) CMD...).
func (p *translator) forRange(list *sexp.List) (ast.Command, error) {
	if list.Len() < 4 || list.Get(1).AsSymbol() == nil || !isName(list.Get(1).AsSymbol().Value) {
		return nil, p.error(list, "invalid for")
	}
	//
	lo, err := p.value(list.Get(2))
	if err != nil {
		return nil, err
	}
	//
	hi, err := p.value(list.Get(3))
	if err != nil {
		return nil, err
	}
	//
	inv, variant, rest, err := p.loopHeader(list.Elements[4:])
	if err != nil {
		return nil, err
	} else if variant != nil {
		return nil, p.error(list, "for loops cannot have a variant")
	}
	//
	body, err := p.block(rest)
	if err != nil {
		return nil, err
	}
	//
	return &ast.ForRange{Iter: list.Get(1).AsSymbol().Value, Lo: lo, Hi: hi, Body: body, Invariant: inv}, nil
}
