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
package vcgen

import (
	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/util/collection/set"
)

// while generates the obligations for a while loop: the invariant holds on
// entry and is preserved by an arbitrary iteration, and (under total
// correctness) the variant is non-negative and decreases.  Execution then
// continues from an arbitrary state in which the invariant holds but the
// condition does not.
func (g *generator) while(s *state, c *ast.While, text string) error {
	if err := g.check(s, INVARIANT_ENTRY, c, text, c.Invariant); err != nil {
		return err
	}
	//
	h, err := g.iteration(s, c, text, ast.Affected(c.Body), c.Invariant)
	if err != nil {
		return err
	}
	//
	guard, err := g.formula(h, c, text, c.Cond)
	if err != nil {
		return err
	}
	//
	var (
		body    = h.clone()
		variant ast.Expr
	)
	//
	body.assume(guard)
	//
	if g.config.Termination == TOTAL && c.Variant == nil {
		g.emit(body, VARIANT_MISSING, c, text, ast.FALSE)
	} else if g.config.Termination == TOTAL {
		if variant, err = g.expr(body, c, text, c.Variant); err != nil {
			return err
		}
		//
		g.emit(body, VARIANT_NONNEGATIVE, c, text, ast.NewCompare(variant, ast.GEQ, ast.NewNumber(0)))
	}
	//
	if err := g.block(body, c.Body); err != nil {
		return err
	} else if err := g.check(body, INVARIANT_PRESERVED, c, text, c.Invariant); err != nil {
		return err
	}
	//
	if variant != nil {
		after, err := g.expr(body, c, text, c.Variant)
		if err != nil {
			return err
		}
		//
		g.emit(body, VARIANT_DECREASES, c, text, ast.NewCompare(after, ast.LT, variant))
	}
	//
	h.assume(ast.NewNot(guard))
	*s = *h
	//
	return nil
}

// forRange generates the obligations for a for loop, which is treated as a
// while loop over the condition i < hi (where hi is fixed on entry) that
// increments i after every iteration.  Such loops always terminate.
func (g *generator) forRange(s *state, c *ast.ForRange, text string) error {
	lo, err := g.value(s, c, text, c.Lo)
	if err != nil {
		return err
	}
	//
	hi, err := g.value(s, c, text, c.Hi)
	if err != nil {
		return err
	}
	// The iterator is in scope only within the loop.
	var inner = s.clone()
	//
	if inner.frame, err = inner.frame.Step(ast.NewDeclaration(c.Iter, ast.I32, false)); err != nil {
		return err
	}
	//
	inner.values[c.Iter] = lo
	//
	if err := g.check(inner, INVARIANT_ENTRY, c, text, c.Invariant); err != nil {
		return err
	}
	//
	var written = ast.Affected(c.Body)
	//
	written.Insert(c.Iter)
	//
	h, err := g.iteration(inner, c, text, written, c.Invariant)
	if err != nil {
		return err
	}
	//
	var (
		guard = ast.NewCompare(ast.AsExpr(h.values[c.Iter]), ast.LT, ast.AsExpr(hi))
		body  = h.clone()
	)
	//
	body.assume(guard)
	//
	if err := g.block(body, c.Body); err != nil {
		return err
	}
	//
	body.values[c.Iter] = ast.NewExprValue(ast.Add(ast.AsExpr(body.values[c.Iter]), ast.NewNumber(1)))
	//
	if err := g.check(body, INVARIANT_PRESERVED, c, text, c.Invariant); err != nil {
		return err
	}
	//
	h.assume(ast.NewNot(guard))
	delete(h.values, c.Iter)
	h.frame = s.frame
	*s = *h
	//
	return nil
}

// iteration constructs the state at the start of an arbitrary iteration of a
// loop, where every variable written by the loop is havocked and the
// invariant is assumed.  Facts known before the loop are retained, since they
// refer only to the values of symbolic constants which the loop cannot
// change.
func (g *generator) iteration(s *state, node ast.Command, text string, written *set.SortedSet[string],
	invariant ast.Bool) (*state, error) {
	var h = g.havoc(s, written)
	//
	inv, err := g.formula(h, node, text, invariant)
	if err != nil {
		return nil, err
	}
	//
	h.assume(inv)
	//
	return h, nil
}

// havoc replaces the value of every written variable in scope with a fresh
// constant.
func (g *generator) havoc(s *state, written *set.SortedSet[string]) *state {
	var h = s.clone()
	//
	for _, name := range written.Slice() {
		if _, ok := s.values[name]; !ok {
			continue
		} else if t, ok := s.frame.Variable(name); ok {
			h.values[name] = g.constant(name, t, true)
		}
	}
	//
	return h
}
