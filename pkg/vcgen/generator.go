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
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/smt"
	log "github.com/sirupsen/logrus"
)

// Generate produces the obligations for every function in a program, indexed
// in order of generation.  A function whose body is malformed produces an
// error instead, but this does not prevent obligations being generated for
// the remaining functions.
func Generate(program *ast.Program, config Config) ([]*Obligation, []error) {
	var (
		obligations []*Obligation
		errs        []error
	)
	//
	for _, f := range program.Functions {
		fobligations, err := GenerateFunction(f, program, config)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		//
		obligations = append(obligations, fobligations...)
	}
	//
	for i, o := range obligations {
		o.Index = i
	}
	//
	return obligations, errs
}

// GenerateFunction produces the obligations for a single function, indexed
// from zero.  Generation is deterministic, such that the same function always
// gives the same obligations in the same order.
func GenerateFunction(f *ast.Function, program *ast.Program, config Config) ([]*Obligation, error) {
	var g = generator{
		config:   config,
		program:  program,
		fn:       f,
		symbols:  ast.NewMapScope(program),
		ghosts:   make(map[string]ast.Type),
		counters: make(map[string]int),
	}
	//
	if err := g.function(); err != nil {
		var malformed *ast.MalformedError
		//
		if errors.As(err, &malformed) {
			return nil, malformed.In(f.Name)
		}
		//
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	//
	log.Debugf("generated %d obligations for %s", len(g.obligations), f.Name)
	//
	return g.obligations, nil
}

// state is the symbolic state along some path through a function body.  This
// consists of the current value of every variable in scope (V), expressed in
// terms of symbolic constants, and the facts known to hold (A).
type state struct {
	// Types of program variables in scope
	frame *Frame
	// Current value of each variable (V)
	values map[string]ast.Value
	// Facts known to hold (A)
	facts []ast.Bool
}

func (p *state) clone() *state {
	return &state{p.frame, maps.Clone(p.values), p.facts[:len(p.facts):len(p.facts)]}
}

func (p *state) assume(fact ast.Bool) {
	if !ast.IsTrue(fact) {
		p.facts = append(p.facts, fact)
	}
}

// programScope resolves the types of program variables, including the ghost
// variables bound on entry (x'old) and exit (return_value).
type programScope struct {
	*Frame
	ghosts map[string]ast.Type
}

func (p *programScope) Variable(name string) (ast.Type, bool) {
	if t, ok := p.Frame.Variable(name); ok {
		return t, true
	}
	//
	t, ok := p.ghosts[name]
	//
	return t, ok
}

type generator struct {
	config  Config
	program *ast.Program
	fn      *ast.Function
	// Types of symbolic constants.
	symbols *ast.MapScope
	// Types of ghost variables.
	ghosts map[string]ast.Type
	// Number of primed constants introduced for each variable.
	counters    map[string]int
	obligations []*Obligation
}

func (g *generator) function() error {
	var f = g.fn
	//
	frame, err := NewFrame(f, g.program)
	if err != nil {
		return err
	}
	//
	var s = &state{frame, make(map[string]ast.Value), nil}
	// Inputs are symbolic constants, and their entry values are these same
	// constants.
	for _, input := range f.Inputs {
		g.symbols.Vars[input.Name] = input.Type
		g.ghosts[ast.OldName(input.Name)] = input.Type
		s.values[input.Name] = ast.NewVar(input.Name)
		s.values[ast.OldName(input.Name)] = ast.NewVar(input.Name)
	}
	//
	g.ghosts[ast.RETURN_VALUE] = f.Output
	//
	text := "requires " + f.Precondition.String()
	//
	pre, err := g.formula(s, f.Precondition, text, f.Precondition)
	if err != nil {
		return err
	}
	//
	s.assume(pre)
	//
	if err := g.block(s, f.Body); err != nil {
		return err
	}
	//
	rv, err := g.value(s, f.ReturnValue, "returns "+f.ReturnValue.String(), f.ReturnValue)
	if err != nil {
		return err
	}
	//
	s.values[ast.RETURN_VALUE] = rv
	//
	return g.check(s, POSTCONDITION, f.Postcondition, "ensures "+f.Postcondition.String(), f.Postcondition)
}

func (g *generator) block(s *state, block []ast.Command) error {
	for _, c := range block {
		if err := g.command(s, c); err != nil {
			return err
		}
	}
	//
	return nil
}

func (g *generator) command(s *state, c ast.Command) error {
	var text = c.String()
	//
	frame, err := s.frame.Step(c)
	if err != nil {
		return err
	}
	//
	switch c := c.(type) {
	case *ast.Declaration:
		s.values[c.Name] = g.constant(c.Name, c.Type, false)
	case *ast.Binding:
		var v ast.Value
		//
		if v, err = g.value(s, c, text, c.Value); err == nil {
			s.values[c.Name] = v
		}
	case *ast.TupleBinding:
		err = g.destructure(s, c, text)
	case *ast.Assignment:
		err = g.assign(s, c, text, c)
	case *ast.TupleAssignment:
		err = g.assign(s, c, text, c.Assignments...)
	case *ast.Assert:
		err = g.check(s, ASSERTION, c, text, c.Cond)
	case *ast.LoopInvariant:
		err = g.check(s, INVARIANT, c, text, c.Cond)
	case *ast.Assume:
		var cond ast.Bool
		//
		if cond, err = g.formula(s, c, text, c.Cond); err == nil {
			s.assume(cond)
		}
	case *ast.If:
		err = g.conditional(s, c, text)
	case *ast.While:
		err = g.while(s, c, text)
	case *ast.ForRange:
		err = g.forRange(s, c, text)
	case *ast.Noop:
		// nothing
	default:
		panic("unreachable")
	}
	//
	s.frame = frame
	//
	return err
}

// destructure binds each target of a tuple binding to the corresponding
// element of the value, discarding wildcards.
func (g *generator) destructure(s *state, c *ast.TupleBinding, text string) error {
	v, err := g.value(s, c, text, c.Value)
	if err != nil {
		return err
	}
	//
	t, err := ast.TypeOf(v, g.symbols)
	if err != nil {
		return err
	} else if tt, ok := ast.Underlying(t).(*ast.TupleType); !ok || len(tt.Elements) != len(c.Targets) {
		return ast.Malformed(c, "cannot destructure %s into %d variables", t.String(), len(c.Targets))
	}
	//
	for i, target := range c.Targets {
		if target.Name != "_" {
			s.values[target.Name] = ast.Select(v, ast.NewInt(int32(i)), true)
		}
	}
	//
	return nil
}

// assign performs one or more assignments simultaneously.  That is, every
// right-hand side (and every index of a target) is evaluated before any
// location is written.
func (g *generator) assign(s *state, node ast.Command, text string, assignments ...*ast.Assignment) error {
	var (
		targets = make([]ast.Variable, len(assignments))
		values  = make([]ast.Value, len(assignments))
	)
	//
	for i, a := range assignments {
		v, err := g.value(s, node, text, a.Value)
		if err != nil {
			return err
		}
		//
		target, err := g.location(s, node, text, a.Target)
		if err != nil {
			return err
		}
		//
		targets[i], values[i] = target, v
	}
	//
	for i, target := range targets {
		if err := g.write(s, target, values[i]); err != nil {
			return err
		}
	}
	//
	return nil
}

// location evaluates the index (if any) of an assignment's target.  Writing an
// element requires the same well-definedness conditions as reading it (e.g.
// the index is within bounds).
func (g *generator) location(s *state, node any, text string, target ast.Variable) (ast.Variable, error) {
	switch target.(type) {
	case *ast.ArrayElem, *ast.TupleElem:
		if err := g.conditions(s, node, text, &ast.VarValue{Var: target}); err != nil {
			return nil, err
		}
	}
	//
	return ast.SubstituteIndex(target, s.values), nil
}

// write updates the value of a location whose index has already been
// evaluated.
func (g *generator) write(s *state, target ast.Variable, v ast.Value) error {
	if _, ok := target.(*ast.Empty); ok {
		return nil
	}
	//
	current, ok := s.values[target.Base()]
	if !ok {
		return ast.Malformed(target, "unknown variable %s", target.Base())
	}
	//
	switch t := target.(type) {
	case *ast.Named:
		s.values[t.Name] = v
	case *ast.ArrayElem:
		s.values[t.Name] = update(current, t.Index, v, false)
	case *ast.TupleElem:
		s.values[t.Name] = update(current, t.Index, v, true)
	default:
		panic("unreachable")
	}
	//
	return nil
}

// update constructs a compound value with one element replaced.  Literals are
// updated in place where the index is known.
func update(base ast.Value, index ast.Value, element ast.Value, tuple bool) ast.Value {
	if i, ok := ast.ConstantIndex(index); ok {
		switch b := base.(type) {
		case *ast.TupleValue:
			if tuple && i < len(b.Elements) {
				elements := slices.Clone(b.Elements)
				elements[i] = element
				//
				return ast.NewTuple(elements...)
			}
		case *ast.ArrayValue:
			if !tuple && i < len(b.Elements) {
				elements := slices.Clone(b.Elements)
				elements[i] = element
				//
				return ast.NewArray(elements...)
			}
		}
	}
	//
	return &ast.StoreValue{Base: base, Index: index, Element: element, Tuple: tuple}
}

// conditional handles an n-way conditional as a cascade of binary
// conditionals.  Facts learned within a branch do not escape it, whilst the
// value of any variable written by some branch becomes a merge of the branch
// values.
func (g *generator) conditional(s *state, c *ast.If, text string) error {
	if len(c.Conditions) == 0 {
		other := s.clone()
		//
		if err := g.block(other, c.Else); err != nil {
			return err
		}
		//
		for name := range s.values {
			s.values[name] = other.values[name]
		}
		//
		return nil
	}
	//
	return g.branch(s, c, text, 0)
}

func (g *generator) branch(s *state, c *ast.If, text string, i int) error {
	if i == len(c.Conditions) {
		return g.block(s, c.Else)
	}
	//
	cond, err := g.formula(s, c, text, c.Conditions[i])
	if err != nil {
		return err
	}
	//
	then, other := s.clone(), s.clone()
	then.assume(cond)
	other.assume(ast.NewNot(cond))
	//
	if err := g.block(then, c.Branches[i]); err != nil {
		return err
	} else if err := g.branch(other, c, text, i+1); err != nil {
		return err
	}
	// Merge (variables declared within branches have gone out of scope)
	for name, v := range s.values {
		if then.values[name] != v || other.values[name] != v {
			s.values[name] = ast.NewTernary(cond, then.values[name], other.values[name])
		}
	}
	//
	return nil
}

// constant introduces a fresh symbolic constant for a given variable.  The
// variable's own name is used when available (unless primed is set),
// otherwise the name is primed with a counter (e.g. x'1).
func (g *generator) constant(name string, t ast.Type, primed bool) ast.Value {
	var ghost = name
	//
	if _, taken := g.symbols.Vars[ghost]; primed || taken {
		for taken = true; taken; _, taken = g.symbols.Vars[ghost] {
			g.counters[name]++
			ghost = fmt.Sprintf("%s'%d", name, g.counters[name])
		}
	}
	//
	g.symbols.Vars[ghost] = t
	//
	return ast.NewVar(ghost)
}

// check generates an obligation that a given formula holds in a given state.
func (g *generator) check(s *state, kind Kind, node any, text string, cond ast.Bool) error {
	goal, err := g.formula(s, node, text, cond)
	//
	if err == nil {
		g.emit(s, kind, node, text, goal)
	}
	//
	return err
}

// emit an obligation that a goal follows from the facts of a given state.
// Trivial goals are dropped.
func (g *generator) emit(s *state, kind Kind, node any, text string, goal ast.Bool) *Obligation {
	if ast.IsTrue(goal) {
		return nil
	}
	//
	o := &Obligation{
		Index:       len(g.obligations),
		Function:    g.fn.Name,
		Kind:        kind,
		Node:        node,
		Text:        text,
		Assumptions: slices.Clone(s.facts),
		Goal:        goal,
		Scope:       g.symbols,
	}
	//
	g.obligations = append(g.obligations, o)
	//
	return o
}

// value evaluates a value in a given state, generating obligations for its
// well-definedness and for any calls it makes.
func (g *generator) value(s *state, node any, text string, v ast.Value) (ast.Value, error) {
	if err := g.conditions(s, node, text, v); err != nil {
		return nil, err
	}
	//
	return ast.SubstituteValue(v, s.values), nil
}

// formula is the analogue of value for formulas.
func (g *generator) formula(s *state, node any, text string, b ast.Bool) (ast.Bool, error) {
	if err := g.conditions(s, node, text, b); err != nil {
		return nil, err
	}
	//
	return ast.SubstituteBool(b, s.values), nil
}

// expr is the analogue of value for integer expressions.
func (g *generator) expr(s *state, node any, text string, e ast.Expr) (ast.Expr, error) {
	if err := g.conditions(s, node, text, ast.NewExprValue(e)); err != nil {
		return nil, err
	}
	//
	return ast.SubstituteExpr(e, s.values), nil
}

// conditions generates obligations for the side conditions of a value or
// formula, as written in the program.  These are then evaluated in the given
// state.  Hence, only those conditions arising from the given node are
// generated, and not those of the values it refers to.
func (g *generator) conditions(s *state, node any, text string, n any) error {
	var (
		encoder = smt.NewEncoder(&programScope{s.frame, g.ghosts})
		checks  []smt.Check
		err     error
	)
	//
	switch n := n.(type) {
	case ast.Bool:
		checks, _, err = encoder.Formula(n)
	case ast.Value:
		checks, err = valueChecks(encoder, n)
	default:
		panic("unreachable")
	}
	//
	if err != nil {
		return err
	}
	//
	for _, c := range checks {
		if o := g.emit(s, SIDE_CONDITION, node, text, ast.SubstituteBool(c.Cond, s.values)); o != nil {
			o.Check = c.Kind
		}
	}
	//
	return g.calls(s, node, text, n)
}

func valueChecks(encoder *smt.Encoder, v ast.Value) ([]smt.Check, error) {
	t, err := ast.TypeOf(v, encoder)
	if err != nil {
		return nil, err
	}
	//
	switch ast.Underlying(t).(type) {
	case *ast.UnitType:
		return nil, nil
	case *ast.TupleType:
		checks, _, _, err := encoder.Tuple(v)
		return checks, err
	default:
		checks, _, _, err := encoder.Value(v)
		return checks, err
	}
}
