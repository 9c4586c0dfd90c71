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
	"fmt"
	"maps"
	"strings"

	"github.com/consensys/go-hoare/pkg/ast"
)

// Var records a variable in scope, along with its last known value.
type Var struct {
	Name    string
	Type    ast.Type
	Mutable bool
	// Last known value, or nil if unknown.
	Value ast.Value
}

func (p *Var) String() string {
	var value = "?"
	//
	if p.Value != nil {
		value = p.Value.String()
	}
	//
	return fmt.Sprintf("%s: %s = %s", p.Name, p.Type.String(), value)
}

// Val is a value encountered along a path, together with its static type.
type Val struct {
	Value ast.Value
	Type  ast.Type
}

// Frame is a snapshot of the context at some point within a function body: the
// variables in scope, the values encountered so far and the assumptions made
// so far.  Frames are immutable, and stepping a frame over a command produces
// a new frame which shares structure with its predecessor.  Hence, branches
// never leak facts into one another.
type Frame struct {
	program *ast.Program
	// Variables in scope, indexed by name.
	vars map[string]*Var
	// Names in order of declaration.
	names []string
	// Values encountered so far.
	vals []Val
	// Assumptions made so far.
	assumptions []ast.Bool
	// Entry values of inputs (x'old), which are never written.
	olds map[string]ast.Type
}

// NewFrame constructs the frame on entry to a given function, where the inputs
// are in scope (with unknown values) and the precondition is assumed.
func NewFrame(f *ast.Function, program *ast.Program) (*Frame, error) {
	var frame = &Frame{program, make(map[string]*Var), nil, nil, nil, make(map[string]ast.Type)}
	//
	for _, input := range f.Inputs {
		if err := frame.declare(input, input.Name, input.Type, input.Mutable, nil); err != nil {
			return nil, err
		}
		//
		frame.olds[ast.OldName(input.Name)] = input.Type
	}
	//
	frame.assumptions = append(frame.assumptions, f.Precondition)
	//
	return frame, frame.extract(f.Precondition)
}

// Variable implementation for the ast.Scope interface.
func (p *Frame) Variable(name string) (ast.Type, bool) {
	if v, ok := p.vars[name]; ok {
		return v.Type, true
	}
	//
	t, ok := p.olds[name]
	//
	return t, ok
}

// Function implementation for the ast.Scope interface.
func (p *Frame) Function(name string) (*ast.Function, bool) {
	return p.program.Function(name)
}

// Lookup returns the record of a variable in scope.
func (p *Frame) Lookup(name string) (*Var, bool) {
	v, ok := p.vars[name]
	return v, ok
}

// Vars returns the variables in scope, in order of declaration.
func (p *Frame) Vars() []*Var {
	var vars = make([]*Var, len(p.names))
	//
	for i, name := range p.names {
		vars[i] = p.vars[name]
	}
	//
	return vars
}

// Vals returns the values encountered so far, in order of first encounter.
func (p *Frame) Vals() []Val {
	return p.vals
}

// Assumptions returns the assumptions made so far.
func (p *Frame) Assumptions() []ast.Bool {
	return p.assumptions
}

// Step produces the frame following a given command.  Compound commands (i.e.
// conditionals and loops) are opaque here: the frame is unchanged, and it is
// the responsibility of the caller to step through their bodies.
func (p *Frame) Step(c ast.Command) (*Frame, error) {
	var frame = p.clone()
	//
	switch c := c.(type) {
	case *ast.Declaration:
		return frame, frame.declare(c, c.Name, c.Type, c.Mutable, nil)
	case *ast.Binding:
		if err := frame.declare(c, c.Name, c.Type, c.Mutable, c.Value); err != nil {
			return nil, err
		}
		//
		return frame, frame.extract(c.Value)
	case *ast.TupleBinding:
		for i, t := range c.Targets {
			if t.Name == "_" {
				continue
			}
			//
			element := ast.Select(c.Value, ast.NewInt(int32(i)), true)
			//
			if err := frame.declare(t, t.Name, t.Type, t.Mutable, element); err != nil {
				return nil, err
			}
		}
		//
		return frame, frame.extract(c.Value)
	case *ast.Assignment:
		return frame, frame.assign(c)
	case *ast.TupleAssignment:
		// Right-hand sides are recorded as written, hence it suffices to assign
		// in order.
		for _, a := range c.Assignments {
			if err := frame.assign(a); err != nil {
				return nil, err
			}
		}
		//
		return frame, nil
	case *ast.Assume:
		frame.assumptions = append(frame.assumptions, c.Cond)
		return frame, frame.extract(c.Cond)
	case *ast.Assert:
		return frame, frame.extract(c.Cond)
	case *ast.LoopInvariant:
		return frame, frame.extract(c.Cond)
	case *ast.If, *ast.While, *ast.ForRange, *ast.Noop:
		return p, nil
	default:
		panic("unreachable")
	}
}

func (p *Frame) clone() *Frame {
	return &Frame{
		p.program,
		maps.Clone(p.vars),
		p.names[:len(p.names):len(p.names)],
		p.vals[:len(p.vals):len(p.vals)],
		p.assumptions[:len(p.assumptions):len(p.assumptions)],
		p.olds,
	}
}

func (p *Frame) declare(node any, name string, t ast.Type, mutable bool, value ast.Value) error {
	if ast.ContainsUnknown(t) {
		return ast.Malformed(node, "unknown type for %s", name)
	} else if _, ok := p.vars[name]; !ok {
		p.names = append(p.names, name)
	}
	//
	p.vars[name] = &Var{name, t, mutable, value}
	//
	return nil
}

func (p *Frame) assign(a *ast.Assignment) error {
	var name = a.Target.Base()
	//
	if _, ok := a.Target.(*ast.Empty); ok {
		return p.extract(a.Value)
	}
	//
	v, ok := p.vars[name]
	if !ok {
		return ast.Malformed(a.Target, "unknown variable %s", name)
	}
	//
	var (
		current = v.Value
		value   = a.Value
	)
	//
	if current == nil {
		current = ast.NewVar(name)
	}
	//
	switch t := a.Target.(type) {
	case *ast.ArrayElem:
		value = &ast.StoreValue{Base: current, Index: t.Index, Element: a.Value}
	case *ast.TupleElem:
		value = &ast.StoreValue{Base: current, Index: t.Index, Element: a.Value, Tuple: true}
	}
	//
	p.vars[name] = &Var{name, v.Type, v.Mutable, value}
	//
	return p.extract(a.Value)
}

// extract records every value within a given node, except those under a
// quantifier (whose types depend upon the bound variable).
func (p *Frame) extract(node any) error {
	var err error
	//
	ast.Inspect(node, func(n any) bool {
		switch n := n.(type) {
		case *ast.ForAll, *ast.Exists:
			return false
		case ast.Value:
			if err == nil {
				err = p.record(n)
			}
		}
		//
		return err == nil
	})
	//
	return err
}

func (p *Frame) record(v ast.Value) error {
	var key = v.String()
	//
	for _, val := range p.vals {
		if val.Value.String() == key {
			return nil
		}
	}
	//
	t, err := ast.TypeOf(v, p)
	if err != nil {
		return err
	}
	//
	p.vals = append(p.vals, Val{v, t})
	//
	return nil
}

func (p *Frame) String() string {
	var builder strings.Builder
	//
	for _, v := range p.Vars() {
		builder.WriteString(v.String())
		builder.WriteString("\n")
	}
	//
	for _, a := range p.assumptions {
		if !ast.IsTrue(a) {
			builder.WriteString(fmt.Sprintf("assume %s\n", a.String()))
		}
	}
	//
	return builder.String()
}

// Trace returns the frames through the top-level of a function's body: the
// frame on entry, followed by the frame after each command.
func Trace(f *ast.Function, program *ast.Program) ([]*Frame, error) {
	frame, err := NewFrame(f, program)
	if err != nil {
		return nil, err
	}
	//
	var frames = []*Frame{frame}
	//
	for _, c := range f.Body {
		if frame, err = frame.Step(c); err != nil {
			return frames, err
		}
		//
		frames = append(frames, frame)
	}
	//
	return frames, nil
}
