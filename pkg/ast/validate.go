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
package ast

import (
	"strings"
)

// Validate checks a program respects the naming and scoping rules of the
// language.  Specifically: function names are unique; input names are
// unique; no user binding uses a reserved name (return_value, or any name
// containing a prime); no binding shadows a variable already in scope; every
// variable used is in scope; only mutable locations are assigned; every
// called function exists and receives the right number of arguments; and, no
// type remains unknown.  All errors found are returned, rather than just the
// first.
func Validate(program *Program) []error {
	var (
		errors []error
		names  = make(map[string]bool)
	)
	//
	for _, f := range program.Functions {
		if names[f.Name] {
			errors = append(errors, Malformed(f, "duplicate function %s", f.Name).In(f.Name))
		}
		//
		names[f.Name] = true
		//
		errors = append(errors, validateFunction(f, program)...)
	}
	//
	return errors
}

type validEntry struct {
	t       Type
	mutable bool
}

type validator struct {
	function *Function
	program  *Program
	// Stack of nested scopes, innermost last.
	scopes []map[string]validEntry
	errors []error
}

func validateFunction(f *Function, program *Program) []error {
	var v = validator{f, program, []map[string]validEntry{make(map[string]validEntry)}, nil}
	//
	for _, d := range f.Inputs {
		v.declare(d, d.Name, d.Type, d.Mutable)
	}
	//
	if ContainsUnknown(f.Output) {
		v.error(f, "unknown return type")
	}
	// Precondition sees only the inputs
	v.reads(f.Precondition)
	// Entry values of inputs are visible from the body onwards, but are never
	// written.
	for _, d := range f.Inputs {
		v.scopes[0][OldName(d.Name)] = validEntry{d.Type, false}
	}
	// Body introduces top-level bindings visible in the postcondition
	v.block(f.Body, false)
	v.reads(f.ReturnValue)
	// Postcondition also sees the return value
	v.enter()
	v.scopes[len(v.scopes)-1][RETURN_VALUE] = validEntry{f.Output, false}
	v.reads(f.Postcondition)
	//
	return v.errors
}

func (p *validator) error(node any, format string, args ...any) {
	p.errors = append(p.errors, Malformed(node, format, args...).In(p.function.Name))
}

func (p *validator) enter() {
	p.scopes = append(p.scopes, make(map[string]validEntry))
}

func (p *validator) leave() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *validator) lookup(name string) (validEntry, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if e, ok := p.scopes[i][name]; ok {
			return e, true
		}
	}
	//
	return validEntry{}, false
}

// Variable implementation for the Scope interface.
func (p *validator) Variable(name string) (Type, bool) {
	e, ok := p.lookup(name)
	return e.t, ok
}

// Function implementation for the Scope interface.
func (p *validator) Function(name string) (*Function, bool) {
	return p.program.Function(name)
}

func (p *validator) declare(node any, name string, t Type, mutable bool) {
	if name == "_" {
		return
	} else if name == RETURN_VALUE || strings.ContainsRune(name, '\'') {
		p.error(node, "reserved name %s", name)
	} else if _, ok := p.lookup(name); ok {
		p.error(node, "variable %s shadows existing variable", name)
	}
	//
	if t == nil || ContainsUnknown(t) {
		p.error(node, "unknown type for %s", name)
	}
	//
	p.scopes[len(p.scopes)-1][name] = validEntry{t, mutable}
}

// reads checks every variable used within a node is in scope, and every
// function called exists.
func (p *validator) reads(node any) {
	Inspect(node, func(n any) bool {
		switch n := n.(type) {
		case *ForAll:
			p.quantified(n.Var, n.Type, n.Body, n)
			return false
		case *Exists:
			p.quantified(n.Var, n.Type, n.Body, n)
			return false
		case Variable:
			if name := n.Base(); name == "" {
				p.error(n, "wildcard used as value")
			} else if _, ok := p.lookup(name); !ok {
				p.error(n, "unknown variable %s", name)
			} else if _, err := TypeOfVariable(n, p); err != nil {
				p.error(n, "%s", err.(*MalformedError).Message)
			}
		case *CallValue:
			if f, ok := p.program.Function(n.Name); !ok {
				p.error(n, "unknown function %s", n.Name)
			} else if len(f.Inputs) != len(n.Args) {
				p.error(n, "function %s expects %d arguments, found %d", n.Name, len(f.Inputs), len(n.Args))
			}
		}
		//
		return true
	})
}

func (p *validator) quantified(name string, t Type, body Bool, node any) {
	if t == nil || ContainsUnknown(t) {
		p.error(node, "unknown type for %s", name)
	}
	// Quantified variables may shadow, since they are not program variables.
	p.enter()
	p.scopes[len(p.scopes)-1][name] = validEntry{t, false}
	p.reads(body)
	p.leave()
}

// block validates a sequence of commands.  Unless the block is the top-level
// body of the function, its bindings are discarded at the end.
func (p *validator) block(block []Command, nested bool) {
	if nested {
		p.enter()
		defer p.leave()
	}
	//
	for _, c := range block {
		p.command(c)
	}
}

func (p *validator) command(c Command) {
	switch c := c.(type) {
	case *Declaration:
		p.declare(c, c.Name, c.Type, c.Mutable)
	case *Binding:
		p.reads(c.Value)
		p.declare(c, c.Name, c.Type, c.Mutable)
	case *TupleBinding:
		p.reads(c.Value)
		//
		for _, t := range c.Targets {
			p.declare(c, t.Name, t.Type, t.Mutable)
		}
	case *Assignment:
		p.reads(c.Value)
		p.writes(c, c.Target)
	case *TupleAssignment:
		for _, a := range c.Assignments {
			p.reads(a.Value)
		}
		//
		for _, a := range c.Assignments {
			p.writes(c, a.Target)
		}
	case *Assert:
		p.reads(c.Cond)
	case *Assume:
		p.reads(c.Cond)
	case *LoopInvariant:
		p.reads(c.Cond)
	case *If:
		for i, cond := range c.Conditions {
			p.reads(cond)
			p.block(c.Branches[i], true)
		}
		//
		p.block(c.Else, true)
	case *ForRange:
		p.reads(c.Lo)
		p.reads(c.Hi)
		p.enter()
		p.declare(c, c.Iter, I32, false)
		p.reads(c.Invariant)
		p.block(c.Body, true)
		p.leave()
	case *While:
		p.reads(c.Cond)
		p.reads(c.Invariant)
		//
		if c.Variant != nil {
			p.reads(c.Variant)
		}
		//
		p.block(c.Body, true)
	case *Noop:
		return
	default:
		panic("unreachable")
	}
}

// writes checks a location can be written.  Element writes require the base
// variable to be mutable, or to be a mutable reference.
func (p *validator) writes(node any, target Variable) {
	if _, ok := target.(*Empty); ok {
		return
	}
	//
	p.reads(target)
	//
	if strings.ContainsRune(target.Base(), '\'') {
		p.error(node, "cannot assign to %s", target.Base())
	} else if e, ok := p.lookup(target.Base()); ok && !e.mutable {
		if r, ok := e.t.(*ReferenceType); !ok || !r.Mutable {
			p.error(node, "cannot assign to immutable variable %s", target.Base())
		}
	}
}
