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
	"fmt"
	"strings"
)

// Command represents a statement within the body of a function.
type Command interface {
	fmt.Stringer
	isCommand()
}

// Declaration introduces a new variable of a given type, without giving it a
// value.  Declarations also describe function inputs and the targets of tuple
// bindings.
type Declaration struct {
	Name    string
	Type    Type
	Mutable bool
}

// Binding introduces a new variable with an initial value.
type Binding struct {
	Name    string
	Type    Type
	Mutable bool
	Value   Value
}

// TupleBinding introduces several variables at once by destructuring a tuple
// value.  Targets named "_" discard the corresponding element.
type TupleBinding struct {
	Targets []*Declaration
	Value   Value
}

// Assignment rebinds an existing location.
type Assignment struct {
	Target Variable
	Value  Value
}

// TupleAssignment rebinds several existing locations simultaneously, meaning
// every right-hand side is evaluated before any location is written.
type TupleAssignment struct {
	Assignments []*Assignment
}

// Assert states a formula which must hold at this point.
type Assert struct {
	Cond Bool
}

// Assume states a formula which is taken to hold at this point.
type Assume struct {
	Cond Bool
}

// LoopInvariant states a formula which must hold at this point.  When
// attached to a loop, it must also be preserved by every iteration.
type LoopInvariant struct {
	Cond Bool
}

// If is an n-way conditional.  Conditions are tried in order, and the
// branch of the first one which holds is executed.  Otherwise, the else branch
// is executed.
type If struct {
	Conditions []Bool
	Branches   [][]Command
	Else       []Command
}

// ForRange iterates a variable over the half-open interval [Lo, Hi).
type ForRange struct {
	Iter      string
	Lo        Value
	Hi        Value
	Body      []Command
	Invariant Bool
}

// While repeatedly executes its body whilst a condition holds.  The variant,
// when given, must be non-negative and strictly decrease on every iteration.
type While struct {
	Cond      Bool
	Body      []Command
	Invariant Bool
	Variant   Expr
}

// Noop does nothing.
type Noop struct{}

func (*Declaration) isCommand()     {}
func (*Binding) isCommand()         {}
func (*TupleBinding) isCommand()    {}
func (*Assignment) isCommand()      {}
func (*TupleAssignment) isCommand() {}
func (*Assert) isCommand()          {}
func (*Assume) isCommand()          {}
func (*LoopInvariant) isCommand()   {}
func (*If) isCommand()              {}
func (*ForRange) isCommand()        {}
func (*While) isCommand()           {}
func (*Noop) isCommand()            {}

func (p *Declaration) String() string {
	return "let " + p.pattern()
}

func (p *Declaration) pattern() string {
	var mut string
	//
	if p.Mutable {
		mut = "mut "
	}
	//
	if p.Name == "_" {
		return "_"
	} else if _, ok := p.Type.(*UnknownType); ok || p.Type == nil {
		return mut + p.Name
	}
	//
	return fmt.Sprintf("%s%s: %s", mut, p.Name, p.Type.String())
}

func (p *Binding) String() string {
	decl := Declaration{p.Name, p.Type, p.Mutable}
	//
	return fmt.Sprintf("let %s = %s", decl.pattern(), p.Value.String())
}

func (p *TupleBinding) String() string {
	var patterns = make([]string, len(p.Targets))
	//
	for i, t := range p.Targets {
		patterns[i] = t.pattern()
	}
	//
	return fmt.Sprintf("let (%s) = %s", strings.Join(patterns, ", "), p.Value.String())
}

func (p *Assignment) String() string {
	return fmt.Sprintf("%s = %s", p.Target.String(), p.Value.String())
}

func (p *TupleAssignment) String() string {
	var (
		lhs = make([]string, len(p.Assignments))
		rhs = make([]string, len(p.Assignments))
	)
	//
	for i, a := range p.Assignments {
		lhs[i] = a.Target.String()
		rhs[i] = a.Value.String()
	}
	//
	return fmt.Sprintf("(%s) = (%s)", strings.Join(lhs, ", "), strings.Join(rhs, ", "))
}

func (p *Assert) String() string        { return fmt.Sprintf("assert(%s)", p.Cond.String()) }
func (p *Assume) String() string        { return fmt.Sprintf("assume(%s)", p.Cond.String()) }
func (p *LoopInvariant) String() string { return fmt.Sprintf("invariant(%s)", p.Cond.String()) }
func (p *Noop) String() string          { return "noop" }

// String returns only the header of the conditional, since this is used to
// identify commands in diagnostics.
func (p *If) String() string {
	var builder strings.Builder
	//
	for i, c := range p.Conditions {
		if i != 0 {
			builder.WriteString(" else ")
		}
		//
		builder.WriteString(fmt.Sprintf("if %s { .. }", c.String()))
	}
	//
	if len(p.Else) > 0 {
		builder.WriteString(" else { .. }")
	}
	//
	return builder.String()
}

// String returns only the header of the loop.
func (p *ForRange) String() string {
	return fmt.Sprintf("for %s in %s..%s { .. }", p.Iter, p.Lo.String(), p.Hi.String())
}

// String returns only the header of the loop.
func (p *While) String() string {
	return fmt.Sprintf("while %s { .. }", p.Cond.String())
}

// NewDeclaration constructs a declaration.
func NewDeclaration(name string, t Type, mutable bool) *Declaration {
	return &Declaration{name, t, mutable}
}

// NewBinding constructs a binding.
func NewBinding(name string, t Type, mutable bool, value Value) *Binding {
	return &Binding{name, t, mutable, value}
}

// NewAssignment constructs an assignment to a named variable.
func NewAssignment(name string, value Value) *Assignment {
	return &Assignment{&Named{name}, value}
}

// PrintBlock writes a block of commands, with nested blocks indented, to a
// builder.  This is used for displaying complete function bodies.
func PrintBlock(builder *strings.Builder, block []Command, indent int) {
	for _, c := range block {
		printCommand(builder, c, indent)
	}
}

func printCommand(builder *strings.Builder, c Command, indent int) {
	var tab = strings.Repeat("   ", indent)
	//
	switch c := c.(type) {
	case *If:
		for i, cond := range c.Conditions {
			if i == 0 {
				builder.WriteString(fmt.Sprintf("%sif %s {\n", tab, cond.String()))
			} else {
				builder.WriteString(fmt.Sprintf("%s} else if %s {\n", tab, cond.String()))
			}
			//
			PrintBlock(builder, c.Branches[i], indent+1)
		}
		//
		if len(c.Else) > 0 {
			builder.WriteString(tab + "} else {\n")
			PrintBlock(builder, c.Else, indent+1)
		}
		//
		builder.WriteString(tab + "}\n")
	case *ForRange:
		builder.WriteString(fmt.Sprintf("%sfor %s in %s..%s {\n", tab, c.Iter, c.Lo.String(), c.Hi.String()))
		builder.WriteString(fmt.Sprintf("%s   //%%invariant %s\n", tab, c.Invariant.String()))
		PrintBlock(builder, c.Body, indent+1)
		builder.WriteString(tab + "}\n")
	case *While:
		builder.WriteString(fmt.Sprintf("%swhile %s {\n", tab, c.Cond.String()))
		builder.WriteString(fmt.Sprintf("%s   //%%invariant %s\n", tab, c.Invariant.String()))
		//
		if c.Variant != nil {
			builder.WriteString(fmt.Sprintf("%s   //%%variant %s\n", tab, c.Variant.String()))
		}
		//
		PrintBlock(builder, c.Body, indent+1)
		builder.WriteString(tab + "}\n")
	default:
		builder.WriteString(tab + c.String() + "\n")
	}
}
