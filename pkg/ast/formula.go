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
)

// Bool represents a logical formula.  Formulas may contain quantifiers, hence
// they are not necessarily executable.  However, they can be used as values
// in which case they are expected to be quantifier free.
type Bool interface {
	fmt.Stringer
	isBool()
}

// Comparator identifies a binary comparison between integer expressions.
type Comparator uint8

const (
	// GEQ represents lhs >= rhs.
	GEQ Comparator = iota
	// LEQ represents lhs <= rhs.
	LEQ
	// GT represents lhs > rhs.
	GT
	// LT represents lhs < rhs.
	LT
)

func (p Comparator) String() string {
	switch p {
	case GEQ:
		return ">="
	case LEQ:
		return "<="
	case GT:
		return ">"
	case LT:
		return "<"
	default:
		panic("unreachable")
	}
}

// True is the formula which always holds.
type True struct{}

// False is the formula which never holds.
type False struct{}

// And is the conjunction of two formulas.
type And struct {
	Left  Bool
	Right Bool
}

// Or is the disjunction of two formulas.
type Or struct {
	Left  Bool
	Right Bool
}

// Not is the negation of a formula.
type Not struct {
	Inner Bool
}

// BoolValue lifts a boolean-typed value into a formula.
type BoolValue struct {
	Value Value
}

// Equal asserts that two expressions are equal.  When both sides are lifted
// boolean values, this is logical equivalence.
type Equal struct {
	Left  Expr
	Right Expr
}

// Compare is an ordering comparison between two integer expressions.
type Compare struct {
	Left       Expr
	Comparator Comparator
	Right      Expr
}

// ForAll is a universally quantified formula.
type ForAll struct {
	Var  string
	Type Type
	Body Bool
}

// Exists is an existentially quantified formula.
type Exists struct {
	Var  string
	Type Type
	Body Bool
}

func (*True) isBool()      {}
func (*False) isBool()     {}
func (*And) isBool()       {}
func (*Or) isBool()        {}
func (*Not) isBool()       {}
func (*BoolValue) isBool() {}
func (*Equal) isBool()     {}
func (*Compare) isBool()   {}
func (*ForAll) isBool()    {}
func (*Exists) isBool()    {}

func (*True) String() string  { return "true" }
func (*False) String() string { return "false" }

func (p *And) String() string {
	return fmt.Sprintf("%s && %s", braceBool(p.Left), braceBool(p.Right))
}

func (p *Or) String() string {
	return fmt.Sprintf("%s || %s", braceBool(p.Left), braceBool(p.Right))
}

func (p *Not) String() string {
	return "!" + braceBool(p.Inner)
}

func (p *BoolValue) String() string {
	return p.Value.String()
}

func (p *Equal) String() string {
	return fmt.Sprintf("%s == %s", braceExpr(p.Left), braceExpr(p.Right))
}

func (p *Compare) String() string {
	return fmt.Sprintf("%s %s %s", braceExpr(p.Left), p.Comparator.String(), braceExpr(p.Right))
}

func (p *ForAll) String() string {
	return fmt.Sprintf("forall %s: %s. %s", p.Var, p.Type.String(), p.Body.String())
}

func (p *Exists) String() string {
	return fmt.Sprintf("exists %s: %s. %s", p.Var, p.Type.String(), p.Body.String())
}

func braceBool(b Bool) string {
	switch b.(type) {
	case *True, *False, *BoolValue, *Not:
		return b.String()
	default:
		return "(" + b.String() + ")"
	}
}

var (
	// TRUE is the formula which always holds.
	TRUE Bool = &True{}
	// FALSE is the formula which never holds.
	FALSE Bool = &False{}
)

// NewAnd constructs the conjunction of zero or more formulas.  Logical truths
// are dropped, and the empty conjunction is true.
func NewAnd(terms ...Bool) Bool {
	var result Bool
	//
	for _, t := range terms {
		switch {
		case IsTrue(t):
			continue
		case result == nil:
			result = t
		default:
			result = &And{result, t}
		}
	}
	//
	if result == nil {
		return TRUE
	}
	//
	return result
}

// NewOr constructs the disjunction of zero or more formulas.  Logical falsehoods
// are dropped, and the empty disjunction is false.
func NewOr(terms ...Bool) Bool {
	var result Bool
	//
	for _, t := range terms {
		switch {
		case IsFalse(t):
			continue
		case result == nil:
			result = t
		default:
			result = &Or{result, t}
		}
	}
	//
	if result == nil {
		return FALSE
	}
	//
	return result
}

// NewNot constructs the negation of a formula, removing double negation.
func NewNot(b Bool) Bool {
	switch b := b.(type) {
	case *True:
		return FALSE
	case *False:
		return TRUE
	case *Not:
		return b.Inner
	default:
		return &Not{b}
	}
}

// Implies constructs the formula lhs ==> rhs, encoded as !lhs || rhs.
func Implies(lhs Bool, rhs Bool) Bool {
	if IsTrue(lhs) {
		return rhs
	}
	//
	return NewOr(NewNot(lhs), rhs)
}

// NewEqual constructs the formula lhs == rhs.
func NewEqual(lhs Expr, rhs Expr) *Equal {
	return &Equal{lhs, rhs}
}

// NotEqual constructs the formula lhs != rhs.
func NotEqual(lhs Expr, rhs Expr) Bool {
	return &Not{&Equal{lhs, rhs}}
}

// NewCompare constructs an ordering comparison.
func NewCompare(lhs Expr, cmp Comparator, rhs Expr) *Compare {
	return &Compare{lhs, cmp, rhs}
}

// NewForAll constructs a universally quantified formula.
func NewForAll(name string, t Type, body Bool) *ForAll {
	return &ForAll{name, t, body}
}

// NewExists constructs an existentially quantified formula.
func NewExists(name string, t Type, body Bool) *Exists {
	return &Exists{name, t, body}
}

// AsBool converts a value into a formula, unwrapping values which are
// themselves wrapped formulas.
func AsBool(v Value) Bool {
	if b, ok := v.(*FormulaValue); ok {
		return b.Formula
	}
	//
	return &BoolValue{v}
}

// IsTrue checks whether a formula is syntactically true.
func IsTrue(b Bool) bool {
	_, ok := b.(*True)
	return ok
}

// IsFalse checks whether a formula is syntactically false.
func IsFalse(b Bool) bool {
	_, ok := b.(*False)
	return ok
}
