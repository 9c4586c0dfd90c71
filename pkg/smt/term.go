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
package smt

import (
	"fmt"

	"github.com/consensys/go-hoare/pkg/util/source/sexp"
)

// Sort represents the sort of a solver term.  Only integers, booleans and
// (integer indexed) arrays are used.
type Sort interface {
	fmt.Stringer
	// Lisp returns the SMT-LIB representation of this sort.
	Lisp() sexp.SExp
	// Tag returns a short name for this sort which can be embedded within
	// identifiers.
	Tag() string
}

var (
	// INT is the sort of mathematical integers.
	INT Sort = &IntSort{}
	// BOOL is the sort of logical values.
	BOOL Sort = &BoolSort{}
)

// IntSort is the sort of mathematical integers.
type IntSort struct{}

// BoolSort is the sort of logical values.
type BoolSort struct{}

// ArraySort is the sort of total maps from integers to elements of some sort.
type ArraySort struct {
	Element Sort
}

// Lisp implementation for the Sort interface.
func (*IntSort) Lisp() sexp.SExp { return sexp.NewSymbol("Int") }

// Lisp implementation for the Sort interface.
func (*BoolSort) Lisp() sexp.SExp { return sexp.NewSymbol("Bool") }

// Lisp implementation for the Sort interface.
func (p *ArraySort) Lisp() sexp.SExp { return sexp.NewApp("Array", INT.Lisp(), p.Element.Lisp()) }

// Tag implementation for the Sort interface.
func (*IntSort) Tag() string { return "Int" }

// Tag implementation for the Sort interface.
func (*BoolSort) Tag() string { return "Bool" }

// Tag implementation for the Sort interface.
func (p *ArraySort) Tag() string { return "Array_" + p.Element.Tag() }

func (p *IntSort) String() string   { return p.Lisp().String(false) }
func (p *BoolSort) String() string  { return p.Lisp().String(false) }
func (p *ArraySort) String() string { return p.Lisp().String(false) }

// SortEquals determines whether two sorts are identical.
func SortEquals(lhs Sort, rhs Sort) bool {
	return lhs.String() == rhs.String()
}

// Term represents a solver term (of any sort).
type Term interface {
	// Lisp returns the SMT-LIB representation of this term.
	Lisp() sexp.SExp
}

// Const is a reference to a named constant (or bound variable).
type Const struct {
	Name string
}

// Int is an integer literal.
type Int struct {
	Value int64
}

// Lit is a boolean literal.
type Lit struct {
	Value bool
}

// App applies a function (either builtin or declared) to zero or more
// arguments.
type App struct {
	Fn   string
	Args []Term
}

// Quant is a quantified formula binding a single variable.
type Quant struct {
	Universal bool
	Var       string
	Sort      Sort
	Body      Term
}

// ConstArray is an array mapping every index to the same value.
type ConstArray struct {
	Sort  *ArraySort
	Value Term
}

// Lisp implementation for the Term interface.
func (p *Const) Lisp() sexp.SExp { return sexp.NewSymbol(p.Name) }

// Lisp implementation for the Term interface.  Negative literals are written
// as (- n), since SMT-LIB has no negative numerals.
func (p *Int) Lisp() sexp.SExp {
	if p.Value < 0 {
		return sexp.NewApp("-", sexp.NewSymbol(fmt.Sprintf("%d", -p.Value)))
	}
	//
	return sexp.NewSymbol(fmt.Sprintf("%d", p.Value))
}

// Lisp implementation for the Term interface.
func (p *Lit) Lisp() sexp.SExp {
	if p.Value {
		return sexp.NewSymbol("true")
	}
	//
	return sexp.NewSymbol("false")
}

// Lisp implementation for the Term interface.  Functions without arguments are
// written as plain symbols.
func (p *App) Lisp() sexp.SExp {
	if len(p.Args) == 0 {
		return sexp.NewSymbol(p.Fn)
	}
	//
	args := make([]sexp.SExp, len(p.Args))
	//
	for i, arg := range p.Args {
		args[i] = arg.Lisp()
	}
	//
	return sexp.NewApp(p.Fn, args...)
}

// Lisp implementation for the Term interface.
func (p *Quant) Lisp() sexp.SExp {
	var (
		kind    = "exists"
		binding = sexp.NewList([]sexp.SExp{sexp.NewSymbol(p.Var), p.Sort.Lisp()})
	)
	//
	if p.Universal {
		kind = "forall"
	}
	//
	return sexp.NewApp(kind, sexp.NewList([]sexp.SExp{binding}), p.Body.Lisp())
}

// Lisp implementation for the Term interface.
func (p *ConstArray) Lisp() sexp.SExp {
	as := sexp.NewApp("as", sexp.NewSymbol("const"), p.Sort.Lisp())
	//
	return sexp.NewList([]sexp.SExp{as, p.Value.Lisp()})
}

// String returns the SMT-LIB text of a given term.
func String(t Term) string {
	return t.Lisp().String(true)
}

var (
	// TRUE is the boolean literal true.
	TRUE Term = &Lit{true}
	// FALSE is the boolean literal false.
	FALSE Term = &Lit{false}
)

// NewConst constructs a reference to a named constant.
func NewConst(name string) *Const { return &Const{name} }

// NewInt constructs an integer literal.
func NewInt(n int64) *Int { return &Int{n} }

// NewApp applies a function to zero or more arguments.
func NewApp(fn string, args ...Term) *App { return &App{fn, args} }

// And constructs the conjunction of zero or more terms.  Literal truths are
// dropped.
func And(terms ...Term) Term {
	return nary("and", TRUE, terms)
}

// Or constructs the disjunction of zero or more terms.  Literal falsehoods are
// dropped.
func Or(terms ...Term) Term {
	return nary("or", FALSE, terms)
}

func nary(fn string, unit Term, terms []Term) Term {
	var args []Term
	//
	for _, t := range terms {
		if t != unit {
			args = append(args, t)
		}
	}
	//
	switch len(args) {
	case 0:
		return unit
	case 1:
		return args[0]
	default:
		return &App{fn, args}
	}
}

// Not constructs the negation of a term.
func Not(t Term) Term {
	switch {
	case t == TRUE:
		return FALSE
	case t == FALSE:
		return TRUE
	}
	//
	return &App{"not", []Term{t}}
}

// Implies constructs the implication lhs => rhs.
func Implies(lhs Term, rhs Term) Term {
	if lhs == TRUE {
		return rhs
	}
	//
	return &App{"=>", []Term{lhs, rhs}}
}

// Eq constructs the equality of two terms of the same sort.
func Eq(lhs Term, rhs Term) Term { return &App{"=", []Term{lhs, rhs}} }

// Ite constructs a conditional term.
func Ite(cond Term, then Term, otherwise Term) Term {
	return &App{"ite", []Term{cond, then, otherwise}}
}

// Select constructs a read of an array at a given index.
func Select(array Term, index Term) Term {
	return &App{"select", []Term{array, index}}
}

// Store constructs an array updated at a given index.
func Store(array Term, index Term, value Term) Term {
	return &App{"store", []Term{array, index, value}}
}

// ForAll constructs a universally quantified term.
func ForAll(name string, sort Sort, body Term) Term {
	return &Quant{true, name, sort, body}
}

// Exists constructs an existentially quantified term.
func Exists(name string, sort Sort, body Term) Term {
	return &Quant{false, name, sort, body}
}
