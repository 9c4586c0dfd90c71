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

// Expr represents an integer-valued expression.  Arithmetic is mathematical
// (i.e. unbounded), hence there is no overflow.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Opcode identifies a binary arithmetic operation.
type Opcode uint8

const (
	// ADD represents addition.
	ADD Opcode = iota
	// SUB represents subtraction.
	SUB
	// MUL represents multiplication.
	MUL
	// DIV represents (euclidean) integer division.
	DIV
	// REM represents the remainder of (euclidean) integer division.
	REM
)

func (p Opcode) String() string {
	switch p {
	case ADD:
		return "+"
	case SUB:
		return "-"
	case MUL:
		return "*"
	case DIV:
		return "/"
	case REM:
		return "%"
	default:
		panic("unreachable")
	}
}

// Number is an integer literal.
type Number struct {
	Value int32
}

// ValueExpr treats a value as an integer.
type ValueExpr struct {
	Value Value
}

// Op is a binary arithmetic operation.
type Op struct {
	Left   Expr
	Opcode Opcode
	Right  Expr
}

func (*Number) isExpr()    {}
func (*ValueExpr) isExpr() {}
func (*Op) isExpr()        {}

func (p *Number) String() string {
	return fmt.Sprintf("%d", p.Value)
}

func (p *ValueExpr) String() string {
	return p.Value.String()
}

func (p *Op) String() string {
	return fmt.Sprintf("%s %s %s", braceExpr(p.Left), p.Opcode.String(), braceExpr(p.Right))
}

func braceExpr(e Expr) string {
	if _, ok := e.(*Op); ok {
		return "(" + e.String() + ")"
	}
	//
	return e.String()
}

// NewNumber constructs an integer literal.
func NewNumber(n int32) *Number {
	return &Number{n}
}

// NewOp constructs a binary arithmetic operation.
func NewOp(lhs Expr, opcode Opcode, rhs Expr) *Op {
	return &Op{lhs, opcode, rhs}
}

// Add constructs the expression lhs + rhs.
func Add(lhs Expr, rhs Expr) *Op { return &Op{lhs, ADD, rhs} }

// Sub constructs the expression lhs - rhs.
func Sub(lhs Expr, rhs Expr) *Op { return &Op{lhs, SUB, rhs} }

// Mul constructs the expression lhs * rhs.
func Mul(lhs Expr, rhs Expr) *Op { return &Op{lhs, MUL, rhs} }

// Div constructs the expression lhs / rhs.
func Div(lhs Expr, rhs Expr) *Op { return &Op{lhs, DIV, rhs} }

// Rem constructs the expression lhs % rhs.
func Rem(lhs Expr, rhs Expr) *Op { return &Op{lhs, REM, rhs} }

// AsExpr converts a value into an integer expression, unwrapping values which
// are themselves wrapped expressions.
func AsExpr(v Value) Expr {
	if e, ok := v.(*ExprValue); ok {
		return e.Expr
	}
	//
	return &ValueExpr{v}
}

// IntVar is a convenience for constructing an integer expression from a named
// variable.
func IntVar(name string) Expr {
	return &ValueExpr{NewVar(name)}
}
