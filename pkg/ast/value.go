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

// Value represents anything which can appear on the right-hand side of an
// assignment.  This includes integer expressions, logical formulas, locations,
// compound literals and function calls.
type Value interface {
	fmt.Stringer
	isValue()
}

// ExprValue is an integer expression used as a value.
type ExprValue struct {
	Expr Expr
}

// FormulaValue is a logical formula used as a value.
type FormulaValue struct {
	Formula Bool
}

// VarValue reads from a location.
type VarValue struct {
	Var Variable
}

// TupleValue is a tuple literal.
type TupleValue struct {
	Elements []Value
}

// ArrayValue is an array literal.
type ArrayValue struct {
	Elements []Value
}

// CallValue is a call to a named function.
type CallValue struct {
	Name string
	Args []Value
}

// RefValue takes a (mutable) reference to a value.  References are
// transparent.
type RefValue struct {
	Inner   Value
	Mutable bool
}

// DerefValue dereferences a value.  Since references are transparent, this is
// equivalent to the value itself.
type DerefValue struct {
	Inner Value
}

// UnitValue is the only value of unit type.
type UnitValue struct{}

// TernaryValue selects between two values based on a condition.  This arises
// when the symbolic states of two branches of a conditional are merged.
type TernaryValue struct {
	Cond Bool
	Then Value
	Else Value
}

// SelectValue reads one element of a compound value whose symbolic state is
// not a plain variable (e.g. after a write or a merge).  These arise only
// through substitution into ArrayElem and TupleElem locations.
type SelectValue struct {
	Base  Value
	Index Value
	// Identifies a tuple (rather than array) selection.
	Tuple bool
}

// StoreValue is a compound value updated at one position.  These arise when
// the symbolic state of a compound variable is updated by an element-wise
// assignment.
type StoreValue struct {
	Base    Value
	Index   Value
	Element Value
	// Identifies a tuple (rather than array) update.
	Tuple bool
}

func (*ExprValue) isValue()    {}
func (*FormulaValue) isValue() {}
func (*VarValue) isValue()     {}
func (*TupleValue) isValue()   {}
func (*ArrayValue) isValue()   {}
func (*CallValue) isValue()    {}
func (*RefValue) isValue()     {}
func (*DerefValue) isValue()   {}
func (*UnitValue) isValue()    {}
func (*TernaryValue) isValue() {}
func (*SelectValue) isValue()  {}
func (*StoreValue) isValue()   {}

func (p *ExprValue) String() string    { return p.Expr.String() }
func (p *FormulaValue) String() string { return p.Formula.String() }
func (p *VarValue) String() string     { return p.Var.String() }
func (p *UnitValue) String() string    { return "()" }

func (p *TupleValue) String() string {
	if len(p.Elements) == 1 {
		return "(" + p.Elements[0].String() + ",)"
	}
	//
	return "(" + joinValues(p.Elements) + ")"
}

func (p *ArrayValue) String() string {
	return "[" + joinValues(p.Elements) + "]"
}

func (p *CallValue) String() string {
	return p.Name + "(" + joinValues(p.Args) + ")"
}

func (p *RefValue) String() string {
	if p.Mutable {
		return "&mut " + braceValue(p.Inner)
	}
	//
	return "&" + braceValue(p.Inner)
}

func (p *DerefValue) String() string {
	return "*" + braceValue(p.Inner)
}

func (p *TernaryValue) String() string {
	return fmt.Sprintf("if %s { %s } else { %s }", p.Cond.String(), p.Then.String(), p.Else.String())
}

func (p *SelectValue) String() string {
	if p.Tuple {
		return fmt.Sprintf("%s.%s", braceValue(p.Base), braceValue(p.Index))
	}
	//
	return fmt.Sprintf("%s[%s]", braceValue(p.Base), p.Index.String())
}

func (p *StoreValue) String() string {
	if p.Tuple {
		return fmt.Sprintf("%s{.%s := %s}", braceValue(p.Base), p.Index.String(), p.Element.String())
	}
	//
	return fmt.Sprintf("%s{[%s] := %s}", braceValue(p.Base), p.Index.String(), p.Element.String())
}

func joinValues(values []Value) string {
	var builder strings.Builder
	//
	for i, v := range values {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(v.String())
	}
	//
	return builder.String()
}

func braceValue(v Value) string {
	switch v := v.(type) {
	case *VarValue, *UnitValue, *TupleValue, *ArrayValue, *CallValue, *SelectValue, *StoreValue:
		return v.String()
	case *ExprValue:
		if _, ok := v.Expr.(*Op); !ok {
			return v.String()
		}
	}
	//
	return "(" + v.String() + ")"
}

// UNIT_VALUE is the unit value.
var UNIT_VALUE Value = &UnitValue{}

// NewVar constructs a value which reads a named variable.
func NewVar(name string) *VarValue {
	return &VarValue{&Named{name}}
}

// NewInt constructs a value from an integer literal.
func NewInt(n int32) Value {
	return &ExprValue{&Number{n}}
}

// NewExprValue wraps an integer expression as a value, unwrapping expressions
// which are themselves wrapped values.
func NewExprValue(e Expr) Value {
	if v, ok := e.(*ValueExpr); ok {
		return v.Value
	}
	//
	return &ExprValue{e}
}

// NewFormulaValue wraps a formula as a value, unwrapping formulas which are
// themselves lifted values.
func NewFormulaValue(b Bool) Value {
	if v, ok := b.(*BoolValue); ok {
		return v.Value
	}
	//
	return &FormulaValue{b}
}

// NewTuple constructs a tuple literal.
func NewTuple(elements ...Value) *TupleValue {
	return &TupleValue{elements}
}

// NewArray constructs an array literal.
func NewArray(elements ...Value) *ArrayValue {
	return &ArrayValue{elements}
}

// NewCall constructs a function call.
func NewCall(name string, args ...Value) *CallValue {
	return &CallValue{name, args}
}

// NewTernary constructs a conditional value.  Conditions which are
// syntactically constant, or branches which are identical, are simplified
// away.
func NewTernary(cond Bool, then Value, otherwise Value) Value {
	switch {
	case IsTrue(cond):
		return then
	case IsFalse(cond):
		return otherwise
	case then == otherwise || then.String() == otherwise.String():
		return then
	}
	//
	return &TernaryValue{cond, then, otherwise}
}

// StripReferences removes any reference or dereference wrappers from a value,
// since these are transparent.
func StripReferences(v Value) Value {
	for {
		switch w := v.(type) {
		case *RefValue:
			v = w.Inner
		case *DerefValue:
			v = w.Inner
		default:
			return v
		}
	}
}

// ConstantIndex attempts to evaluate a value as a (non-negative) integer
// constant, as required for tuple indices.
func ConstantIndex(v Value) (int, bool) {
	switch v := StripReferences(v).(type) {
	case *ExprValue:
		if n, ok := v.Expr.(*Number); ok && n.Value >= 0 {
			return int(n.Value), true
		}
	}
	//
	return 0, false
}
