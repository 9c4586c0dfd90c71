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

// Swap replaces every free occurrence of a named variable in a formula with a
// given value.  Variables bound by quantifiers are left untouched, and bound
// variables are renamed where necessary to avoid capturing variables of the
// value being substituted.
func Swap(b Bool, name string, value Value) Bool {
	return SubstituteBool(b, map[string]Value{name: value})
}

// SwapValue is the analogue of Swap for values.
func SwapValue(v Value, name string, value Value) Value {
	return SubstituteValue(v, map[string]Value{name: value})
}

// SubstituteBool simultaneously replaces every free occurrence of each named
// variable in a given mapping.  This is capture avoiding.
func SubstituteBool(b Bool, mapping map[string]Value) Bool {
	if len(mapping) == 0 {
		return b
	}
	//
	return substituter(mapping).bool(b)
}

// SubstituteValue is the analogue of SubstituteBool for values.
func SubstituteValue(v Value, mapping map[string]Value) Value {
	if len(mapping) == 0 {
		return v
	}
	//
	return substituter(mapping).value(v)
}

// SubstituteExpr is the analogue of SubstituteBool for integer expressions.
func SubstituteExpr(e Expr, mapping map[string]Value) Expr {
	if len(mapping) == 0 {
		return e
	}
	//
	return substituter(mapping).expr(e)
}

// SubstituteIndex substitutes into the index of an element location, but not
// its base.  This is used to evaluate the target of an assignment.
func SubstituteIndex(v Variable, mapping map[string]Value) Variable {
	var s = substituter(mapping)
	//
	switch v := v.(type) {
	case *ArrayElem:
		return &ArrayElem{v.Name, s.value(v.Index)}
	case *TupleElem:
		return &TupleElem{v.Name, s.value(v.Index)}
	default:
		return v
	}
}

type substituter map[string]Value

func (s substituter) value(v Value) Value {
	switch v := v.(type) {
	case *ExprValue:
		return NewExprValue(s.expr(v.Expr))
	case *FormulaValue:
		return NewFormulaValue(s.bool(v.Formula))
	case *VarValue:
		return s.variable(v)
	case *TupleValue:
		return &TupleValue{s.values(v.Elements)}
	case *ArrayValue:
		return &ArrayValue{s.values(v.Elements)}
	case *CallValue:
		return &CallValue{v.Name, s.values(v.Args)}
	case *RefValue:
		return &RefValue{s.value(v.Inner), v.Mutable}
	case *DerefValue:
		return &DerefValue{s.value(v.Inner)}
	case *UnitValue:
		return v
	case *TernaryValue:
		return NewTernary(s.bool(v.Cond), s.value(v.Then), s.value(v.Else))
	case *SelectValue:
		return Select(s.value(v.Base), s.value(v.Index), v.Tuple)
	case *StoreValue:
		return &StoreValue{s.value(v.Base), s.value(v.Index), s.value(v.Element), v.Tuple}
	default:
		panic("unreachable")
	}
}

func (s substituter) values(values []Value) []Value {
	var nvalues = make([]Value, len(values))
	//
	for i, v := range values {
		nvalues[i] = s.value(v)
	}
	//
	return nvalues
}

func (s substituter) variable(v *VarValue) Value {
	switch l := v.Var.(type) {
	case *Named:
		if nv, ok := s[l.Name]; ok {
			return nv
		}
		//
		return v
	case *Empty:
		return v
	case *ArrayElem:
		return s.element(l.Name, s.value(l.Index), false)
	case *TupleElem:
		return s.element(l.Name, s.value(l.Index), true)
	default:
		panic("unreachable")
	}
}

// element substitutes into an element location.  When the base is being
// replaced by another named variable, the result is again a location.
// Otherwise, it becomes a selection from the replacement value.
func (s substituter) element(base string, index Value, tuple bool) Value {
	nbase, ok := s[base]
	//
	if !ok {
		nbase = NewVar(base)
	}
	//
	return Select(nbase, index, tuple)
}

func (s substituter) expr(e Expr) Expr {
	switch e := e.(type) {
	case *Number:
		return e
	case *ValueExpr:
		return AsExpr(s.value(e.Value))
	case *Op:
		return &Op{s.expr(e.Left), e.Opcode, s.expr(e.Right)}
	default:
		panic("unreachable")
	}
}

func (s substituter) bool(b Bool) Bool {
	switch b := b.(type) {
	case *True, *False:
		return b
	case *And:
		return &And{s.bool(b.Left), s.bool(b.Right)}
	case *Or:
		return &Or{s.bool(b.Left), s.bool(b.Right)}
	case *Not:
		return &Not{s.bool(b.Inner)}
	case *BoolValue:
		return AsBool(s.value(b.Value))
	case *Equal:
		return &Equal{s.expr(b.Left), s.expr(b.Right)}
	case *Compare:
		return &Compare{s.expr(b.Left), b.Comparator, s.expr(b.Right)}
	case *ForAll:
		name, body := s.quantified(b.Var, b.Body)
		return &ForAll{name, b.Type, body}
	case *Exists:
		name, body := s.quantified(b.Var, b.Body)
		return &Exists{name, b.Type, body}
	default:
		panic("unreachable")
	}
}

// quantified substitutes into the body of a quantifier binding a given
// variable.  The bound variable itself is never replaced.  If a replacement
// value mentions the bound variable, then it is renamed first.
func (s substituter) quantified(bound string, body Bool) (string, Bool) {
	var (
		inner    = make(substituter)
		captured = false
		free     = FreeVars(body)
	)
	//
	for name, v := range s {
		if name != bound && free.Contains(name) {
			inner[name] = v
			captured = captured || FreeVars(v).Contains(bound)
		}
	}
	//
	if len(inner) == 0 {
		return bound, body
	} else if captured {
		// Rename the bound variable to something which is not free in the body,
		// and not free in any replacement value.
		nbound := inner.fresh(bound, body)
		inner[bound] = NewVar(nbound)
		//
		return nbound, inner.bool(body)
	}
	//
	return bound, inner.bool(body)
}

func (s substituter) fresh(name string, body Bool) string {
	var taken = FreeVars(body)
	//
	for _, v := range s {
		taken.InsertSorted(FreeVars(v))
	}
	//
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s'%d", name, i)
		if !taken.Contains(candidate) {
			return candidate
		}
	}
}

// Select constructs a read of one element of a compound value.  Reads from
// named variables give element locations, and reads at constant positions of
// literals, stores or merges are resolved where possible.
func Select(base Value, index Value, tuple bool) Value {
	switch b := StripReferences(base).(type) {
	case *VarValue:
		if n, ok := b.Var.(*Named); ok {
			if tuple {
				return &VarValue{&TupleElem{n.Name, index}}
			}
			//
			return &VarValue{&ArrayElem{n.Name, index}}
		}
	case *TupleValue:
		if i, ok := ConstantIndex(index); ok && i < len(b.Elements) {
			return b.Elements[i]
		}
	case *ArrayValue:
		if i, ok := ConstantIndex(index); ok && i < len(b.Elements) {
			return b.Elements[i]
		}
	case *StoreValue:
		// Resolve reads through stores at distinct constant positions, or at the
		// same position.
		if i, ok := ConstantIndex(index); ok {
			if j, ok := ConstantIndex(b.Index); ok {
				if i == j {
					return b.Element
				}
				//
				return Select(b.Base, index, tuple)
			}
		}
	case *TernaryValue:
		if tuple {
			return NewTernary(b.Cond, Select(b.Then, index, tuple), Select(b.Else, index, tuple))
		}
	}
	//
	return &SelectValue{base, index, tuple}
}
