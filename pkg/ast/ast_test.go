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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elem(name string, index Value) Expr {
	return &ValueExpr{&VarValue{NewArrayElem(name, index)}}
}

// ============================================================================
// Free & affected variables
// ============================================================================

func Test_FreeVars_01(t *testing.T) {
	// forall y: i32. x[y] == y + z
	body := NewEqual(elem("x", NewVar("y")), Add(IntVar("y"), IntVar("z")))
	//
	vars := FreeVars(NewForAll("y", I32, body))
	assert.Equal(t, []string{"x", "z"}, vars.Slice())
}

func Test_FreeVars_02(t *testing.T) {
	// t.1 + f(a, b[c])
	call := NewCall("f", NewVar("a"), &VarValue{NewArrayElem("b", NewVar("c"))})
	e := Add(&ValueExpr{&VarValue{NewTupleElem("t", 1)}}, &ValueExpr{call})
	//
	assert.Equal(t, []string{"a", "b", "c", "t"}, FreeVars(e).Slice())
}

func Test_FreeVars_03(t *testing.T) {
	// Nested quantifiers binding the same name
	inner := NewExists("x", I32, NewCompare(IntVar("x"), GT, IntVar("y")))
	outer := NewForAll("y", I32, NewAnd(inner, NewCompare(IntVar("x"), LT, IntVar("y"))))
	//
	assert.Equal(t, []string{"x"}, FreeVars(outer).Slice())
}

func Test_Affected_01(t *testing.T) {
	block := []Command{
		NewBinding("t", I32, false, NewInt(0)),
		&If{
			Conditions: []Bool{NewCompare(IntVar("t"), GT, NewNumber(0))},
			Branches:   [][]Command{{&Assignment{NewArrayElem("a", NewVar("i")), NewInt(1)}}},
			Else:       []Command{NewAssignment("b", NewInt(2))},
		},
		&While{TRUE, []Command{NewAssignment("c", NewVar("d"))}, TRUE, nil},
		&Assert{NewCompare(IntVar("e"), GT, NewNumber(0))},
	}
	//
	assert.Equal(t, []string{"a", "b", "c", "t"}, Affected(block).Slice())
}

func Test_Affected_02(t *testing.T) {
	loop := &ForRange{"i", NewInt(0), NewVar("n"), []Command{
		&TupleAssignment{[]*Assignment{NewAssignment("x", NewVar("y")), NewAssignment("y", NewVar("x"))}},
	}, TRUE}
	//
	assert.Equal(t, []string{"i", "x", "y"}, Affected(loop).Slice())
}

// ============================================================================
// Substitution
// ============================================================================

func Test_Swap_01(t *testing.T) {
	// x + 1 == y
	f := NewEqual(Add(IntVar("x"), NewNumber(1)), IntVar("y"))
	//
	assert.Equal(t, "(3 + 1) == y", Swap(f, "x", NewInt(3)).String())
	// original unchanged
	assert.Equal(t, "(x + 1) == y", f.String())
}

func Test_Swap_02(t *testing.T) {
	// Bound variables are untouched
	f := NewForAll("x", I32, NewCompare(IntVar("x"), GT, NewNumber(0)))
	//
	assert.Equal(t, "forall x: i32. x > 0", Swap(f, "x", NewInt(5)).String())
}

func Test_Swap_03(t *testing.T) {
	// Capture avoiding
	f := NewForAll("y", I32, NewCompare(IntVar("y"), GT, IntVar("x")))
	//
	assert.Equal(t, "forall y'1: i32. y'1 > y", Swap(f, "x", NewVar("y")).String())
}

func Test_Swap_04(t *testing.T) {
	// Capture avoiding, where first candidate name is taken
	f := NewForAll("y", I32, NewCompare(IntVar("y"), GT, Add(IntVar("x"), IntVar("y'1"))))
	//
	assert.Equal(t, "forall y'2: i32. y'2 > (y + y'1)", Swap(f, "x", NewVar("y")).String())
}

func Test_Swap_05(t *testing.T) {
	// Simultaneous substitution
	f := NewCompare(IntVar("x"), LT, IntVar("y"))
	g := SubstituteBool(f, map[string]Value{"x": NewVar("y"), "y": NewVar("x")})
	//
	assert.Equal(t, "y < x", g.String())
}

func Test_Swap_06(t *testing.T) {
	// Lifted boolean values are unwrapped
	f := NewAnd(AsBool(NewVar("b")), TRUE)
	g := Swap(f, "b", NewFormulaValue(NewCompare(IntVar("x"), GEQ, NewNumber(0))))
	//
	assert.Equal(t, "x >= 0", g.String())
}

func Test_Select_01(t *testing.T) {
	v := &VarValue{NewArrayElem("a", NewInt(1))}
	//
	assert.Equal(t, "6", SwapValue(v, "a", NewArray(NewInt(5), NewInt(6))).String())
	assert.Equal(t, "a'1[1]", SwapValue(v, "a", NewVar("a'1")).String())
}

func Test_Select_02(t *testing.T) {
	store := &StoreValue{NewVar("a"), NewInt(0), NewInt(7), false}
	//
	assert.Equal(t, "7", Select(store, NewInt(0), false).String())
	assert.Equal(t, "a[1]", Select(store, NewInt(1), false).String())
	assert.Equal(t, "a{[0] := 7}[i]", Select(store, NewVar("i"), false).String())
}

func Test_Select_03(t *testing.T) {
	merged := NewTernary(AsBool(NewVar("c")), NewTuple(NewInt(1), NewInt(2)), NewVar("t"))
	//
	assert.Equal(t, "if c { 2 } else { t.1 }", Select(merged, NewInt(1), true).String())
}

// ============================================================================
// Types
// ============================================================================

func testScope() *MapScope {
	scope := NewMapScope(nil)
	scope.Vars["a"] = NewArrayType(I32, 4)
	scope.Vars["t"] = NewTupleType(I32, BOOL)
	scope.Vars["r"] = NewReferenceType(NewArrayType(BOOL, 2), true)
	//
	return scope
}

func Test_TypeOf_01(t *testing.T) {
	scope := testScope()
	//
	check := func(v Value, expected string) {
		typ, err := TypeOf(v, scope)
		require.NoError(t, err)
		assert.Equal(t, expected, typ.String())
	}
	//
	check(&VarValue{NewArrayElem("a", NewInt(0))}, "i32")
	check(&VarValue{NewTupleElem("t", 1)}, "bool")
	check(&VarValue{NewArrayElem("r", NewVar("i"))}, "bool")
	check(NewTuple(NewInt(1), NewFormulaValue(TRUE)), "(i32, bool)")
	check(NewArray(NewInt(1), NewInt(2)), "[i32; 2]")
	check(&RefValue{NewVar("a"), true}, "&mut [i32; 4]")
	check(&DerefValue{NewVar("r")}, "[bool; 2]")
}

func Test_TypeOf_02(t *testing.T) {
	scope := testScope()
	//
	for _, v := range []Value{
		&VarValue{NewTupleElem("t", 2)},
		&VarValue{NewArrayElem("t", NewInt(0))},
		&VarValue{NewTupleElem("a", 0)},
		&VarValue{&Empty{}},
		NewVar("z"),
		NewCall("f"),
	} {
		_, err := TypeOf(v, scope)
		assert.Error(t, err, v.String())
	}
}

func Test_TypeEquals_01(t *testing.T) {
	assert.True(t, TypeEquals(NewReferenceType(I32, false), I32))
	assert.True(t, TypeEquals(NewTupleType(I32, BOOL), NewTupleType(I32, BOOL)))
	assert.False(t, TypeEquals(NewTupleType(I32, BOOL), NewTupleType(BOOL, I32)))
	assert.False(t, TypeEquals(NewArrayType(I32, 2), NewArrayType(I32, 3)))
	assert.False(t, TypeEquals(I32, BOOL))
}

// ============================================================================
// Validation & inference
// ============================================================================

func function(name string, inputs []*Declaration, body ...Command) *Function {
	return &Function{name, inputs, UNIT, body, TRUE, TRUE, UNIT_VALUE}
}

func Test_Validate_01(t *testing.T) {
	f := function("f", []*Declaration{NewDeclaration("x", I32, true)},
		NewBinding(RETURN_VALUE, I32, false, NewInt(1)),
		NewAssignment("y", NewInt(2)),
	)
	errs := Validate(&Program{[]*Function{f}})
	//
	require.Len(t, errs, 2)
	assert.Equal(t, "f: reserved name return_value", errs[0].Error())
	assert.Equal(t, "f: unknown variable y", errs[1].Error())
}

func Test_Validate_02(t *testing.T) {
	f := function("g", []*Declaration{NewDeclaration("x", I32, false), NewDeclaration("x", I32, false)},
		NewAssignment("x", NewInt(1)),
		NewBinding("z'old", I32, false, NewInt(1)),
	)
	errs := Validate(&Program{[]*Function{f, function("g", nil)}})
	//
	require.Len(t, errs, 4)
	assert.Equal(t, "g: variable x shadows existing variable", errs[0].Error())
	assert.Equal(t, "g: cannot assign to immutable variable x", errs[1].Error())
	assert.Equal(t, "g: reserved name z'old", errs[2].Error())
	assert.Equal(t, "g: duplicate function g", errs[3].Error())
}

func Test_Validate_03(t *testing.T) {
	// Mutable references can be written through, and postconditions see
	// entry values and the return value.
	f := function("h", []*Declaration{NewDeclaration("a", NewReferenceType(NewArrayType(I32, 4), true), false)},
		&Assignment{NewArrayElem("a", NewInt(0)), NewInt(1)},
	)
	f.Output = I32
	f.ReturnValue = &VarValue{NewArrayElem("a", NewInt(0))}
	f.Postcondition = NewEqual(IntVar(RETURN_VALUE), elem("a'old", NewInt(0)))
	//
	assert.Empty(t, Validate(&Program{[]*Function{f}}))
}

func Test_Validate_04(t *testing.T) {
	// Branch bindings are not visible after the branch, and calls are checked.
	f := function("k", nil,
		&If{[]Bool{TRUE}, [][]Command{{NewBinding("t", I32, false, NewInt(0))}}, nil},
		&Assert{NewEqual(IntVar("t"), &ValueExpr{NewCall("k", NewInt(1))})},
		NewDeclaration("u", UNKNOWN, false),
	)
	errs := Validate(&Program{[]*Function{f}})
	//
	require.Len(t, errs, 3)
	assert.Equal(t, "k: unknown variable t", errs[0].Error())
	assert.Equal(t, "k: function k expects 0 arguments, found 1", errs[1].Error())
	assert.Equal(t, "k: unknown type for u", errs[2].Error())
}

func Test_Validate_05(t *testing.T) {
	// Entry values are visible in the body and in loop invariants.
	loop := &While{NewCompare(IntVar("x"), GT, NewNumber(0)),
		[]Command{NewAssignment("x", NewExprValue(Sub(IntVar("x"), NewNumber(1))))},
		NewCompare(IntVar("x"), LEQ, IntVar("x'old")), IntVar("x")}
	f := function("dec", []*Declaration{NewDeclaration("x", I32, true)},
		&Assert{NewEqual(IntVar("x'old"), IntVar("x"))},
		loop,
	)
	//
	assert.Empty(t, Validate(&Program{[]*Function{f}}))
}

func Test_Validate_06(t *testing.T) {
	// Entry values are never written, and are not visible in the precondition.
	f := function("p", []*Declaration{NewDeclaration("x", NewReferenceType(I32, true), false)},
		NewAssignment("x'old", NewInt(1)),
	)
	f.Precondition = NewEqual(IntVar("x'old"), NewNumber(0))
	errs := Validate(&Program{[]*Function{f}})
	//
	require.Len(t, errs, 2)
	assert.Equal(t, "p: unknown variable x'old", errs[0].Error())
	assert.Equal(t, "p: cannot assign to x'old", errs[1].Error())
}

func Test_Infer_01(t *testing.T) {
	z := NewBinding("z", UNKNOWN, false, NewTuple(NewInt(1), NewFormulaValue(TRUE)))
	tb := &TupleBinding{[]*Declaration{NewDeclaration("a", UNKNOWN, false), NewDeclaration("_", UNKNOWN, false)}, NewVar("z")}
	f := function("f", nil, z, tb)
	//
	assert.Empty(t, Infer(&Program{[]*Function{f}}))
	assert.Equal(t, "(i32, bool)", z.Type.String())
	assert.Equal(t, "i32", tb.Targets[0].Type.String())
	assert.Empty(t, Validate(&Program{[]*Function{f}}))
}

func Test_Infer_02(t *testing.T) {
	tb := &TupleBinding{[]*Declaration{NewDeclaration("a", UNKNOWN, false)}, NewTuple(NewInt(1), NewInt(2))}
	f := function("f", nil, tb)
	errs := Infer(&Program{[]*Function{f}})
	//
	require.Len(t, errs, 1)
	assert.Equal(t, "f: expected 1-tuple, found (i32, i32)", errs[0].Error())
}

// ============================================================================
// Printing
// ============================================================================

func Test_String_01(t *testing.T) {
	assert.Equal(t, "let mut x: i32 = 1", NewBinding("x", I32, true, NewInt(1)).String())
	assert.Equal(t, "let (a: i32, _) = t", (&TupleBinding{[]*Declaration{
		NewDeclaration("a", I32, false), NewDeclaration("_", BOOL, false)}, NewVar("t")}).String())
	assert.Equal(t, "(a, b) = (b, a)", (&TupleAssignment{[]*Assignment{
		NewAssignment("a", NewVar("b")), NewAssignment("b", NewVar("a"))}}).String())
	assert.Equal(t, "a[i + 1] = 0", (&Assignment{NewArrayElem("a", NewExprValue(Add(IntVar("i"), NewNumber(1)))),
		NewInt(0)}).String())
	assert.Equal(t, "assert(!(x > 0) || (y == -1))", (&Assert{Implies(NewCompare(IntVar("x"), GT, NewNumber(0)),
		NewEqual(IntVar("y"), NewNumber(-1)))}).String())
	assert.Equal(t, "while rem >= y { .. }", (&While{NewCompare(IntVar("rem"), GEQ, IntVar("y")), nil, TRUE, nil}).String())
}
