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
	"path/filepath"
	"testing"

	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/parser"
	"github.com/consensys/go-hoare/pkg/smt"
	"github.com/consensys/go-hoare/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TESTDATA_DIR determines the (relative) location of the test programs.
const TESTDATA_DIR = "../../testdata"

func readProgram(t *testing.T, name string) *ast.Program {
	files, err := source.ReadFiles(filepath.Join(TESTDATA_DIR, name))
	require.NoError(t, err)
	//
	program, _, errs := parser.Parse(&files[0])
	require.Empty(t, errs)
	require.Empty(t, ast.Infer(program))
	require.Empty(t, ast.Validate(program))
	//
	return program
}

func parseProgram(t *testing.T, text string) *ast.Program {
	program, _, errs := parser.ParseString("test.lisp", text)
	require.Empty(t, errs)
	require.Empty(t, ast.Infer(program))
	//
	return program
}

func generate(t *testing.T, program *ast.Program, config Config) []*Obligation {
	obligations, errs := Generate(program, config)
	require.Empty(t, errs)
	//
	return obligations
}

func kinds(obligations []*Obligation) []Kind {
	var ks = make([]Kind, len(obligations))
	//
	for i, o := range obligations {
		ks[i] = o.Kind
	}
	//
	return ks
}

func formulaStrings(formulas []ast.Bool) []string {
	var strs = make([]string, len(formulas))
	//
	for i, f := range formulas {
		strs[i] = f.String()
	}
	//
	return strs
}

func Test_Remainder_01(t *testing.T) {
	obligations := generate(t, readProgram(t, "remainder.lisp"), DefaultConfig())
	//
	require.Equal(t, []Kind{INVARIANT_ENTRY, VARIANT_NONNEGATIVE, INVARIANT_PRESERVED, VARIANT_DECREASES,
		POSTCONDITION}, kinds(obligations))
	assert.Equal(t, "rem'1 >= 0", obligations[1].Goal.String())
	assert.Equal(t, "(rem'1 - y) < rem'1", obligations[3].Goal.String())
	assert.Len(t, obligations[3].Assumptions, 3)
	assert.Equal(t, "((quo'1 * y) + rem'1) == x", obligations[4].Goal.String())
	assert.Equal(t, "(x >= 0) && (y > 0)", obligations[4].Assumptions[0].String())
	assert.Equal(t, "!(rem'1 >= y)", obligations[4].Assumptions[2].String())
	//
	for i, o := range obligations {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, "remainder", o.Function)
	}
}

func Test_Remainder_02(t *testing.T) {
	// Without a variant, termination cannot be shown.
	obligations := generate(t, readProgram(t, "remainder_weak.lisp"), DefaultConfig())
	//
	require.Equal(t, []Kind{INVARIANT_ENTRY, VARIANT_MISSING, INVARIANT_PRESERVED, POSTCONDITION}, kinds(obligations))
	assert.True(t, ast.IsFalse(obligations[1].Goal))
	// Partial correctness ignores termination.
	obligations = generate(t, readProgram(t, "remainder_weak.lisp"), Config{PARTIAL, CONTRACTS})
	assert.Equal(t, []Kind{INVARIANT_ENTRY, INVARIANT_PRESERVED, POSTCONDITION}, kinds(obligations))
}

func Test_List_01(t *testing.T) {
	obligations := generate(t, readProgram(t, "list.lisp"), DefaultConfig())
	//
	assert.Equal(t, []Kind{SIDE_CONDITION, INVARIANT_ENTRY, SIDE_CONDITION, VARIANT_NONNEGATIVE, SIDE_CONDITION,
		SIDE_CONDITION, INVARIANT_PRESERVED, VARIANT_DECREASES, SIDE_CONDITION, POSTCONDITION}, kinds(obligations))
	// Array write
	assert.Equal(t, smt.ARRAY_INDEX, obligations[4].Check)
	assert.Equal(t, "(0 <= i'1) && (i'1 < 16)", obligations[4].Goal.String())
	assert.Equal(t, "x[i] = i", obligations[4].Text)
	// Both the array and the index are havocked
	_, ok := obligations[0].Scope.Variable("x'1")
	assert.True(t, ok)
	_, ok = obligations[0].Scope.Variable("i'1")
	assert.True(t, ok)
}

func Test_IfMerge_01(t *testing.T) {
	obligations := generate(t, readProgram(t, "if_merge.lisp"), DefaultConfig())
	//
	require.Len(t, obligations, 1)
	assert.Equal(t, POSTCONDITION, obligations[0].Kind)
	assert.Equal(t, "3 == 3", obligations[0].Goal.String())
	assert.Equal(t, []string{"x == 1"}, formulaStrings(obligations[0].Assumptions))
}

func Test_IfMerge_02(t *testing.T) {
	obligations := generate(t, readProgram(t, "if_merge_fail.lisp"), DefaultConfig())
	//
	require.Len(t, obligations, 1)
	assert.Equal(t, "1 == 3", obligations[0].Goal.String())
}

func Test_IfMerge_03(t *testing.T) {
	obligations := generate(t, readProgram(t, "count.lisp"), DefaultConfig())
	//
	require.Equal(t, []Kind{INVARIANT_ENTRY, INVARIANT_PRESERVED, POSTCONDITION, ASSERTION, POSTCONDITION},
		kinds(obligations))
	// Merge of a one-armed conditional
	assert.Equal(t, "if a < b { b } else { a } >= a", obligations[3].Goal.String())
	// For loops increment their iterator
	assert.Equal(t, "((c'1 + 1) == (i'1 + 1)) && ((i'1 + 1) <= n)", obligations[1].Goal.String())
	assert.Equal(t, "c'1 == n", obligations[2].Goal.String())
}

func Test_Old_01(t *testing.T) {
	obligations := generate(t, readProgram(t, "old_value.lisp"), DefaultConfig())
	//
	require.Len(t, obligations, 2)
	assert.Equal(t, "(x + 1) == 3", obligations[0].Goal.String())
	assert.Equal(t, "(x + 1) == 4", obligations[1].Goal.String())
	assert.Equal(t, []string{"x == 2"}, formulaStrings(obligations[1].Assumptions))
	assert.Equal(t, "old_fail", obligations[1].Function)
	assert.Equal(t, 1, obligations[1].Index)
}

func Test_Division_01(t *testing.T) {
	obligations := generate(t, readProgram(t, "division.lisp"), DefaultConfig())
	//
	require.Equal(t, []Kind{SIDE_CONDITION, SIDE_CONDITION, SIDE_CONDITION, POSTCONDITION, SIDE_CONDITION},
		kinds(obligations))
	// divide
	assert.Equal(t, smt.DIVISION_BY_ZERO, obligations[0].Check)
	assert.Equal(t, "!(y == 0)", obligations[0].Goal.String())
	assert.Empty(t, obligations[0].Assumptions)
	assert.Equal(t, "returns x / y", obligations[0].Text)
	assert.Equal(t, "division by zero", obligations[0].Reason())
	// divide_safe
	assert.Equal(t, []string{"!(y == 0)"}, formulaStrings(obligations[1].Assumptions))
	assert.Equal(t, "ensures return_value == (x / y)", obligations[2].Text)
	// index
	assert.Equal(t, smt.ARRAY_INDEX, obligations[4].Check)
	assert.Equal(t, "(0 <= i) && (i < 4)", obligations[4].Goal.String())
	assert.True(t, obligations[4].IsSideCondition())
}

func Test_Division_02(t *testing.T) {
	obligations := generate(t, readProgram(t, "division.lisp"), DefaultConfig())
	query, err := obligations[0].Query()
	require.NoError(t, err)
	//
	expected := "; #0 divide: division by zero (returns x / y)\n" +
		"(set-option :produce-models true)\n" +
		"(declare-const y Int)\n" +
		"(assert (not (not (= y 0))))\n" +
		"(check-sat)\n"
	assert.Equal(t, expected, query.String(nil))
}

func Test_Tuples_01(t *testing.T) {
	obligations := generate(t, readProgram(t, "tuples.lisp"), DefaultConfig())
	//
	require.Equal(t, []Kind{ASSERTION, POSTCONDITION}, kinds(obligations))
	assert.Equal(t, "b == b", obligations[0].Goal.String())
	assert.Equal(t, "(b == b) && (a == a)", obligations[1].Goal.String())
}

func Test_Calls_01(t *testing.T) {
	obligations := generate(t, readProgram(t, "calls.lisp"), DefaultConfig())
	//
	require.Equal(t, []Kind{POSTCONDITION, POSTCONDITION, POSTCONDITION, PRECONDITION}, kinds(obligations))
	// use_abs relies upon the postcondition of abs
	assert.Equal(t, "use_abs", obligations[2].Function)
	assert.Equal(t, "abs(y) >= 0", obligations[2].Goal.String())
	assert.Equal(t, []string{"abs(y) >= 0"}, formulaStrings(obligations[2].Assumptions))
	// use_positive must meet the precondition of positive
	assert.Equal(t, "y > 0", obligations[3].Goal.String())
	assert.Equal(t, []string{"y >= 0"}, formulaStrings(obligations[3].Assumptions))
}

func Test_Calls_02(t *testing.T) {
	obligations := generate(t, readProgram(t, "calls.lisp"), Config{TOTAL, UNINTERPRETED})
	//
	require.Equal(t, []Kind{POSTCONDITION, POSTCONDITION, POSTCONDITION}, kinds(obligations))
	assert.Empty(t, obligations[2].Assumptions)
}

func Test_Determinism_01(t *testing.T) {
	for _, name := range []string{"remainder.lisp", "list.lisp", "count.lisp", "tuples.lisp", "calls.lisp"} {
		first := generate(t, readProgram(t, name), DefaultConfig())
		second := generate(t, readProgram(t, name), DefaultConfig())
		//
		require.Equal(t, len(first), len(second), name)
		//
		for i := range first {
			assert.Equal(t, first[i].String(), second[i].String(), name)
			assert.Equal(t, first[i].Formula().String(), second[i].Formula().String(), name)
		}
	}
}

func Test_Scoping_01(t *testing.T) {
	// Facts assumed within a branch do not escape it.
	program := parseProgram(t, `
(defun scope ((mut x i32)) unit
   (body
      (if ((> x 0) (assume (> x 10)) (set x 1))
          (else (assert (<= x 0))))
      (assert (>= x 0))))`)
	obligations := generate(t, program, DefaultConfig())
	//
	require.Equal(t, []Kind{ASSERTION, ASSERTION}, kinds(obligations))
	assert.Equal(t, []string{"!(x > 0)"}, formulaStrings(obligations[0].Assumptions))
	assert.Empty(t, obligations[1].Assumptions)
	assert.Equal(t, "if x > 0 { 1 } else { x } >= 0", obligations[1].Goal.String())
}

func Test_IfMerge_04(t *testing.T) {
	// Each branch of a chain assumes the negation of every earlier condition.
	program := parseProgram(t, `
(defun pick ((x i32)) unit
   (body
      (let mut r i32 0)
      (if ((> x 10) (set r 1))
          ((> x 5) (assert (> x 5)) (set r 2))
          (else (assert (<= x 5)) (set r 3)))
      (assert (>= r 1))))`)
	obligations := generate(t, program, DefaultConfig())
	//
	require.Equal(t, []Kind{ASSERTION, ASSERTION, ASSERTION}, kinds(obligations))
	assert.Equal(t, []string{"!(x > 10)", "x > 5"}, formulaStrings(obligations[0].Assumptions))
	assert.Equal(t, []string{"!(x > 10)", "!(x > 5)"}, formulaStrings(obligations[1].Assumptions))
	assert.Empty(t, obligations[2].Assumptions)
	assert.Equal(t, "if x > 10 { 1 } else { if x > 5 { 2 } else { 3 } } >= 1", obligations[2].Goal.String())
}

func Test_Old_02(t *testing.T) {
	// Entry values can be read in the body and in loop invariants.
	program := parseProgram(t, `
(defun dec ((mut x i32)) unit
   (requires (>= x 0))
   (body
      (assert (== x'old x))
      (while (> x 0)
         (invariant (and (<= x x'old) (>= x 0)))
         (variant x)
         (set x (- x 1)))
      (assert (<= x x'old))))`)
	require.Empty(t, ast.Validate(program))
	obligations := generate(t, program, DefaultConfig())
	//
	require.Equal(t, []Kind{ASSERTION, INVARIANT_ENTRY, VARIANT_NONNEGATIVE, INVARIANT_PRESERVED,
		VARIANT_DECREASES, ASSERTION}, kinds(obligations))
	assert.Equal(t, "x == x", obligations[0].Goal.String())
	assert.Equal(t, "(x <= x) && (x >= 0)", obligations[1].Goal.String())
	assert.Equal(t, "x'1 <= x", obligations[5].Goal.String())
}

func Test_Framing_01(t *testing.T) {
	// Variables not written by a loop are unchanged by it.
	program := parseProgram(t, `
(defun frame ((n i32) (y i32)) i32
   (requires (>= n 0))
   (ensures (== return_value y))
   (returns y)
   (body
      (let mut i i32 0)
      (while (< i n)
         (invariant (<= i n))
         (variant (- n i))
         (set i (+ i 1)))))`)
	obligations := generate(t, program, DefaultConfig())
	//
	post := obligations[len(obligations)-1]
	require.Equal(t, POSTCONDITION, post.Kind)
	assert.Equal(t, "y == y", post.Goal.String())
	//
	_, ok := post.Scope.Variable("i'1")
	assert.True(t, ok)
	_, ok = post.Scope.Variable("y'1")
	assert.False(t, ok)
	_, ok = post.Scope.Variable("n'1")
	assert.False(t, ok)
}

func Test_Malformed_01(t *testing.T) {
	// A malformed function does not prevent others being checked.
	program, _, errs := parser.ParseString("test.lisp", `
(defun bad () unit (body (let x _)))
(defun good ((x i32)) unit (body (assert (> x 0))))`)
	require.Empty(t, errs)
	//
	obligations, gerrs := Generate(program, DefaultConfig())
	require.Len(t, gerrs, 1)
	assert.Equal(t, "bad: unknown type for x", gerrs[0].Error())
	require.Len(t, obligations, 1)
	assert.Equal(t, "good", obligations[0].Function)
	assert.Equal(t, 0, obligations[0].Index)
}

func Test_Malformed_02(t *testing.T) {
	// Tuples cannot be used as integers
	program := parseProgram(t, `
(defun bad ((t (tuple i32 bool))) i32 (returns (+ t 1)))`)
	//
	_, errs := Generate(program, DefaultConfig())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "bad: ")
}

func Test_Trace_01(t *testing.T) {
	program := readProgram(t, "count.lisp")
	frames, err := Trace(program.Functions[0], program)
	//
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, "n: i32 = ?\nassume n >= 0\n", frames[0].String())
	assert.Equal(t, "n: i32 = ?\nc: i32 = 0\nassume n >= 0\n", frames[1].String())
	// Loops are opaque
	assert.Same(t, frames[1], frames[2])
	//
	v, ok := frames[1].Lookup("c")
	require.True(t, ok)
	assert.True(t, v.Mutable)
	_, ok = frames[0].Lookup("c")
	assert.False(t, ok)
}

func Test_Frame_01(t *testing.T) {
	program := parseProgram(t, `
(defun f ((mut a (array i32 4)) (x i32)) unit
   (body
      (assume (> x 0))
      (set (at a 0) (+ x 1))
      (assert (== (at a 0) (+ x 1)))))`)
	frames, err := Trace(program.Functions[0], program)
	//
	require.NoError(t, err)
	require.Len(t, frames, 4)
	assert.Equal(t, []string{"true", "x > 0"}, formulaStrings(frames[3].Assumptions()))
	assert.Equal(t, "a{[0] := x + 1}", frames[3].Vars()[0].Value.String())
	// Earlier frames are unaffected
	assert.Len(t, frames[1].Assumptions(), 2)
	assert.Len(t, frames[0].Assumptions(), 1)
	assert.Nil(t, frames[1].Vars()[0].Value)
	//
	for _, val := range frames[3].Vals() {
		assert.NotNil(t, val.Type, val.Value.String())
	}
}
