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
package parser

import (
	"path/filepath"
	"testing"

	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TESTDATA_DIR determines the (relative) location of the test programs.
const TESTDATA_DIR = "../../testdata"

func parseTestFile(t *testing.T, name string) (*ast.Program, *source.Map[any]) {
	files, err := source.ReadFiles(filepath.Join(TESTDATA_DIR, name))
	require.NoError(t, err)
	//
	program, srcmap, errs := Parse(&files[0])
	require.Empty(t, errs)
	//
	return program, srcmap
}

func checkError(t *testing.T, text string, expected string) {
	_, _, errs := ParseString("test.lisp", text)
	//
	require.Len(t, errs, 1)
	assert.Equal(t, expected, errs[0].Error())
}

func Test_Parse_01(t *testing.T) {
	program, srcmap := parseTestFile(t, "remainder.lisp")
	//
	require.Len(t, program.Functions, 1)
	f := program.Functions[0]
	assert.Equal(t, "fn remainder(x: i32, y: i32) -> (i32, i32)", f.Signature())
	assert.Equal(t, "(x >= 0) && (y > 0)", f.Precondition.String())
	assert.Equal(t, "((quo * y) + rem) == x", f.Postcondition.String())
	assert.Equal(t, "(quo, rem)", f.ReturnValue.String())
	require.Len(t, f.Body, 3)
	assert.Equal(t, "let mut quo: i32 = 0", f.Body[0].String())
	//
	loop, ok := f.Body[2].(*ast.While)
	require.True(t, ok)
	assert.Equal(t, "rem >= y", loop.Cond.String())
	assert.Equal(t, "rem", loop.Variant.String())
	assert.Equal(t, "((((quo * y) + rem) == x) && (y > 0)) && (rem >= 0)", loop.Invariant.String())
	require.Len(t, loop.Body, 2)
	assert.Equal(t, "rem = rem - y", loop.Body[0].String())
	// Check source mapping
	line, ok := srcmap.Line(loop)
	require.True(t, ok)
	assert.Equal(t, 9, line.Number())
}

func Test_Parse_02(t *testing.T) {
	program, _ := parseTestFile(t, "list.lisp")
	f := program.Functions[0]
	//
	assert.Equal(t, "fn list(x: &mut [i32; 16], n: i32) -> ()", f.Signature())
	assert.Equal(t, "forall y: i32. !((0 <= y) && (y < n)) || (x[y] == y)", f.Postcondition.String())
	//
	loop := f.Body[1].(*ast.While)
	assert.Equal(t, "x[i] = i", loop.Body[0].String())
	assert.Equal(t, "n - i", loop.Variant.String())
}

func Test_Parse_03(t *testing.T) {
	program, _ := parseTestFile(t, "tuples.lisp")
	f := program.Functions[0]
	//
	require.Len(t, f.Body, 4)
	assert.Equal(t, "let mut t = (a, b)", f.Body[0].String())
	assert.Equal(t, "(t.0, t.1) = (t.1, t.0)", f.Body[1].String())
	assert.Equal(t, "let (p, _) = t", f.Body[2].String())
	// Inference fills in missing types
	assert.Empty(t, ast.Infer(program))
	assert.Equal(t, "let mut t: (i32, i32) = (a, b)", f.Body[0].String())
	assert.Equal(t, "let (p: i32, _) = t", f.Body[2].String())
	assert.Empty(t, ast.Validate(program))
}

func Test_Parse_04(t *testing.T) {
	// All test programs are well-formed.
	for _, name := range []string{"calls.lisp", "count.lisp", "division.lisp", "if_merge.lisp",
		"if_merge_fail.lisp", "list.lisp", "old_value.lisp", "remainder.lisp", "remainder_weak.lisp",
		"tuples.lisp"} {
		program, _ := parseTestFile(t, name)
		//
		assert.Empty(t, ast.Infer(program), name)
		assert.Empty(t, ast.Validate(program), name)
	}
}

func Test_Parse_05(t *testing.T) {
	program, _, errs := ParseString("test.lisp", `
	   (defun f ((mut x i32)) i32
	      (body
	         (if ((> x 0) (set x 1)) ((< x 0) (set x 2)) (else (noop)))
	         (for i 0 10 (set x (- x)))
	         (assume (exists z (== (* z 2) x))))
	      (returns (call f (* (& x)))))`)
	//
	require.Empty(t, errs)
	f := program.Functions[0]
	c := f.Body[0].(*ast.If)
	//
	assert.Len(t, c.Conditions, 2)
	assert.Len(t, c.Else, 1)
	assert.Equal(t, "if x > 0 { .. } else if x < 0 { .. } else { .. }", c.String())
	assert.Equal(t, "for i in 0..10 { .. }", f.Body[1].String())
	assert.Equal(t, "x = 0 - x", f.Body[1].(*ast.ForRange).Body[0].String())
	assert.Equal(t, "true", f.Body[1].(*ast.ForRange).Invariant.String())
	assert.Equal(t, "assume(exists z: i32. (z * 2) == x)", f.Body[2].String())
	assert.Equal(t, "f(*(&x))", f.ReturnValue.String())
}

func Test_Parse_Invalid_01(t *testing.T) {
	checkError(t, "(defun f () i32\n  (body (sett x 1)))", "test.lisp:2:9: unknown command")
}

func Test_Parse_Invalid_02(t *testing.T) {
	checkError(t, "(defun f ((x int)) unit)", "test.lisp:1:14: unknown type")
}

func Test_Parse_Invalid_03(t *testing.T) {
	checkError(t, "(defun f () unit", "test.lisp:1:17: unexpected end-of-file")
}

func Test_Parse_Invalid_04(t *testing.T) {
	checkError(t, "(defun f () unit (body (set (dot t i) 1)))", "test.lisp:1:36: tuple index must be a constant")
}

func Test_Parse_Invalid_06(t *testing.T) {
	checkError(t, "(defun f ((a (array i32 2147483648))) unit)", "test.lisp:1:25: invalid array length")
	checkError(t, "(defun f ((a (array i32 -1))) unit)", "test.lisp:1:25: invalid array length")
}

func Test_Parse_06(t *testing.T) {
	program, _, errs := ParseString("test.lisp", "(defun f ((a (array i32 2147483647))) unit)")
	//
	require.Empty(t, errs)
	assert.Equal(t, uint(2147483647), program.Functions[0].Inputs[0].Type.(*ast.ArrayType).Length)
}

func Test_Parse_Invalid_05(t *testing.T) {
	// Parsing continues after a malformed function
	program, _, errs := ParseString("test.lisp", "(defun f () unit (foo))\n(defun g () unit)")
	//
	require.Len(t, errs, 1)
	assert.Equal(t, "test.lisp:1:18: unknown clause", errs[0].Error())
	require.Len(t, program.Functions, 1)
	assert.Equal(t, "g", program.Functions[0].Name)
}
