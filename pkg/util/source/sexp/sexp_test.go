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
package sexp

import (
	"strings"
	"testing"

	"github.com/consensys/go-hoare/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SExp_01(t *testing.T) {
	checkRoundTrip(t, "x", "x")
}

func Test_SExp_02(t *testing.T) {
	checkRoundTrip(t, "(+ x 1)", "(+ x 1)")
}

func Test_SExp_03(t *testing.T) {
	checkRoundTrip(t, "  ( assert  (>= x   0))  ", "(assert (>= x 0))")
}

func Test_SExp_04(t *testing.T) {
	checkRoundTrip(t, "()", "()")
}

func Test_SExp_05(t *testing.T) {
	checkRoundTrip(t, "(f (g (h)) ())", "(f (g (h)) ())")
}

func Test_SExp_06(t *testing.T) {
	checkRoundTrip(t, "(= |x'old| 2)", "(= |x'old| 2)")
}

func Test_SExp_07(t *testing.T) {
	checkRoundTrip(t, "(= x'old 2) ; trailing comment", "(= |x'old| 2)")
}

func Test_SExp_08(t *testing.T) {
	checkRoundTrip(t, "; leading\n(and a\n  ; inner\n b)", "(and a b)")
}

func Test_SExp_Invalid_01(t *testing.T) {
	checkInvalid(t, "(")
}

func Test_SExp_Invalid_02(t *testing.T) {
	checkInvalid(t, ")")
}

func Test_SExp_Invalid_03(t *testing.T) {
	checkInvalid(t, "(a b))")
}

func Test_SExp_Invalid_04(t *testing.T) {
	checkInvalid(t, "|unterminated")
}

func Test_SExp_Invalid_05(t *testing.T) {
	checkInvalid(t, "")
}

func Test_SExp_ParseAll(t *testing.T) {
	terms, _, err := ParseAll(source.NewStringFile("test", "sat\n(model (define-fun x () Int 1))"))
	require.Nil(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "sat", terms[0].String(false))
	assert.NotNil(t, terms[1].AsList())
}

func Test_SExp_SourceMap(t *testing.T) {
	file := source.NewStringFile("test", "(assert (> x 0))")
	term, srcmap, err := Parse(file)
	require.Nil(t, err)
	//
	inner := term.AsList().Get(1)
	span := srcmap.Get(inner)
	assert.Equal(t, "(> x 0)", file.Text(span))
}

func Test_SExp_Symbols(t *testing.T) {
	assert.True(t, IsSimpleSymbol("x"))
	assert.True(t, IsSimpleSymbol("return_value"))
	assert.True(t, IsSimpleSymbol(">="))
	assert.False(t, IsSimpleSymbol("x'old"))
	assert.False(t, IsSimpleSymbol("a b"))
	assert.False(t, IsSimpleSymbol(""))
}

func Test_SExp_Format_01(t *testing.T) {
	term, err := ParseString("(assert (> x 0))")
	require.Nil(t, err)
	assert.Equal(t, "(assert (> x 0))", NewFormatter(80).Format(term))
}

func Test_SExp_Format_02(t *testing.T) {
	term, err := ParseString("(forall ((y Int)) (or (not (<= 0 y)) (= (select x y) y)))")
	require.Nil(t, err)
	//
	text := NewFormatter(30).Sticky("forall").Format(term)
	lines := strings.Split(text, "\n")
	//
	assert.Equal(t, "(forall ((y Int))", lines[0])
	// Formatting must not change the term.
	reparsed, err := ParseString(text)
	require.Nil(t, err)
	assert.Equal(t, term.String(true), reparsed.String(true))
}

func checkRoundTrip(t *testing.T, input string, expected string) {
	term, err := ParseString(input)
	require.Nil(t, err, "parsing %q", input)
	assert.Equal(t, expected, term.String(true))
}

func checkInvalid(t *testing.T, input string) {
	_, err := ParseString(input)
	assert.NotNil(t, err, "expected error for %q", input)
}
