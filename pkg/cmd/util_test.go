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
package cmd

import (
	"testing"

	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const LOCATION_PROGRAM = `(defun f ((mut x i32)) unit
   (body
      (set y 1)
      (assert (> x 0))))`

func Test_Location_01(t *testing.T) {
	program, srcmap, errs := parser.ParseString("test.lisp", LOCATION_PROGRAM)
	require.Empty(t, errs)
	//
	loc, ok := location(srcmap, program.Functions[0].Body[1])
	require.True(t, ok)
	assert.Equal(t, "test.lisp:4", loc)
	//
	_, ok = location(srcmap, nil)
	assert.False(t, ok)
}

func Test_Location_02(t *testing.T) {
	// Validation errors are located at the offending node.
	program, srcmap, errs := parser.ParseString("test.lisp", LOCATION_PROGRAM)
	require.Empty(t, errs)
	//
	malformed := ast.Validate(program)
	require.Len(t, malformed, 1)
	//
	node := malformed[0].(*ast.MalformedError).Node
	loc, ok := location(srcmap, node)
	//
	require.True(t, ok)
	assert.Equal(t, "test.lisp:3", loc)
}
