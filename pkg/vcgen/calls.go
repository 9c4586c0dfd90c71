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
	"github.com/consensys/go-hoare/pkg/ast"
	log "github.com/sirupsen/logrus"
)

// calls reasons about the calls made within a given node, using the contracts
// of the callees.  Calls under quantifiers are skipped, since they have no
// single set of arguments.
func (g *generator) calls(s *state, node any, text string, n any) error {
	var calls []*ast.CallValue
	//
	if g.config.Calls != CONTRACTS {
		return nil
	}
	//
	ast.Inspect(n, func(m any) bool {
		switch m := m.(type) {
		case *ast.ForAll, *ast.Exists:
			return false
		case *ast.CallValue:
			calls = append(calls, m)
		}
		//
		return true
	})
	// Innermost calls first, since their results are arguments of the outer
	// calls.
	for i := len(calls) - 1; i >= 0; i-- {
		if err := g.contract(s, node, text, calls[i]); err != nil {
			return err
		}
	}
	//
	return nil
}

// contract generates an obligation that the arguments of a call meet the
// callee's precondition, and then assumes the result meets the callee's
// postcondition.
func (g *generator) contract(s *state, node any, text string, call *ast.CallValue) error {
	callee, ok := g.program.Function(call.Name)
	if !ok {
		return ast.Malformed(call, "unknown function %s", call.Name)
	} else if len(callee.Inputs) != len(call.Args) {
		return ast.Malformed(call, "function %s expects %d arguments, found %d", call.Name, len(callee.Inputs),
			len(call.Args))
	}
	//
	var (
		args    = make([]ast.Value, len(call.Args))
		mapping = make(map[string]ast.Value)
	)
	//
	for i, input := range callee.Inputs {
		args[i] = ast.SubstituteValue(call.Args[i], s.values)
		mapping[input.Name] = args[i]
		mapping[ast.OldName(input.Name)] = args[i]
	}
	//
	g.emit(s, PRECONDITION, node, text, ast.SubstituteBool(callee.Precondition, mapping))
	// A postcondition which refers to the callee's internals tells us nothing
	// at the call site.
	for _, name := range ast.FreeVars(callee.Postcondition).Slice() {
		if _, ok := mapping[name]; !ok && name != ast.RETURN_VALUE {
			log.Debugf("postcondition of %s not assumed at call site (refers to %s)", callee.Name, name)
			return nil
		}
	}
	//
	mapping[ast.RETURN_VALUE] = ast.NewCall(call.Name, args...)
	s.assume(ast.SubstituteBool(callee.Postcondition, mapping))
	//
	return nil
}
