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

// Infer fills in the unknown types of bindings from the static types of their
// right-hand sides.  Types which cannot be determined (e.g. because a variable
// is not in scope) are left unknown, such that they are subsequently reported
// by Validate.  Errors are returned only for tuple bindings whose pattern does
// not match the shape of the value being destructured.
func Infer(program *Program) []error {
	var errors []error
	//
	for _, f := range program.Functions {
		var scope = NewMapScope(program)
		//
		for _, d := range f.Inputs {
			scope.Vars[d.Name] = d.Type
		}
		//
		errors = append(errors, inferBlock(f, f.Body, scope)...)
	}
	//
	return errors
}

func inferBlock(f *Function, block []Command, scope *MapScope) []error {
	var errors []error
	//
	for _, c := range block {
		errors = append(errors, inferCommand(f, c, scope)...)
	}
	//
	return errors
}

func inferCommand(f *Function, c Command, scope *MapScope) []error {
	switch c := c.(type) {
	case *Declaration:
		scope.Vars[c.Name] = c.Type
	case *Binding:
		if ContainsUnknown(c.Type) {
			if t, err := TypeOf(c.Value, scope); err == nil && !ContainsUnknown(t) {
				c.Type = t
			}
		}
		//
		scope.Vars[c.Name] = c.Type
	case *TupleBinding:
		return inferTupleBinding(f, c, scope)
	case *If:
		var errors []error
		//
		for _, b := range c.Branches {
			errors = append(errors, inferBlock(f, b, scope.Clone())...)
		}
		//
		return append(errors, inferBlock(f, c.Else, scope.Clone())...)
	case *ForRange:
		var inner = scope.Clone()
		//
		inner.Vars[c.Iter] = I32
		//
		return inferBlock(f, c.Body, inner)
	case *While:
		return inferBlock(f, c.Body, scope.Clone())
	}
	//
	return nil
}

func inferTupleBinding(f *Function, c *TupleBinding, scope *MapScope) []error {
	t, err := TypeOf(c.Value, scope)
	// Types of targets are unaffected when the value is not understood.
	if err == nil {
		if tuple, ok := Underlying(t).(*TupleType); !ok {
			return []error{Malformed(c, "cannot destructure %s", t.String()).In(f.Name)}
		} else if len(tuple.Elements) != len(c.Targets) {
			return []error{Malformed(c, "expected %d-tuple, found %s", len(c.Targets), t.String()).In(f.Name)}
		} else {
			for i, target := range c.Targets {
				if ContainsUnknown(target.Type) && !ContainsUnknown(tuple.Elements[i]) {
					target.Type = tuple.Elements[i]
				}
			}
		}
	}
	//
	for _, target := range c.Targets {
		if target.Name != "_" {
			scope.Vars[target.Name] = target.Type
		}
	}
	//
	return nil
}
