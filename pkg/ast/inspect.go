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

// Inspect traverses a tree in depth-first order, calling a given function for
// each node encountered (commands, variables, values, expressions and
// formulas).  Traversal of a node's children is skipped if the function
// returns false.
func Inspect(node any, fn func(any) bool) {
	switch n := node.(type) {
	case nil:
		return
	case []Command:
		for _, c := range n {
			Inspect(c, fn)
		}
		//
		return
	}
	//
	if !fn(node) {
		return
	}
	//
	for _, child := range children(node) {
		Inspect(child, fn)
	}
}

func children(node any) []any {
	switch n := node.(type) {
	case *Declaration, *Noop, *Named, *Empty, *UnitValue, *Number, *True, *False:
		return nil
	case *Binding:
		return []any{n.Value}
	case *TupleBinding:
		return []any{n.Value}
	case *Assignment:
		return []any{n.Target, n.Value}
	case *TupleAssignment:
		var nodes []any
		for _, a := range n.Assignments {
			nodes = append(nodes, a)
		}
		//
		return nodes
	case *Assert:
		return []any{n.Cond}
	case *Assume:
		return []any{n.Cond}
	case *LoopInvariant:
		return []any{n.Cond}
	case *If:
		var nodes []any
		for i, c := range n.Conditions {
			nodes = append(nodes, c, n.Branches[i])
		}
		//
		return append(nodes, n.Else)
	case *ForRange:
		return []any{n.Lo, n.Hi, n.Invariant, n.Body}
	case *While:
		if n.Variant == nil {
			return []any{n.Cond, n.Invariant, n.Body}
		}
		//
		return []any{n.Cond, n.Invariant, n.Variant, n.Body}
	case *ArrayElem:
		return []any{n.Index}
	case *TupleElem:
		return []any{n.Index}
	case *ExprValue:
		return []any{n.Expr}
	case *FormulaValue:
		return []any{n.Formula}
	case *VarValue:
		return []any{n.Var}
	case *TupleValue:
		return valueChildren(n.Elements)
	case *ArrayValue:
		return valueChildren(n.Elements)
	case *CallValue:
		return valueChildren(n.Args)
	case *RefValue:
		return []any{n.Inner}
	case *DerefValue:
		return []any{n.Inner}
	case *TernaryValue:
		return []any{n.Cond, n.Then, n.Else}
	case *SelectValue:
		return []any{n.Base, n.Index}
	case *StoreValue:
		return []any{n.Base, n.Index, n.Element}
	case *ValueExpr:
		return []any{n.Value}
	case *Op:
		return []any{n.Left, n.Right}
	case *And:
		return []any{n.Left, n.Right}
	case *Or:
		return []any{n.Left, n.Right}
	case *Not:
		return []any{n.Inner}
	case *BoolValue:
		return []any{n.Value}
	case *Equal:
		return []any{n.Left, n.Right}
	case *Compare:
		return []any{n.Left, n.Right}
	case *ForAll:
		return []any{n.Body}
	case *Exists:
		return []any{n.Body}
	default:
		panic("unreachable")
	}
}

func valueChildren(values []Value) []any {
	var nodes = make([]any, len(values))
	//
	for i, v := range values {
		nodes[i] = v
	}
	//
	return nodes
}
