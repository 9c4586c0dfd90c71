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
	"github.com/consensys/go-hoare/pkg/util/collection/set"
)

// FreeVars returns the set of named variables syntactically referenced by a
// given node (which may be a command, block, variable, value, expression or
// formula).  Variables bound by quantifiers are excluded, whilst the base
// name of an array or tuple element is included.
func FreeVars(node any) *set.SortedSet[string] {
	var vars = set.NewSortedSet[string]()
	//
	freeVars(node, vars)
	//
	return vars
}

func freeVars(node any, vars *set.SortedSet[string]) {
	switch n := node.(type) {
	case nil:
		return
	case []Command:
		for _, c := range n {
			freeVars(c, vars)
		}
	case Command:
		commandVars(n, vars)
	case Variable:
		variableVars(n, vars)
	case Value:
		valueVars(n, vars)
	case Expr:
		exprVars(n, vars)
	case Bool:
		boolVars(n, vars)
	default:
		panic("unreachable")
	}
}

func commandVars(c Command, vars *set.SortedSet[string]) {
	switch c := c.(type) {
	case *Declaration:
		vars.Insert(c.Name)
	case *Binding:
		vars.Insert(c.Name)
		valueVars(c.Value, vars)
	case *TupleBinding:
		for _, t := range c.Targets {
			if t.Name != "_" {
				vars.Insert(t.Name)
			}
		}
		//
		valueVars(c.Value, vars)
	case *Assignment:
		variableVars(c.Target, vars)
		valueVars(c.Value, vars)
	case *TupleAssignment:
		for _, a := range c.Assignments {
			commandVars(a, vars)
		}
	case *Assert:
		boolVars(c.Cond, vars)
	case *Assume:
		boolVars(c.Cond, vars)
	case *LoopInvariant:
		boolVars(c.Cond, vars)
	case *If:
		for i, cond := range c.Conditions {
			boolVars(cond, vars)
			freeVars(c.Branches[i], vars)
		}
		//
		freeVars(c.Else, vars)
	case *ForRange:
		vars.Insert(c.Iter)
		valueVars(c.Lo, vars)
		valueVars(c.Hi, vars)
		boolVars(c.Invariant, vars)
		freeVars(c.Body, vars)
	case *While:
		boolVars(c.Cond, vars)
		boolVars(c.Invariant, vars)
		//
		if c.Variant != nil {
			exprVars(c.Variant, vars)
		}
		//
		freeVars(c.Body, vars)
	case *Noop:
		return
	default:
		panic("unreachable")
	}
}

func variableVars(v Variable, vars *set.SortedSet[string]) {
	switch v := v.(type) {
	case *Named:
		vars.Insert(v.Name)
	case *Empty:
		return
	case *ArrayElem:
		vars.Insert(v.Name)
		valueVars(v.Index, vars)
	case *TupleElem:
		vars.Insert(v.Name)
		valueVars(v.Index, vars)
	default:
		panic("unreachable")
	}
}

func valueVars(v Value, vars *set.SortedSet[string]) {
	switch v := v.(type) {
	case *ExprValue:
		exprVars(v.Expr, vars)
	case *FormulaValue:
		boolVars(v.Formula, vars)
	case *VarValue:
		variableVars(v.Var, vars)
	case *TupleValue:
		for _, e := range v.Elements {
			valueVars(e, vars)
		}
	case *ArrayValue:
		for _, e := range v.Elements {
			valueVars(e, vars)
		}
	case *CallValue:
		for _, e := range v.Args {
			valueVars(e, vars)
		}
	case *RefValue:
		valueVars(v.Inner, vars)
	case *DerefValue:
		valueVars(v.Inner, vars)
	case *UnitValue:
		return
	case *TernaryValue:
		boolVars(v.Cond, vars)
		valueVars(v.Then, vars)
		valueVars(v.Else, vars)
	case *SelectValue:
		valueVars(v.Base, vars)
		valueVars(v.Index, vars)
	case *StoreValue:
		valueVars(v.Base, vars)
		valueVars(v.Index, vars)
		valueVars(v.Element, vars)
	default:
		panic("unreachable")
	}
}

func exprVars(e Expr, vars *set.SortedSet[string]) {
	switch e := e.(type) {
	case *Number:
		return
	case *ValueExpr:
		valueVars(e.Value, vars)
	case *Op:
		exprVars(e.Left, vars)
		exprVars(e.Right, vars)
	default:
		panic("unreachable")
	}
}

func boolVars(b Bool, vars *set.SortedSet[string]) {
	switch b := b.(type) {
	case *True, *False:
		return
	case *And:
		boolVars(b.Left, vars)
		boolVars(b.Right, vars)
	case *Or:
		boolVars(b.Left, vars)
		boolVars(b.Right, vars)
	case *Not:
		boolVars(b.Inner, vars)
	case *BoolValue:
		valueVars(b.Value, vars)
	case *Equal:
		exprVars(b.Left, vars)
		exprVars(b.Right, vars)
	case *Compare:
		exprVars(b.Left, vars)
		exprVars(b.Right, vars)
	case *ForAll:
		quantifiedVars(b.Var, b.Body, vars)
	case *Exists:
		quantifiedVars(b.Var, b.Body, vars)
	default:
		panic("unreachable")
	}
}

func quantifiedVars(bound string, body Bool, vars *set.SortedSet[string]) {
	inner := set.NewSortedSet[string]()
	boolVars(body, inner)
	inner.Remove(bound)
	vars.InsertSorted(inner)
}

// Affected returns the write set of a command or block: the names of all
// variables which may be written (including those declared).  For a
// conditional this is the union over its branches, whilst for a loop it is
// the write set of its body (plus the iteration variable of a for loop).
func Affected(node any) *set.SortedSet[string] {
	var vars = set.NewSortedSet[string]()
	//
	affected(node, vars)
	//
	return vars
}

func affected(node any, vars *set.SortedSet[string]) {
	switch c := node.(type) {
	case []Command:
		for _, ith := range c {
			affected(ith, vars)
		}
	case *Declaration:
		vars.Insert(c.Name)
	case *Binding:
		vars.Insert(c.Name)
	case *TupleBinding:
		for _, t := range c.Targets {
			if t.Name != "_" {
				vars.Insert(t.Name)
			}
		}
	case *Assignment:
		if name := c.Target.Base(); name != "" {
			vars.Insert(name)
		}
	case *TupleAssignment:
		for _, a := range c.Assignments {
			affected(a, vars)
		}
	case *Assert, *Assume, *LoopInvariant, *Noop:
		return
	case *If:
		for _, b := range c.Branches {
			affected(b, vars)
		}
		//
		affected(c.Else, vars)
	case *ForRange:
		vars.Insert(c.Iter)
		affected(c.Body, vars)
	case *While:
		affected(c.Body, vars)
	default:
		panic("unreachable")
	}
}
