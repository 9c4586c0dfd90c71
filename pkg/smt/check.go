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
package smt

import (
	"github.com/consensys/go-hoare/pkg/ast"
)

// CheckKind identifies the reason for a side condition.
type CheckKind uint8

const (
	// DIVISION_BY_ZERO checks the denominator of a division (or remainder) is
	// non-zero.
	DIVISION_BY_ZERO CheckKind = iota
	// ARRAY_INDEX checks an array index is within bounds.
	ARRAY_INDEX
)

func (p CheckKind) String() string {
	switch p {
	case DIVISION_BY_ZERO:
		return "division by zero"
	case ARRAY_INDEX:
		return "array index out of bounds"
	default:
		panic("unreachable")
	}
}

// Check is a side condition which must hold for an encoded term to be
// well-defined.  The condition is given both as a formula over the original
// tree and as a solver term.  The former allows a caller to combine it with
// other formulas (e.g. assumptions, or a symbolic state).  Conditions are
// guarded by any enclosing short-circuit context, and closed by any enclosing
// quantifier.
type Check struct {
	Kind CheckKind
	// Node whose well-definedness is being checked.
	Node any
	// Condition as a formula.
	Cond ast.Bool
	// Condition as a solver term.
	Term Term
}

// guard returns the given checks, each required to hold only when a given
// condition holds.
func guard(checks []Check, cond ast.Bool, term Term) []Check {
	var nchecks = make([]Check, len(checks))
	//
	for i, c := range checks {
		nchecks[i] = Check{c.Kind, c.Node, ast.Implies(cond, c.Cond), Implies(term, c.Term)}
	}
	//
	return nchecks
}

// quantify returns the given checks, each required to hold for every value of a
// given bound variable.
func quantify(checks []Check, name string, t ast.Type, sort Sort) []Check {
	var nchecks = make([]Check, len(checks))
	//
	for i, c := range checks {
		nchecks[i] = Check{c.Kind, c.Node, ast.NewForAll(name, t, c.Cond), ForAll(name, sort, c.Term)}
	}
	//
	return nchecks
}
