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
	"fmt"

	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/smt"
)

// Kind identifies the reason an obligation was generated.
type Kind uint8

const (
	// ASSERTION requires an assert command to hold.
	ASSERTION Kind = iota
	// INVARIANT requires an invariant command (outside of a loop header) to
	// hold.
	INVARIANT
	// PRECONDITION requires the arguments of a call to meet the callee's
	// precondition.
	PRECONDITION
	// POSTCONDITION requires a function's postcondition to hold on exit.
	POSTCONDITION
	// INVARIANT_ENTRY requires a loop invariant to hold on entry to the loop.
	INVARIANT_ENTRY
	// INVARIANT_PRESERVED requires a loop invariant to be preserved by every
	// iteration.
	INVARIANT_PRESERVED
	// VARIANT_NONNEGATIVE requires a loop variant to be non-negative at the
	// start of every iteration.
	VARIANT_NONNEGATIVE
	// VARIANT_DECREASES requires a loop variant to strictly decrease on every
	// iteration.
	VARIANT_DECREASES
	// VARIANT_MISSING is generated for a while loop without a variant under
	// total correctness, and never holds (unless the loop body is
	// unreachable).
	VARIANT_MISSING
	// SIDE_CONDITION requires some part of a command to be well-defined (e.g.
	// a denominator to be non-zero).
	SIDE_CONDITION
)

func (p Kind) String() string {
	switch p {
	case ASSERTION:
		return "assertion"
	case INVARIANT:
		return "invariant"
	case PRECONDITION:
		return "precondition"
	case POSTCONDITION:
		return "postcondition"
	case INVARIANT_ENTRY:
		return "invariant on entry"
	case INVARIANT_PRESERVED:
		return "invariant preserved"
	case VARIANT_NONNEGATIVE:
		return "variant non-negative"
	case VARIANT_DECREASES:
		return "variant decreases"
	case VARIANT_MISSING:
		return "variant missing"
	case SIDE_CONDITION:
		return "side condition"
	default:
		panic("unreachable")
	}
}

// Obligation is a formula which must be valid for a function to be correct.
// An obligation holds if its goal follows from its assumptions.  Obligations
// are closed, in that every variable is either bound by a quantifier or is a
// symbolic constant whose type is given by the obligation's scope.
type Obligation struct {
	// Position of this obligation in the order of generation.
	Index int
	// Name of the enclosing function.
	Function string
	// Reason for this obligation.
	Kind Kind
	// Kind of side condition (only meaningful for side conditions).
	Check smt.CheckKind
	// Originating node (typically a command).
	Node any
	// Text of the originating node.
	Text string
	// Facts known to hold.
	Assumptions []ast.Bool
	// Fact to be shown.
	Goal ast.Bool
	// Types of symbolic constants.
	Scope ast.Scope
}

// Reason returns a human-readable description of why this obligation was
// generated.
func (p *Obligation) Reason() string {
	if p.Kind == SIDE_CONDITION {
		return p.Check.String()
	}
	//
	return p.Kind.String()
}

// IsSideCondition determines whether this obligation arises from the
// well-definedness of a command, rather than from an annotation.
func (p *Obligation) IsSideCondition() bool {
	return p.Kind == SIDE_CONDITION
}

// Formula returns this obligation as a single formula.
func (p *Obligation) Formula() ast.Bool {
	return ast.Implies(ast.NewAnd(p.Assumptions...), p.Goal)
}

// Query encodes this obligation as a satisfiability query, which is
// unsatisfiable exactly when this obligation holds.  That is, the assumptions
// are asserted along with the negation of the goal.
func (p *Obligation) Query() (*smt.Query, error) {
	var (
		encoder    = smt.NewEncoder(p.Scope)
		assertions []smt.Term
	)
	//
	for _, a := range p.Assumptions {
		_, term, err := encoder.Formula(a)
		if err != nil {
			return nil, err
		}
		//
		assertions = append(assertions, term)
	}
	//
	_, goal, err := encoder.Formula(p.Goal)
	if err != nil {
		return nil, err
	}
	//
	assertions = append(assertions, smt.Not(goal))
	//
	return encoder.Query(p.String(), assertions...), nil
}

func (p *Obligation) String() string {
	return fmt.Sprintf("#%d %s: %s (%s)", p.Index, p.Function, p.Reason(), p.Text)
}
