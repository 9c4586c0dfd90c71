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
package prover

import (
	"fmt"
	"time"

	"github.com/consensys/go-hoare/pkg/vcgen"
)

// Outcome summarises the result of discharging an obligation.
type Outcome uint8

const (
	// VERIFIED indicates the obligation holds.
	VERIFIED Outcome = iota
	// FAILED indicates the obligation does not hold, and a counter-example
	// exists.
	FAILED
	// INCONCLUSIVE indicates the solver could not decide the obligation (e.g.
	// because it timed out).
	INCONCLUSIVE
	// ERRORED indicates the obligation could not be checked at all (e.g.
	// because the solver crashed).
	ERRORED
)

func (p Outcome) String() string {
	switch p {
	case VERIFIED:
		return "verified"
	case FAILED:
		return "failed"
	case INCONCLUSIVE:
		return "inconclusive"
	case ERRORED:
		return "error"
	default:
		panic("unreachable")
	}
}

// Result of discharging a single obligation.
type Result struct {
	Obligation *vcgen.Obligation
	Outcome    Outcome
	// Counter-example for a failed obligation (when available).
	Model Model
	// Explanation for an inconclusive or errored outcome.
	Message string
	// Time taken to discharge this obligation.
	Elapsed time.Duration
}

// NewResult interprets the answer of a solver for the query of a given
// obligation.  Since the query asserts the negation of the goal, the
// obligation holds exactly when the query is unsatisfiable.
func NewResult(obligation *vcgen.Obligation, answer Answer, err error) Result {
	var result = Result{Obligation: obligation}
	//
	switch {
	case err != nil:
		result.Outcome, result.Message = ERRORED, err.Error()
	case answer.Status == UNSAT:
		result.Outcome = VERIFIED
	case answer.Status == SAT:
		result.Outcome, result.Model = FAILED, answer.Model
	default:
		result.Outcome, result.Message = INCONCLUSIVE, answer.Reason
	}
	//
	return result
}

func (p Result) String() string {
	var text = fmt.Sprintf("%s %s", p.Obligation.String(), p.Outcome.String())
	//
	switch {
	case p.Outcome == FAILED && len(p.Model) > 0:
		text = fmt.Sprintf("%s [%s]", text, p.Model.String())
	case p.Message != "":
		text = fmt.Sprintf("%s (%s)", text, p.Message)
	}
	//
	return text
}

// FunctionReport summarises the verification of a single function.
type FunctionReport struct {
	Name string
	// Results in order of obligation.
	Results []Result
	// Reason why obligations could not be generated (if any).
	Error error
}

// Verified determines whether every obligation of this function holds.  A
// function without obligations is trivially verified, unless its obligations
// could not be generated.
func (p *FunctionReport) Verified() bool {
	if p.Error != nil {
		return false
	}
	//
	for _, r := range p.Results {
		if r.Outcome != VERIFIED {
			return false
		}
	}
	//
	return true
}

// Failures returns the results of obligations which were not verified.
func (p *FunctionReport) Failures() []Result {
	var failures []Result
	//
	for _, r := range p.Results {
		if r.Outcome != VERIFIED {
			failures = append(failures, r)
		}
	}
	//
	return failures
}

// Report summarises the verification of a program.
type Report struct {
	Functions []*FunctionReport
}

// Verified determines whether every function of the program is verified.
func (p *Report) Verified() bool {
	for _, f := range p.Functions {
		if !f.Verified() {
			return false
		}
	}
	//
	return true
}

// Failures returns the results of all obligations which were not verified, in
// order of obligation.
func (p *Report) Failures() []Result {
	var failures []Result
	//
	for _, f := range p.Functions {
		failures = append(failures, f.Failures()...)
	}
	//
	return failures
}

// FirstFailure returns the first obligation which was not verified, if any.
func (p *Report) FirstFailure() (Result, bool) {
	if failures := p.Failures(); len(failures) > 0 {
		return failures[0], true
	}
	//
	return Result{}, false
}

// Count returns the number of obligations discharged with a given outcome.
func (p *Report) Count(outcome Outcome) uint {
	var n uint
	//
	for _, f := range p.Functions {
		for _, r := range f.Results {
			if r.Outcome == outcome {
				n++
			}
		}
	}
	//
	return n
}
