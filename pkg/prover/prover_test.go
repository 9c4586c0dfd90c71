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
	"bufio"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/parser"
	"github.com/consensys/go-hoare/pkg/smt"
	"github.com/consensys/go-hoare/pkg/util/source"
	"github.com/consensys/go-hoare/pkg/util/source/sexp"
	"github.com/consensys/go-hoare/pkg/vcgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TESTDATA_DIR determines the (relative) location of the test programs.
const TESTDATA_DIR = "../../testdata"

func readProgram(t *testing.T, name string) *ast.Program {
	files, err := source.ReadFiles(filepath.Join(TESTDATA_DIR, name))
	require.NoError(t, err)
	//
	program, _, errs := parser.Parse(&files[0])
	require.Empty(t, errs)
	require.Empty(t, ast.Infer(program))
	require.Empty(t, ast.Validate(program))
	//
	return program
}

func obligations(t *testing.T, name string) []*vcgen.Obligation {
	obligations, errs := vcgen.Generate(readProgram(t, name), vcgen.DefaultConfig())
	require.Empty(t, errs)
	//
	return obligations
}

// scripted is a solver whose answers are determined by a given function.
type scripted func(ctx context.Context, query *smt.Query) (Answer, error)

func (p scripted) Check(ctx context.Context, query *smt.Query) (Answer, error) {
	return p(ctx, query)
}

func answer(status Status) Solver {
	return scripted(func(context.Context, *smt.Query) (Answer, error) {
		return Answer{Status: status, Reason: "timeout"}, nil
	})
}

// failing reports every postcondition as failing with a given model.
func failing(model Model) Solver {
	return scripted(func(_ context.Context, query *smt.Query) (Answer, error) {
		if strings.Contains(query.Comment, "postcondition") {
			return Answer{Status: SAT, Model: model}, nil
		}
		//
		return Answer{Status: UNSAT}, nil
	})
}

func outcomes(results []Result) []Outcome {
	var os = make([]Outcome, len(results))
	//
	for i, r := range results {
		os[i] = r.Outcome
	}
	//
	return os
}

func Test_Discharge_01(t *testing.T) {
	vcs := obligations(t, "remainder.lisp")
	results := Discharge(context.Background(), vcs, answer(UNSAT), DefaultConfig())
	//
	require.Len(t, results, 5)
	//
	for i, r := range results {
		assert.Same(t, vcs[i], r.Obligation)
		assert.Equal(t, VERIFIED, r.Outcome)
	}
}

func Test_Discharge_02(t *testing.T) {
	vcs := obligations(t, "remainder.lisp")
	model := Model{"x": &smt.Int{Value: 3}}
	results := Discharge(context.Background(), vcs, failing(model), Config{Workers: 3})
	//
	assert.Equal(t, []Outcome{VERIFIED, VERIFIED, VERIFIED, VERIFIED, FAILED}, outcomes(results))
	assert.Equal(t, "#4 remainder: postcondition (ensures ((quo * y) + rem) == x) failed [x = 3]",
		results[4].String())
}

func Test_Discharge_03(t *testing.T) {
	vcs := obligations(t, "remainder.lisp")
	//
	results := Discharge(context.Background(), vcs, answer(UNKNOWN), DefaultConfig())
	require.Len(t, results, 5)
	assert.Equal(t, INCONCLUSIVE, results[0].Outcome)
	assert.Equal(t, "timeout", results[0].Message)
	//
	broken := scripted(func(context.Context, *smt.Query) (Answer, error) {
		return Answer{}, errors.New("solver crashed")
	})
	results = Discharge(context.Background(), vcs, broken, DefaultConfig())
	assert.Equal(t, ERRORED, results[2].Outcome)
	assert.Equal(t, "solver crashed", results[2].Message)
}

func Test_Discharge_04(t *testing.T) {
	// Fail fast stops at the first failure.  All queries but the first block
	// until aborted.
	solver := scripted(func(ctx context.Context, query *smt.Query) (Answer, error) {
		if strings.HasPrefix(query.Comment, "#0 ") {
			return Answer{Status: SAT}, nil
		}
		//
		<-ctx.Done()
		//
		return Answer{}, ctx.Err()
	})
	vcs := obligations(t, "remainder.lisp")
	results := Discharge(context.Background(), vcs, solver, Config{Workers: 2, FailFast: true})
	//
	require.Len(t, results, 1)
	assert.Equal(t, FAILED, results[0].Outcome)
	assert.Equal(t, 0, results[0].Obligation.Index)
}

func Test_Discharge_05(t *testing.T) {
	results := Discharge(context.Background(), nil, answer(UNSAT), DefaultConfig())
	assert.Empty(t, results)
}

func Test_Verify_01(t *testing.T) {
	program := readProgram(t, "calls.lisp")
	report := Verify(context.Background(), program, vcgen.DefaultConfig(), answer(UNSAT), DefaultConfig())
	//
	require.Len(t, report.Functions, 4)
	assert.True(t, report.Verified())
	assert.Equal(t, uint(4), report.Count(VERIFIED))
	assert.Empty(t, report.Functions[3].Failures())
	//
	_, ok := report.FirstFailure()
	assert.False(t, ok)
}

func Test_Verify_02(t *testing.T) {
	program := readProgram(t, "calls.lisp")
	report := Verify(context.Background(), program, vcgen.DefaultConfig(), failing(nil), DefaultConfig())
	//
	assert.False(t, report.Verified())
	assert.Equal(t, []string{"abs", "positive", "use_abs", "use_positive"}, names(report))
	// use_positive has no postcondition
	assert.True(t, report.Functions[3].Verified())
	assert.False(t, report.Functions[0].Verified())
	assert.Len(t, report.Failures(), 3)
	//
	first, ok := report.FirstFailure()
	require.True(t, ok)
	assert.Equal(t, "abs", first.Obligation.Function)
	assert.Equal(t, vcgen.POSTCONDITION, first.Obligation.Kind)
}

func Test_Verify_03(t *testing.T) {
	// Malformed functions fail without affecting others.
	program, _, errs := parser.ParseString("test.lisp", `
(defun bad () unit (body (let x _)))
(defun good ((x i32)) unit (requires (> x 0)) (body (assert (> x 0))))`)
	require.Empty(t, errs)
	//
	report := Verify(context.Background(), program, vcgen.DefaultConfig(), answer(UNSAT), DefaultConfig())
	//
	require.Len(t, report.Functions, 2)
	assert.False(t, report.Functions[0].Verified())
	assert.EqualError(t, report.Functions[0].Error, "bad: unknown type for x")
	assert.True(t, report.Functions[1].Verified())
	assert.Len(t, report.Functions[1].Results, 1)
	assert.False(t, report.Verified())
}

func names(report *Report) []string {
	var names []string
	//
	for _, f := range report.Functions {
		names = append(names, f.Name)
	}
	//
	return names
}

func Test_Model_01(t *testing.T) {
	response, err := sexp.ParseString(`(
  (define-fun y () Int
    (- 3))
  (define-fun a () (Array Int Int)
    ((as const (Array Int Int)) 0))
  (define-fun |f'fn| ((x!0 Int)) Int
    0)
  (define-fun k!0 () Int 1)
  (define-fun |x'1| () Bool true)
)`)
	require.Nil(t, err)
	//
	model, merr := ParseModel(response)
	require.NoError(t, merr)
	assert.Equal(t, []string{"a", "x'1", "y"}, model.Names())
	assert.Equal(t, "a = ((as const (Array Int Int)) 0), x'1 = true, y = -3", model.String())
}

func Test_Model_02(t *testing.T) {
	response, err := sexp.ParseString("(model (define-fun x () Int 1))")
	require.Nil(t, err)
	//
	model, merr := ParseModel(response)
	require.NoError(t, merr)
	assert.Equal(t, "x = 1", model.String())
	//
	for _, text := range []string{"sat", "((declare-fun x () Int))", "((define-fun x () Int))"} {
		response, err = sexp.ParseString(text)
		require.Nil(t, err)
		//
		_, merr = ParseModel(response)
		assert.Error(t, merr, text)
	}
}

func Test_Response_01(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("sat\n(\n  (define-fun |x)| () Int\n    1)\n)\nunsat"))
	//
	first, err := readResponse(reader)
	require.NoError(t, err)
	assert.Equal(t, "sat", first.String(false))
	//
	second, err := readResponse(reader)
	require.NoError(t, err)
	assert.Equal(t, "((define-fun x) () Int 1))", second.String(false))
	//
	third, err := readResponse(reader)
	require.NoError(t, err)
	assert.Equal(t, "unsat", third.String(false))
	//
	_, err = readResponse(reader)
	assert.Error(t, err)
}

func Test_Response_02(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("(error \"line 3 column 10: unknown constant x\")\n"))
	//
	_, err := readResponse(reader)
	assert.ErrorContains(t, err, "solver error")
}

// ============================================================================
// Process solver
// ============================================================================

// shell returns a solver which runs a given shell script in place of a real
// solver, or skips the test when no shell is available.
func shell(t *testing.T, script string, timeout time.Duration) *Process {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no shell available")
	}
	//
	return NewProcess(sh, []string{"-c", script}, timeout)
}

func divideQuery(t *testing.T) *smt.Query {
	query, err := obligations(t, "division.lisp")[0].Query()
	require.NoError(t, err)
	//
	return query
}

func Test_Process_01(t *testing.T) {
	solver := shell(t, "echo unsat; cat > /dev/null", time.Minute)
	//
	answer, err := solver.Check(context.Background(), divideQuery(t))
	require.NoError(t, err)
	assert.Equal(t, UNSAT, answer.Status)
}

func Test_Process_02(t *testing.T) {
	solver := shell(t, "echo sat; echo '((define-fun y () Int 0))'; cat > /dev/null", time.Minute)
	//
	answer, err := solver.Check(context.Background(), divideQuery(t))
	require.NoError(t, err)
	assert.Equal(t, SAT, answer.Status)
	assert.Equal(t, "y = 0", answer.Model.String())
}

func Test_Process_03(t *testing.T) {
	solver := shell(t, "exec sleep 10", 100*time.Millisecond)
	//
	answer, err := solver.Check(context.Background(), divideQuery(t))
	require.NoError(t, err)
	assert.Equal(t, UNKNOWN, answer.Status)
	assert.Equal(t, "timeout", answer.Reason)
}

func Test_Process_04(t *testing.T) {
	solver := shell(t, "echo '(error \"unsupported\")'; cat > /dev/null", time.Minute)
	//
	_, err := solver.Check(context.Background(), divideQuery(t))
	assert.Error(t, err)
	//
	_, err = NewProcess("/nonexistent/solver", nil, time.Second).Check(context.Background(), divideQuery(t))
	assert.Error(t, err)
}

// ============================================================================
// End-to-end (requires z3)
// ============================================================================

func z3(t *testing.T) Solver {
	if _, err := exec.LookPath("z3"); err != nil {
		t.Skip("z3 not available")
	}
	//
	config := DefaultConfig()
	//
	return NewProcess(config.Solver, config.Args, config.Timeout)
}

func verify(t *testing.T, solver Solver, name string, vcConfig vcgen.Config) *Report {
	return Verify(context.Background(), readProgram(t, name), vcConfig, solver, DefaultConfig())
}

func Test_Z3_01(t *testing.T) {
	solver := z3(t)
	//
	for _, name := range []string{"remainder.lisp", "list.lisp", "if_merge.lisp", "tuples.lisp", "count.lisp",
		"calls.lisp"} {
		report := verify(t, solver, name, vcgen.DefaultConfig())
		assert.True(t, report.Verified(), "%s: %v", name, report.Failures())
	}
}

func Test_Z3_02(t *testing.T) {
	solver := z3(t)
	// Partial correctness holds without a variant, but total does not.
	assert.True(t, verify(t, solver, "remainder_weak.lisp", vcgen.Config{Termination: vcgen.PARTIAL}).Verified())
	//
	report := verify(t, solver, "remainder_weak.lisp", vcgen.DefaultConfig())
	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, vcgen.VARIANT_MISSING, failures[0].Obligation.Kind)
}

func Test_Z3_03(t *testing.T) {
	solver := z3(t)
	report := verify(t, solver, "if_merge_fail.lisp", vcgen.DefaultConfig())
	//
	failure, ok := report.FirstFailure()
	require.True(t, ok)
	assert.Equal(t, FAILED, failure.Outcome)
	assert.Equal(t, "x = 1", failure.Model.String())
}

func Test_Z3_04(t *testing.T) {
	solver := z3(t)
	report := verify(t, solver, "old_value.lisp", vcgen.DefaultConfig())
	//
	assert.True(t, report.Functions[0].Verified())
	assert.False(t, report.Functions[1].Verified())
}

func Test_Z3_05(t *testing.T) {
	solver := z3(t)
	report := verify(t, solver, "division.lisp", vcgen.DefaultConfig())
	//
	assert.False(t, report.Functions[0].Verified())
	assert.True(t, report.Functions[1].Verified())
	// The precondition allows an index one beyond the end.
	failures := report.Functions[2].Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, smt.ARRAY_INDEX, failures[0].Obligation.Check)
	assert.Equal(t, "i = 4", failures[0].Model.String())
	// Division by zero
	assert.Equal(t, "y = 0", report.Functions[0].Failures()[0].Model.String())
}

func Test_Z3_06(t *testing.T) {
	solver := z3(t)
	// Calls are opaque without contracts.
	report := verify(t, solver, "calls.lisp", vcgen.Config{Calls: vcgen.UNINTERPRETED})
	//
	assert.False(t, report.Functions[2].Verified())
	assert.True(t, report.Functions[3].Verified())
}
