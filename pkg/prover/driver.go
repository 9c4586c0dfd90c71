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
	"context"
	"errors"
	"fmt"

	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/util"
	"github.com/consensys/go-hoare/pkg/vcgen"
	log "github.com/sirupsen/logrus"
)

// Verify generates and discharges the obligations of every function within a
// program.  A function whose obligations cannot be generated is reported as
// such, without preventing other functions from being verified.
func Verify(ctx context.Context, program *ast.Program, vcConfig vcgen.Config, solver Solver,
	config Config) *Report {
	var (
		report      Report
		obligations []*vcgen.Obligation
		owners      []*FunctionReport
	)
	//
	for _, f := range program.Functions {
		var freport = &FunctionReport{Name: f.Name}
		//
		fobligations, err := vcgen.GenerateFunction(f, program, vcConfig)
		if err != nil {
			log.Errorf("%s", err)
			freport.Error = err
		}
		//
		for _, o := range fobligations {
			o.Index = len(obligations)
			obligations = append(obligations, o)
			owners = append(owners, freport)
		}
		//
		report.Functions = append(report.Functions, freport)
	}
	//
	for _, r := range Discharge(ctx, obligations, solver, config) {
		owner := owners[r.Obligation.Index]
		owner.Results = append(owner.Results, r)
	}
	//
	return &report
}

// Discharge checks a set of obligations using a given solver, running up to a
// given number of queries concurrently.  Results are returned in the order of
// the obligations, regardless of the order in which they complete.  In
// fail-fast mode, obligations which had not been checked when the first
// failure arose are omitted.
func Discharge(ctx context.Context, obligations []*vcgen.Obligation, solver Solver, config Config) []Result {
	var (
		stats       = util.NewPerfStats()
		n           = len(obligations)
		workers     = max(1, min(int(config.Workers), n))
		jobs        = make(chan int, n)
		ch          = make(chan discharged, n)
		results     = make([]Result, n)
		skipped     = make([]bool, n)
		cctx, abort = context.WithCancel(ctx)
	)
	//
	defer abort()
	//
	for i := range obligations {
		jobs <- i
	}
	//
	close(jobs)
	//
	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				ch <- discharge(cctx, i, obligations[i], solver)
			}
		}()
	}
	// Collect results
	for range obligations {
		d := <-ch
		results[d.index], skipped[d.index] = d.result, d.skipped
		//
		if config.FailFast && !d.skipped && d.result.Outcome != VERIFIED {
			abort()
		}
	}
	//
	stats.Log(fmt.Sprintf("Discharging %d obligations", n))
	//
	return compact(results, skipped)
}

// Result of a single job.
type discharged struct {
	index   int
	result  Result
	skipped bool
}

func discharge(ctx context.Context, index int, obligation *vcgen.Obligation, solver Solver) discharged {
	if ctx.Err() != nil {
		return discharged{index, Result{Obligation: obligation}, true}
	}
	//
	var stats = util.NewPerfStats()
	//
	query, err := obligation.Query()
	if err != nil {
		return discharged{index, NewResult(obligation, Answer{}, err), false}
	}
	//
	answer, err := solver.Check(ctx, query)
	// Queries aborted in fail-fast mode are not reported.
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return discharged{index, Result{Obligation: obligation}, true}
	}
	//
	result := NewResult(obligation, answer, err)
	result.Elapsed = stats.Elapsed()
	//
	log.Debugf("%s: %s in %s", obligation.String(), result.Outcome.String(), result.Elapsed)
	//
	return discharged{index, result, false}
}

func compact(results []Result, skipped []bool) []Result {
	var compacted = make([]Result, 0, len(results))
	//
	for i, r := range results {
		if !skipped[i] {
			compacted = append(compacted, r)
		}
	}
	//
	return compacted
}
