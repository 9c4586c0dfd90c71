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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/consensys/go-hoare/pkg/prover"
	"github.com/consensys/go-hoare/pkg/util/source"
	"github.com/consensys/go-hoare/pkg/util/termio"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] program_file",
	Short: "verify a program meets its specification.",
	Long: `Verify every function of a given program meets its specification, by
	generating verification conditions and discharging them with an external
	SMT solver.  Exits with a non-zero status if any function cannot be verified.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			config          = proverConfig(cmd)
			program, srcmap = readProgram(args[0])
			solver          = prover.NewProcess(config.Solver, config.Args, config.Timeout)
			report          = prover.Verify(context.Background(), program, vcConfig(cmd), solver, config)
		)
		//
		printReport(report, srcmap)
		//
		if !report.Verified() {
			os.Exit(1)
		}
	},
}

// Construct the prover configuration from the command line flags.
func proverConfig(cmd *cobra.Command) prover.Config {
	var config = prover.DefaultConfig()
	//
	config.Solver = GetString(cmd, "solver")
	config.Args = prover.ParseArgs(GetString(cmd, "solver-args"))
	config.Timeout = GetDuration(cmd, "timeout")
	config.FailFast = GetFlag(cmd, "fail-fast")
	//
	if workers := GetUint(cmd, "workers"); workers != 0 {
		config.Workers = workers
	}
	//
	return config
}

func printReport(report *prover.Report, srcmap *source.Map[any]) {
	for _, f := range report.Functions {
		switch {
		case f.Error != nil:
			fmt.Printf("%s %s\n", colour("✗", termio.TERM_RED), f.Name)
			fmt.Printf("   %s\n", f.Error)
		case f.Verified():
			fmt.Printf("%s %s\n", colour("✓", termio.TERM_GREEN), f.Name)
		default:
			fmt.Printf("%s %s\n", colour("✗", termio.TERM_RED), f.Name)
			//
			for _, r := range f.Failures() {
				printFailure(r, srcmap)
			}
		}
	}
	//
	fmt.Printf("%d verified, %d failed, %d inconclusive, %d errors\n", report.Count(prover.VERIFIED),
		report.Count(prover.FAILED), report.Count(prover.INCONCLUSIVE), report.Count(prover.ERRORED))
}

func printFailure(r prover.Result, srcmap *source.Map[any]) {
	var (
		o       = r.Obligation
		outcome = colour(r.Outcome.String(), termio.TERM_YELLOW)
	)
	//
	if r.Outcome == prover.FAILED {
		outcome = colour(r.Outcome.String(), termio.TERM_RED)
	}
	//
	if loc, ok := location(srcmap, o.Node); ok {
		fmt.Printf("   %s: %s %s: %s\n", loc, o.Reason(), outcome, o.Text)
	} else {
		fmt.Printf("   %s %s: %s\n", o.Reason(), outcome, o.Text)
	}
	//
	switch {
	case r.Outcome == prover.FAILED && len(r.Model) > 0:
		fmt.Printf("      counterexample: %s\n", r.Model.String())
	case r.Message != "":
		fmt.Printf("      %s\n", r.Message)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().String("solver", "z3", "SMT solver executable (reading SMT-LIB on stdin)")
	verifyCmd.Flags().String("solver-args", "-in -smt2", "arguments given to the SMT solver")
	verifyCmd.Flags().Duration("timeout", 10*time.Second, "time limit for each query")
	verifyCmd.Flags().Uint("workers", 0, "number of queries run concurrently (default one per CPU)")
	verifyCmd.Flags().Bool("fail-fast", false, "stop at the first obligation which is not verified")
}
